package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func collect(dst *[]int, takeOdd bool) Controller {
	return ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			m := mctx.CurrentMessage().(*testMsg)
			*dst = append(*dst, m.val)
			if takeOdd && m.val%2 == 1 {
				mctx.MessageTaken()
			}
		}))
		return nil
	})
}

func TestLoopMessagesByPriority(t *testing.T) {
	var high, low []int
	l := NewLoop()
	l.AddController(PrLvLow, collect(&low, false))
	l.AddController(PrLvHigh, collect(&high, true))

	for i := 1; i <= 4; i++ {
		l.PostMessage(&testMsg{val: i})
	}
	l.RunIteration(context.Background())
	require.Equal(t, []int{1, 2, 3, 4}, high)
	require.Equal(t, []int{2, 4}, low)

	// messages are consumed per iteration.
	l.RunIteration(context.Background())
	require.Equal(t, []int{1, 2, 3, 4}, high)
}

func TestLoopStopProcessingAndAdd(t *testing.T) {
	var seen, later []int
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			m := mctx.CurrentMessage().(*testMsg)
			seen = append(seen, m.val)
			mctx.MessageTaken()
			mctx.AddMessages(&testMsg{val: m.val * 10})
			mctx.StopProcessing()
		}))
		return nil
	}))
	l.AddController(PrLvIdle, collect(&later, false))
	l.PostMessage(&testMsg{val: 1})
	l.PostMessage(&testMsg{val: 2})
	l.RunIteration(context.Background())
	require.Equal(t, []int{1}, seen)
	require.Equal(t, []int{2, 10}, later)
}

func TestLoopHooks(t *testing.T) {
	var order []string
	record := func(name string) Controller {
		return ControlFunc(func(ControlContext) error {
			order = append(order, name)
			return nil
		})
	}
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		order = append(order, "ctl")
		require.Equal(t, PrLvControl, cc.PriorityLevel())
		if len(order) == 2 {
			cc.PostRun(record("post"))
		}
		return nil
	}))
	l.PreRunAt(PrLvControl, record("pre"))
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	require.Equal(t, []string{"pre", "ctl", "post", "ctl"}, order)
}

func TestLoopRunTriggered(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	got := make(chan int, 1)
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			got <- mctx.CurrentMessage().(*testMsg).val
		}))
		return nil
	}))
	l.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		ctl.PostMessage(&testMsg{val: 7})
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	select {
	case val := <-got:
		require.Equal(t, 7, val)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestRunnerWait(t *testing.T) {
	errFail := errors.New("fail")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return nil }),
		NamedRun("failing", RunFunc(func(context.Context) error { return errFail })),
		RunFunc(func(context.Context) error { return context.Canceled }),
	)
	err := r.Wait()
	require.Error(t, err)
	require.Equal(t, "fail", err.Error())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("a"), nil, errors.New("b"))
	require.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())
}

type testCloser struct {
	closed int
	err    error
}

func (c *testCloser) Close() error {
	c.closed++
	return c.err
}

func TestRunWithContextCloser(t *testing.T) {
	c := &testCloser{}
	err := RunWithContextCloser(context.Background(), c, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.closed)

	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	c = &testCloser{}
	go cancel()
	err = RunWithContextCancel(ctx, func() { c.Close(); close(unblock) }, func() error {
		<-unblock
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, c.closed)
}

func TestRunUntilSignalCloses(t *testing.T) {
	testCases := []struct {
		name   string
		ctx    func() (context.Context, context.CancelFunc)
		errMsg string
	}{
		{"canceled", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(20*time.Millisecond, cancel)
			return ctx, cancel
		}, "close"},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}, "Multiple errors:\ncontext deadline exceeded\nclose"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := tc.ctx()
			defer cancel()
			c1, c2 := &testCloser{}, &testCloser{err: errors.New("close")}
			err := NewLoop().RunUntilSignal(ctx, c1, c2)
			require.Error(t, err)
			require.Equal(t, tc.errMsg, err.Error())
			require.Equal(t, 1, c1.closed)
			require.Equal(t, 1, c2.closed)
		})
	}
}
