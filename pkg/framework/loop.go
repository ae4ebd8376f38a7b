package framework

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the default period between iterations.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers by priority level, periodically or when triggered.
type Loop struct {
	Interval time.Duration

	levels  [PriorityLevels]level
	runners []Runnable

	pending []Message
	lock    sync.Mutex

	wakeUpCh chan struct{}
	initOnce sync.Once
}

// LoopAdder adds its components to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type level struct {
	controllers []Controller
	preHooks    []Controller
	postHooks   []Controller
	lock        sync.Mutex
}

type loopCtxKeyType struct{}

var loopCtxKey loopCtxKeyType

// LoopCtlFrom gets LoopControl from a context passed to loop runners.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// CtlCtxFrom gets ControlContext from the context of an iteration.
func CtlCtxFrom(ctx context.Context) ControlContext {
	return ctx.Value(loopCtxKey).(ControlContext)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

func (l *Loop) init() {
	l.initOnce.Do(func() {
		l.wakeUpCh = make(chan struct{}, 1)
	})
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level.
// Controllers which are also Runnable are started with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lv := &l.levels[priorityLevel]
	lv.controllers = append(lv.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnables started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	l.init()
	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, LoopControl(l)))
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
		l.RunIteration(ctx)
	}
}

// RunUntilSignal runs the loop until SIGINT/SIGTERM or ctx is done. The
// closers are closed once the loop has stopped, whatever the outcome.
func (l *Loop) RunUntilSignal(ctx context.Context, closers ...io.Closer) error {
	var errs AggregatedError
	errs.Add(NewRunnerWith(ctx).HandleSignals().Go(l).Wait())
	for _, closer := range closers {
		errs.Add(closer.Close())
	}
	return errs.Aggregate()
}

// RunOrFail runs the loop until SIGINT/SIGTERM and exits on error. The
// closers are closed before exiting.
func (l *Loop) RunOrFail(closers ...io.Closer) {
	if err := l.RunUntilSignal(context.Background(), closers...); err != nil {
		glog.Fatal(err)
	}
}

// PreRunAt implements LoopControl.
func (l *Loop) PreRunAt(priorityLevel int, hooks ...Controller) {
	lv := &l.levels[priorityLevel]
	lv.lock.Lock()
	lv.preHooks = append(lv.preHooks, hooks...)
	lv.lock.Unlock()
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	lv := &l.levels[priorityLevel]
	lv.lock.Lock()
	lv.postHooks = append(lv.postHooks, hooks...)
	lv.lock.Unlock()
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	l.init()
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// RunIteration runs all priority levels once with the messages
// posted so far. Run calls it; it's exported for tests.
func (l *Loop) RunIteration(ctx context.Context) {
	iter := &iteration{Loop: l, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.pending = l.pending, nil
	l.lock.Unlock()
	iter.ctx = context.WithValue(ctx, loopCtxKey, ControlContext(iter))
	for i := range l.levels {
		iter.priorityLevel = i
		l.levels[i].run(iter)
	}
}

func (lv *level) run(iter *iteration) {
	lv.lock.Lock()
	hooks := lv.preHooks
	lv.preHooks = nil
	lv.lock.Unlock()
	runControllers(iter, hooks)
	runControllers(iter, lv.controllers)
	lv.lock.Lock()
	hooks, lv.postHooks = lv.postHooks, nil
	lv.lock.Unlock()
	runControllers(iter, hooks)
}

func runControllers(iter *iteration, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}

type iteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

func (it *iteration) Context() context.Context { return it.ctx }
func (it *iteration) Time() time.Time          { return it.time }
func (it *iteration) PriorityLevel() int       { return it.priorityLevel }
func (it *iteration) Messages() MessageStore   { return it }

func (it *iteration) PostRun(hooks ...Controller) {
	it.PostRunAt(it.priorityLevel, hooks...)
}

func (it *iteration) AddMessages(msgs ...Message) {
	it.messages = append(it.messages, msgs...)
}

// ProcessMessages visits messages in order. Untaken messages stay for
// later controllers; messages added while processing are appended after
// the remaining ones.
func (it *iteration) ProcessMessages(proc MessageProcessor) {
	msgs := it.messages
	it.messages = nil
	remains := make([]Message, 0, len(msgs))
	for n, msg := range msgs {
		mctx := &messageContext{iter: it, msg: msg}
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains = append(remains, msg)
		}
		if mctx.stop {
			remains = append(remains, msgs[n+1:]...)
			break
		}
	}
	it.messages = append(remains, it.messages...)
}

type messageContext struct {
	iter  *iteration
	msg   Message
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message     { return c.msg }
func (c *messageContext) MessageTaken()               { c.taken = true }
func (c *messageContext) StopProcessing()             { c.stop = true }
func (c *messageContext) AddMessages(msgs ...Message) { c.iter.AddMessages(msgs...) }
