package joystick

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/gamepad"
	"github.com/robotalks/joydrive/pkg/gamepad/device"
	"github.com/robotalks/joydrive/pkg/joystick/msgs"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/joydrive/pkg/l1/msgs"
)

type driveCmd struct {
	left, right float32
}

type fakeConn struct {
	drives chan driveCmd
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{drives: make(chan driveCmd, 256)}
}

func (c *fakeConn) Drive(left, right float32) {
	select {
	case c.drives <- driveCmd{left, right}:
	default:
	}
}

func (c *fakeConn) Close() { c.closed = true }

func (c *fakeConn) drained() []driveCmd {
	var cmds []driveCmd
	for {
		select {
		case cmd := <-c.drives:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

type recordingRegistrar struct {
	lock   sync.Mutex
	events []fx.Message
}

func (r *recordingRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, msg)
	return nil
}

type fakeCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *fakeCommand) Msg() fx.Message { return c.msg }

func (c *fakeCommand) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

func newTestController(t *testing.T) (*Controller, *recordingRegistrar, *fx.Loop) {
	mapping, err := device.MappingByName("xbox")
	require.NoError(t, err)
	rec := &recordingRegistrar{}
	e := &env.Env{
		Registrar:    &comm.RegistrarMux{Registrars: []l1.Registrar{rec}},
		RegistryURLs: []string{"mqtt://localhost:1883/robo/"},
	}
	ctl := NewController(e, mapping)
	loop := fx.NewLoop()
	ctl.AddToLoop(loop)
	return ctl, rec, loop
}

func postEvent(loop *fx.Loop, source int, ev gamepad.Event) {
	loop.PostMessage(&eventMsg{gamepad.SourceEvent{Source: source, Time: time.Now(), Event: ev}})
}

func TestFirstEmittingSourceIsCurrent(t *testing.T) {
	ctl, _, loop := newTestController(t)
	conn := newFakeConn()
	ctl.conn = conn
	ctx := context.Background()

	loop.RunIteration(ctx)
	require.Equal(t, -1, ctl.Current())
	require.Empty(t, conn.drained(), "no drive without a gamepad")

	postEvent(loop, 2, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickY, Value: 1})
	postEvent(loop, 1, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickX, Value: 1})
	loop.RunIteration(ctx)
	require.Equal(t, 2, ctl.Current())
	require.Equal(t, gamepad.Snapshot{LeftAxisY: 1}, ctl.Snapshot())
	cmds := conn.drained()
	require.Len(t, cmds, 1)
	assert.InDelta(t, 1, cmds[0].left, 1e-6)
	assert.InDelta(t, 1, cmds[0].right, 1e-6)

	// every cycle sends the drive while a gamepad is current.
	loop.RunIteration(ctx)
	require.Len(t, conn.drained(), 1)

	postEvent(loop, 1, gamepad.Disconnected{})
	loop.RunIteration(ctx)
	require.Equal(t, 2, ctl.Current())
	require.Len(t, conn.drained(), 1)

	postEvent(loop, 2, gamepad.Disconnected{})
	loop.RunIteration(ctx)
	require.Equal(t, -1, ctl.Current())
	require.Equal(t, gamepad.Snapshot{}, ctl.Snapshot())
	require.Equal(t, []driveCmd{{0, 0}}, conn.drained())

	loop.RunIteration(ctx)
	require.Empty(t, conn.drained())

	postEvent(loop, 1, gamepad.ButtonChanged{Button: gamepad.ButtonStart, Value: 1})
	loop.RunIteration(ctx)
	require.Equal(t, 1, ctl.Current())
	require.Equal(t, gamepad.Snapshot{Start: 1}, ctl.Snapshot())
	require.Equal(t, []driveCmd{{0, 0}}, conn.drained())
}

func TestStopOwedUntilConnected(t *testing.T) {
	ctl, _, loop := newTestController(t)
	ctx := context.Background()
	postEvent(loop, 0, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickX, Value: 1})
	loop.RunIteration(ctx)
	postEvent(loop, 0, gamepad.Disconnected{})
	loop.RunIteration(ctx)

	conn := newFakeConn()
	ctl.conn = conn
	loop.RunIteration(ctx)
	require.Equal(t, []driveCmd{{0, 0}}, conn.drained())
	loop.RunIteration(ctx)
	require.Empty(t, conn.drained())
}

func TestStatusQueryAndEvents(t *testing.T) {
	_, rec, loop := newTestController(t)
	ctx := context.Background()

	loop.PostMessage(&statusMsg{device: &msgs.JoystickDevice{Index: 0, Name: "pad", AxisCount: 8, ButtonCount: 11, Mapping: "xbox"}})
	postEvent(loop, 0, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickX, Value: 0.5})
	postEvent(loop, 0, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickY, Value: 0.5})
	loop.RunIteration(ctx)

	query := &fakeCommand{msg: &msgs.JoystickStatusQuery{}}
	loop.PostMessage(&l1.CommandMsg{Command: query})
	loop.RunIteration(ctx)

	reply, ok := query.reply.(*msgs.JoystickStatusReply)
	require.True(t, ok)
	require.Equal(t, "pad", reply.Status.Device.Name)
	require.Equal(t, float32(0.5), reply.Status.Controls.LeftAxisX)
	assert.InDelta(t, 0.4714, reply.Status.Drive.Left, 1e-4)
	assert.InDelta(t, 0.2357, reply.Status.Drive.Right, 1e-4)
	require.Nil(t, reply.Status.Connection)

	// initial status, then the device change.
	require.Len(t, rec.events, 1)
	require.Equal(t, "pad", rec.events[0].(*msgs.JoystickStatus).Device.Name)

	loop.PostMessage(&statusMsg{lost: true})
	loop.RunIteration(ctx)
	require.Len(t, rec.events, 2)
	require.Nil(t, rec.events[1].(*msgs.JoystickStatus).Device)
}

func TestConnectCommand(t *testing.T) {
	ctl, _, loop := newTestController(t)
	ctx := context.Background()
	conn := newFakeConn()
	var connectedRef l1.ControllerRef
	ctl.Connect = func(cc fx.ControlContext, connector l1.Connector, ref l1.ControllerRef) (DriveConn, error) {
		connectedRef = ref
		return conn, nil
	}

	testCases := []struct {
		name string
		msg  *msgs.JoystickConnect
		ok   bool
	}{
		{"invalid ref", &msgs.JoystickConnect{Type: "motor"}, false},
		{"bad registry", &msgs.JoystickConnect{Type: "motor", ID: "m0", RegistryURL: "http://localhost"}, false},
		{"connect", &msgs.JoystickConnect{Type: "motor", ID: "m0"}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &fakeCommand{msg: tc.msg}
			loop.PostMessage(&l1.CommandMsg{Command: cmd})
			loop.RunIteration(ctx)
			if tc.ok {
				require.IsType(t, &l1msgs.CommandOK{}, cmd.reply)
			} else {
				require.IsType(t, &l1msgs.CommandErr{}, cmd.reply)
			}
		})
	}
	require.Equal(t, l1.ControllerRef{Type: "motor", ID: "m0"}, connectedRef)
	loop.RunIteration(ctx)
	status := ctl.Status()
	require.Equal(t, "mqtt://localhost:1883/robo/", status.Connection.RegistryURL)

	disconnect := &fakeCommand{msg: &msgs.JoystickConnect{}}
	loop.PostMessage(&l1.CommandMsg{Command: disconnect})
	loop.RunIteration(ctx)
	require.IsType(t, &l1msgs.CommandOK{}, disconnect.reply)
	require.True(t, conn.closed)
	require.Equal(t, []driveCmd{{0, 0}}, conn.drained())
	loop.RunIteration(ctx)
	require.Nil(t, ctl.Status().Connection)
}

type rawAxis struct {
	index int
	value int16
}

func (e rawAxis) IsInit() bool   { return false }
func (e rawAxis) Index() int     { return e.index }
func (e rawAxis) Millis() uint32 { return 0 }
func (e rawAxis) Value() int16   { return e.value }

type fakeDevice struct {
	events chan device.Event
}

func (d *fakeDevice) Close() error     { return nil }
func (d *fakeDevice) Index() int       { return 3 }
func (d *fakeDevice) Name() string     { return "fake" }
func (d *fakeDevice) AxisCount() int   { return 8 }
func (d *fakeDevice) ButtonCount() int { return 11 }
func (d *fakeDevice) ReadEvent() (device.Event, error) {
	ev, ok := <-d.events
	if !ok {
		return nil, io.EOF
	}
	return ev, nil
}

func TestRunWithDevice(t *testing.T) {
	ctl, _, loop := newTestController(t)
	conn := newFakeConn()
	ctl.conn = conn
	dev := &fakeDevice{events: make(chan device.Event, 4)}
	var opened bool
	ctl.OpenDevice = func() (device.Device, error) {
		if opened {
			return nil, nil
		}
		opened = true
		return dev, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	waitDrive := func(expected driveCmd) {
		deadline := time.After(2 * time.Second)
		for {
			select {
			case cmd := <-conn.drives:
				if cmd == expected {
					return
				}
			case <-deadline:
				require.FailNow(t, "drive not received", "%v", expected)
			}
		}
	}

	// raw Y is up-negative, forward on the stick drives both wheels forward.
	dev.events <- rawAxis{index: 1, value: -32767}
	waitDrive(driveCmd{1, 1})
	close(dev.events)
	waitDrive(driveCmd{0, 0})
}

func TestDeviceOpenedByOneRunner(t *testing.T) {
	ctl, _, loop := newTestController(t)
	var calls int32
	ctl.OpenDevice = func() (device.Device, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	loop.Run(ctx)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type endlessDevice struct {
	fakeDevice
}

func (d *endlessDevice) ReadEvent() (device.Event, error) {
	return rawAxis{index: 0, value: 1}, nil
}

func TestPollDeviceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan device.Event, 1)
	done := make(chan struct{})
	go func() {
		pollDevice(ctx, &endlessDevice{}, ch)
		close(done)
	}()
	<-ch
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "poller blocked after cancel")
	}
}
