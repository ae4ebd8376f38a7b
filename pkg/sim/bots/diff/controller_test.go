package diff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
	"github.com/robotalks/joydrive/pkg/sim"
)

type fakeRegistrar struct {
	events []fx.Message
}

func (r *fakeRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
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

type changeCounter struct {
	changed int
}

func (c *changeCounter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	c.changed += len(objs)
}

func (c *changeCounter) ObjectsRemoved(cc fx.ControlContext, objs ...sim.Object) {}

func newTestBot() (*Controller, *fakeRegistrar, *changeCounter, *fx.Loop) {
	reg := &fakeRegistrar{}
	conf := &env.Config{Info: l1.ControllerInfo{Ref: l1.ControllerRef{Type: "sim-diff", ID: "test"}}}
	e := &env.Env{Config: conf, Registrar: &comm.RegistrarMux{Registrars: []l1.Registrar{reg}}}
	bot := NewConfig().NewController(e)
	counter := &changeCounter{}
	bot.SubscribeObjectsChange(counter)
	loop := fx.NewLoop()
	bot.AddToLoop(loop)
	return bot, reg, counter, loop
}

func doCommand(loop *fx.Loop, msg fx.Message) fx.Message {
	cmd := &fakeCommand{msg: msg}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	loop.RunIteration(context.Background())
	return cmd.reply
}

func TestBotCaps(t *testing.T) {
	bot, _, counter, loop := newTestBot()
	assert.Equal(t, "sim-diff/test", bot.Name())
	reply := doCommand(loop, &msgs.DiffDriveCapsQuery{})
	caps, ok := reply.(*msgs.DiffDriveCaps)
	require.True(t, ok)
	assert.Equal(t, float32(DefaultMaxWheelSpeed), caps.MaxWheelSpeed)
	assert.Equal(t, float32(DefaultTrackWidth), caps.TrackWidth)
	assert.Equal(t, uint32(500), caps.Timeout)
	// initial change is always reported
	assert.Equal(t, 1, counter.changed)
	assert.Equal(t, sim.CenteredRect(DefaultSize, DefaultSize), bot.OutlineRect())
}

func TestBotDrive(t *testing.T) {
	bot, reg, counter, loop := newTestBot()
	bot.Timeout = 0
	reply := doCommand(loop, &msgs.DiffDrive{Left: 2, Right: 2})
	require.IsType(t, &msgs.CommandOK{}, reply)
	require.Len(t, reg.events, 1)
	assert.Equal(t, &msgs.DiffDriveState{Left: 1, Right: 1}, reg.events[0])

	time.Sleep(20 * time.Millisecond)
	loop.RunIteration(context.Background())
	assert.True(t, bot.Position2D().X > 0)
	assert.InDelta(t, 0, bot.Position2D().Y, 1e-9)
	assert.True(t, counter.changed >= 2)

	// same command, no new state
	doCommand(loop, &msgs.DiffDrive{Left: 1, Right: 1})
	assert.Len(t, reg.events, 1)

	doCommand(loop, &msgs.DiffDrive{})
	require.Len(t, reg.events, 2)
	assert.Equal(t, &msgs.DiffDriveState{}, reg.events[1])
	x := bot.Position2D().X
	time.Sleep(10 * time.Millisecond)
	loop.RunIteration(context.Background())
	assert.Equal(t, x, bot.Position2D().X)
}

func TestBotWatchdog(t *testing.T) {
	bot, reg, _, loop := newTestBot()
	bot.Timeout = 10 * time.Millisecond
	doCommand(loop, &msgs.DiffDrive{Left: -1, Right: 1})
	require.Len(t, reg.events, 1)

	time.Sleep(20 * time.Millisecond)
	loop.RunIteration(context.Background())
	require.Len(t, reg.events, 2)
	assert.Equal(t, &msgs.DiffDriveState{Stopped: true}, reg.events[1])
	assert.False(t, bot.Drive.Moving())

	loop.RunIteration(context.Background())
	assert.Len(t, reg.events, 2)
}
