// Package diff is a simulated differential drive robot. It accepts the
// same commands as the motor controller and moves in a 2D world.
package diff

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/drive"
	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
	"github.com/robotalks/joydrive/pkg/sim"
	diffphy "github.com/robotalks/joydrive/pkg/sim/physics/diff"
)

// Controller is the L1 controller.
type Controller struct {
	Env *env.Env

	Outline sim.Rect
	Pose    sim.Pose2D
	Drive   *diffphy.Engine
	// Timeout stops the bot when no DiffDrive arrives in time, 0 disables.
	Timeout time.Duration

	sim.ObjectsChangeCaster

	lastCmd time.Time
	changes int
	state   *msgs.DiffDriveState
}

// NewController creates the controller.
func NewController(e *env.Env) *Controller {
	c := &Controller{
		Env:     e,
		Timeout: DefaultTimeout,
		changes: 1, // send initial object change.
	}
	c.Drive = diffphy.NewEngine(c, DefaultMaxWheelSpeed, DefaultTrackWidth)
	return c
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.Env.Config.Info.Ref.Name()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, c)
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(c.Update))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.NotifyChanges))
}

// Caps returns the capabilities reported to DiffDriveCapsQuery.
func (c *Controller) Caps() *msgs.DiffDriveCaps {
	return &msgs.DiffDriveCaps{
		MaxWheelSpeed: float32(c.Drive.MaxWheelSpeed),
		TrackWidth:    float32(c.Drive.TrackWidth),
		Timeout:       uint32(c.Timeout / time.Millisecond),
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.DiffDriveCapsQuery:
			mctx.MessageTaken()
			cmdMsg.Command.Done(c.Caps())
		case *msgs.DiffDrive:
			mctx.MessageTaken()
			c.lastCmd = cc.Time()
			c.apply(cc, drive.Command{Left: float64(m.Left), Right: float64(m.Right)}, false)
			cmdMsg.Command.Done(msgs.NewCommandOK())
		}
	}))
	return nil
}

func (c *Controller) apply(cc fx.ControlContext, cmd drive.Command, timedOut bool) {
	prev := c.Drive.Command()
	c.Drive.Drive(cc, cmd)
	if applied := c.Drive.Command(); applied != prev || timedOut {
		c.state = &msgs.DiffDriveState{
			Left:    float32(applied.Left),
			Right:   float32(applied.Right),
			Stopped: timedOut,
		}
	}
}

// Update advances the pose and runs the watchdog.
func (c *Controller) Update(cc fx.ControlContext) error {
	if c.Drive.Moving() && c.Timeout > 0 && cc.Time().Sub(c.lastCmd) >= c.Timeout {
		glog.Warningf("%s: no DiffDrive in %v, stopping", c.Name(), c.Timeout)
		c.apply(cc, drive.Command{}, true)
		return nil
	}
	c.Drive.Update(cc)
	return nil
}

// OutlineRect implements Rectangular.
func (c *Controller) OutlineRect() sim.Rect {
	return c.Outline
}

// Position2D implements Placeable2D.
func (c *Controller) Position2D() sim.Pose2D {
	return c.Pose
}

// SetPose2D implements Placeable2D.
func (c *Controller) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	c.Pose = pose
	c.changes = 1
	return c.Pose
}

// NotifyChanges notifies object changes and drive state events.
func (c *Controller) NotifyChanges(cc fx.ControlContext) error {
	changes := c.changes
	c.changes = 0
	if changes > 0 {
		c.ObjectsChanged(cc, c)
	}
	state := c.state
	c.state = nil
	if state == nil || c.Env.Registrar == nil {
		return nil
	}
	return c.Env.Registrar.SendEvent(cc.Context(), state)
}
