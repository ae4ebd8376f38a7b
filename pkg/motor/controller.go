// Package motor implements an L1 controller for a differential drive
// motor board.
package motor

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/drive"
	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

// DefaultTimeout stops the motors when no DiffDrive arrives in time.
const DefaultTimeout = 500 * time.Millisecond

// ScaleDuty clamps a command to [-1, 1] and scales it to int16 duty.
func ScaleDuty(v float64) int16 {
	return int16(math.Round(drive.Clamp(v) * math.MaxInt16))
}

// Controller handles DiffDriveCapsQuery and DiffDrive, with a watchdog
// stopping the motors.
type Controller struct {
	Registrar l1.Registrar
	Driver    Driver
	Caps      msgs.DiffDriveCaps
	// Timeout of the watchdog, 0 disables it.
	Timeout time.Duration

	applied drive.Command
	lastCmd time.Time
	stopped bool
	notify  *msgs.DiffDriveState
}

// NewController creates a Controller.
func NewController(reg l1.Registrar, driver Driver) *Controller {
	return &Controller{
		Registrar: reg,
		Driver:    driver,
		Timeout:   DefaultTimeout,
		stopped:   true,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(c.watchdog))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyState))
}

// Applied returns the last command written to the driver.
func (c *Controller) Applied() drive.Command {
	return c.applied
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
			caps := c.Caps
			caps.Timeout = uint32(c.Timeout / time.Millisecond)
			cmdMsg.Command.Done(&caps)
		case *msgs.DiffDrive:
			mctx.MessageTaken()
			c.lastCmd = cc.Time()
			cmd := drive.Command{Left: float64(m.Left), Right: float64(m.Right)}.Clamped()
			if err := c.apply(cmd, false); err != nil {
				cmdMsg.Command.Done(msgs.NewCommandErr(err))
			} else {
				cmdMsg.Command.Done(msgs.NewCommandOK())
			}
		}
	}))
	return nil
}

func (c *Controller) apply(cmd drive.Command, timedOut bool) error {
	if err := c.Driver.SetDuty(ScaleDuty(cmd.Left), ScaleDuty(cmd.Right)); err != nil {
		glog.Errorf("set duty: %v", err)
		return err
	}
	stopped := cmd.IsStop()
	if cmd != c.applied || stopped != c.stopped {
		c.notify = &msgs.DiffDriveState{Left: float32(cmd.Left), Right: float32(cmd.Right), Stopped: timedOut}
	}
	c.applied, c.stopped = cmd, stopped
	return nil
}

func (c *Controller) watchdog(cc fx.ControlContext) error {
	if c.stopped || c.Timeout <= 0 || cc.Time().Sub(c.lastCmd) < c.Timeout {
		return nil
	}
	glog.Warningf("no DiffDrive in %v, stopping", c.Timeout)
	return c.apply(drive.Command{}, true)
}

func (c *Controller) notifyState(cc fx.ControlContext) error {
	state := c.notify
	if state == nil || c.Registrar == nil {
		return nil
	}
	c.notify = nil
	return c.Registrar.SendEvent(cc.Context(), state)
}
