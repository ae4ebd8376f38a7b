// Package joystick implements an L2 controller driving a differential
// drive robot with a gamepad.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/gamepad"
	"github.com/robotalks/joydrive/pkg/gamepad/device"
	"github.com/robotalks/joydrive/pkg/joystick/msgs"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/joydrive/pkg/l1/msgs"
)

// ReopenInterval is the delay between attempts to open a device.
const ReopenInterval = time.Second

// DriveConn sends drive commands to the connected robot.
type DriveConn interface {
	Drive(left, right float32)
	Close()
}

// Controller reads a gamepad, keeps a snapshot of the current gamepad
// and sends DiffDrive commands to the connected robot every cycle.
type Controller struct {
	Env        *env.Env
	Mapping    *device.Mapping
	OpenDevice func() (device.Device, error)
	Verbose    bool

	// Connect creates the connection to a robot. It's replaceable for tests.
	Connect func(cc fx.ControlContext, connector l1.Connector, ref l1.ControllerRef) (DriveConn, error)

	conn    DriveConn
	current int
	// stopPending is set when the current gamepad goes away and a
	// stop command is still owed to the robot.
	stopPending bool

	snapshot      gamepad.Snapshot
	drive         l1msgs.DiffDrive
	status        msgs.JoystickStatus
	statusChanged bool
}

// NewController creates a Controller.
func NewController(e *env.Env, mapping *device.Mapping) *Controller {
	return &Controller{
		Env:     e,
		Mapping: mapping,
		OpenDevice: func() (device.Device, error) {
			return device.DetectAndOpen(0)
		},
		Connect:       connectRobot,
		current:       -1,
		statusChanged: true,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	// Run is started by the loop as c is Runnable.
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyStatusChange))
}

// Run implements Runnable. It owns the device: opens it, translates its
// events and posts them into the loop.
func (c *Controller) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	var (
		dev     device.Device
		eventCh chan device.Event
		reopen  = time.After(0)
	)
	defer func() {
		if dev != nil {
			dev.Close()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-reopen:
			reopen = nil
			js, err := c.OpenDevice()
			if err != nil || js == nil {
				if err != nil {
					glog.Warningf("open joystick: %v", err)
				}
				reopen = time.After(ReopenInterval)
				continue
			}
			glog.Infof("joystick %d %q opened: %d axes, %d buttons, mapping %s",
				js.Index(), js.Name(), js.AxisCount(), js.ButtonCount(), c.Mapping.Name)
			dev, eventCh = js, make(chan device.Event, 16)
			go pollDevice(ctx, dev, eventCh)
			loopCtl.PostMessage(&statusMsg{device: &msgs.JoystickDevice{
				Index:       uint32(js.Index()),
				Name:        js.Name(),
				AxisCount:   uint32(js.AxisCount()),
				ButtonCount: uint32(js.ButtonCount()),
				Mapping:     c.Mapping.Name,
			}})
			loopCtl.PostMessage(&eventMsg{gamepad.SourceEvent{Source: js.Index(), Time: time.Now(), Event: gamepad.Connected{}}})
			loopCtl.TriggerNext()
		case ev, ok := <-eventCh:
			if !ok {
				index := dev.Index()
				glog.Warningf("joystick %d lost", index)
				dev.Close()
				dev, eventCh = nil, nil
				reopen = time.After(ReopenInterval)
				loopCtl.PostMessage(&eventMsg{gamepad.SourceEvent{Source: index, Time: time.Now(), Event: gamepad.Disconnected{}}})
				loopCtl.PostMessage(&statusMsg{lost: true})
			} else if gev := c.Mapping.Translate(ev); gev != nil {
				loopCtl.PostMessage(&eventMsg{gamepad.SourceEvent{Source: dev.Index(), Time: time.Now(), Event: gev}})
			}
			loopCtl.TriggerNext()
		}
	}
}

func pollDevice(ctx context.Context, dev device.Device, ch chan<- device.Event) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.Warningf("joystick %d read: %v", dev.Index(), err)
			return
		}
		if ev == nil {
			continue
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *l1.CommandMsg:
			switch m := msg.Command.Msg().(type) {
			case *msgs.JoystickStatusQuery:
				mctx.MessageTaken()
				msg.Command.Done(&msgs.JoystickStatusReply{Status: c.Status()})
			case *msgs.JoystickConnect:
				mctx.MessageTaken()
				msg.Command.Done(c.connect(cc, m))
			}
		case *eventMsg:
			mctx.MessageTaken()
			c.handleEvent(msg.SourceEvent)
		case *statusMsg:
			mctx.MessageTaken()
			c.updateStatus(msg)
		}
	}))
	c.sendDrive()
	return nil
}

// Current returns the source index of the current gamepad, -1 if none.
func (c *Controller) Current() int {
	return c.current
}

// Snapshot returns the controls of the current gamepad.
func (c *Controller) Snapshot() gamepad.Snapshot {
	return c.snapshot
}

// Status returns a copy of the status including controls and drive output.
func (c *Controller) Status() *msgs.JoystickStatus {
	status := c.status
	status.Controls = msgs.ControlsFrom(&c.snapshot)
	drive := c.drive
	status.Drive = &drive
	return &status
}

func (c *Controller) handleEvent(ev gamepad.SourceEvent) {
	if c.Verbose {
		glog.Infof("%v", ev)
	}
	if _, lost := ev.Event.(gamepad.Disconnected); lost {
		if ev.Source == c.current {
			c.current = -1
			c.snapshot.Reset()
			c.stopPending = true
		}
		return
	}
	if c.current < 0 {
		c.current = ev.Source
		glog.Infof("gamepad %d is current", ev.Source)
	}
	if ev.Source == c.current {
		c.snapshot.Apply(ev.Event)
	}
}

func (c *Controller) sendDrive() {
	switch {
	case c.current >= 0:
		left, right := c.snapshot.DifferentialDrive()
		c.drive = l1msgs.DiffDrive{Left: float32(left), Right: float32(right)}
	case c.stopPending:
		c.drive = l1msgs.DiffDrive{}
	default:
		return
	}
	if c.conn != nil {
		c.conn.Drive(c.drive.Left, c.drive.Right)
		c.stopPending = false
	}
}

func (c *Controller) updateStatus(msg *statusMsg) {
	switch {
	case msg.lost:
		c.status.Device = nil
	case msg.device != nil:
		c.status.Device = msg.device
	case msg.caps != nil:
		c.status.Caps = msg.caps
	case msg.conn != nil:
		if msg.conn.Type == "" {
			c.status.Connection, c.status.Caps = nil, nil
		} else {
			c.status.Connection = msg.conn
		}
	default:
		return
	}
	c.statusChanged = true
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	if !c.statusChanged {
		return nil
	}
	c.statusChanged = false
	return c.Env.Registrar.SendEvent(cc.Context(), c.Status())
}

func (c *Controller) connect(cc fx.ControlContext, msg *msgs.JoystickConnect) fx.Message {
	if c.conn != nil {
		c.conn.Drive(0, 0)
		c.conn.Close()
		c.conn = nil
		cc.PostMessage(&statusMsg{conn: &msgs.JoystickConnect{}})
	}
	if msg.Type == "" && msg.ID == "" {
		return l1msgs.NewCommandOK()
	}
	ref := l1.ControllerRef{Type: msg.Type, ID: msg.ID}
	if !ref.IsValid() {
		return l1msgs.NewCommandErrFromMsg("controller ref invalid")
	}
	registryURL := msg.RegistryURL
	if registryURL == "" {
		if len(c.Env.RegistryURLs) == 0 {
			return l1msgs.NewCommandErrFromMsg("registry URL required")
		}
		registryURL = c.Env.RegistryURLs[0]
	}
	connector, err := newConnector(registryURL)
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	if c.conn, err = c.Connect(cc, connector, ref); err != nil {
		return l1msgs.NewCommandErr(err)
	}
	glog.Infof("connected to %s via %s", ref.Name(), registryURL)
	cc.PostMessage(&statusMsg{conn: &msgs.JoystickConnect{
		RegistryURL: registryURL,
		Type:        ref.Type,
		ID:          ref.ID,
	}})
	return l1msgs.NewCommandOK()
}

type eventMsg struct {
	gamepad.SourceEvent
}

func (m *eventMsg) NewMessage() fx.Message { return &eventMsg{} }

type statusMsg struct {
	device *msgs.JoystickDevice
	lost   bool
	conn   *msgs.JoystickConnect
	caps   *l1msgs.DiffDriveCaps
}

func (m *statusMsg) NewMessage() fx.Message { return &statusMsg{} }
