package joystick

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	connenv "github.com/robotalks/joydrive/pkg/l1/env/connector"
	l1msgs "github.com/robotalks/joydrive/pkg/l1/msgs"
)

// CapsRetryInterval is the delay between DiffDriveCapsQuery attempts.
const CapsRetryInterval = time.Second

func newConnector(registryURL string) (l1.Connector, error) {
	conf := connenv.NewConfig()
	conf.RegistryURL = registryURL
	return conf.NewConnector()
}

// connection runs its own loop for the robot connection, so replies and
// expirations are processed independently of the joystick loop.
type connection struct {
	ref    l1.ControllerRef
	ctx    context.Context
	cancel func()
	conn   l1.ControllerConn
	loop   *fx.Loop
	parent fx.LoopControl

	pending []l1.CommandFuture
}

func connectRobot(cc fx.ControlContext, connector l1.Connector, ref l1.ControllerRef) (DriveConn, error) {
	c := &connection{ref: ref, parent: cc}
	c.ctx, c.cancel = context.WithCancel(cc.Context())
	var err error
	if c.conn, err = connector.Connect(c.ctx, ref); err != nil {
		c.cancel()
		return nil, err
	}
	c.loop = fx.NewLoop()
	if adder, ok := c.conn.(fx.LoopAdder); ok {
		c.loop.Add(adder)
	}
	c.loop.AddRunnable(fx.NamedRun("caps:"+ref.Name(), fx.RunFunc(c.queryCaps)))
	c.loop.AddController(fx.PrLvControl, c)
	go c.run()
	return c, nil
}

func (c *connection) run() {
	c.loop.Run(c.ctx)
	if closer, ok := c.conn.(io.Closer); ok {
		closer.Close()
	}
}

// Drive implements DriveConn. It's called from the joystick loop.
func (c *connection) Drive(left, right float32) {
	c.loop.PostMessage(&l1msgs.DiffDrive{Left: left, Right: right})
	c.loop.TriggerNext()
}

// Close implements DriveConn. Drive commands posted earlier are still sent.
func (c *connection) Close() {
	c.loop.PostMessage(&closeMsg{})
	c.loop.TriggerNext()
}

type closeMsg struct{}

func (m *closeMsg) NewMessage() fx.Message { return &closeMsg{} }

// Control implements Controller. Only the latest DiffDrive of an
// iteration is sent.
func (c *connection) Control(cc fx.ControlContext) error {
	var drive *l1msgs.DiffDrive
	var closing bool
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *l1msgs.DiffDrive:
			mctx.MessageTaken()
			drive = msg
		case *closeMsg:
			mctx.MessageTaken()
			closing = true
		}
	}))
	if drive != nil {
		c.pending = append(c.pending, c.conn.DoCommand(drive))
	}
	c.collectResults()
	if closing {
		glog.Infof("disconnected from %s", c.ref.Name())
		c.cancel()
	}
	return nil
}

func (c *connection) collectResults() {
	pending := c.pending[:0]
	for _, f := range c.pending {
		select {
		case r := <-f.ResultChan():
			if r.Err != nil {
				glog.Warningf("%s: DiffDrive: %v", c.ref.Name(), r.Err)
			}
		default:
			pending = append(pending, f)
		}
	}
	c.pending = pending
}

func (c *connection) queryCaps(ctx context.Context) error {
	for {
		msg, err := l1.Wait(ctx, c.conn.DoCommand(&l1msgs.DiffDriveCapsQuery{}))
		if caps, ok := msg.(*l1msgs.DiffDriveCaps); ok && err == nil {
			glog.Infof("%s: caps %s", c.ref.Name(), caps.String())
			c.parent.PostMessage(&statusMsg{caps: caps})
			c.parent.TriggerNext()
			return nil
		}
		if err == nil {
			glog.Warningf("%s: DiffDriveCapsQuery: unexpected reply %T", c.ref.Name(), msg)
		} else if ctx.Err() != nil {
			return ctx.Err()
		} else {
			glog.Warningf("%s: DiffDriveCapsQuery: %v", c.ref.Name(), err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(CapsRetryInterval):
		}
	}
}
