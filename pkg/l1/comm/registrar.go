package comm

import (
	"context"
	"io"
	"sync"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

// Registrar implements l1.Registrar over a Pipe. Commands are posted to
// the loop as l1.CommandMsg, events as themselves.
type Registrar struct {
	pipe Pipe
}

// NewRegistrar creates an initialized Registrar.
func NewRegistrar(rw PacketReadWriter) *Registrar {
	r := &Registrar{}
	r.Init(rw)
	return r
}

// Init must be called before the registrar is added to a loop.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.pipe.Handler = msgs.HandleTypedMsgFunc(r.handleTypedMsg)
}

// Run reads and dispatches messages without a loop adding it. The
// context must carry a LoopControl.
func (r *Registrar) Run(ctx context.Context) error {
	return r.pipe.Run(ctx)
}

func (r *Registrar) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsReply() {
		return nil
	}
	if typed.IsCommand() {
		msg = &l1.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: &r.pipe}}
	}
	loopCtl := fx.LoopCtlFrom(ctx)
	loopCtl.PostMessage(msg)
	loopCtl.TriggerNext()
	return nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(reply fx.Message) error {
	return c.pipe.SendCommandMsg(reply, c.seq)
}

// RegistrarMux fans events out to multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// Add appends registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// UnsupportedCommands replies CommandErr to commands no controller took.
// It runs at idle priority, after every other controller.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
			mctx.MessageTaken()
			errs.Add(cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand)))
		}
	}))
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}

// ConnRegistrars tracks a Registrar per accepted connection of a
// listening transport. Events go to every connection.
type ConnRegistrars struct {
	lock  sync.Mutex
	conns map[*Registrar]struct{}
}

// Len returns the number of connections being served.
func (r *ConnRegistrars) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.conns)
}

// Serve runs a Registrar over rw until ctx is done or rw fails, then
// closes rw. ctx must carry a LoopControl.
func (r *ConnRegistrars) Serve(ctx context.Context, rw PacketReadWriter, closer io.Closer) error {
	reg := NewRegistrar(rw)
	r.lock.Lock()
	if r.conns == nil {
		r.conns = make(map[*Registrar]struct{})
	}
	r.conns[reg] = struct{}{}
	r.lock.Unlock()
	defer func() {
		r.lock.Lock()
		delete(r.conns, reg)
		r.lock.Unlock()
	}()
	return fx.RunWithContextCloser(ctx, closer, func() error {
		return reg.Run(ctx)
	})
}

// SendEvent implements l1.Registrar.
func (r *ConnRegistrars) SendEvent(ctx context.Context, msg fx.Message) error {
	r.lock.Lock()
	regs := make([]*Registrar, 0, len(r.conns))
	for reg := range r.conns {
		regs = append(regs, reg)
	}
	r.lock.Unlock()
	var errs fx.AggregatedError
	for _, reg := range regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}
