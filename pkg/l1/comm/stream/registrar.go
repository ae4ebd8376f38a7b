package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1/comm"
)

// Registrar accepts L2 components over TCP, framing packets with
// ReadWriter.
type Registrar struct {
	Addr string

	comm.ConnRegistrars

	listening chan net.Addr
}

// NewRegistrar creates a Registrar listening on addr.
func NewRegistrar(addr string) *Registrar {
	return &Registrar{Addr: addr, listening: make(chan net.Addr, 1)}
}

// Listening receives the bound address once Run is listening.
func (r *Registrar) Listening() <-chan net.Addr {
	return r.listening
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable. ctx must carry a LoopControl.
func (r *Registrar) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.Addr)
	if err != nil {
		return err
	}
	glog.Infof("stream registrar listening on %s", ln.Addr())
	select {
	case r.listening <- ln.Addr():
	default:
	}
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.V(2).Infof("stream: accepted %s", conn.RemoteAddr())
			go func() {
				err := r.Serve(ctx, New(conn), conn)
				glog.V(2).Infof("stream: %s closed: %v", conn.RemoteAddr(), err)
			}()
		}
	})
}

// Dial connects to a stream Registrar.
func Dial(addr string) (*ReadWriter, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}
