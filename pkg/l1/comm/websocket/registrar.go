package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1/comm"
)

// Registrar accepts L2 components over websocket connections.
type Registrar struct {
	Addr string
	Path string

	comm.ConnRegistrars
}

// DefaultPath is where the websocket endpoint is served.
const DefaultPath = "/robo"

// NewRegistrar creates a Registrar listening on addr.
func NewRegistrar(addr string) *Registrar {
	return &Registrar{Addr: addr, Path: DefaultPath}
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.Addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(r.Path, Handler(func(rw *ReadWriter) error {
		return r.Serve(ctx, rw, rw)
	}))
	glog.Infof("websocket registrar listening on %s%s", ln.Addr(), r.Path)
	server := &http.Server{Handler: mux}
	return fx.RunWithContextCancel(ctx, func() { server.Close() }, func() error {
		return server.Serve(ln)
	})
}
