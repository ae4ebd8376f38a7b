// Package websocket carries packets as binary websocket messages.
package websocket

import (
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// ReadWriter implements comm.PacketReadWriter, one packet per message.
type ReadWriter struct {
	Conn *websocket.Conn
}

// New wraps a websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return &ReadWriter{Conn: conn}
}

// Dial connects to a websocket server.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive(p.Conn, &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send(p.Conn, pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return p.Conn.Close()
}

// Handler returns an http.Handler invoking fn for each accepted
// connection. The connection is closed when fn returns.
func Handler(fn func(*ReadWriter) error) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		glog.Infof("websocket: accepted %s", conn.Request().RemoteAddr)
		if err := fn(New(conn)); err != nil {
			glog.Warningf("websocket: %s closed: %v", conn.Request().RemoteAddr, err)
		}
	})
}
