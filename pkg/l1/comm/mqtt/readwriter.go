package mqtt

import (
	"context"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/l1"
)

// ReadWriterBacklog is the number of received packets buffered before
// new ones are dropped.
const ReadWriterBacklog = 16

// ReadWriter implements comm.PacketReadWriter on a pair of topics.
// It must be run (as a Runnable) for ReadPacket to receive anything.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	doneCh   chan struct{}
}

// NewPacketReadWriter creates a ReadWriter without topics.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{Queue: q, packetCh: make(chan []byte, ReadWriterBacklog), doneCh: make(chan struct{})}
}

// WithTopics sets the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForConnector reads TYPE/ID/msg and writes TYPE/ID/cmd.
func (p *ReadWriter) ForConnector(ref l1.ControllerRef) *ReadWriter {
	return p.WithTopics(ref.Name()+"/msg", ref.Name()+"/cmd")
}

// ForController reads TYPE/ID/cmd and writes TYPE/ID/msg.
func (p *ReadWriter) ForController(ref l1.ControllerRef) *ReadWriter {
	return p.WithTopics(ref.Name()+"/cmd", ref.Name()+"/msg")
}

// ReadPacket implements PacketReader. It returns io.EOF after Run exits.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, p.handleMsg)
	<-ctx.Done()
	sub.Close()
	close(p.doneCh)
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(topic string, payload []byte) {
	select {
	case p.packetCh <- payload:
	default:
		glog.Warningf("mqtt %s: backlog full, packet dropped", topic)
	}
}
