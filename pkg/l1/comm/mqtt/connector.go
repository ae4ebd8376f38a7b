package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
)

// DefaultDiscoverTimeout is how long Discover collects retained metas.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector implements l1.Connector using MQTT.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMetaTopic extracts the ControllerRef from TYPE/ID/meta.
func ParseMetaTopic(topic string) (ref l1.ControllerRef, ok bool) {
	levels := strings.Split(topic, "/")
	if len(levels) != 3 || levels[2] != "meta" {
		return
	}
	ref = l1.ControllerRef{Type: levels[0], ID: levels[1]}
	return ref, ref.IsValid()
}

// Discover implements Connector. Controllers with an empty (cleared)
// meta are not registered and skipped.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	q := NewQueue(c.options, c.topicPrefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()

	found, done := make(chan l1.ControllerInfo, 16), make(chan struct{})
	sub := q.Sub("+/+/meta", func(topic string, payload []byte) {
		ref, ok := ParseMetaTopic(topic)
		if !ok || len(payload) == 0 {
			return
		}
		info := l1.ControllerInfo{Ref: ref}
		if err := json.Unmarshal(payload, &info.Meta); err != nil {
			glog.Warningf("discover %s: invalid meta: %v", ref.Name(), err)
		}
		select {
		case found <- info:
		case <-done:
		}
	})
	defer sub.Close()
	defer close(done)

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	var infos []l1.ControllerInfo
	for {
		select {
		case info := <-found:
			infos = append(infos, info)
		case <-timer.C:
			return infos, nil
		case <-ctx.Done():
			return infos, ctx.Err()
		}
	}
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	conn := &ControllerConn{Queue: NewQueue(c.options, c.topicPrefix)}
	conn.Init(NewPacketReadWriter(conn.Queue).ForConnector(ref))
	token := conn.Queue.Connect()
	if err := waitToken(ctx, token); err != nil {
		return nil, err
	}
	return conn, nil
}

// ControllerConn is a comm.ControllerConn over an MQTT Queue.
type ControllerConn struct {
	comm.ControllerConn
	Queue *Queue
}

// Close disconnects from the broker.
func (c *ControllerConn) Close() error {
	c.ControllerConn.Close()
	return c.Queue.Close()
}

func waitToken(ctx context.Context, token paho.Token) error {
	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()
	select {
	case <-done:
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
