// Package connector sets up how L2 components reach L1 controllers.
package connector

import (
	"context"
	"flag"
	"net/url"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
	"github.com/robotalks/joydrive/pkg/l1/comm/mqtt"
	"github.com/robotalks/joydrive/pkg/l1/comm/stream"
	"github.com/robotalks/joydrive/pkg/l1/comm/websocket"
)

// Config provides common options to connect to an L1 controller.
type Config struct {
	Ref l1.ControllerRef

	// RegistryURL is either an MQTT broker (mqtt://host:port/prefix/),
	// a controller's websocket endpoint (ws://host:port/robo) or its
	// framed TCP endpoint (stream://host:port).
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/robo/",
}

func init() {
	if val := os.Getenv("ROBO_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("ROBO_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("ROBO_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags registers command line flags on flag.CommandLine.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "robot-type", defaultConfig.Ref.Type, "Robot type to connect")
	flag.StringVar(&defaultConfig.Ref.ID, "robot-id", defaultConfig.Ref.ID, "Robot ID to connect")
	flag.StringVar(&defaultConfig.RegistryURL, "robot-reg", defaultConfig.RegistryURL, "Robot registry URL")
}

// Default returns the config populated by flags.
func Default() *Config {
	return &defaultConfig
}

// NewConfig returns a copy of the default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector for the registry URL.
func (c *Config) NewConnector() (l1.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid registry URL")
	}
	switch parsedURL.Scheme {
	case "mqtt", "tcp", "ssl":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return &DirectConnector{URL: c.RegistryURL, Ref: c.Ref, Dial: dialWebsocket}, nil
	case "stream":
		return &DirectConnector{URL: c.RegistryURL, Ref: c.Ref, Dial: dialStream}, nil
	default:
		return nil, errors.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector is NewConnector exiting on error.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		glog.Exit(err)
	}
	return conn
}

// Connect connects to the configured controller.
func (c *Config) Connect(ctx context.Context) (l1.ControllerConn, error) {
	if !c.Ref.IsValid() {
		return nil, errors.New("robot type and id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(ctx, c.Ref)
}

// MustConnect is Connect exiting on error.
func (c *Config) MustConnect(ctx context.Context) l1.ControllerConn {
	conn, err := c.Connect(ctx)
	if err != nil {
		glog.Exit(err)
	}
	return conn
}

// DirectConnector connects to a single controller serving L2 components
// itself. The controller isn't discoverable, so Discover returns the
// configured ref only when it's known.
type DirectConnector struct {
	URL  string
	Ref  l1.ControllerRef
	Dial func(rawURL string) (comm.PacketReadWriter, error)
}

// Discover implements Connector.
func (c *DirectConnector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	if !c.Ref.IsValid() {
		return nil, nil
	}
	return []l1.ControllerInfo{{Ref: c.Ref}}, nil
}

// Connect implements Connector. ref is not used for routing.
func (c *DirectConnector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	rw, err := c.Dial(c.URL)
	if err != nil {
		return nil, err
	}
	c.Ref = ref
	conn := &comm.ControllerConn{}
	conn.Init(rw)
	return conn, nil
}

func dialWebsocket(rawURL string) (comm.PacketReadWriter, error) {
	origin := "http://" + strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(rawURL, "wss://"), "ws://"), "/", 2)[0]
	return websocket.Dial(rawURL, origin)
}

func dialStream(rawURL string) (comm.PacketReadWriter, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return stream.Dial(parsedURL.Host)
}
