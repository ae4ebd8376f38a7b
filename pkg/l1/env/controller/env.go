// Package controller sets up the environment of an L1 controller: the
// registrars through which L2 components reach it.
package controller

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
	"github.com/robotalks/joydrive/pkg/l1/comm/mqtt"
	"github.com/robotalks/joydrive/pkg/l1/comm/stream"
	"github.com/robotalks/joydrive/pkg/l1/comm/websocket"
	"github.com/robotalks/joydrive/pkg/l1/env"
)

// Config provides common options of L1 controllers.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL registers the controller on an MQTT broker,
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
	// WebsocketAddr serves L2 components directly when not empty.
	WebsocketAddr string
	// StreamAddr serves L2 components over length-prefixed TCP.
	StreamAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/robo/",
}

// ErrNoRegistrar is returned when no registrar is configured.
var ErrNoRegistrar = errors.New("at least one registrar is required")

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ROBO_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
}

// SetupFlags registers command line flags on flag.CommandLine.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Controller type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Controller ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address, e.g. :8080")
	flag.StringVar(&defaultConfig.StreamAddr, "stream", defaultConfig.StreamAddr, "TCP listen address of framed packets, e.g. :8081")
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

// SetControllerType is called from init of main packages.
func SetControllerType(typ string, meta l1.ControllerMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the environment of an L1 controller.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
}

// NewEnv creates registrars from the config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, errors.New("robot type and id must be specified")
	}
	e := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, errors.Wrap(err, "create MQTT registrar")
		}
		e.Registrar.Add(reg)
		e.RegistryURLs = append(e.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.WebsocketAddr != "" {
		e.Registrar.Add(websocket.NewRegistrar(c.WebsocketAddr))
		e.RegistryURLs = append(e.RegistryURLs, "ws://"+c.WebsocketAddr+websocket.DefaultPath)
	}
	if c.StreamAddr != "" {
		e.Registrar.Add(stream.NewRegistrar(c.StreamAddr))
		e.RegistryURLs = append(e.RegistryURLs, "stream://"+c.StreamAddr)
	}
	if len(e.Registrar.Registrars) == 0 {
		return nil, ErrNoRegistrar
	}
	return e, nil
}

// MustNewEnv is NewEnv exiting on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		glog.Exit(err)
	}
	return e
}

// AddToLoop adds registrars and replies unhandled commands.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
}
