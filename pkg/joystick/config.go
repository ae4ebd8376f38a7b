package joystick

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/gamepad/device"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
)

// Config defines the configurations for the controller.
type Config struct {
	DeviceIndex int
	// Mapping is a builtin mapping name or a path to a YAML file.
	Mapping string
	Verbose bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
	Mapping:     device.DefaultMapping,
}

func init() {
	if val := os.Getenv("JOYDRIVE_MAPPING"); val != "" {
		defaultConfig.Mapping = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.StringVar(&defaultConfig.Mapping, "mapping", defaultConfig.Mapping, "Builtin mapping (xbox, ds4) or path to a YAML mapping file.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Log every gamepad event.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadMapping resolves Mapping as a builtin name first, then as a file.
func (c *Config) LoadMapping() (*device.Mapping, error) {
	if m, err := device.MappingByName(c.Mapping); err == nil {
		return m, nil
	}
	return device.LoadMapping(c.Mapping)
}

// NewController creates a controller using the config.
func (c *Config) NewController(e *env.Env) (*Controller, error) {
	mapping, err := c.LoadMapping()
	if err != nil {
		return nil, err
	}
	ctl := NewController(e, mapping)
	ctl.Verbose = c.Verbose
	if c.DeviceIndex >= 0 {
		index := c.DeviceIndex
		ctl.OpenDevice = func() (device.Device, error) { return device.Open(index) }
	}
	return ctl, nil
}

// MustNewController is NewController exiting on error.
func (c *Config) MustNewController(e *env.Env) *Controller {
	ctl, err := c.NewController(e)
	if err != nil {
		glog.Exit(err)
	}
	return ctl
}
