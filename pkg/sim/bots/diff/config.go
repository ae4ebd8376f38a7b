package diff

import (
	"flag"
	"time"

	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	"github.com/robotalks/joydrive/pkg/sim"
)

// Config defines the configuration for the bot.
type Config struct {
	Size          float64
	MaxWheelSpeed float64
	TrackWidth    float64
	Timeout       time.Duration
}

// Defaults
const (
	DefaultSize          float64 = 150
	DefaultMaxWheelSpeed float64 = 300
	DefaultTrackWidth    float64 = 120
	DefaultTimeout               = 500 * time.Millisecond
)

var defaultConfig = Config{
	Size:          DefaultSize,
	MaxWheelSpeed: DefaultMaxWheelSpeed,
	TrackWidth:    DefaultTrackWidth,
	Timeout:       DefaultTimeout,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Size, "bot-size", defaultConfig.Size, "Size (mm) of the bot, it's square.")
	flag.Float64Var(&defaultConfig.MaxWheelSpeed, "max-wheel-speed", defaultConfig.MaxWheelSpeed, "Wheel speed (mm/s) at full command.")
	flag.Float64Var(&defaultConfig.TrackWidth, "track-width", defaultConfig.TrackWidth, "Distance (mm) between the wheels.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Stop when no drive command arrives in time, 0 disables.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates the Controller.
func (c *Config) NewController(e *env.Env) *Controller {
	ctl := NewController(e)
	ctl.Outline = sim.CenteredRect(c.Size, c.Size)
	ctl.Drive.MaxWheelSpeed = c.MaxWheelSpeed
	ctl.Drive.TrackWidth = c.TrackWidth
	ctl.Timeout = c.Timeout
	return ctl
}
