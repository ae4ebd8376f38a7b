package motor

import (
	"flag"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/l1"
)

// Config defines the motor board and drive geometry.
type Config struct {
	// Port is the serial port of the motor board, empty for a dry run.
	Port     string
	BaudRate int
	// MaxWheelSpeed (mm/s) at full duty.
	MaxWheelSpeed float64
	// TrackWidth (mm) between the wheels.
	TrackWidth float64
	Timeout    time.Duration
}

var defaultConfig = Config{
	BaudRate:      115200,
	MaxWheelSpeed: 300,
	TrackWidth:    120,
	Timeout:       DefaultTimeout,
}

func init() {
	if val := os.Getenv("MOTOR_PORT"); val != "" {
		defaultConfig.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the motor board, empty to only log duties.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
	flag.Float64Var(&defaultConfig.MaxWheelSpeed, "max-wheel-speed", defaultConfig.MaxWheelSpeed, "Wheel speed (mm/s) at full duty.")
	flag.Float64Var(&defaultConfig.TrackWidth, "track-width", defaultConfig.TrackWidth, "Distance (mm) between wheels.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Stop motors without DiffDrive for this long, 0 to disable.")
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

// OpenDriver opens the serial driver, or a LogDriver without a port.
func (c *Config) OpenDriver() (Driver, error) {
	if c.Port == "" {
		glog.Info("no serial port, duties are only logged")
		return &LogDriver{}, nil
	}
	return OpenSerial(c.Port, c.BaudRate)
}

// NewController opens the driver and creates the controller.
func (c *Config) NewController(reg l1.Registrar) (*Controller, error) {
	driver, err := c.OpenDriver()
	if err != nil {
		return nil, err
	}
	ctl := NewController(reg, driver)
	ctl.Caps.MaxWheelSpeed = float32(c.MaxWheelSpeed)
	ctl.Caps.TrackWidth = float32(c.TrackWidth)
	ctl.Timeout = c.Timeout
	return ctl, nil
}

// MustNewController is NewController exiting on error.
func (c *Config) MustNewController(reg l1.Registrar) *Controller {
	ctl, err := c.NewController(reg)
	if err != nil {
		glog.Exit(err)
	}
	return ctl
}
