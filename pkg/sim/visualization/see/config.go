package see

import (
	"flag"
	"os"
)

// Config defines the visualized area, centered at the origin.
type Config struct {
	W float64
	H float64
}

var defaultConfig = Config{
	W: 2000,
	H: 2000,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.W, "see-w", defaultConfig.W, "Width (mm) of visualization area")
	flag.Float64Var(&defaultConfig.H, "see-h", defaultConfig.H, "Height (mm) of visualization area")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates an adapter writing to stdout.
func (c *Config) NewAdapter() *Adapter {
	a := NewAdapter(c)
	a.Output = os.Stdout
	return a
}
