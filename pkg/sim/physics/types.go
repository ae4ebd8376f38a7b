// Package physics defines the interfaces of simulated motion models.
package physics

import (
	"context"

	"github.com/robotalks/joydrive/pkg/drive"
	fx "github.com/robotalks/joydrive/pkg/framework"
)

// Context provides the simulation context.
type Context interface {
	fx.TimeSource
	Context() context.Context
}

// DiffDrive simulates a differential drive base.
type DiffDrive interface {
	// Drive advances the simulation to the context time and applies cmd
	// from then on.
	Drive(Context, drive.Command)
	// Update advances the simulation to the context time.
	Update(Context)
}
