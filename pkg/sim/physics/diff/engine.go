// Package diff simulates the kinematics of a differential drive base.
package diff

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"github.com/robotalks/joydrive/pkg/drive"
	"github.com/robotalks/joydrive/pkg/sim"
	"github.com/robotalks/joydrive/pkg/sim/physics"
)

// Engine integrates the pose of Object from wheel commands.
// Commands are fractions of MaxWheelSpeed (mm/s); wheels are TrackWidth
// (mm) apart.
type Engine struct {
	Object        sim.Placeable2D
	MaxWheelSpeed float64
	TrackWidth    float64

	cmd  drive.Command
	last time.Time
}

var _ physics.DiffDrive = (*Engine)(nil)

// NewEngine creates an Engine.
func NewEngine(obj sim.Placeable2D, maxWheelSpeed, trackWidth float64) *Engine {
	return &Engine{Object: obj, MaxWheelSpeed: maxWheelSpeed, TrackWidth: trackWidth}
}

// Command returns the command currently applied.
func (e *Engine) Command() drive.Command {
	return e.cmd
}

// Moving indicates a non-stop command is applied.
func (e *Engine) Moving() bool {
	return !e.cmd.IsStop()
}

// Velocity returns the body velocity of cmd the way a robot base takes
// it: linear in mm/s with Y forward, angular in degrees/s around Z.
func (e *Engine) Velocity(cmd drive.Command) (linear, angular r3.Vector) {
	l, r := cmd.Left*e.MaxWheelSpeed, cmd.Right*e.MaxWheelSpeed
	linear.Y = (l + r) / 2
	if e.TrackWidth > 0 {
		angular.Z = (r - l) / e.TrackWidth * 180 / math.Pi
	}
	return
}

// Drive implements physics.DiffDrive.
func (e *Engine) Drive(ctx physics.Context, cmd drive.Command) {
	e.Update(ctx)
	e.cmd = cmd.Clamped()
}

// Update implements physics.DiffDrive.
func (e *Engine) Update(ctx physics.Context) {
	now := ctx.Time()
	if e.last.IsZero() || !now.After(e.last) {
		if e.last.IsZero() {
			e.last = now
		}
		return
	}
	dt := now.Sub(e.last).Seconds()
	e.last = now
	if e.cmd.IsStop() {
		return
	}
	linear, angular := e.Velocity(e.cmd)
	e.Object.SetPose2D(Advance(e.Object.Position2D(), linear, angular, dt))
}

// Advance moves pose along a constant-velocity arc for dt seconds.
// linear and angular are in the body frame, see Velocity.
func Advance(pose sim.Pose2D, linear, angular r3.Vector, dt float64) sim.Pose2D {
	v, w := linear.Y, angular.Z*math.Pi/180
	theta := pose.Orientation.Radians()
	if math.Abs(w) < 1e-9 {
		pose.OffsetBy(pose.Orientation.Project(v * dt))
		return pose
	}
	theta1 := theta + w*dt
	radius := v / w
	pose.OffsetBy(sim.Pos2D{
		X: radius * (math.Sin(theta1) - math.Sin(theta)),
		Y: -radius * (math.Cos(theta1) - math.Cos(theta)),
	})
	pose.Orientation = sim.AngleFromRadians(theta1)
	return pose
}
