// Package sim provides the 2D world model shared by simulated robots.
package sim

import (
	fx "github.com/robotalks/joydrive/pkg/framework"
)

// Size2D is a rectangular size in mm.
type Size2D struct {
	CX, CY float64
}

// Pos2D is a position in mm.
type Pos2D struct {
	X, Y float64
}

// Rect is a rectangle with its top-left corner at Pos2D.
type Rect struct {
	Pos2D
	Size2D
}

// CenteredRect creates a rectangle of the size centered at the origin.
func CenteredRect(cx, cy float64) Rect {
	return Rect{Pos2D: Pos2D{X: -cx / 2, Y: -cy / 2}, Size2D: Size2D{CX: cx, CY: cy}}
}

// Pose2D is a position with an orientation. Orientation 0 faces +X.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle in radians, normalized to [-π, π].
type Angle float64

// Rectangular objects have an outline.
type Rectangular interface {
	OutlineRect() Rect
}

// Positionable2D objects have a pose.
type Positionable2D interface {
	Position2D() Pose2D
}

// Placeable2D objects can be moved. SetPose2D returns the pose actually
// taken.
type Placeable2D interface {
	Positionable2D
	SetPose2D(Pose2D) Pose2D
}

// Object is anything in the world.
type Object interface {
	fx.Named
}

// ObjectsChangeListener is notified about object changes.
type ObjectsChangeListener interface {
	ObjectsChanged(fx.ControlContext, ...Object)
	ObjectsRemoved(fx.ControlContext, ...Object)
}

// ObjectsChangeSubscriber accepts listeners.
type ObjectsChangeSubscriber interface {
	SubscribeObjectsChange(ObjectsChangeListener)
}

// Add returns p + p1.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// OffsetBy adds p1 in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}
