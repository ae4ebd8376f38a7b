// Package drive converts stick positions into differential-drive commands.
package drive

import "math"

// TurnDamping reduces the turning authority of the horizontal stick axis.
const TurnDamping float64 = 3.0

// Differential maps a stick vector (x, y), each nominally in [-1, 1], to
// left/right motor commands.
//
// The stick square is remapped onto a circle so the direction is kept and
// the magnitude reaches 1 on the square's boundary. The result is not
// clamped, see Clamp.
func Differential(x, y float64) (left, right float64) {
	// only the exact rest position is treated as no input.
	if x == 0 && y == 0 {
		return 0, 0
	}

	theta := math.Atan2(y, x)
	radius := math.Sqrt(x*x + y*y)

	// distance from the origin to the square boundary along theta.
	var maxRadius float64
	if math.Abs(x) > math.Abs(y) {
		maxRadius = math.Abs(radius / x)
	} else {
		maxRadius = math.Abs(radius / y)
	}

	magnitude := radius / maxRadius
	sin, cos := math.Sin(theta), math.Cos(theta)
	left = magnitude * (sin + cos/TurnDamping)
	right = magnitude * (sin - cos/TurnDamping)
	return
}

// Clamp limits a motor command to [-1, 1].
func Clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case math.IsNaN(v):
		return 0
	}
	return v
}

// Command is a pair of motor commands.
type Command struct {
	Left  float64
	Right float64
}

// Clamped returns the command with both sides clamped.
func (c Command) Clamped() Command {
	return Command{Left: Clamp(c.Left), Right: Clamp(c.Right)}
}

// IsStop indicates both sides are zero.
func (c Command) IsStop() bool {
	return c.Left == 0 && c.Right == 0
}

// FromStick creates a Command using Differential.
func FromStick(x, y float64) Command {
	l, r := Differential(x, y)
	return Command{Left: l, Right: r}
}
