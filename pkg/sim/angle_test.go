package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		degrees float64
		expect  float64
	}{
		{"zero", 0, 0},
		{"right", 90, 90},
		{"over half turn", 270, -90},
		{"under half turn", -270, 90},
		{"full turns", 720 + 45, 45},
		{"negative full turns", -720 - 45, -45},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expect, AngleFromDegrees(tc.degrees).Degrees(), 1e-9)
		})
	}
}

func TestAngleArithmetic(t *testing.T) {
	a := AngleFromDegrees(170).AddDegrees(20)
	assert.InDelta(t, -170, a.Degrees(), 1e-9)
	assert.InDelta(t, math.Pi/2, AngleFromRadians(0).Add(AngleFromDegrees(90)).Radians(), 1e-9)

	p := AngleFromDegrees(90).Project(10)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)
}

func TestCenteredRect(t *testing.T) {
	rc := CenteredRect(40, 20)
	assert.Equal(t, Pos2D{X: -20, Y: -10}, rc.Pos2D)
	assert.Equal(t, Size2D{CX: 40, CY: 20}, rc.Size2D)
	assert.Equal(t, Pos2D{X: 1, Y: 2}, Pos2D{}.Add(Pos2D{X: 1, Y: 2}))
}
