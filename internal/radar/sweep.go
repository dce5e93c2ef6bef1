package radar

import (
	"math"

	"ble-gatt-radar.klederson.com/internal/config"
)

// Sweep is the rotating sweep wedge. It advances a fixed step per frame.
type Sweep struct {
	Angle float64 // Current leading edge in radians [0, 2π)
}

// NewSweep creates a sweep starting at angle 0 (east).
func NewSweep() *Sweep {
	return &Sweep{}
}

// Advance moves the sweep one frame forward.
func (s *Sweep) Advance() {
	s.Angle += config.SweepStep
	if s.Angle >= 2*math.Pi {
		s.Angle -= 2 * math.Pi
	}
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// InWedge reports whether a canvas angle lies inside the wedge spanning
// SweepWedge radians clockwise from the sweep angle.
func InWedge(sweepAngle, angle float64) bool {
	return NormalizeAngle(angle-sweepAngle) <= config.SweepWedge
}

// WedgeAlpha is the radial gradient of the wedge: transparent at the centre,
// 0.4 at the rim.
func WedgeAlpha(dist, maxRadius float64) float64 {
	if maxRadius <= 0 {
		return 0
	}
	return 0.4 * math.Min(dist/maxRadius, 1)
}
