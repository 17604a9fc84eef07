// Package search implements the direction-reversing angle searches that sit on top
// of the forward flight simulation.
//
// Neither search brackets its answer the way a bisection would. Each one walks the
// launch angle in fixed steps and, whenever the last attempt shows it has gone past
// what it is looking for, turns around and divides the step by ten. The number of
// turnarounds is bounded by the caller's precision, so precision p resolves the
// angle to roughly 10^(1-p) degrees.
package search

import (
	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/kinematics"
)

// Options holds the tuning constants of both searches.
type Options struct {
	StartAngle  float64 `json:"start_angle"`  // degrees, first angle tried by MaxRange
	InitialStep float64 `json:"initial_step"` // degrees, magnitude of the first step
	Shrink      float64 `json:"shrink"`       // step multiplier applied on every reversal
	EqualJump   int     `json:"equal_jump"`   // iterations added when MaxRange hits an exact tie
	AngleLimit  float64 `json:"angle_limit"`  // degrees, searches stop outside ±AngleLimit
}

// DefaultOptions returns the reference tuning: start at 45°, 1° steps shrinking
// tenfold per reversal, a jump of 5 on ties, and a ±90° clamp.
func DefaultOptions() Options {
	return Options{
		StartAngle:  45,
		InitialStep: 1,
		Shrink:      0.1,
		EqualJump:   5,
		AngleLimit:  90,
	}
}

// angleEpsilon absorbs float drift when the angle walks back onto a boundary.
const angleEpsilon = 1e-9

func (o Options) outOfRange(angle float64) bool {
	return angle > o.AngleLimit+angleEpsilon || angle < -o.AngleLimit-angleEpsilon
}

// Problem is the fixed part of a search: the projectile model and the flight bounds.
type Problem struct {
	Model          kinematics.MotionModel
	Clock          flight.Clock
	VerticalOffset float64
	Precision      int
}

func (p Problem) run(angle float64, record bool) flight.Flight {
	return flight.Simulate(p.Model, angle, p.Clock, p.VerticalOffset, record)
}
