package flight

import "github.com/cxd309/ballistics-engine/internal/kinematics"

// State describes where a projectile is relative to the target plane.
type State string

const (
	// StateBelowPlane means the projectile has not yet been at or above the plane.
	StateBelowPlane State = "below_plane"
	// StateCleared means the projectile is, or has been, at or above the plane.
	StateCleared State = "cleared"
	// StateImpacted means a sample fell below the plane after clearing it.
	StateImpacted State = "impacted"
)

// Detector finds the first sample at which a projectile strikes the target plane.
//
// The initial state depends on the sign of the target's vertical offset, not on the
// projectile's actual starting height: a negative offset starts below the plane, any
// other offset starts cleared. With a positive offset the launch sample itself is
// below the plane, so the flight impacts at t = 0.
type Detector struct {
	State  State
	Impact kinematics.Point
}

// NewDetector returns a Detector seeded for a target plane at verticalOffset.
func NewDetector(verticalOffset float64) *Detector {
	d := &Detector{State: StateCleared}
	if verticalOffset < 0 {
		d.State = StateBelowPlane
	}
	return d
}

// Observe feeds the next sample (Y relative to the plane) and reports whether the
// projectile has impacted. Samples after the impact are ignored.
func (d *Detector) Observe(p kinematics.Point) bool {
	switch d.State {
	case StateBelowPlane:
		if p.Y >= 0 {
			d.State = StateCleared
		}
		return false
	case StateCleared:
		if p.Y < 0 {
			d.State = StateImpacted
			d.Impact = p
			return true
		}
		return false
	default:
		return true
	}
}
