// Package kinematics defines the MotionModel interface for projectile flight
// physics, along with built-in implementations.
//
// Adding a new drag model requires only implementing MotionModel and registering it
// in the JSON discriminator in the engine package; the flight simulation and the
// angle searches never need to change.
package kinematics

// Point is the displacement of a projectile from its launch point, in metres.
// Y is measured relative to the target plane, not the launch height.
type Point struct {
	X float64 `json:"x"` // metres
	Y float64 `json:"y"` // metres
}

// MotionModel is the physics contract every kinematics implementation must satisfy.
// Distances are in metres, time in seconds and angles in degrees from horizontal.
type MotionModel interface {
	// Position returns the displacement at elapsed time t (t ≥ 0) for a shot
	// launched at angle degrees, with Y already offset by the target plane.
	Position(angle, t float64) Point
}
