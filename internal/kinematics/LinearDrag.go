package kinematics

import "math"

// LinearModelName is the JSON discriminator string for the LinearDrag model.
const LinearModelName = "linear"

// degToRad is the π/180 factor used for every launch angle.
const degToRad = math.Pi / 180

// seriesCutoff is the value of (k/m)·t below which the second-order drag term is
// evaluated from its Taylor series.
const seriesCutoff = 1e-3

// LinearDrag implements MotionModel for a point mass under constant gravity and a
// drag force proportional to velocity (Stokes drag). The closed-form solution is
//
//	x(t) = (m/k) v cosθ (1 - e^(-kt/m))
//	y(t) = (m/k)(v sinθ + mg/k)(1 - e^(-kt/m)) - (m/k) g t - offset
//
// Drag must be strictly positive; the caller validates that before construction.
type LinearDrag struct {
	Drag           float64 // drag coefficient k, kg/s
	Velocity       float64 // launch speed, m/s
	Mass           float64 // kg
	Gravity        float64 // m/s² (positive, acting downwards)
	VerticalOffset float64 // target plane height above launch, metres
}

// Position evaluates the closed-form displacement at time t.
func (l LinearDrag) Position(angle, t float64) Point {
	theta := angle * degToRad
	tau := l.Mass / l.Drag // time constant m/k
	u := t / tau

	// 1 - e^(-u), accurate for small u.
	decay := -math.Expm1(-u)

	x := tau * l.Velocity * math.Cos(theta) * decay
	// (m/k)(mg/k)(1-e^-u) - (m/k) g t collapses to -(m/k)² g (u - (1-e^-u)).
	y := tau*l.Velocity*math.Sin(theta)*decay - tau*tau*l.Gravity*secondOrder(u) - l.VerticalOffset
	return Point{X: x, Y: y}
}

// secondOrder returns u - (1 - e^(-u)) without catastrophic cancellation near zero.
func secondOrder(u float64) float64 {
	if math.Abs(u) < seriesCutoff {
		u2 := u * u
		return u2/2 - u2*u/6 + u2*u2/24 - u2*u2*u/120
	}
	return u + math.Expm1(-u)
}

// Vacuum returns the drag-free range v² sin(2θ) / g for a launch and landing at
// the same height. It is the limit of LinearDrag as Drag approaches zero.
func Vacuum(velocity, angle, gravity float64) float64 {
	return velocity * velocity * math.Sin(2*angle*degToRad) / gravity
}
