// Package flight runs single forward simulations of a projectile: it samples a
// kinematics.MotionModel at a fixed timestep and stops at the first impact with the
// target plane.
package flight

import (
	"math"

	"github.com/cxd309/ballistics-engine/internal/kinematics"
)

// DefaultTimeStep is the simulation timestep used when none is configured, seconds.
const DefaultTimeStep = 0.001

// MaxSteps bounds the number of timesteps a single flight may take.
const MaxSteps = 10_000_000

// presizeLimit caps the capacity a recorded trajectory starts with; longer flights
// grow it by appending.
const presizeLimit = 1 << 16

// Clock bounds a forward simulation.
type Clock struct {
	TimeStep    float64 // seconds
	MaxDuration float64 // seconds
}

// Steps returns the index of the last sample the clock permits, so a run takes at
// most Steps()+1 samples (t = 0 included). It saturates at MaxSteps.
func (c Clock) Steps() int {
	// The epsilon keeps 30/0.001 from rounding down to 29999.
	n := math.Floor(c.MaxDuration/c.TimeStep + 1e-9)
	if !(n < MaxSteps) {
		return MaxSteps
	}
	return int(n)
}

// Trajectory is a time-ordered sequence of sampled positions. It satisfies gonum's
// plotter.XYer so it can be plotted directly.
type Trajectory []kinematics.Point

// Len returns the number of samples.
func (t Trajectory) Len() int { return len(t) }

// XY returns the coordinates of the i-th sample.
func (t Trajectory) XY(i int) (float64, float64) { return t[i].X, t[i].Y }

// Flight is the outcome of one forward simulation.
type Flight struct {
	Angle      float64          // degrees
	Trajectory Trajectory       // nil unless the run was recorded
	Final      kinematics.Point // last sample taken
	Time       float64          // seconds at the last sample, or MaxDuration if no impact
	State      State
}

// Impacted reports whether the flight ended on the target plane rather than by
// exhausting the clock.
func (f Flight) Impacted() bool { return f.State == StateImpacted }

// Simulate samples m at angle from t = 0 until impact or until clock runs out.
// When record is true every sample is kept in a freshly allocated Trajectory sized
// for the whole clock, up to presizeLimit; nothing is shared between calls.
func Simulate(m kinematics.MotionModel, angle float64, clock Clock, verticalOffset float64, record bool) Flight {
	steps := clock.Steps()
	det := NewDetector(verticalOffset)

	var traj Trajectory
	if record {
		traj = make(Trajectory, 0, min(steps+1, presizeLimit))
	}

	f := Flight{Angle: angle}
	for i := 0; i <= steps; i++ {
		t := float64(i) * clock.TimeStep
		p := m.Position(angle, t)
		if record {
			traj = append(traj, p)
		}
		f.Final = p
		if det.Observe(p) {
			f.Time = t
			break
		}
	}

	f.State = det.State
	if !f.Impacted() {
		f.Time = clock.MaxDuration
	}
	f.Trajectory = traj
	return f
}
