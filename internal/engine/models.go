package engine

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/kinematics"
	"github.com/cxd309/ballistics-engine/internal/search"
)

// Projectile holds the physical parameters of the projectile.
type Projectile struct {
	Model    string  `json:"model,omitempty"` // drag model discriminator, "linear" when empty
	Drag     float64 `json:"drag"`            // drag coefficient, kg/s
	Velocity float64 `json:"velocity"`        // launch speed, m/s
	Mass     float64 `json:"mass"`            // kg
}

// projectileJSON has Projectile's fields without its UnmarshalJSON method.
type projectileJSON Projectile

// UnmarshalJSON implements json.Unmarshaler for Projectile.
// The optional "model" key selects the drag model; unknown models are rejected here
// rather than at solve time.
//
// Supported models:
//   - "linear": drag proportional to velocity.
func (p *Projectile) UnmarshalJSON(data []byte) error {
	var aux projectileJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch aux.Model {
	case "", kinematics.LinearModelName:
	default:
		return fmt.Errorf("%w: unknown drag model %q", ErrInvalidParameter, aux.Model)
	}
	*p = Projectile(aux)
	return nil
}

// Environment holds the physical and simulation bounds shared by every attempt.
type Environment struct {
	Gravity     float64 `json:"gravity"`      // m/s², positive
	MaxDuration float64 `json:"max_duration"` // seconds of simulated flight per attempt
	TimeStep    float64 `json:"time_step"`    // seconds between samples
}

// DefaultEnvironment returns Earth gravity, a 30 s flight cap and a 1 ms timestep.
func DefaultEnvironment() Environment {
	return Environment{
		Gravity:     9.81,
		MaxDuration: 30,
		TimeStep:    flight.DefaultTimeStep,
	}
}

func (e Environment) clock() flight.Clock {
	return flight.Clock{TimeStep: e.TimeStep, MaxDuration: e.MaxDuration}
}

// TrajectoryKind selects the direct (low) or lofted (high) solution of a distance match.
type TrajectoryKind = search.Kind

const (
	// Direct is the low-angle solution, found below the max-range angle.
	Direct = search.Direct
	// Lofted is the high-angle solution, found above the max-range angle.
	Lofted = search.Lofted
)

// Status tells whether a result's final flight reached the target plane.
type Status string

const (
	// StatusImpact means the final flight reached the target plane.
	StatusImpact Status = "impact"
	// StatusUnbounded means the flight ran out of simulated time first.
	StatusUnbounded Status = "unbounded"
)

func statusOf(impacted bool) Status {
	if impacted {
		return StatusImpact
	}
	return StatusUnbounded
}

// MaxRangeResult is the output of SolveMaxRange.
type MaxRangeResult struct {
	Distance float64 `json:"distance"` // metres
	Angle    float64 `json:"angle"`    // degrees
	Status   Status  `json:"status"`
	Attempts int     `json:"attempts"`
}

// AngleResult is the output of SolveAngleForDistance.
type AngleResult struct {
	Trajectory  flight.Trajectory `json:"trajectory"`
	Angle       float64           `json:"angle"`        // degrees
	Distance    float64           `json:"distance"`     // metres, x of the last sample
	FlightTime  float64           `json:"flight_time"`  // seconds
	Status      Status            `json:"status"`
	MaxDistance float64           `json:"max_distance"` // metres, from the max-range solve
	MaxAngle    float64           `json:"max_angle"`    // degrees
	Attempts    int               `json:"attempts"`     // both searches combined
}

// TrajectoryResult is the output of SampleTrajectory.
type TrajectoryResult struct {
	Trajectory flight.Trajectory `json:"trajectory"`
	Distance   float64           `json:"distance"`    // metres
	FlightTime float64           `json:"flight_time"` // seconds
	Status     Status            `json:"status"`
}

// Mode selects the operation RunJSON performs.
type Mode string

const (
	// ModeMaxRange runs SolveMaxRange.
	ModeMaxRange Mode = "max_range"
	// ModeAngleForDistance runs SolveAngleForDistance.
	ModeAngleForDistance Mode = "angle_for_distance"
	// ModeTrajectory runs SampleTrajectory.
	ModeTrajectory Mode = "trajectory"
)

// Target locates the target plane and, for distance matching, the target itself.
type Target struct {
	VerticalOffset float64 `json:"vertical_offset"`    // metres above launch height
	Distance       float64 `json:"distance,omitempty"` // metres, angle_for_distance only
}

// SolveInput is the JSON-serialisable input to the engine.
type SolveInput struct {
	Mode        Mode           `json:"mode"`
	Projectile  Projectile     `json:"projectile"`
	Environment Environment    `json:"environment"`
	Target      Target         `json:"target"`
	Precision   int            `json:"precision,omitempty"` // max_range and angle_for_distance
	Kind        TrajectoryKind `json:"kind,omitempty"`      // angle_for_distance, "direct" when empty
	Angle       float64        `json:"angle,omitempty"`     // degrees, trajectory only
	Search      search.Options `json:"search"`
}

// SolveOutput is the JSON-serialisable output of the engine. Exactly one result
// field is set, matching Mode.
type SolveOutput struct {
	Mode             Mode              `json:"mode"`
	MaxRange         *MaxRangeResult   `json:"max_range,omitempty"`
	AngleForDistance *AngleResult      `json:"angle_for_distance,omitempty"`
	Trajectory       *TrajectoryResult `json:"trajectory,omitempty"`
}

// NewSolveInput returns a SolveInput pre-filled with the default environment and
// search options, ready to be overlaid by a decoded JSON document.
func NewSolveInput() SolveInput {
	return SolveInput{
		Environment: DefaultEnvironment(),
		Search:      search.DefaultOptions(),
	}
}
