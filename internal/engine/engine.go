// Package engine is the entry point of the ballistics core. It validates inputs,
// builds the linear drag model and runs the three operations:
//
//  1. SolveMaxRange - the longest reachable distance for a target elevation and the
//     angle that reaches it.
//
//  2. SolveAngleForDistance - the launch angle (direct or lofted) that lands on a
//     target at a given distance and elevation, with its trajectory.
//
//  3. SampleTrajectory - one recorded flight at a known angle.
//
// All state lives inside a single call, so a Solver may be shared between goroutines.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/kinematics"
	"github.com/cxd309/ballistics-engine/internal/search"
)

// Solver runs solves with a fixed set of search options.
type Solver struct {
	opts search.Options
}

// NewSolver returns a Solver using opts. It rejects options the searches cannot
// terminate with.
func NewSolver(opts search.Options) (*Solver, error) {
	if err := requireFinite("search.start_angle", opts.StartAngle); err != nil {
		return nil, err
	}
	if err := requirePositive("search.initial_step", opts.InitialStep); err != nil {
		return nil, err
	}
	if !(opts.Shrink > 0 && opts.Shrink < 1) {
		return nil, invalid("search.shrink must be in (0, 1), got %g", opts.Shrink)
	}
	if opts.EqualJump <= 0 {
		return nil, invalid("search.equal_jump must be > 0, got %d", opts.EqualJump)
	}
	if !(opts.AngleLimit > 0 && opts.AngleLimit <= 180) {
		return nil, invalid("search.angle_limit must be in (0, 180], got %g", opts.AngleLimit)
	}
	return &Solver{opts: opts}, nil
}

var defaultSolver = &Solver{opts: search.DefaultOptions()}

// SolveMaxRange runs SolveMaxRange with the default search options.
func SolveMaxRange(p Projectile, env Environment, verticalOffset float64, precision int) (MaxRangeResult, error) {
	return defaultSolver.SolveMaxRange(p, env, verticalOffset, precision)
}

// SolveAngleForDistance runs SolveAngleForDistance with the default search options.
func SolveAngleForDistance(p Projectile, env Environment, precision int, kind TrajectoryKind, distance, verticalOffset float64) (AngleResult, error) {
	return defaultSolver.SolveAngleForDistance(p, env, precision, kind, distance, verticalOffset)
}

// SampleTrajectory runs SampleTrajectory with the default search options.
func SampleTrajectory(p Projectile, angle float64, env Environment, verticalOffset float64) (TrajectoryResult, error) {
	return defaultSolver.SampleTrajectory(p, angle, env, verticalOffset)
}

func validateCommon(p Projectile, env Environment, verticalOffset float64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}
	return requireFinite("vertical_offset", verticalOffset)
}

func newProblem(p Projectile, env Environment, verticalOffset float64, precision int) search.Problem {
	return search.Problem{
		Model: kinematics.LinearDrag{
			Drag:           p.Drag,
			Velocity:       p.Velocity,
			Mass:           p.Mass,
			Gravity:        env.Gravity,
			VerticalOffset: verticalOffset,
		},
		Clock:          env.clock(),
		VerticalOffset: verticalOffset,
		Precision:      precision,
	}
}

// SolveMaxRange finds the maximum horizontal distance at which the projectile meets
// the target plane, and the launch angle that achieves it.
func (s *Solver) SolveMaxRange(p Projectile, env Environment, verticalOffset float64, precision int) (MaxRangeResult, error) {
	if err := validateCommon(p, env, verticalOffset); err != nil {
		return MaxRangeResult{}, err
	}
	if err := validatePrecision(precision); err != nil {
		return MaxRangeResult{}, err
	}

	r := search.MaxRange(newProblem(p, env, verticalOffset, precision), s.opts)
	return MaxRangeResult{
		Distance: r.Distance,
		Angle:    r.Angle,
		Status:   statusOf(r.Impacted),
		Attempts: r.Attempts,
	}, nil
}

// SolveAngleForDistance finds the launch angle that lands the projectile at distance
// metres on a plane verticalOffset metres above launch height. kind picks the direct
// or the lofted solution. If distance is beyond the maximum range an
// *InfeasibleTargetError is returned and no trajectory is computed.
func (s *Solver) SolveAngleForDistance(p Projectile, env Environment, precision int, kind TrajectoryKind, distance, verticalOffset float64) (AngleResult, error) {
	if err := validateCommon(p, env, verticalOffset); err != nil {
		return AngleResult{}, err
	}
	if err := validatePrecision(precision); err != nil {
		return AngleResult{}, err
	}
	if err := requirePositive("distance", distance); err != nil {
		return AngleResult{}, err
	}
	if _, err := search.ParseKind(string(kind)); err != nil {
		return AngleResult{}, invalid("%v", err)
	}

	prob := newProblem(p, env, verticalOffset, precision)
	best := search.MaxRange(prob, s.opts)
	if distance > best.Distance {
		return AngleResult{}, &InfeasibleTargetError{
			Requested:   distance,
			MaxDistance: best.Distance,
			MaxAngle:    best.Angle,
		}
	}

	m := search.MatchDistance(prob, s.opts, kind, best.Angle, distance)
	f := m.Flight
	return AngleResult{
		Trajectory:  f.Trajectory,
		Angle:       f.Angle,
		Distance:    f.Final.X,
		FlightTime:  f.Time,
		Status:      statusOf(f.Impacted()),
		MaxDistance: best.Distance,
		MaxAngle:    best.Angle,
		Attempts:    best.Attempts + m.Attempts,
	}, nil
}

// SampleTrajectory records one flight at a fixed angle. FlightTime equals
// env.MaxDuration and Status is StatusUnbounded when the plane is never reached.
func (s *Solver) SampleTrajectory(p Projectile, angle float64, env Environment, verticalOffset float64) (TrajectoryResult, error) {
	if err := validateCommon(p, env, verticalOffset); err != nil {
		return TrajectoryResult{}, err
	}
	if err := requireFinite("angle", angle); err != nil {
		return TrajectoryResult{}, err
	}
	if angle < -s.opts.AngleLimit || angle > s.opts.AngleLimit {
		return TrajectoryResult{}, invalid("angle must be within ±%g°, got %g", s.opts.AngleLimit, angle)
	}

	prob := newProblem(p, env, verticalOffset, 0)
	f := flight.Simulate(prob.Model, angle, prob.Clock, verticalOffset, true)
	return TrajectoryResult{
		Trajectory: f.Trajectory,
		Distance:   f.Final.X,
		FlightTime: f.Time,
		Status:     statusOf(f.Impacted()),
	}, nil
}

// Run performs the operation selected by in.Mode.
func Run(in SolveInput) (SolveOutput, error) {
	solver, err := NewSolver(in.Search)
	if err != nil {
		return SolveOutput{}, err
	}

	out := SolveOutput{Mode: in.Mode}
	switch in.Mode {
	case ModeMaxRange:
		r, err := solver.SolveMaxRange(in.Projectile, in.Environment, in.Target.VerticalOffset, in.Precision)
		if err != nil {
			return SolveOutput{}, err
		}
		out.MaxRange = &r
	case ModeAngleForDistance:
		kind := in.Kind
		if kind == "" {
			kind = Direct
		}
		r, err := solver.SolveAngleForDistance(in.Projectile, in.Environment, in.Precision, kind, in.Target.Distance, in.Target.VerticalOffset)
		if err != nil {
			return SolveOutput{}, err
		}
		out.AngleForDistance = &r
	case ModeTrajectory:
		r, err := solver.SampleTrajectory(in.Projectile, in.Angle, in.Environment, in.Target.VerticalOffset)
		if err != nil {
			return SolveOutput{}, err
		}
		out.Trajectory = &r
	default:
		return SolveOutput{}, invalid("unknown mode %q", in.Mode)
	}
	return out, nil
}

// DecodeInput parses a JSON SolveInput on top of the defaults from NewSolveInput.
func DecodeInput(data []byte) (SolveInput, error) {
	in := NewSolveInput()
	if err := json.Unmarshal(data, &in); err != nil {
		return SolveInput{}, fmt.Errorf("invalid input JSON: %w", err)
	}
	return in, nil
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded SolveInput, runs the solve, and returns a
// JSON-encoded SolveOutput.
func RunJSON(jsonInput string) (string, error) {
	in, err := DecodeInput([]byte(jsonInput))
	if err != nil {
		return "", err
	}

	result, err := Run(in)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
