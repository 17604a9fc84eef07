package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/ballistics-engine/internal/flight"
)

var (
	// ErrInvalidParameter is wrapped by every input validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInfeasibleTarget means the requested distance is beyond the maximum range.
	ErrInfeasibleTarget = errors.New("infeasible target")
)

// InfeasibleTargetError reports a distance match that cannot succeed, together with
// the maximum range so the caller can retry with a reachable target.
type InfeasibleTargetError struct {
	Requested   float64 // metres
	MaxDistance float64 // metres
	MaxAngle    float64 // degrees
}

func (e *InfeasibleTargetError) Error() string {
	return fmt.Sprintf("infeasible target: requested %.3f m exceeds maximum range %.3f m (at %.4f°)",
		e.Requested, e.MaxDistance, e.MaxAngle)
}

// Unwrap lets errors.Is match ErrInfeasibleTarget.
func (e *InfeasibleTargetError) Unwrap() error { return ErrInfeasibleTarget }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func requirePositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return invalid("%s must be a finite value > 0, got %g", name, v)
	}
	return nil
}

func requireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be finite, got %g", name, v)
	}
	return nil
}

// Validate checks the projectile parameters. Drag must be strictly positive: the
// linear drag solution divides by it.
func (p Projectile) Validate() error {
	if err := requirePositive("drag", p.Drag); err != nil {
		return err
	}
	if err := requirePositive("mass", p.Mass); err != nil {
		return err
	}
	if err := requireFinite("velocity", p.Velocity); err != nil {
		return err
	}
	if p.Velocity < 0 {
		return invalid("velocity must be >= 0, got %g", p.Velocity)
	}
	return nil
}

// Validate checks the environment parameters.
func (e Environment) Validate() error {
	if err := requirePositive("gravity", e.Gravity); err != nil {
		return err
	}
	if err := requirePositive("max_duration", e.MaxDuration); err != nil {
		return err
	}
	if err := requirePositive("time_step", e.TimeStep); err != nil {
		return err
	}
	if n := e.MaxDuration / e.TimeStep; n > flight.MaxSteps {
		return invalid("max_duration/time_step must be <= %d steps, got %g", flight.MaxSteps, n)
	}
	return nil
}

func validatePrecision(precision int) error {
	if precision <= 0 {
		return invalid("precision must be > 0, got %d", precision)
	}
	return nil
}
