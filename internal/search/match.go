package search

import (
	"fmt"

	"github.com/cxd309/ballistics-engine/internal/flight"
)

// Kind selects which side of the max-range angle a distance match is looked for on.
type Kind string

const (
	// Direct is the flatter, lower-angle solution.
	Direct Kind = "direct"
	// Lofted is the higher-angle (ballistic) solution.
	Lofted Kind = "lofted"
)

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Direct, Lofted:
		return k, nil
	default:
		return "", fmt.Errorf("unknown trajectory kind %q", s)
	}
}

// MatchResult is the outcome of MatchDistance.
type MatchResult struct {
	Flight     flight.Flight // last attempt, trajectory recorded
	Attempts   int
	Iterations int
}

// MatchDistance walks away from seed, the max-range angle, looking for the angle
// whose impact distance equals target.
//
// Below seed distance grows with angle, above it distance shrinks, so a direct
// search steps down and turns around when it overshoots on the way up or undershoots
// on the way down, and a lofted search mirrors that. Each search is fenced to its own
// side of seed: a step that would cross it counts as a turnaround.
//
// The lofted turnaround rule is the mirror of the direct one. Applying the direct
// rule above seed turns the search back down onto the direct solution.
//
// The search also ends once the step is too small to move the angle, since every
// further attempt would repeat the last one and never turn around.
//
// Every attempt records its trajectory from scratch; only the last one is returned.
func MatchDistance(p Problem, opts Options, kind Kind, seed, target float64) MatchResult {
	var res MatchResult
	angle := seed
	step := -opts.InitialStep
	if kind == Lofted {
		step = opts.InitialStep
	}

	for res.Iterations < p.Precision {
		f := p.run(angle, true)
		res.Flight = f
		res.Attempts++

		if f.Impacted() && turnAround(kind, step, f.Final.X, target) {
			step *= -opts.Shrink
			res.Iterations++
		}

		next := angle + step
		if crossesSeed(kind, next, seed) {
			step *= -opts.Shrink
			res.Iterations++
			next = angle + step
		}
		if opts.outOfRange(next) || next == angle {
			break
		}
		angle = next
	}
	return res
}

func turnAround(kind Kind, step, x, target float64) bool {
	if kind == Lofted {
		return (step > 0 && x < target) || (step < 0 && x > target)
	}
	return (step > 0 && x > target) || (step < 0 && x < target)
}

func crossesSeed(kind Kind, angle, seed float64) bool {
	if kind == Lofted {
		return angle < seed-angleEpsilon
	}
	return angle > seed+angleEpsilon
}
