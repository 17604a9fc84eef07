package search

// MaxRangeResult is the outcome of MaxRange.
type MaxRangeResult struct {
	Distance   float64 // metres
	Angle      float64 // degrees, the angle that produced Distance
	Impacted   bool    // false if no attempt ever reached the target plane
	Attempts   int     // forward simulations run
	Iterations int
}

// MaxRange searches for the launch angle with the longest impact distance.
//
// Starting at opts.StartAngle and stepping down, every attempt that lands further
// than the best so far is kept and the walk continues. An attempt that lands short
// reverses and shrinks the step and counts one iteration. An exact tie is accepted
// and ends the search, as does a step too small to move the angle. Attempts that
// never reach the plane are not compared.
func MaxRange(p Problem, opts Options) MaxRangeResult {
	res := MaxRangeResult{Angle: opts.StartAngle}
	angle := opts.StartAngle
	step := -opts.InitialStep

	for res.Iterations < p.Precision {
		if opts.outOfRange(angle) {
			break
		}
		f := p.run(angle, false)
		res.Attempts++

		if f.Impacted() {
			x := f.Final.X
			if x > res.Distance {
				res.Distance, res.Angle, res.Impacted = x, angle, true
			} else if x < res.Distance {
				step *= -opts.Shrink
				res.Iterations++
			} else {
				res.Distance, res.Angle, res.Impacted = x, angle, true
				res.Iterations += opts.EqualJump
				break
			}
		}
		next := angle + step
		if next == angle {
			break
		}
		angle = next
	}
	return res
}
