package flight

import (
	"testing"

	"github.com/cxd309/ballistics-engine/internal/kinematics"
)

var refModel = kinematics.LinearDrag{Drag: 0.05, Velocity: 50, Mass: 1, Gravity: 9.81}

var refClock = Clock{TimeStep: DefaultTimeStep, MaxDuration: 30}

func TestClockSteps(t *testing.T) {
	tests := []struct {
		clock Clock
		want  int
	}{
		{Clock{TimeStep: 0.001, MaxDuration: 30}, 30000},
		{Clock{TimeStep: 0.1, MaxDuration: 0.3}, 3},
		{Clock{TimeStep: 1, MaxDuration: 0.5}, 0},
		{Clock{TimeStep: 0.001, MaxDuration: 1e300}, MaxSteps},
		{Clock{TimeStep: 1e-300, MaxDuration: 1e300}, MaxSteps},
	}
	for _, tc := range tests {
		if got := tc.clock.Steps(); got != tc.want {
			t.Errorf("%+v.Steps() = %d, want %d", tc.clock, got, tc.want)
		}
	}
}

func TestSimulateStopsAtImpact(t *testing.T) {
	f := Simulate(refModel, 40, refClock, 0, true)
	if !f.Impacted() {
		t.Fatalf("state = %q, want impacted", f.State)
	}
	n := len(f.Trajectory)
	if n < 3 {
		t.Fatalf("trajectory has %d points", n)
	}
	if cap(f.Trajectory) != refClock.Steps()+1 {
		t.Errorf("trajectory capacity = %d, want %d", cap(f.Trajectory), refClock.Steps()+1)
	}
	last := f.Trajectory[n-1]
	if last != f.Final {
		t.Errorf("last point %+v != Final %+v", last, f.Final)
	}
	if last.Y >= 0 || f.Trajectory[n-2].Y < 0 {
		t.Errorf("impact not at first crossing: y[n-2]=%g y[n-1]=%g", f.Trajectory[n-2].Y, last.Y)
	}
	if want := float64(n-1) * refClock.TimeStep; f.Time != want {
		t.Errorf("Time = %g, want %g", f.Time, want)
	}
	if f.Trajectory[0] != (kinematics.Point{}) {
		t.Errorf("first point = %+v, want origin", f.Trajectory[0])
	}
}

func TestSimulateLongClockStartsSmall(t *testing.T) {
	clock := Clock{TimeStep: 0.001, MaxDuration: 1e300}
	f := Simulate(refModel, 30, clock, 0, true)
	if !f.Impacted() {
		t.Fatal("flight did not impact")
	}
	if cap(f.Trajectory) > presizeLimit {
		t.Errorf("trajectory capacity = %d, want <= %d", cap(f.Trajectory), presizeLimit)
	}
}

func TestSimulateGrowsPastPresize(t *testing.T) {
	clock := Clock{TimeStep: 1e-4, MaxDuration: 10}
	f := Simulate(refModel, 89, clock, -1e6, true)
	if f.Impacted() {
		t.Fatal("flight should not reach a plane a thousand kilometres down")
	}
	if got, want := len(f.Trajectory), clock.Steps()+1; got != want || got <= presizeLimit {
		t.Errorf("len(trajectory) = %d, want %d (> %d)", got, want, presizeLimit)
	}
}

func TestSimulateWithoutRecording(t *testing.T) {
	rec := Simulate(refModel, 40, refClock, 0, true)
	f := Simulate(refModel, 40, refClock, 0, false)
	if f.Trajectory != nil {
		t.Errorf("unrecorded run kept %d points", len(f.Trajectory))
	}
	if f.Final != rec.Final || f.Time != rec.Time {
		t.Errorf("unrecorded run ended at %+v/%g, recorded at %+v/%g", f.Final, f.Time, rec.Final, rec.Time)
	}
}

func TestSimulateUnboundedRunsFullClock(t *testing.T) {
	clock := Clock{TimeStep: DefaultTimeStep, MaxDuration: 0.5}
	f := Simulate(refModel, 45, clock, 0, true)
	if f.Impacted() {
		t.Fatal("a 0.5 s clock should not reach impact")
	}
	if f.Time != clock.MaxDuration {
		t.Errorf("Time = %g, want %g", f.Time, clock.MaxDuration)
	}
	if got, want := len(f.Trajectory), clock.Steps()+1; got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
}

func TestSimulatePositiveOffsetImpactsAtLaunch(t *testing.T) {
	m := refModel
	m.VerticalOffset = 10
	f := Simulate(m, 45, refClock, 10, true)
	if !f.Impacted() || f.Time != 0 || len(f.Trajectory) != 1 {
		t.Fatalf("got state=%q time=%g len=%d, want impact at t=0 with one point", f.State, f.Time, len(f.Trajectory))
	}
	if f.Final.X != 0 {
		t.Errorf("Final.X = %g, want 0", f.Final.X)
	}
}

func TestSimulateNegativeOffsetLandsFurther(t *testing.T) {
	level := Simulate(refModel, 30, refClock, 0, false)
	m := refModel
	m.VerticalOffset = -20
	below := Simulate(m, 30, refClock, -20, false)
	if !below.Impacted() {
		t.Fatal("flight to a lower plane did not impact")
	}
	if below.Final.X <= level.Final.X {
		t.Errorf("lower plane x = %g, level x = %g; want further", below.Final.X, level.Final.X)
	}
}

func TestTrajectoryXY(t *testing.T) {
	tr := Trajectory{{X: 1, Y: 2}, {X: 3, Y: -4}}
	if tr.Len() != 2 {
		t.Fatalf("Len = %d", tr.Len())
	}
	if x, y := tr.XY(1); x != 3 || y != -4 {
		t.Errorf("XY(1) = (%g, %g), want (3, -4)", x, y)
	}
}
