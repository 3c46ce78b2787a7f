package putt

import (
	"math"
	"testing"
)

func flatSimulator() (*Simulator, *Field) {
	f := buildFlatField()
	return NewSimulator(f, GreenMedium), f
}

func TestSimulateTerminatesWithinStepCap(t *testing.T) {
	sim, f := flatSimulator()

	res := sim.Simulate(f.Start(), NewVec3(0, 0, -MaxSpeed))
	if len(res.Trajectory) > MaxSteps+1 {
		t.Errorf("trajectory has %d states, exceeds the %d-step cap", len(res.Trajectory), MaxSteps)
	}
}

func TestBallBelowStopThresholdStopsImmediately(t *testing.T) {
	sim, f := flatSimulator()

	res := sim.Simulate(f.Start(), NewVec3(0, 0, -0.01))
	if res.Success {
		t.Error("a ball that never moves must not hole out from 2 m away")
	}
	if !res.Stopped {
		t.Error("below-threshold start must read as stopped")
	}
	if len(res.Trajectory) > 2 {
		t.Errorf("expected a one-or-few-state trajectory, got %d states", len(res.Trajectory))
	}
}

func TestFlatPuttHolesOut(t *testing.T) {
	sim, f := flatSimulator()

	power := InitialPower(f.Start(), f.Target(), f, GreenMedium)
	res := sim.Simulate(f.Start(), NewVec3(0, 0, -power*MaxSpeed))

	if !res.Success {
		final := res.Trajectory[len(res.Trajectory)-1]
		t.Fatalf("straight flat putt at power %.3f did not hole out; final=%+v", power, final)
	}
	closest := res.Trajectory[res.ClosestIndex]
	if closest.PlanarDistance(f.Target()) > HoleRadius {
		t.Errorf("closest approach %.4f m outside the hole radius", closest.PlanarDistance(f.Target()))
	}
}

func TestDivergingBallCutOff(t *testing.T) {
	sim, f := flatSimulator()

	// Shoot perpendicular to the target line: distance to the hole only grows.
	res := sim.Simulate(f.Start(), NewVec3(2, 0, 0))
	if res.Success {
		t.Error("perpendicular shot must not succeed")
	}
	if res.Stopped {
		t.Error("diverging ball should abort on the away cutoff, not read as stopped")
	}
	if len(res.Trajectory) > AwayCutoffSteps+5 {
		t.Errorf("away cutoff too late: %d states", len(res.Trajectory))
	}
}

func TestBallSnapsToSurface(t *testing.T) {
	sim, f := flatSimulator()

	res := sim.Simulate(f.Start(), NewVec3(0, 0, -1.5))
	for i, p := range res.Trajectory[1:] {
		if math.Abs(p.Y-BallRadius) > 1e-3 {
			t.Fatalf("state %d height %.4f, want terrain + ball radius %.4f", i+1, p.Y, BallRadius)
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	run := func() Result {
		sim, f := flatSimulator()
		return sim.Simulate(f.Start(), NewVec3(0.3, 0, -1.4))
	}

	a, b := run(), run()
	if len(a.Trajectory) != len(b.Trajectory) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(a.Trajectory), len(b.Trajectory))
	}
	for i := range a.Trajectory {
		if a.Trajectory[i] != b.Trajectory[i] {
			t.Fatalf("state %d differs: %+v vs %+v", i, a.Trajectory[i], b.Trajectory[i])
		}
	}
	if a.LateralDeviation != b.LateralDeviation || a.ClosestIndex != b.ClosestIndex {
		t.Error("derived outputs differ between identical runs")
	}
}

func TestLateralDeviationSign(t *testing.T) {
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -2)

	// Closest approach west of the line (facing -z, west = -x = left).
	left := lateralDeviation(start, target, NewVec3(-0.3, 0, -1.5))
	if left >= 0 {
		t.Errorf("leftward track must report negative deviation, got %.4f", left)
	}

	right := lateralDeviation(start, target, NewVec3(0.3, 0, -1.5))
	if right <= 0 {
		t.Errorf("rightward track must report positive deviation, got %.4f", right)
	}
}

func TestObserverSeesEverySimulatedStep(t *testing.T) {
	sim, f := flatSimulator()

	steps := 0
	sim.Observer = func(step int, pos, vel Vec3) { steps++ }
	res := sim.Simulate(f.Start(), NewVec3(0, 0, -1.0))

	if steps != len(res.Trajectory)-1 {
		t.Errorf("observer saw %d steps for %d recorded states", steps, len(res.Trajectory))
	}
}
