package putt

import (
	"math"
	"testing"
)

func TestFirstTrialAimsStraight(t *testing.T) {
	pf := NewPathFinder()

	if a := pf.nextAngle(0); a != 0 {
		t.Errorf("first trial angle = %.2f, want 0 (straight at the target)", a)
	}
	if pf.Increment() != InitialAngleIncrement {
		t.Errorf("first trial increment = %.2f, want %.2f", pf.Increment(), InitialAngleIncrement)
	}
}

func TestLeftMissCorrectsRight(t *testing.T) {
	pf := NewPathFinder()
	pf.nextAngle(0) // first trial at 0°

	prev := pf.Angle()
	inc := pf.Increment()
	next := pf.nextAngle(-0.2) // ball tracked left

	if next != prev+inc {
		t.Errorf("after a left miss, angle = %.2f, want previous %.2f + increment %.2f", next, prev, inc)
	}
}

func TestRightMissCorrectsLeft(t *testing.T) {
	pf := NewPathFinder()
	pf.nextAngle(0)

	next := pf.nextAngle(0.2)
	if next != -InitialAngleIncrement {
		t.Errorf("after a right miss, angle = %.2f, want %.2f", next, -InitialAngleIncrement)
	}
}

func TestOscillationHalvesIncrement(t *testing.T) {
	pf := NewPathFinder()
	pf.nextAngle(0)    // 0°
	pf.nextAngle(-0.2) // 3°
	pf.nextAngle(0.2)  // back to 0°

	// Fourth call revisits the angle used three calls ago: the step halves.
	before := pf.Increment()
	next := pf.nextAngle(-0.2)

	if pf.Increment() != before/2 {
		t.Errorf("increment = %.2f after oscillation, want %.2f", pf.Increment(), before/2)
	}
	if math.Abs(next-before/2) > 1e-9 {
		t.Errorf("post-oscillation angle = %.2f, want %.2f", next, before/2)
	}
}

func TestResetClearsSearchState(t *testing.T) {
	pf := NewPathFinder()
	pf.nextAngle(0)
	pf.nextAngle(-0.2)
	pf.nextAngle(0.2)
	pf.nextAngle(-0.2)

	pf.Reset()
	if pf.Angle() != 0 || pf.Increment() != InitialAngleIncrement {
		t.Errorf("reset left state angle=%.2f inc=%.2f", pf.Angle(), pf.Increment())
	}
	if a := pf.nextAngle(0); a != 0 {
		t.Errorf("first trial after reset = %.2f, want 0", a)
	}
}

func TestNextShotRotatesAimAndRecordsTrial(t *testing.T) {
	f := buildFlatField()
	sim := NewSimulator(f, GreenMedium)
	pf := NewPathFinder()

	shot := pf.NextShot(sim, f, 0.5, 0)
	if shot.Angle != 0 {
		t.Errorf("first shot angle = %.2f, want 0", shot.Angle)
	}
	if shot.Power != 0.5 {
		t.Errorf("shot power = %.2f, want the supplied 0.5", shot.Power)
	}
	if len(shot.Trajectory) < 2 {
		t.Error("shot should record a multi-state trajectory")
	}

	// The finder remembers the trial's deviation for the single-shot entry.
	if pf.lastDeviation != shot.LateralDeviation {
		t.Error("finder did not store the last reported deviation")
	}
}
