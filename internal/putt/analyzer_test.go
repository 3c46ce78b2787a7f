package putt

import (
	"math"
	"testing"
)

func shotEndingAt(final Vec3) Shot {
	return Shot{
		Trajectory:   []Vec3{{}, final},
		ClosestIndex: 1,
	}
}

func TestShortfallOverridesLateralMiss(t *testing.T) {
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -2)

	// Stopped 1.8 m out with a 0.10 lateral deviation: both thresholds
	// exceeded, but short must win.
	final := NewVec3(1.8*0.1, 0, -1.8*math.Sqrt(0.99))
	a := Analyze(shotEndingAt(final), start, target)

	if a.Verdict != VerdictShort {
		t.Errorf("verdict = %s, want short (shortfall overrides direction)", a.Verdict)
	}
	if math.Abs(a.Shortfall-0.2) > 0.01 {
		t.Errorf("shortfall = %.3f, want ~0.20", a.Shortfall)
	}
	if math.Abs(a.LateralDeviation-0.1) > 0.01 {
		t.Errorf("lateral deviation = %.3f, want ~0.10", a.LateralDeviation)
	}
}

func TestLeftAndRightClassification(t *testing.T) {
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -2)

	// Full distance covered, finishing west of the line (left when facing -z).
	left := Analyze(shotEndingAt(NewVec3(-0.2, 0, -1.99)), start, target)
	if left.Verdict != VerdictLeft {
		t.Errorf("westward finish verdict = %s, want left", left.Verdict)
	}

	right := Analyze(shotEndingAt(NewVec3(0.2, 0, -1.99)), start, target)
	if right.Verdict != VerdictRight {
		t.Errorf("eastward finish verdict = %s, want right", right.Verdict)
	}
}

func TestAccurateShot(t *testing.T) {
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -2)

	a := Analyze(shotEndingAt(NewVec3(0.01, 0, -1.98)), start, target)
	if a.Verdict != VerdictAccurate {
		t.Errorf("near-perfect shot verdict = %s, want accurate", a.Verdict)
	}
}

func TestEmptyTrajectoryIsNeutral(t *testing.T) {
	a := Analyze(Shot{}, NewVec3(0, 0, 0), NewVec3(0, 0, -2))
	if a.Verdict != VerdictAccurate || a.Shortfall != 0 || a.LateralDeviation != 0 {
		t.Errorf("empty trajectory analysis = %+v, want neutral zeros", a)
	}
}
