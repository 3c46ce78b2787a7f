package putt

import (
	"encoding/json"
	"math"
	"testing"
)

func buildFlatField() *Field {
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -2)
	return BuildField(start, target, FlatProvider{Height: 0}, 0.1, 1.0)
}

func TestFieldEndpointsExact(t *testing.T) {
	f := buildFlatField()

	center := f.Cols() / 2
	first, ok := f.PointAt(0, center)
	if !ok {
		t.Fatal("missing first-row center point")
	}
	if first.Position != f.Start() {
		t.Errorf("first row center = %+v, want exact start %+v", first.Position, f.Start())
	}

	last, ok := f.PointAt(f.Rows()-1, center)
	if !ok {
		t.Fatal("missing last-row center point")
	}
	if last.Position != f.Target() {
		t.Errorf("last row center = %+v, want exact target %+v", last.Position, f.Target())
	}
}

func TestFieldIsInHole(t *testing.T) {
	f := buildFlatField()

	if !f.IsInHole(f.Target()) {
		t.Error("target itself must be in the hole")
	}
	if f.IsInHole(f.Start()) {
		t.Error("start point 2 m away must not be in the hole")
	}
	if f.IsInHole(NewVec3(5, 0, 5)) {
		t.Error("far point must not be in the hole")
	}
}

func TestFlatFieldHasZeroSlopes(t *testing.T) {
	f := buildFlatField()

	for r := 0; r < f.Rows(); r++ {
		for c := 0; c < f.Cols(); c++ {
			mp, _ := f.PointAt(r, c)
			if mp.ForwardSlope != 0 || mp.LateralSlope != 0 {
				t.Fatalf("cell (%d,%d) slopes = (%.4f, %.4f), want zero", r, c, mp.ForwardSlope, mp.LateralSlope)
			}
			if mp.Normal != (Vec3{Y: 1}) {
				t.Fatalf("cell (%d,%d) normal = %+v, want straight up", r, c, mp.Normal)
			}
		}
	}
}

func TestUphillForwardSlope(t *testing.T) {
	// Surface rises 0.1 m per meter toward the target.
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0.2, -2)
	hp := HeightFunc(func(p Vec3) float64 { return -0.1 * p.Z })
	f := BuildField(start, target, hp, 0.1, 0.6)

	mp, _ := f.PointAt(f.Rows()/2, f.Cols()/2)
	want := math.Atan2(0.01, 0.1) * 180 / math.Pi // ~5.71 degrees per 0.1 m row
	if math.Abs(mp.ForwardSlope-want) > 0.5 {
		t.Errorf("mid-field forward slope = %.2f, want ~%.2f", mp.ForwardSlope, want)
	}
	if mp.ForwardSlope <= 0 {
		t.Errorf("slope rising toward target must be positive, got %.2f", mp.ForwardSlope)
	}
}

func TestNoDataFallsBackToPathInterpolation(t *testing.T) {
	// Provider that never has data: every height query returns its input.
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0.5, -2)
	noData := HeightFunc(func(p Vec3) float64 { return p.Y })
	f := BuildField(start, target, noData, 0.1, 0.6)

	center := f.Cols() / 2
	mid, _ := f.PointAt(f.Rows()/2, center)
	if mid.Measured {
		t.Error("no-data cell must not be flagged as measured")
	}
	progress := float64(f.Rows()/2) / float64(f.Rows()-1)
	wantY := 0.5 * progress
	if math.Abs(mid.Position.Y-wantY) > 1e-3 {
		t.Errorf("mid-path fallback height = %.4f, want lerp %.4f", mid.Position.Y, wantY)
	}
	if Coverage(f) > 0.1 {
		t.Errorf("coverage should be near zero for a no-data provider, got %.2f", Coverage(f))
	}
}

func TestRefreshHeightsRecomputesSlopes(t *testing.T) {
	f := buildFlatField()

	// Refresh with a tilted surface; slopes must follow.
	tilted := HeightFunc(func(p Vec3) float64 { return -0.1*p.Z + 0.001 })
	f.RefreshHeights(tilted)

	mp, _ := f.PointAt(f.Rows()/2, f.Cols()/2)
	if mp.ForwardSlope == 0 {
		t.Error("forward slope still zero after refreshing with a tilted surface")
	}

	center := f.Cols() / 2
	first, _ := f.PointAt(0, center)
	if first.Position != f.Start() {
		t.Error("refresh must keep the start endpoint exact")
	}
}

func TestNearestAndInterpolatedSlope(t *testing.T) {
	f := buildFlatField()

	mp, ok := f.Nearest(NewVec3(0.03, 0, -1.02))
	if !ok {
		t.Fatal("nearest must find a point on a populated grid")
	}
	if mp.Position.PlanarDistance(NewVec3(0.03, 0, -1.02)) > 0.15 {
		t.Errorf("nearest point too far: %+v", mp.Position)
	}

	// Far outside the interpolation range: falls back to the nearest point.
	fwd, lat, ok := f.InterpolatedSlope(NewVec3(10, 0, 10))
	if !ok {
		t.Fatal("interpolated slope must fall back to nearest, not fail")
	}
	if fwd != 0 || lat != 0 {
		t.Errorf("flat field slope = (%.4f, %.4f), want zero", fwd, lat)
	}
}

func TestLocalForcePullsDownhill(t *testing.T) {
	// Rises toward the target: the force should push back toward the start.
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0.2, -2)
	hp := HeightFunc(func(p Vec3) float64 { return -0.1 * p.Z })
	f := BuildField(start, target, hp, 0.1, 0.6)

	force := f.LocalForce(NewVec3(0, 0.1, -1))
	// Forward is -z; uphill toward target means the force points back (+z).
	if force.Z <= 0 {
		t.Errorf("uphill local force should oppose travel, got %+v", force)
	}
	if force.Magnitude() > LocalForceScale {
		t.Errorf("local force magnitude %.4f exceeds scale cap", force.Magnitude())
	}
}

func TestFieldJSONRoundTrip(t *testing.T) {
	f := buildFlatField()

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Field
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rows() != f.Rows() || back.Cols() != f.Cols() {
		t.Errorf("grid shape changed: (%d,%d) vs (%d,%d)", back.Rows(), back.Cols(), f.Rows(), f.Cols())
	}
	if back.Target() != f.Target() || back.Start() != f.Start() {
		t.Error("endpoints changed across the round trip")
	}
	if !back.IsInHole(back.Target()) {
		t.Error("restored field lost its hole radius")
	}
}
