package putt

import (
	"math"
	"testing"
)

func TestRotatePositiveIsRightward(t *testing.T) {
	// Heading toward -z with y up, a positive angle must swing toward +x.
	heading := NewVec3(0, 0, -1)
	turned := heading.Rotate(10)

	if turned.X <= 0 {
		t.Errorf("positive rotation moved heading to x=%.4f, want rightward (+x)", turned.X)
	}
	if math.Abs(turned.Magnitude()-1) > 1e-3 {
		t.Errorf("rotation changed magnitude to %.4f", turned.Magnitude())
	}
}

func TestRotateFullCircle(t *testing.T) {
	v := NewVec3(0.6, 0, -0.8)
	back := v.Rotate(360)
	if math.Abs(back.X-v.X) > 1e-3 || math.Abs(back.Z-v.Z) > 1e-3 {
		t.Errorf("360° rotation moved %+v to %+v", v, back)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if !(Vec3{}).Normalize().IsZero() {
		t.Error("normalizing the zero vector must stay zero, not NaN")
	}
}

func TestPlanarDistanceIgnoresHeight(t *testing.T) {
	a := NewVec3(0, 5, 0)
	b := NewVec3(3, -2, 4)
	if d := a.PlanarDistance(b); d != 5 {
		t.Errorf("planar distance = %.4f, want 5 (heights ignored)", d)
	}
}

func TestCrossRightHanded(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("x × y = %+v, want +z", got)
	}
}
