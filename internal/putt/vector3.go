package putt

import "math"

// Vec3 is a 3D vector in meters, y up. Components are kept at fixed
// precision so repeated integration stays deterministic across runs.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// fix rounds to 4 decimal places (0.1 mm), matching the precision the
// scanning pipeline delivers.
func fix(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Round(n*10000) / 10000
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: fix(x), Y: fix(y), Z: fix(z)}
}

func (v Vec3) Plus(o Vec3) Vec3 {
	return Vec3{X: fix(v.X + o.X), Y: fix(v.Y + o.Y), Z: fix(v.Z + o.Z)}
}

func (v Vec3) Minus(o Vec3) Vec3 {
	return Vec3{X: fix(v.X - o.X), Y: fix(v.Y - o.Y), Z: fix(v.Z - o.Z)}
}

func (v Vec3) Times(s float64) Vec3 {
	return Vec3{X: fix(v.X * s), Y: fix(v.Y * s), Z: fix(v.Z * s)}
}

func (v Vec3) Dot(o Vec3) float64 {
	return fix(v.X*o.X + v.Y*o.Y + v.Z*o.Z)
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: fix(v.Y*o.Z - v.Z*o.Y),
		Y: fix(v.Z*o.X - v.X*o.Z),
		Z: fix(v.X*o.Y - v.Y*o.X),
	}
}

func (v Vec3) Magnitude() float64 {
	return fix(math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
}

func (v Vec3) MagnitudeSquared() float64 {
	return fix(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Normalize() Vec3 {
	m := v.Magnitude()
	if m == 0 {
		return Vec3{}
	}
	return v.Times(1.0 / m)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// PlanarDistance is the ground-plane (x,z) distance between two points.
func (v Vec3) PlanarDistance(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return fix(math.Sqrt(dx*dx + dz*dz))
}

// Rotate rotates the vector about the vertical axis by the given angle in
// degrees. Positive angles turn the heading clockwise viewed from above,
// i.e. toward the traveller's right.
func (v Vec3) Rotate(degrees float64) Vec3 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Vec3{
		X: fix(v.X*cos - v.Z*sin),
		Y: v.Y,
		Z: fix(v.Z*cos + v.X*sin),
	}
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
