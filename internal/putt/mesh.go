package putt

import (
	"encoding/json"
	"math"
)

// MeshPoint is one sampled cell of the putting surface. Slopes are stored in
// degrees relative to the field's path axes: ForwardSlope is positive when
// the surface rises toward the target, LateralSlope is positive when it
// rises toward the path-relative right.
type MeshPoint struct {
	Position     Vec3    `json:"position"`
	ForwardSlope float64 `json:"forward_slope"`
	LateralSlope float64 `json:"lateral_slope"`
	Normal       Vec3    `json:"normal"`
	Measured     bool    `json:"measured"` // true if the height came from the provider
}

// Field is a grid of surface samples laid out between a start and target
// point: rows run along the start→target line, columns run laterally,
// symmetric about the centerline. The first row's center cell is exactly the
// start position and the last row's center cell exactly the target,
// heights included.
type Field struct {
	start      Vec3
	target     Vec3
	resolution float64 // meters per cell
	holeRadius float64
	rows, cols int
	forward    Vec3 // planar unit vector start→target
	lateral    Vec3 // forward turned 90° right
	points     []MeshPoint // row-major, index r*cols+c
}

// BuildField samples the surface between start and target on a grid with the
// given resolution (meters per cell) and total lateral width. Cells the
// provider has no data for fall back to a linear height interpolation by
// path progress. The endpoints are forced to the exact input positions.
func BuildField(start, target Vec3, hp HeightProvider, resolution, width float64) *Field {
	if resolution <= 0 {
		resolution = 0.05
	}

	dist := start.PlanarDistance(target)
	rows := int(dist/resolution) + 1
	if rows < 2 {
		rows = 2
	}
	halfCols := int(width / 2 / resolution)
	cols := 2*halfCols + 1

	forward := target.Minus(start).Horizontal().Normalize()
	lateral := forward.Rotate(90)

	f := &Field{
		start:      start,
		target:     target,
		resolution: resolution,
		holeRadius: HoleRadius,
		rows:       rows,
		cols:       cols,
		forward:    forward,
		lateral:    lateral,
		points:     make([]MeshPoint, rows*cols),
	}

	f.populateHeights(hp)
	f.computeSlopes()
	return f
}

// populateHeights fills every cell position, querying the provider and
// falling back to path-progress interpolation on no-data. Runs on build and
// again on refresh; slopes must be recomputed afterwards.
func (f *Field) populateHeights(hp HeightProvider) {
	center := f.cols / 2
	for r := 0; r < f.rows; r++ {
		t := float64(r) / float64(f.rows-1)
		baseX := fix(f.start.X + (f.target.X-f.start.X)*t)
		baseZ := fix(f.start.Z + (f.target.Z-f.start.Z)*t)
		fallbackY := fix(f.start.Y + (f.target.Y-f.start.Y)*t)

		for c := 0; c < f.cols; c++ {
			off := float64(c-center) * f.resolution
			probe := NewVec3(
				baseX+f.lateral.X*off,
				fallbackY,
				baseZ+f.lateral.Z*off,
			)

			mp := &f.points[r*f.cols+c]
			if r == 0 && c == center {
				mp.Position = f.start
				mp.Measured = true
				continue
			}
			if r == f.rows-1 && c == center {
				mp.Position = f.target
				mp.Measured = true
				continue
			}

			h := hp.HeightAt(probe)
			mp.Measured = h != probe.Y
			if !mp.Measured {
				h = fallbackY
			}
			mp.Position = Vec3{X: probe.X, Y: fix(h), Z: probe.Z}
		}
	}
}

// computeSlopes recalculates slope angles and surface normals for the whole
// grid. Always runs as a single pass so no cell is left with stale values.
func (f *Field) computeSlopes() {
	for r := 0; r < f.rows; r++ {
		for c := 0; c < f.cols; c++ {
			mp := &f.points[r*f.cols+c]
			mp.ForwardSlope = f.slopeBetween(r, c, r+1, c, r-1, c)
			mp.LateralSlope = f.slopeBetween(r, c, r, c+1, r, c-1)
			mp.Normal = f.normalAt(r, c)
		}
	}
}

// slopeBetween returns the pitch in degrees from (r,c) toward its next
// neighbor, falling back to the previous neighbor at the grid edge.
func (f *Field) slopeBetween(r, c, nr, nc, pr, pc int) float64 {
	cur := f.points[r*f.cols+c].Position
	if next, ok := f.pointAt(nr, nc); ok {
		run := cur.PlanarDistance(next.Position)
		if run == 0 {
			return 0
		}
		return fix(math.Atan2(next.Position.Y-cur.Y, run) * 180 / math.Pi)
	}
	if prev, ok := f.pointAt(pr, pc); ok {
		run := prev.Position.PlanarDistance(cur)
		if run == 0 {
			return 0
		}
		return fix(math.Atan2(cur.Y-prev.Position.Y, run) * 180 / math.Pi)
	}
	return 0
}

// normalAt averages the up-facing cross products of adjacent edge-vector
// pairs around the cell. Cells with no valid contributor point straight up.
func (f *Field) normalAt(r, c int) Vec3 {
	cur := f.points[r*f.cols+c].Position

	// Edge vectors in circular order: forward, right, backward, left.
	neighbors := [4][2]int{{r + 1, c}, {r, c + 1}, {r - 1, c}, {r, c - 1}}
	var edges [4]*Vec3
	for i, n := range neighbors {
		if mp, ok := f.pointAt(n[0], n[1]); ok {
			e := mp.Position.Minus(cur)
			edges[i] = &e
		}
	}

	sum := Vec3{}
	count := 0
	for i := 0; i < 4; i++ {
		a, b := edges[i], edges[(i+1)%4]
		if a == nil || b == nil {
			continue
		}
		n := a.Cross(*b)
		if n.Y < 0 {
			n = n.Times(-1)
		}
		if n.IsZero() {
			continue
		}
		sum = sum.Plus(n.Normalize())
		count++
	}
	if count == 0 {
		return Vec3{Y: 1}
	}
	return sum.Normalize()
}

func (f *Field) pointAt(r, c int) (*MeshPoint, bool) {
	if r < 0 || r >= f.rows || c < 0 || c >= f.cols {
		return nil, false
	}
	return &f.points[r*f.cols+c], true
}

// RefreshHeights re-queries every cell height from the provider and
// recomputes slopes and normals. Start/target stay fixed; only the height
// field changes.
func (f *Field) RefreshHeights(hp HeightProvider) {
	f.populateHeights(hp)
	f.computeSlopes()
}

// Nearest returns the grid point closest to p by planar distance. Reports
// false only when the grid is empty.
func (f *Field) Nearest(p Vec3) (*MeshPoint, bool) {
	var best *MeshPoint
	bestDist := math.MaxFloat64
	for i := range f.points {
		d := f.points[i].Position.PlanarDistance(p)
		if d < bestDist {
			bestDist = d
			best = &f.points[i]
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// InterpolatedSlope returns inverse-squared-distance weighted forward and
// lateral slope at p, over grid points within 2× the grid resolution. With
// no point in range it falls back to the single nearest point.
func (f *Field) InterpolatedSlope(p Vec3) (forward, lateral float64, ok bool) {
	maxRange := 2 * f.resolution
	var wSum, fSum, lSum float64
	for i := range f.points {
		mp := &f.points[i]
		d := mp.Position.PlanarDistance(p)
		if d > maxRange {
			continue
		}
		if d < 1e-6 {
			return mp.ForwardSlope, mp.LateralSlope, true
		}
		w := 1 / (d * d)
		wSum += w
		fSum += w * mp.ForwardSlope
		lSum += w * mp.LateralSlope
	}
	if wSum > 0 {
		return fix(fSum / wSum), fix(lSum / wSum), true
	}
	mp, found := f.Nearest(p)
	if !found {
		return 0, 0, false
	}
	return mp.ForwardSlope, mp.LateralSlope, true
}

// IsInHole reports whether p lies within the hole-capture radius of the
// target, by planar distance.
func (f *Field) IsInHole(p Vec3) bool {
	return p.PlanarDistance(f.target) < f.holeRadius
}

// LocalForce converts the interpolated slope at p into a small in-plane
// force vector pulling the ball downhill. Using sin(angle) keeps the force
// saturating smoothly on steep slopes instead of growing linearly.
func (f *Field) LocalForce(p Vec3) Vec3 {
	fwd, lat, ok := f.InterpolatedSlope(p)
	if !ok {
		return Vec3{}
	}
	ff := -math.Sin(fwd*math.Pi/180) * LocalForceScale
	lf := -math.Sin(lat*math.Pi/180) * LocalForceScale
	return f.forward.Times(ff).Plus(f.lateral.Times(lf))
}

func (f *Field) Start() Vec3         { return f.start }
func (f *Field) Target() Vec3        { return f.target }
func (f *Field) Resolution() float64 { return f.resolution }
func (f *Field) HoleRadius() float64 { return f.holeRadius }
func (f *Field) Rows() int           { return f.rows }
func (f *Field) Cols() int           { return f.cols }

// Forward is the planar unit vector along the start→target line.
func (f *Field) Forward() Vec3 { return f.forward }

// Lateral is the forward vector turned 90° toward the path-relative right.
func (f *Field) Lateral() Vec3 { return f.lateral }

// PointAt returns the mesh point at (row, col).
func (f *Field) PointAt(row, col int) (*MeshPoint, bool) {
	return f.pointAt(row, col)
}

// fieldJSON is the wire form used when caching a built field in Redis.
type fieldJSON struct {
	Start      Vec3        `json:"start"`
	Target     Vec3        `json:"target"`
	Resolution float64     `json:"resolution"`
	HoleRadius float64     `json:"hole_radius"`
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Forward    Vec3        `json:"forward"`
	Lateral    Vec3        `json:"lateral"`
	Points     []MeshPoint `json:"points"`
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Start:      f.start,
		Target:     f.target,
		Resolution: f.resolution,
		HoleRadius: f.holeRadius,
		Rows:       f.rows,
		Cols:       f.cols,
		Forward:    f.forward,
		Lateral:    f.lateral,
		Points:     f.points,
	})
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var fj fieldJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	f.start = fj.Start
	f.target = fj.Target
	f.resolution = fj.Resolution
	f.holeRadius = fj.HoleRadius
	f.rows = fj.Rows
	f.cols = fj.Cols
	f.forward = fj.Forward
	f.lateral = fj.Lateral
	f.points = fj.Points
	return nil
}
