package putt

// HeightProvider answers surface-height queries while a field is being
// built. An implementation that has no data for a point signals that by
// returning the query point's own height unchanged; the field then falls
// back to interpolating between the start and target heights.
type HeightProvider interface {
	HeightAt(p Vec3) float64
}

// HeightFunc adapts a plain function to a HeightProvider.
type HeightFunc func(p Vec3) float64

func (f HeightFunc) HeightAt(p Vec3) float64 { return f(p) }

// FlatProvider reports a constant surface height everywhere.
type FlatProvider struct {
	Height float64
}

func (f FlatProvider) HeightAt(p Vec3) float64 { return f.Height }

// SampleProvider serves heights from a set of scanned surface samples,
// answering each query with the height of the planar-nearest sample. Queries
// farther than MaxRange from every sample are treated as no-data.
type SampleProvider struct {
	Samples  []Vec3
	MaxRange float64
}

func (s *SampleProvider) HeightAt(p Vec3) float64 {
	best := -1.0
	height := p.Y
	for _, sp := range s.Samples {
		d := sp.PlanarDistance(p)
		if best < 0 || d < best {
			best = d
			height = sp.Y
		}
	}
	if best < 0 || (s.MaxRange > 0 && best > s.MaxRange) {
		return p.Y // no data
	}
	return height
}

// Coverage reports the fraction of grid cells a provider has real data for,
// probing every cell position of a (rows, cols) layout between start and
// target. Used as a scan-quality signal by the API layer.
func Coverage(f *Field) float64 {
	if f == nil || len(f.points) == 0 {
		return 0
	}
	measured := 0
	for _, mp := range f.points {
		if mp.Measured {
			measured++
		}
	}
	return float64(measured) / float64(len(f.points))
}
