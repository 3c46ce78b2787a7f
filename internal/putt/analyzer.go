package putt

import "math"

// Verdict classifies how a completed trial missed, if it did.
type Verdict string

const (
	VerdictShort    Verdict = "short"
	VerdictLeft     Verdict = "left"
	VerdictRight    Verdict = "right"
	VerdictAccurate Verdict = "accurate"
)

// Analysis summarizes a trial: how far it stopped short of the target and
// how far it strayed off the line. Derived on demand, never stored.
type Analysis struct {
	Shortfall        float64 `json:"shortfall"`         // meters, >= 0
	LateralDeviation float64 `json:"lateral_deviation"` // magnitude
	Verdict          Verdict `json:"verdict"`
}

// Analyze classifies a shot relative to the start→target line. A shortfall
// over 0.15 m reads as a power problem regardless of direction; otherwise a
// lateral deviation over 0.05 reads as left or right by sign. An empty
// trajectory yields a neutral accurate result.
func Analyze(shot Shot, start, target Vec3) Analysis {
	final, ok := shot.FinalPosition()
	if !ok {
		return Analysis{Verdict: VerdictAccurate}
	}

	targetDist := start.PlanarDistance(target)
	traveled := start.PlanarDistance(final)
	shortfall := math.Max(0, fix(targetDist-traveled))

	signed := lateralDeviation(start, target, final)
	lateral := math.Abs(signed)

	a := Analysis{Shortfall: shortfall, LateralDeviation: lateral}
	switch {
	case shortfall > ShortfallThreshold:
		a.Verdict = VerdictShort
	case lateral > LateralThreshold && signed < 0:
		a.Verdict = VerdictLeft
	case lateral > LateralThreshold:
		a.Verdict = VerdictRight
	default:
		a.Verdict = VerdictAccurate
	}
	return a
}
