package putt

// Physics and search constants for the putt planner. The search tolerances
// and boost factors are tuned values; changing them changes planner behavior
// in ways the regression tests pin down.

const (
	// Integration
	TimeStep   = 0.01 // s
	Gravity    = 9.81 // m/s²
	BallRadius = 0.021 // m, regulation golf ball
	MaxSpeed   = 4.0  // m/s, full-power putt
	StopSpeed  = 0.05 // m/s, below this the ball is at rest

	// Slope response
	SlopeForceFactor = 0.35  // fraction of gravity-on-slope applied per step
	LocalForceScale  = 0.015 // converts sin(slope) to an in-plane force
	MinSlopeDamping  = 0.8   // slope influence at full speed; rises to 1 at rest

	// Termination
	MaxSteps        = 700 // hard cutoff per simulation
	AwayCutoffSteps = 40  // consecutive steps without a new closest approach

	// Hole capture
	HoleRadius = 0.05 // m

	// Angle search
	InitialAngleIncrement = 3.0 // degrees
	OscillationTolerance  = 0.1 // degrees; revisited angle halves the increment

	// Planner
	DefaultMaxShots      = 50
	MaxTotalPowerBoosts  = 8
	MaxPhaseBoosts       = 3
	ShortShotMinAttempts = 3
	RepeatAngleTolerance = 0.5 // degrees
	RepeatPowerTolerance = 0.1
	ShortBoostFactor     = 1.3
	MaxBoostFactor       = 3.0
	PhaseTwoPowerFactor  = 1.10

	// Shot analysis
	ShortfallThreshold = 0.15 // m
	LateralThreshold   = 0.05
)

// GreenSpeed selects the per-step velocity decay of the putting surface.
type GreenSpeed string

const (
	GreenSlow     GreenSpeed = "slow"
	GreenMedium   GreenSpeed = "medium"
	GreenFast     GreenSpeed = "fast"
	GreenVeryFast GreenSpeed = "very_fast"
)

// Decay returns the per-step velocity retention factor. A firmer green keeps
// more speed each step.
func (g GreenSpeed) Decay() float64 {
	switch g {
	case GreenSlow:
		return 0.988
	case GreenMedium:
		return 0.991
	case GreenFast:
		return 0.994
	case GreenVeryFast:
		return 0.997
	default:
		return 0.991
	}
}

// Valid reports whether g names one of the supported green speeds.
func (g GreenSpeed) Valid() bool {
	switch g {
	case GreenSlow, GreenMedium, GreenFast, GreenVeryFast:
		return true
	}
	return false
}
