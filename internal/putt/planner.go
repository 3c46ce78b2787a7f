package putt

import "math"

// triedCombo records one (angle, power) pair already attempted in the
// current phase.
type triedCombo struct {
	angle float64
	power float64
}

// Planner runs the bounded multi-attempt search: two escalating power
// phases, each capped at MaxShots attempts, with a shared cap on power
// boosts. It is a heuristic search with no optimality guarantee; it always
// terminates. One Planner per planning session.
type Planner struct {
	Sim      *Simulator
	Finder   *PathFinder
	Field    *Field
	MaxShots int
	Renderer Renderer

	shots       []Shot
	best        *Shot
	bestDist    float64
	totalBoosts int
}

func NewPlanner(sim *Simulator, finder *PathFinder, field *Field, maxShots int) *Planner {
	if maxShots <= 0 {
		maxShots = DefaultMaxShots
	}
	return &Planner{
		Sim:      sim,
		Finder:   finder,
		Field:    field,
		MaxShots: maxShots,
		Renderer: NopRenderer{},
	}
}

// InitialPower derives a starting power scale from the putt geometry: the
// initial speed that covers the start→target distance under pure friction
// decay, expressed as a fraction of max speed. Slope correction is left to
// the boost loop.
func InitialPower(start, target Vec3, field *Field, speed GreenSpeed) float64 {
	dist := start.PlanarDistance(target)
	if dist == 0 {
		return 0
	}
	// Sum of v0·decay^n·dt converges to v0·dt/(1-decay).
	v0 := dist * (1 - speed.Decay()) / TimeStep
	power := v0 / MaxSpeed * 1.05 // slight overshoot so the ball reaches the hole
	return fix(math.Min(math.Max(power, 0.1), 1.5))
}

// PlanShots searches for a holing shot and returns every attempt made, in
// order. On return the best (or successful) path has been handed to the
// renderer. "No solution" shows up as success == false on every shot, never
// as an absent result.
func (p *Planner) PlanShots(start, target Vec3) []Shot {
	p.shots = nil
	p.best = nil
	p.bestDist = math.MaxFloat64
	p.totalBoosts = 0

	basePower := InitialPower(start, target, p.Field, p.Sim.Speed)

	if !p.runPhase(start, target, basePower) {
		// Phase 2: restart slightly hotter with a fresh angle sweep.
		p.runPhase(start, target, fix(basePower*PhaseTwoPowerFactor))
	}

	if p.best != nil && p.Renderer != nil {
		p.Renderer.Draw(p.best.Trajectory, target)
	}
	return p.shots
}

// runPhase performs up to MaxShots attempts at an escalating power level.
// Returns true on a holed shot.
func (p *Planner) runPhase(start, target Vec3, power float64) bool {
	p.Finder.Reset()
	targetDist := start.PlanarDistance(target)

	var tried []triedCombo
	localBoosts := 0
	prevDeviation := 0.0
	attempts := 0

	for attempts < p.MaxShots {
		shot := p.Finder.NextShot(p.Sim, p.Field, power, prevDeviation)

		// The search has circled back to a combination it already tried:
		// escalate power by how far the last attempt fell short and sweep
		// angles again. Does not consume an attempt.
		if p.isRepeat(tried, shot) && localBoosts < MaxPhaseBoosts && p.totalBoosts < MaxTotalPowerBoosts {
			ratio := p.lastShortfall(start, target) / targetDist
			mult := math.Min((1+ratio)*(1+ratio), MaxBoostFactor)
			power = fix(power * mult)
			p.Finder.Reset()
			tried = tried[:0]
			localBoosts++
			p.totalBoosts++
			prevDeviation = 0
			continue
		}

		tried = append(tried, triedCombo{angle: shot.Angle, power: shot.Power})
		attempts++
		p.shots = append(p.shots, shot)
		p.trackBest(shot, target)

		if shot.Success {
			return true
		}

		// A settled search that still reads short is a power problem.
		if attempts >= ShortShotMinAttempts &&
			localBoosts < MaxPhaseBoosts && p.totalBoosts < MaxTotalPowerBoosts &&
			Analyze(shot, start, target).Verdict == VerdictShort {
			power = fix(power * ShortBoostFactor)
			localBoosts++
			p.totalBoosts++
		}

		prevDeviation = shot.LateralDeviation
	}
	return false
}

func (p *Planner) isRepeat(tried []triedCombo, shot Shot) bool {
	for _, t := range tried {
		if math.Abs(t.angle-shot.Angle) < RepeatAngleTolerance &&
			math.Abs(t.power-shot.Power) < RepeatPowerTolerance {
			return true
		}
	}
	return false
}

// lastShortfall is the shortfall of the most recent recorded attempt, used
// to size the repeat-combination power boost.
func (p *Planner) lastShortfall(start, target Vec3) float64 {
	if len(p.shots) == 0 {
		return 0
	}
	return Analyze(p.shots[len(p.shots)-1], start, target).Shortfall
}

// trackBest keeps the single best attempt by closest-approach distance.
// A holed shot always wins outright.
func (p *Planner) trackBest(shot Shot, target Vec3) {
	if p.best != nil && p.best.Success {
		return
	}
	if shot.Success {
		s := shot
		p.best = &s
		p.bestDist = 0
		return
	}
	closest, ok := shot.ClosestApproach()
	if !ok {
		return
	}
	d := closest.PlanarDistance(target)
	if d < p.bestDist {
		s := shot
		p.best = &s
		p.bestDist = d
	}
}

// Best returns the best attempt found, if any.
func (p *Planner) Best() (Shot, bool) {
	if p.best == nil {
		return Shot{}, false
	}
	return *p.best, true
}

// TotalBoosts reports how many power boosts the last run applied.
func (p *Planner) TotalBoosts() int { return p.totalBoosts }

// PlanShots is the package-level planning entry point. The field must be
// built over the same (start, target) pair.
func PlanShots(start, target Vec3, sim *Simulator, finder *PathFinder, field *Field, maxShots int) []Shot {
	return NewPlanner(sim, finder, field, maxShots).PlanShots(start, target)
}

// FindBestShot runs a single adaptive attempt at the supplied power scale,
// steering off the finder's previously observed deviation.
func FindBestShot(start, target Vec3, sim *Simulator, finder *PathFinder, field *Field, powerScale float64) Shot {
	return finder.NextShot(sim, field, powerScale, finder.lastDeviation)
}
