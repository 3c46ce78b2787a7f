package putt

import "math"

// PathFinder holds the angle-search state for one planning session. Each
// call produces a single trial: it nudges the aim angle opposite to the
// previous trial's lateral deviation and halves its step when the search
// starts revisiting angles. State is caller-owned and must not be shared
// between sessions.
type PathFinder struct {
	angle          float64 // current aim angle, degrees
	previous       float64
	beforePrevious float64
	increment      float64
	started        bool
	lastDeviation  float64 // deviation reported by the most recent trial
}

func NewPathFinder() *PathFinder {
	return &PathFinder{increment: InitialAngleIncrement}
}

// Reset clears all search state. The planner calls this whenever it changes
// power level and wants a fresh angle sweep.
func (pf *PathFinder) Reset() {
	pf.angle = 0
	pf.previous = 0
	pf.beforePrevious = 0
	pf.increment = InitialAngleIncrement
	pf.started = false
	pf.lastDeviation = 0
}

// nextAngle advances the search given the previous trial's reported lateral
// deviation. A zero deviation on the first call of a session means "no
// prior trial": start straight at the target.
func (pf *PathFinder) nextAngle(prevDeviation float64) float64 {
	if !pf.started && prevDeviation == 0 {
		pf.started = true
		pf.angle = 0
		pf.increment = InitialAngleIncrement
		return pf.angle
	}
	pf.started = true

	// Oscillation: if we are back at the angle used three calls ago the
	// search is bouncing across the answer; narrow the step.
	if math.Abs(pf.beforePrevious-pf.angle) < OscillationTolerance && pf.angle != pf.previous {
		pf.increment /= 2
	}

	next := pf.angle
	if prevDeviation < 0 {
		// Ball finished left of the line; steer right.
		next += pf.increment
	} else if prevDeviation > 0 {
		next -= pf.increment
	}

	pf.beforePrevious = pf.previous
	pf.previous = pf.angle
	pf.angle = next
	return next
}

// NextShot chooses a trial angle from the previous trial's deviation, aims
// the direct start→target line rotated by that angle at power × max speed,
// and runs one simulation.
func (pf *PathFinder) NextShot(sim *Simulator, field *Field, power, prevDeviation float64) Shot {
	angle := pf.nextAngle(prevDeviation)

	dir := field.Target().Minus(field.Start()).Horizontal().Normalize()
	velocity := dir.Rotate(angle).Times(power * sim.MaxSpeed)

	res := sim.Simulate(field.Start(), velocity)
	pf.lastDeviation = res.LateralDeviation
	return Shot{
		Angle:            angle,
		Power:            power,
		Trajectory:       res.Trajectory,
		Success:          res.Success,
		ClosestIndex:     res.ClosestIndex,
		LateralDeviation: res.LateralDeviation,
		Stopped:          res.Stopped,
	}
}

// Angle returns the current aim angle, for diagnostics.
func (pf *PathFinder) Angle() float64 { return pf.angle }

// Increment returns the current search step, for diagnostics.
func (pf *PathFinder) Increment() float64 { return pf.increment }
