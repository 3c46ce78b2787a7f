package putt

import "math"

// StepObserver is invoked once per integration step with the ball state
// after the step. The core performs no logging of its own; callers that
// want step traces hook in here.
type StepObserver func(step int, position, velocity Vec3)

// Result is the outcome of one simulation pass.
type Result struct {
	Trajectory   []Vec3
	Success      bool // ball entered the hole-capture radius
	ClosestIndex int  // trajectory index nearest the target

	// LateralDeviation is the y-component of cross(closest-approach
	// direction, direct start→target direction): negative means the ball
	// tracked left of the line, positive right.
	LateralDeviation float64

	// Stopped is true when the ball came to rest below the stop threshold
	// (a power problem); false on a divergence or coverage abort (an angle
	// problem).
	Stopped bool
}

// Simulator rolls a ball over a Field in fixed time steps until it holes
// out, stops, or diverges. One Simulator may be reused across attempts; it
// holds no per-run state.
type Simulator struct {
	Field     *Field
	Speed     GreenSpeed
	MaxSpeed  float64
	StopSpeed float64
	Observer  StepObserver
}

// NewSimulator returns a simulator with the standard speed limits.
func NewSimulator(field *Field, speed GreenSpeed) *Simulator {
	return &Simulator{
		Field:     field,
		Speed:     speed,
		MaxSpeed:  MaxSpeed,
		StopSpeed: StopSpeed,
	}
}

// Simulate integrates the ball from start with the given initial velocity.
// The vertical velocity component is ignored; height is snapped to the
// terrain each step.
func (s *Simulator) Simulate(start, velocity Vec3) Result {
	pos := start
	vel := velocity.Horizontal()
	decay := s.Speed.Decay()
	target := s.Field.Target()

	trajectory := []Vec3{pos}
	closestIdx := 0
	bestDist := pos.PlanarDistance(target)
	awaySteps := 0

	res := Result{}

	for step := 0; step < MaxSteps; step++ {
		// Termination checks, in priority order.
		if s.Field.IsInHole(pos) {
			res.Success = true
			vel = Vec3{}
			break
		}
		if _, ok := s.Field.Nearest(pos); !ok {
			break // ran off the scanned surface
		}
		if awaySteps > AwayCutoffSteps {
			break // diverging from the target
		}
		speed := vel.Magnitude()
		if speed < s.StopSpeed {
			res.Stopped = true
			vel = Vec3{}
			break
		}

		// Gravity along the slope, softened by the slope-force factor and
		// scaled up as the ball slows: a slow ball feels the break more.
		fwdSlope, latSlope, _ := s.Field.InterpolatedSlope(pos)
		damping := MinSlopeDamping + (1-MinSlopeDamping)*(1-math.Min(speed/s.MaxSpeed, 1))
		aFwd := -Gravity * math.Sin(fwdSlope*math.Pi/180) * SlopeForceFactor * damping
		aLat := -Gravity * math.Sin(latSlope*math.Pi/180) * SlopeForceFactor * damping

		accel := s.Field.Forward().Times(aFwd).Plus(s.Field.Lateral().Times(aLat))
		vel = vel.Plus(accel.Times(TimeStep))
		vel = vel.Times(decay)
		pos = pos.Plus(vel.Times(TimeStep))

		// Snap to the surface.
		if mp, ok := s.Field.Nearest(pos); ok {
			pos.Y = fix(mp.Position.Y + BallRadius)
		}

		if sp := vel.Magnitude(); sp > s.MaxSpeed {
			vel = vel.Normalize().Times(s.MaxSpeed)
		}

		trajectory = append(trajectory, pos)

		d := pos.PlanarDistance(target)
		if d < bestDist {
			bestDist = d
			closestIdx = len(trajectory) - 1
			awaySteps = 0
		} else {
			awaySteps++
		}

		if s.Observer != nil {
			s.Observer(step, pos, vel)
		}
	}

	res.Trajectory = trajectory
	res.ClosestIndex = closestIdx
	res.LateralDeviation = lateralDeviation(s.Field.Start(), target, trajectory[closestIdx])
	return res
}

// lateralDeviation measures how far off the start→target line the ball's
// closest approach tracked. Negative = left of the line, positive = right;
// the path finder and shot analyzer share this convention.
func lateralDeviation(start, target, closest Vec3) float64 {
	direct := target.Minus(start).Horizontal().Normalize()
	actual := closest.Minus(start).Horizontal().Normalize()
	if direct.IsZero() || actual.IsZero() {
		return 0
	}
	return actual.Cross(direct).Y
}
