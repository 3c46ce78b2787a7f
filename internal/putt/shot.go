package putt

// Shot is one completed simulation attempt. Immutable once built; the
// planner accumulates these across a session.
type Shot struct {
	Angle        float64 `json:"angle"` // degrees off the straight line, positive = right
	Power        float64 `json:"power"` // fraction of max speed
	Trajectory   []Vec3  `json:"trajectory"`
	Success      bool    `json:"success"`
	ClosestIndex int     `json:"closest_index"`

	// Simulator side-outputs, used to steer the next attempt.
	LateralDeviation float64 `json:"lateral_deviation"` // signed, negative = left
	Stopped          bool    `json:"stopped"`           // came to rest (power problem) vs diverged (angle problem)
}

// ClosestApproach returns the trajectory point nearest the target.
func (s Shot) ClosestApproach() (Vec3, bool) {
	if s.ClosestIndex < 0 || s.ClosestIndex >= len(s.Trajectory) {
		return Vec3{}, false
	}
	return s.Trajectory[s.ClosestIndex], true
}

// FinalPosition returns the last trajectory point.
func (s Shot) FinalPosition() (Vec3, bool) {
	if len(s.Trajectory) == 0 {
		return Vec3{}, false
	}
	return s.Trajectory[len(s.Trajectory)-1], true
}
