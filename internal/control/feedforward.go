package control

import "math"

// FeedForward adds an open-loop term computed from the measured value and
// the goal.
type FeedForward interface {
	Term(y, goal float64) float64
}

// Gravity cancels the torque of an arm hanging at angle y (radians).
type Gravity struct {
	Kg float64
}

func (g Gravity) Term(y, goal float64) float64 {
	return g.Kg * math.Sin(y)
}

// Velocity commands the output expected to hold the goal velocity.
type Velocity struct {
	Kff float64
}

func (v Velocity) Term(y, goal float64) float64 {
	return v.Kff * goal
}
