package physics

import (
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
)

// PointMass translates along one axis under a commanded force and Coulomb
// friction. State is [position, velocity]. With Wrap set the position is an
// angle in degrees folded into [-180, 180] after every step, which turns the
// mass into a freely spinning dial.
type PointMass struct {
	Friction   float64
	OutputGain float64
	Wrap       bool
}

func NewPointMass() *PointMass {
	return &PointMass{
		OutputGain: 100,
	}
}

func (p *PointMass) StateDim() int    { return 2 }
func (p *PointMass) ControlDim() int  { return 1 }
func (p *PointMass) PositionDim() int { return 1 }

func (p *PointMass) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	velocity := x[1]

	output := 0.0
	if len(u) > 0 {
		output = u[0]
	}
	accel := output*p.OutputGain - p.Friction*sign(velocity)

	return dynamo.State{velocity, accel}
}

func (p *PointMass) Measure(x dynamo.State) float64 { return x[0] }

func (p *PointMass) Normalize(x dynamo.State) dynamo.State {
	if !p.Wrap {
		return x
	}
	x[0] = WrapDegrees(x[0])
	return x
}

// WrapDegrees folds an angle into [-180, 180] by whole turns.
func WrapDegrees(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	for a < -180 {
		a += 360
	}
	for a > 180 {
		a -= 360
	}
	return a
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
