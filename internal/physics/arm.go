package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
)

// Arm is a rigid arm pivoting under gravity, driven by a motor whose
// commanded output is scaled by OutputGain. State is [theta, omega] with
// theta measured from straight down.
//
// Friction acts on sin(omega) rather than omega itself. The term is kept
// so the arm swings the way the demo always has.
type Arm struct {
	Mass       float64
	Length     float64
	Gravity    float64
	Friction   float64
	OutputGain float64
}

func NewArm() *Arm {
	return &Arm{
		Mass:       1.0,
		Length:     1.0,
		Gravity:    9.81,
		Friction:   0.5,
		OutputGain: 200,
	}
}

func (a *Arm) StateDim() int    { return 2 }
func (a *Arm) ControlDim() int  { return 1 }
func (a *Arm) PositionDim() int { return 1 }

func (a *Arm) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	output := 0.0
	if len(u) > 0 {
		output = u[0]
	}
	inertia := a.Mass * a.Length * a.Length
	alpha := (-a.Mass*a.Gravity*math.Sin(theta) - a.Friction*math.Sin(omega) + output*a.OutputGain) / inertia

	return dynamo.State{omega, alpha}
}

func (a *Arm) Measure(x dynamo.State) float64 { return x[0] }

func (a *Arm) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * L^2 * omega^2
	// PE = m * g * (1 - cos(theta)), matching the torque term above
	ke := 0.5 * a.Mass * a.Length * a.Length * x[1] * x[1]
	pe := a.Mass * a.Gravity * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (a *Arm) Validate() error {
	if a.Mass <= 0 {
		return fmt.Errorf("mass %g: %w", a.Mass, dynamo.ErrParameterBounds)
	}
	if a.Length <= 0 {
		return fmt.Errorf("length %g: %w", a.Length, dynamo.ErrParameterBounds)
	}
	return nil
}
