package physics

import "github.com/san-kum/pidsim/internal/dynamo"

// Motor is a spinning shaft with linear drag. State is [velocity].
type Motor struct {
	Friction   float64
	OutputGain float64
}

func NewMotor() *Motor {
	return &Motor{
		Friction:   1.0,
		OutputGain: 100,
	}
}

func (m *Motor) StateDim() int    { return 1 }
func (m *Motor) ControlDim() int  { return 1 }
func (m *Motor) PositionDim() int { return 0 }

func (m *Motor) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	output := 0.0
	if len(u) > 0 {
		output = u[0]
	}
	return dynamo.State{output*m.OutputGain - m.Friction*x[0]}
}

func (m *Motor) Measure(x dynamo.State) float64 { return x[0] }
