package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

// System is a plant: it reports rates of change for a state under a
// commanded output.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// SecondOrder systems lay their state out as positions followed by
// velocities. PositionDim reports how many leading components are positions.
type SecondOrder interface {
	PositionDim() int
}

// Normalizer folds a state back into its canonical range after a step.
type Normalizer interface {
	Normalize(x State) State
}

// Measurable exposes the scalar a controller regulates and the strip chart
// plots.
type Measurable interface {
	Measure(x State) float64
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Sample is one point of the displayed history.
type Sample struct {
	T float64
	Y float64
}

// History is read-only access to recorded samples, oldest first.
type History interface {
	Len() int
	At(i int) Sample
}

type Controller interface {
	Error(y, goal float64) float64
	Compute(y, goal float64, h History) float64
}

// Step is one fixed step of a run as seen by metrics and observers: the
// state before the plant advances and the output about to be applied.
type Step struct {
	T      float64
	Dt     float64
	X      State
	U      Control
	Y      float64
	Goal   float64
	Err    float64
	System System
}

type Metric interface {
	Name() string
	Observe(s Step)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Step)
}

// Resetter is implemented by observers that keep per-run state.
type Resetter interface {
	Reset()
}
