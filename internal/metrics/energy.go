package metrics

import (
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
)

// Energy reports the latest mechanical energy of plants that expose one.
// It also tracks the largest step-to-step increase, which stays at zero for
// a passive plant with friction.
type Energy struct {
	name    string
	current float64
	maxRise float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Step) {
	h, ok := s.System.(dynamo.Hamiltonian)
	if !ok {
		return
	}
	energy := h.Energy(s.X)
	if e.samples > 0 {
		e.maxRise = math.Max(e.maxRise, energy-e.current)
	}
	e.current = energy
	e.samples++
}

func (e *Energy) Value() float64 {
	return e.current
}

func (e *Energy) MaxRise() float64 { return e.maxRise }

func (e *Energy) Reset() {
	e.current = 0
	e.maxRise = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the first observed
// energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Step) {
	h, ok := s.System.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(s.X)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
