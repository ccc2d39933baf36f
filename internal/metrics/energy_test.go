package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/physics"
)

func TestEnergyValue(t *testing.T) {
	arm := physics.NewArm()
	m := NewEnergy()

	theta := math.Pi / 4
	m.Observe(dynamo.Step{X: dynamo.State{theta, 0}, System: arm})

	expected := 9.81 * (1 - math.Cos(theta))
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyMaxRise(t *testing.T) {
	arm := physics.NewArm()
	m := NewEnergy()

	m.Observe(dynamo.Step{X: dynamo.State{0.1, 0}, System: arm})
	m.Observe(dynamo.Step{X: dynamo.State{0.5, 0}, System: arm})
	m.Observe(dynamo.Step{X: dynamo.State{0.2, 0}, System: arm})

	want := arm.Energy(dynamo.State{0.5, 0}) - arm.Energy(dynamo.State{0.1, 0})
	if math.Abs(m.MaxRise()-want) > 1e-12 {
		t.Errorf("expected max rise %f, got %f", want, m.MaxRise())
	}
}

func TestEnergyIgnoresNonHamiltonian(t *testing.T) {
	m := NewEnergy()
	m.Observe(dynamo.Step{X: dynamo.State{5}, System: physics.NewMotor()})
	if m.Value() != 0 {
		t.Errorf("motor has no energy, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	arm := physics.NewArm()
	m := NewEnergyDrift()

	x0 := dynamo.State{1, 0}
	x1 := dynamo.State{1, 1}
	m.Observe(dynamo.Step{X: x0, System: arm})
	m.Observe(dynamo.Step{X: x1, System: arm})

	e0 := arm.Energy(x0)
	want := math.Abs(arm.Energy(x1)-e0) / e0
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}
}
