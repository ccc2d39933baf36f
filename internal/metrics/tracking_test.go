package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
)

func steps(dt float64, errs ...float64) []dynamo.Step {
	out := make([]dynamo.Step, len(errs))
	for i, e := range errs {
		out[i] = dynamo.Step{T: float64(i) * dt, Dt: dt, Err: e, U: dynamo.Control{e}}
	}
	return out
}

func observe(m dynamo.Metric, ss []dynamo.Step) {
	for _, s := range ss {
		m.Observe(s)
	}
}

func TestIAE(t *testing.T) {
	m := NewIAE()
	observe(m, steps(0.5, 2, -2, 1))
	if m.Value() != 2.5 {
		t.Errorf("expected 2.5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestOvershoot(t *testing.T) {
	tests := []struct {
		name string
		errs []float64
		want float64
	}{
		{"rising with overshoot", []float64{10, 5, -3, -1, 0}, 3},
		{"falling with overshoot", []float64{-10, -2, 4, 1}, 4},
		{"no overshoot", []float64{10, 5, 1, 0.1}, 0},
		{"starts at goal", []float64{0, 0, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewOvershoot()
			observe(m, steps(0.1, tt.errs...))
			if m.Value() != tt.want {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.1)
	observe(m, steps(1, 10, 5, 2, 0.5, 1.5, 0.5, 0.2))
	// last excursion beyond 1.0 is measured at t=4; the next sample is at t=5
	if m.Value() != 5 {
		t.Errorf("expected settling time 5, got %f", m.Value())
	}

	m.Reset()
	observe(m, steps(1, 10, 0.5, 0.1))
	if m.Value() != 1 {
		t.Errorf("expected settling time 1, got %f", m.Value())
	}

	// outside the band on the last observed step: settles at the end of the run
	m.Reset()
	observe(m, steps(0.5, 10, 0.5, 3))
	if m.Value() != 1.5 {
		t.Errorf("expected settling time 1.5, got %f", m.Value())
	}
}

func TestErrorStats(t *testing.T) {
	m := NewErrorStats()
	observe(m, steps(0.1, 2, 4, 4, 4, 5, 5, 7, 9))

	mean, std := m.MeanStd()
	if mean != 5 {
		t.Errorf("expected mean 5, got %f", mean)
	}
	// unbiased estimator: sqrt(32/7)
	if math.Abs(std-math.Sqrt(32.0/7.0)) > 1e-12 {
		t.Errorf("expected std %f, got %f", math.Sqrt(32.0/7.0), std)
	}
	if math.Abs(m.RMS()-math.Sqrt(29)) > 1e-12 {
		t.Errorf("expected rms %f, got %f", math.Sqrt(29), m.RMS())
	}

	m.Reset()
	if mean, std := m.MeanStd(); mean != 0 || std != 0 {
		t.Error("expected zero stats after reset")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	observe(m, steps(0.1, 1, -3, 2))
	if m.Value() != 2 {
		t.Errorf("expected mean effort 2, got %f", m.Value())
	}
	if m.Peak() != 3 {
		t.Errorf("expected peak 3, got %f", m.Peak())
	}
}

func TestChatter(t *testing.T) {
	m := NewChatter()
	// 0 does not break a run of equal signs
	observe(m, steps(0.25, 1, -1, 0, -2, 3, 1, -1, 2))
	if m.Value() != 2 {
		t.Errorf("expected 2 reversals/s, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	m.Observe(dynamo.Step{X: dynamo.State{1}, Y: 1})
	m.Observe(dynamo.Step{X: dynamo.State{20}, Y: 20})
	m.Observe(dynamo.Step{X: dynamo.State{math.NaN()}, Y: 0})
	m.Observe(dynamo.Step{X: dynamo.State{-3}, Y: -3})
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}
