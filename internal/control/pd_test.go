package control

import (
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
)

type samples []dynamo.Sample

func (s samples) Len() int               { return len(s) }
func (s samples) At(i int) dynamo.Sample { return s[i] }

func TestPDProportional(t *testing.T) {
	pd := NewPD(2, 0, 0.004)

	u := pd.Compute(1, 4, nil)
	if u != 6 {
		t.Errorf("expected 6, got %f", u)
	}
}

func TestPDWrapTakesShortestPath(t *testing.T) {
	pd := NewPD(1, 0, 0.004)

	if e := pd.Error(170, -170); e != -340 {
		t.Errorf("unwrapped error = %f, want -340", e)
	}

	pd.Wrap = true
	if e := pd.Error(170, -170); e != 20 {
		t.Errorf("wrapped error = %f, want 20", e)
	}
	if u := pd.Compute(170, -170, nil); u != 20 {
		t.Errorf("wrapped output = %f, want 20", u)
	}
}

func TestPDWrapRange(t *testing.T) {
	pd := NewPD(1, 0, 0.004)
	pd.Wrap = true

	for y := -720.0; y <= 720; y += 13 {
		for goal := -540.0; goal <= 540; goal += 29 {
			e := pd.Error(y, goal)
			if e < -180 || e > 180 {
				t.Fatalf("Error(%v, %v) = %v out of range", y, goal, e)
			}
			turns := (goal - y - e) / 360
			if math.Abs(turns-math.Round(turns)) > 1e-9 {
				t.Fatalf("Error(%v, %v) = %v not congruent", y, goal, e)
			}
		}
	}
}

func TestPDDerivativeColdStart(t *testing.T) {
	pd := NewPD(0, 1, 0.004)

	tests := []struct {
		name string
		h    dynamo.History
	}{
		{"nil history", nil},
		{"empty", samples{}},
		{"one sample", samples{{T: 0.004, Y: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := pd.Derivative(10, tt.h); d != 0 {
				t.Errorf("expected zero derivative, got %f", d)
			}
		})
	}
}

func TestPDDerivativeUsesLastTwoSamples(t *testing.T) {
	pd := NewPD(0, 0.5, 0.004)
	h := samples{{T: 0.004, Y: 100}, {T: 0.008, Y: 1}, {T: 0.012, Y: 1.2}}

	// errors: 10-1 = 9, 10-1.2 = 8.8
	want := 0.5 * (8.8 - 9) / 0.004
	if d := pd.Derivative(10, h); math.Abs(d-want) > 1e-9 {
		t.Errorf("derivative = %f, want %f", d, want)
	}
}

func TestPDDerivativeWrapsAcrossSeam(t *testing.T) {
	pd := NewPD(0, 1, 0.004)
	pd.Wrap = true
	h := samples{{T: 0.004, Y: 179}, {T: 0.008, Y: -179}}

	// errors: wrap(0-179) = -179, wrap(0+179) = 179
	want := (179.0 - (-179.0)) / 0.004
	if d := pd.Derivative(0, h); math.Abs(d-want) > 1e-6 {
		t.Errorf("derivative = %f, want %f", d, want)
	}
}

func TestPDFeedForward(t *testing.T) {
	pd := NewPD(0, 0, 0.004)

	pd.FeedForward = Gravity{Kg: 2}
	if u := pd.Compute(math.Pi/2, 0, nil); math.Abs(u-2) > 1e-12 {
		t.Errorf("gravity term = %f, want 2", u)
	}

	pd.FeedForward = Velocity{Kff: 0.01}
	if u := pd.Compute(0, 300, nil); math.Abs(u-3) > 1e-12 {
		t.Errorf("velocity term = %f, want 3", u)
	}
}

func TestPDUnclamped(t *testing.T) {
	pd := NewPD(1e6, 0, 0.004)
	if u := pd.Compute(0, 1e6, nil); u != 1e12 {
		t.Errorf("expected unclamped output 1e12, got %g", u)
	}
}
