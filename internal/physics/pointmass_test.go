package physics

import (
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
)

func TestPointMassCoulombFriction(t *testing.T) {
	p := NewPointMass()
	p.Friction = 3

	tests := []struct {
		name     string
		velocity float64
		accel    float64
	}{
		{"moving forward", 2, -3},
		{"moving backward", -2, 3},
		{"at rest", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := p.Derive(dynamo.State{0, tt.velocity}, dynamo.Control{0}, 0)
			if dx[0] != tt.velocity {
				t.Errorf("position rate = %f, want %f", dx[0], tt.velocity)
			}
			if dx[1] != tt.accel {
				t.Errorf("acceleration = %f, want %f", dx[1], tt.accel)
			}
		})
	}
}

func TestPointMassNormalize(t *testing.T) {
	p := NewPointMass()

	x := p.Normalize(dynamo.State{190, 0})
	if x[0] != 190 {
		t.Errorf("unwrapped mass should keep position, got %f", x[0])
	}

	p.Wrap = true
	x = p.Normalize(dynamo.State{190, 0})
	if x[0] != -170 {
		t.Errorf("expected -170, got %f", x[0])
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{181, -179},
		{-181, 179},
		{340, -20},
		{-340, 20},
		{1080 + 45, 45},
		{-1080 - 45, -45},
	}

	for _, tt := range tests {
		if got := WrapDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapDegreesCongruent(t *testing.T) {
	for e := -5000.0; e <= 5000; e += 7.3 {
		got := WrapDegrees(e)
		if got < -180 || got > 180 {
			t.Fatalf("WrapDegrees(%v) = %v out of range", e, got)
		}
		turns := (e - got) / 360
		if math.Abs(turns-math.Round(turns)) > 1e-9 {
			t.Fatalf("WrapDegrees(%v) = %v is not congruent mod 360", e, got)
		}
	}
}

func TestWrapDegreesNaN(t *testing.T) {
	if got := WrapDegrees(math.NaN()); !math.IsNaN(got) {
		t.Errorf("expected NaN to pass through, got %v", got)
	}
}
