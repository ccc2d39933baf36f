package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
)

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		n    int
		dt   float64
	}{
		{"2 Hz", 2, 1000, 0.01},
		{"0.5 Hz odd length", 0.5, 999, 0.004 * 5},
		{"arm-like", 0.5, 2500, 0.004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*tt.dt)
			}
			got := DominantFrequency(data, tt.dt)
			resolution := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("expected %f Hz, got %f", tt.freq, got)
			}
		})
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f := DominantFrequency([]float64{1, 1, 1, 1}, 0.1); f != 0 {
		t.Errorf("constant signal: expected 0, got %f", f)
	}
	if f := DominantFrequency([]float64{1}, 0.1); f != 0 {
		t.Errorf("single sample: expected 0, got %f", f)
	}
	if f := DominantFrequency([]float64{1, 2, 3}, 0); f != 0 {
		t.Errorf("zero dt: expected 0, got %f", f)
	}
}

func TestAnalyzeStep_FirstOrder(t *testing.T) {
	const tau = 0.5
	var times, values []float64
	for i := 0; i <= 2000; i++ {
		tt := float64(i) * 0.005
		times = append(times, tt)
		values = append(values, 100*(1-math.Exp(-tt/tau)))
	}

	r := AnalyzeStep(times, values, 0, 100)
	// 10-90% rise of a first-order lag is tau*ln(9)
	if math.Abs(r.RiseTime-tau*math.Log(9)) > 0.01 {
		t.Errorf("expected rise time %f, got %f", tau*math.Log(9), r.RiseTime)
	}
	if r.Overshoot != 0 {
		t.Errorf("expected no overshoot, got %f", r.Overshoot)
	}
	if math.Abs(r.SteadyStateError) > 1e-6 {
		t.Errorf("expected no steady-state error, got %f", r.SteadyStateError)
	}
}

func TestAnalyzeStep_Overshoot(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{100, 60, 40, 52, 50}

	r := AnalyzeStep(times, values, 100, 50)
	if r.Peak != 40 || r.PeakTime != 2 {
		t.Errorf("expected peak 40 at t=2, got %f at %f", r.Peak, r.PeakTime)
	}
	if math.Abs(r.Overshoot-20) > 1e-12 {
		t.Errorf("expected 20%% overshoot, got %f", r.Overshoot)
	}
	if r.RiseTime != 1 {
		t.Errorf("expected rise time 1, got %f", r.RiseTime)
	}
}

func TestAnalyzeStep_NeverRises(t *testing.T) {
	r := AnalyzeStep([]float64{0, 1}, []float64{0, 0.05}, 0, 1)
	if r.RiseTime != -1 {
		t.Errorf("expected -1, got %f", r.RiseTime)
	}
}

func TestPhasePortrait(t *testing.T) {
	states := []dynamo.State{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}

	p := NewPhasePortrait(states, 0, 1)
	if p == nil || len(p.Points) != 4 {
		t.Fatalf("expected 4 points, got %+v", p)
	}
	if p.Points[1] != (Point{X: 0, Y: -1}) {
		t.Errorf("unexpected point %+v", p.Points[1])
	}

	art := p.ASCII(20, 10)
	if strings.Count(art, "\n") != 10 {
		t.Errorf("expected 10 rows, got %d", strings.Count(art, "\n"))
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}

	if NewPhasePortrait(states, 0, 2) != nil {
		t.Error("expected nil for out of range index")
	}
}
