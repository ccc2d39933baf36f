package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("expected a single value")
	}
}

func TestGridSearchFindsBetterGains(t *testing.T) {
	base := *config.DefaultConfig(config.DemoPosition)
	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{
		{0.01, 0.1, 0.5},
		{0, 0.05, 0.1},
	})
	g.Workers = 3

	candidates, err := g.Search(context.Background(), experiment.NewRegistry(), base, 2, "iae")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 9 {
		t.Fatalf("expected 9 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score < candidates[i-1].Score {
			t.Fatal("candidates not sorted by score")
		}
	}
	best := candidates[0]
	if best.Err != nil {
		t.Fatalf("best candidate failed: %v", best.Err)
	}
	if best.Params["kp"] == 0.01 {
		t.Errorf("weakest gain should not win, got %v", best.Params)
	}
}

func TestGridSearchUnknownParam(t *testing.T) {
	g := NewGridSearch([]string{"bogus"}, [][]float64{{1}})
	candidates, err := g.Search(context.Background(), experiment.NewRegistry(), *config.DefaultConfig(config.DemoArm), 0.1, "iae")
	if err != nil {
		t.Fatal(err)
	}
	if candidates[0].Err == nil || !math.IsInf(candidates[0].Score, 1) {
		t.Errorf("expected failed candidate, got %+v", candidates[0])
	}
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"kp", "kd"}, [][]float64{{1}})
	if _, err := g.Search(context.Background(), experiment.NewRegistry(), *config.DefaultConfig(config.DemoArm), 0.1, "iae"); err == nil {
		t.Error("expected error")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"kp"}, [][]float64{Linspace(0, 1, 10)})
	if _, err := g.Search(ctx, experiment.NewRegistry(), *config.DefaultConfig(config.DemoArm), 1, "iae"); err == nil {
		t.Error("expected cancellation error")
	}
}
