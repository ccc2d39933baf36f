package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
)

// Candidate is one point of the grid and the metric it scored.
type Candidate struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch runs one headless experiment per combination of parameter
// values and keeps the lowest score. Runs are independent and execute on
// up to Workers goroutines, each with its own simulation.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		Workers:    runtime.NumCPU(),
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search scores every combination on base with the named metric over
// duration seconds. It returns all candidates sorted best first.
func (g *GridSearch) Search(
	ctx context.Context,
	registry *experiment.Registry,
	base config.Config,
	duration float64,
	metricName string,
) ([]Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("got %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var grid []map[string]float64
	g.enumerate(0, make(map[string]float64), &grid)

	candidates := make([]Candidate, len(grid))
	jobs := make(chan int)
	workers := max(1, g.Workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				candidates[idx] = evaluate(ctx, registry, base, grid[idx], duration, metricName)
			}
		}()
	}

feed:
	for i := range grid {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	return candidates, nil
}

func evaluate(ctx context.Context, registry *experiment.Registry, base config.Config, params map[string]float64, duration float64, metricName string) Candidate {
	c := Candidate{Params: params, Score: math.Inf(1)}

	cfg := base
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			c.Err = err
			return c
		}
	}
	// every candidate runs the full duration
	cfg.Tracking = true

	result, err := experiment.Run(ctx, registry, cfg, duration)
	if err != nil {
		c.Err = err
		return c
	}
	score, ok := result.Metrics[metricName]
	if !ok {
		c.Err = fmt.Errorf("unknown metric: %s", metricName)
		return c
	}
	if !math.IsNaN(score) {
		c.Score = score
	}
	return c
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.enumerate(depth+1, newParams, out)
	}
}
