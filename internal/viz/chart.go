package viz

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/sim"
)

const (
	chartWidth  = 40
	chartHeight = 8
	frameRate   = 60
)

// chartBounds eases the chart's vertical range toward the data so the axis
// does not jump every frame.
type chartBounds struct {
	spring       harmonica.Spring
	lo, hi       float64
	loVel, hiVel float64
}

func newChartBounds(lo, hi float64) *chartBounds {
	return &chartBounds{
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 1.0),
		lo:     lo,
		hi:     hi,
	}
}

func (b *chartBounds) Update(lo, hi float64) {
	b.lo, b.loVel = b.spring.Update(b.lo, b.loVel, lo)
	b.hi, b.hiVel = b.spring.Update(b.hi, b.hiVel, hi)
}

// Snap jumps straight to the target range.
func (b *chartBounds) Snap(lo, hi float64) {
	b.lo, b.hi = lo, hi
	b.loVel, b.hiVel = 0, 0
}

// chartSeries converts the snapshot's samples and goal to display units.
func chartSeries(snap sim.Snapshot, demo experiment.Demo) (values, goals []float64) {
	values = make([]float64, len(snap.Samples))
	goals = make([]float64, len(snap.Samples))
	g := demo.Display(snap.Goal)
	for i, s := range snap.Samples {
		values[i] = demo.Display(s.Y)
		goals[i] = g
	}
	return values, goals
}

// targetRange is the padded range covering the visible samples and goal.
func targetRange(values []float64, goal float64) (float64, float64) {
	lo, hi := goal, goal
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// renderChart plots the sampled value against the goal line across the
// current window.
func renderChart(snap sim.Snapshot, demo experiment.Demo, bounds *chartBounds) string {
	values, goals := chartSeries(snap, demo)
	caption := fmt.Sprintf("%s [%.2fs, %.2fs)", demo.Unit, snap.Window.Left, snap.Window.Right)
	if len(values) < 2 {
		return fmt.Sprintf("\n  waiting for samples\n  %s", caption)
	}

	return asciigraph.PlotMany(
		[][]float64{values, goals},
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.LowerBound(bounds.lo),
		asciigraph.UpperBound(bounds.hi),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(CurrentTheme.ValueSeries, CurrentTheme.GoalSeries),
		asciigraph.Caption(caption),
	)
}
