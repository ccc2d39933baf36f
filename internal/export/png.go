package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart describes a time plot of a recorded value and its goal.
type Chart struct {
	Title  string
	YLabel string
	Times  []float64
	Values []float64
	Goals  []float64
}

func (c Chart) plot() (*plot.Plot, error) {
	if len(c.Times) == 0 || len(c.Times) != len(c.Values) {
		return nil, fmt.Errorf("plot data invalid")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys(c.Times, c.Values))
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 0, G: 120, B: 200, A: 255}
	p.Add(line)
	p.Legend.Add("value", line)

	if len(c.Goals) == len(c.Times) {
		goal, err := plotter.NewLine(xys(c.Times, c.Goals))
		if err != nil {
			return nil, err
		}
		goal.LineStyle.Color = color.RGBA{R: 220, G: 140, B: 0, A: 255}
		goal.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(goal)
		p.Legend.Add("goal", goal)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG renders the chart at widthIn x heightIn inches.
func (c Chart) WritePNG(w io.Writer, widthIn, heightIn float64) error {
	p, err := c.plot()
	if err != nil {
		return err
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(canvas))

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: canvas}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
