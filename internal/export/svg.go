package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/pidsim/internal/viz"
)

// CanvasToSVG draws every lit braille dot of a canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height)

	r := scale * 0.4
	canvas.Dots(func(x, y int) {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG draws a value trace and its goal against time. The vertical
// range covers both series with 10% padding.
func TraceToSVG(times, values, goals []float64, width, height int) string {
	if len(times) < 2 || len(values) != len(times) {
		return ""
	}

	minT, maxT := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, series := range [][]float64{values, goals} {
		for _, v := range series {
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	path := func(series []float64) string {
		var sb strings.Builder
		for i, v := range series {
			x := (times[i] - minT) / rangeT * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		return sb.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
	if len(goals) == len(times) {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"#ffaa00\" stroke-width=\"1\" stroke-dasharray=\"4 3\" d=\"%s\"/>\n", path(goals))
	}
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"#00ccff\" stroke-width=\"1.5\" d=\"%s\"/>\n", path(values))
	sb.WriteString("</svg>")
	return sb.String()
}
