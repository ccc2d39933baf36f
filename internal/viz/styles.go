package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasPadTop, canvasPadLeft)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func headerStyle() lipgloss.Style { return fg(CurrentTheme.Secondary).Bold(true).MarginBottom(1) }
func activeStyle() lipgloss.Style { return fg(CurrentTheme.Primary).Bold(true) }

// statusBadge renders the run state in the theme's status colors.
func statusBadge(status string) string {
	switch status {
	case "RUNNING":
		return fg(CurrentTheme.Success).Bold(true).Render(status)
	case "FROZEN", "HOLD":
		return fg(CurrentTheme.Accent).Bold(true).Render(status)
	case "ERROR":
		return fg(CurrentTheme.Error).Bold(true).Render(status)
	default:
		return fg(CurrentTheme.Warning).Bold(true).Render(status)
	}
}

// ProgressBar draws percent (0..1) of width cells, clamped.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline squeezes values into width block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(1, len(values)/width)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(len(chars)-1, idx))])
	}
	return b.String()
}
