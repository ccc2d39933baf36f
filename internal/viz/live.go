package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/sim"
	"go.uber.org/zap"
)

// FrameInterval is the wall-clock time of one tick. Each tick runs the
// configured number of sub-steps.
const FrameInterval = 16 * time.Millisecond

const (
	canvasPadTop  = 1
	canvasPadLeft = 2
)

type TickMsg time.Time

type dragTarget int

const (
	dragGoal dragTarget = iota
	dragInitial
)

func (d dragTarget) String() string {
	if d == dragInitial {
		return "initial"
	}
	return "goal"
}

// additive parameters move by a fixed step in display units, the rest are
// scaled.
var paramSteps = map[string]float64{
	"initial":          5,
	"initial_velocity": 5,
	"goal":             5,
}

// Model is the live view of one demo. The simulation is reset from cfg
// whenever cfg changes; the model never mutates simulation state directly.
type Model struct {
	registry *experiment.Registry
	demo     experiment.Demo
	sim      *sim.Simulation
	log      *zap.Logger

	cfg       config.Config
	defaults  config.Config
	paramKeys []string
	selected  int

	paused   bool
	dragging bool
	target   dragTarget
	err      error

	scene  *Scene
	bounds *chartBounds
	errs   []float64
}

func NewModel(registry *experiment.Registry, cfg config.Config, log *zap.Logger) (Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	demo, err := registry.Get(cfg.Demo)
	if err != nil {
		return Model{}, err
	}

	s := sim.New(registry.Builder(), sim.WithLogger(log))
	if err := s.Reset(cfg); err != nil {
		return Model{}, err
	}

	keys := make([]string, 0)
	for k := range cfg.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		registry:  registry,
		demo:      demo,
		sim:       s,
		log:       log,
		cfg:       cfg,
		defaults:  cfg,
		paramKeys: keys,
		scene:     NewScene(demo),
		bounds:    newChartBounds(demo.Min, demo.Max),
	}, nil
}

// Params implements sim.ParamSource.
func (m Model) Params() config.Config { return m.cfg }

func (m Model) Simulation() *sim.Simulation { return m.sim }

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.cfg = m.defaults
			m.applyNow()
		case "t":
			if m.cfg.Demo != config.DemoArm {
				m.cfg.Tracking = !m.cfg.Tracking
			}
		case "w":
			m.cfg.Wrap = !m.cfg.Wrap
		case "g":
			m.target = dragGoal
		case "i":
			m.target = dragInitial
		case "c":
			NextTheme()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "shift+tab":
			m.selected = (m.selected + len(m.paramKeys) - 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if _, err := m.sim.TickFrom(m); err != nil {
		m.err = err
		m.log.Warn("rejected parameters", zap.Error(err))
		// fall back to the last parameters the simulation accepted
		m.cfg = m.sim.Config()
		return
	}
	m.err = nil

	snap := m.sim.Snapshot()
	values, _ := chartSeries(snap, m.demo)
	m.bounds.Update(targetRange(values, m.demo.Display(snap.Goal)))

	m.errs = append(m.errs, m.demo.Display(snap.Error))
	if len(m.errs) > 2*chartWidth {
		m.errs = m.errs[1:]
	}
}

// applyNow resets immediately instead of waiting for the next tick, so a
// drag is visible even while paused.
func (m *Model) applyNow() {
	if m.cfg == m.sim.Config() {
		return
	}
	if err := m.sim.Reset(m.cfg); err != nil {
		m.err = err
		m.cfg = m.sim.Config()
		return
	}
	m.err = nil
	m.errs = m.errs[:0]
}

func (m *Model) adjustParam(dir float64) {
	key := m.paramKeys[m.selected]
	val := m.cfg.GetParams()[key]
	if step, ok := paramSteps[key]; ok {
		if m.cfg.Demo == config.DemoVelocity && key != "initial_velocity" {
			step *= 20
		}
		val += dir * step
	} else {
		switch {
		case val == 0 && dir > 0:
			val = 0.001
		case dir > 0:
			val *= 1.1
		default:
			val /= 1.1
		}
	}
	if err := m.cfg.SetParam(key, val); err != nil {
		m.err = err
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.drag(msg.X, msg.Y) {
			m.dragging = true
			m.sim.SetOverride(true)
		}
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.drag(msg.X, msg.Y)
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.sim.SetOverride(false)
	}
}

// drag moves the goal or initial condition to the value under the cursor.
// It reports whether the cursor is over the canvas.
func (m *Model) drag(x, y int) bool {
	col, row := x-canvasPadLeft, y-canvasPadTop
	if col < 0 || row < 0 || col >= m.scene.Canvas.Width || row >= m.scene.Canvas.Height {
		return false
	}
	v, ok := m.scene.ValueAt(CellToDot(col, row))
	if !ok {
		return true
	}
	v = math.Round(v)
	if m.target == dragInitial {
		m.cfg.Initial = v
	} else {
		m.cfg.Goal = v
	}
	m.applyNow()
	return true
}

func (m Model) status(snap sim.Snapshot) string {
	switch {
	case m.err != nil:
		return "ERROR"
	case snap.Overridden:
		return "HOLD"
	case snap.Frozen:
		return "FROZEN"
	case m.paused:
		return "PAUSED"
	case snap.Status == sim.Running:
		return "RUNNING"
	default:
		return "IDLE"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	snap := m.sim.Snapshot()
	d := m.demo

	m.scene.Draw(d.Display(snap.Value), d.Display(snap.Goal))
	canvasView := canvasStyle.Render(fg(CurrentTheme.Secondary).Render(m.scene.Canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(d.Title)) + "\n")
	s.WriteString(statusBadge(m.status(snap)) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Value", fmt.Sprintf("%.1f %s", d.Display(snap.Value), d.Unit))
	row("Goal", fmt.Sprintf("%.1f %s", d.Display(snap.Goal), d.Unit))
	row("Error", fmt.Sprintf("%.2f %s", d.Display(snap.Error), d.Unit))
	row("Output", fmt.Sprintf("%.4f", snap.Output))
	row("Tracking", onOff(snap.Tracking))
	if d.Name == config.DemoPosition {
		row("Wrap", onOff(m.cfg.Wrap))
	}
	row("Drag", m.target.String())
	row("Window", fmt.Sprintf("%d/%d", len(snap.Samples), int(math.Floor(m.cfg.Window/m.cfg.Dt))))
	s.WriteString(labelStyle.Render("") + ProgressBar(float64(len(snap.Samples))*m.cfg.Dt/m.cfg.Window, 20) + "\n")
	s.WriteString(labelStyle.Render("Error") + fg(CurrentTheme.Warning).Render(Sparkline(m.errs, 20)) + "\n")
	if m.err != nil {
		s.WriteString(fg(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	params := m.cfg.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-17s %10.4g", k, params[k])
		if i == m.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit T:Track W:Wrap\nTab:Param ↑↓:Adjust G/I:Drag goal/initial\nC:Theme  mouse:drag"))

	top := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	return top + "\n" + renderChart(snap, d, m.bounds)
}
