package viz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
	"go.uber.org/zap"
)

const (
	stateMenu = iota
	statePreset
	stateConfig
	stateSim
)

// app walks demo → preset → parameters, then hands off to the live Model.
type app struct {
	registry *experiment.Registry
	log      *zap.Logger

	state   int
	cursor  int
	demos   []string
	demo    string
	presets []string

	cfg         config.Config
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	err         error

	live Model
}

func newApp(registry *experiment.Registry, log *zap.Logger) app {
	return app{
		registry: registry,
		log:      log,
		state:    stateMenu,
		demos:    registry.ListDemos(),
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(k)
		case statePreset:
			return m.presetKey(k)
		case stateConfig:
			return m.configKey(k)
		}
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.demos)-1, m.cursor+1)
	case "enter", " ":
		m.demo = m.demos[m.cursor]
		m.presets = config.ListPresets(m.demo)
		m.state, m.cursor = statePreset, indexOf(m.presets, "default")
	}
	return m, nil
}

func (m app) presetKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state, m.cursor = stateMenu, 0
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.presets)-1, m.cursor+1)
	case "enter", " ":
		m.cfg = *config.GetPreset(m.demo, m.presets[m.cursor])
		m.paramNames = sortedParams(&m.cfg)
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	name := m.paramNames[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.err = m.cfg.SetParam(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = statePreset
	case "up", "k":
		m.paramCursor = max(0, m.paramCursor-1)
	case "down", "j":
		m.paramCursor = min(len(m.paramNames)-1, m.paramCursor+1)
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.cfg.GetParams()[name], 'g', -1, 64)
	case "t":
		if m.cfg.Demo != config.DemoArm {
			m.cfg.Tracking = !m.cfg.Tracking
		}
	case "s":
		return m.start()
	}
	return m, nil
}

func (m app) start() (app, tea.Cmd) {
	live, err := NewModel(m.registry, m.cfg, m.log)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.err = live, nil
	m.state = stateSim
	return m, m.live.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		items := make([]string, len(m.demos))
		for i, name := range m.demos {
			d, _ := m.registry.Get(name)
			items[i] = fmt.Sprintf("%-10s %s", name, d.Title)
		}
		return m.viewList("PIDSIM", "pid control demos", items, "j/k navigate  enter select  q quit")
	case statePreset:
		return m.viewList(strings.ToUpper(m.demo), "presets", m.presets, "j/k navigate  enter select  esc back")
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View() + "\n" + helpStyle.Render("esc back")
	}
	return ""
}

func (m app) viewList(title, sub string, items []string, help string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle().Render(title) + "\n    " + labelStyle.UnsetWidth().Render(sub) + "\n\n")
	for i, item := range items {
		if i == m.cursor {
			b.WriteString("    " + activeStyle().Render("▸ "+item) + "\n")
		} else {
			b.WriteString("      " + labelStyle.UnsetWidth().Render(item) + "\n")
		}
	}
	b.WriteString("\n    " + helpStyle.Render(help) + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle().Render(strings.ToUpper(m.cfg.Demo)) + "\n")
	params := m.cfg.GetParams()
	for i, name := range m.paramNames {
		val := fmt.Sprintf("%10.4g", params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		line := fmt.Sprintf("%-17s %s", name, val)
		if i == m.paramCursor {
			b.WriteString("    " + activeStyle().Render("▸ "+line) + "\n")
		} else {
			b.WriteString("      " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("\n      %-17s %10s\n", "tracking", onOff(m.cfg.Tracking)))
	if m.err != nil {
		b.WriteString("\n    " + fg(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + helpStyle.Render("j/k select  enter edit  t tracking  s start  esc back") + "\n")
	return b.String()
}

func sortedParams(cfg *config.Config) []string {
	names := make([]string, 0)
	for k := range cfg.GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// RunInteractive opens the demo picker.
func RunInteractive(registry *experiment.Registry, log *zap.Logger) error {
	_, err := tea.NewProgram(newApp(registry, log), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// RunLive opens the live view for cfg directly.
func RunLive(registry *experiment.Registry, cfg config.Config, log *zap.Logger) error {
	m, err := NewModel(registry, cfg, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
