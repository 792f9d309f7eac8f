package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fallsim/internal/config"
	"github.com/san-kum/fallsim/internal/export"
	"github.com/san-kum/fallsim/internal/fall"
	"github.com/san-kum/fallsim/internal/flow"
	"github.com/san-kum/fallsim/internal/logger"
	"github.com/san-kum/fallsim/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type menuItem struct {
	label  string
	desc   string
	choice flow.Choice
}

var menu = []menuItem{
	{"free fall", "no air resistance", flow.ChooseFreeFall},
	{"drag fall", "quadratic air drag", flow.ChooseDrag},
	{"exit", "", flow.ChooseExit},
}

var titles = map[string]string{
	config.ModelFree: "free fall",
	config.ModelDrag: "free fall with air drag",
}

type model struct {
	ctrl     *flow.Controller
	interval time.Duration

	cursor int

	inputs      map[string]string
	fieldCursor int

	player viz.Player
	shaft  *shaft

	message string
	failed  bool

	width  int
	height int
}

func newModel(ctrl *flow.Controller, interval time.Duration) model {
	return model{
		ctrl:     ctrl,
		interval: interval,
		width:    80,
		height:   24,
	}
}

// NewInteractiveApp builds the menu-driven front end. Finished runs are
// written with export.Save to the paths named in cfg.
func NewInteractiveApp(cfg *config.Config) tea.Model {
	ctrl := flow.New(flow.ExporterFunc(export.Save), flow.Options{
		TimeStep:     cfg.TimeStep,
		FreeFallPath: cfg.OutputPath(config.ModelFree),
		DragPath:     cfg.OutputPath(config.ModelDrag),
	})
	return newModel(ctrl, time.Duration(cfg.Playback.IntervalMS)*time.Millisecond)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	if m.ctrl.State() == flow.Running {
		var cmd tea.Cmd
		m.player, cmd = m.player.Step(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.ctrl.State() {
	case flow.MainMenu:
		return m.menuKey(msg)
	case flow.FreeFallForm, flow.DragForm:
		return m.formKey(msg)
	case flow.Running:
		return m.runKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.choose(flow.ChooseExit)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menu)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.choose(menu[m.cursor].choice)
	}
	return m, nil
}

func (m model) choose(ch flow.Choice) (model, tea.Cmd) {
	if err := m.ctrl.Choose(ch); err != nil {
		m.setError(err)
		return m, nil
	}
	if m.ctrl.State() == flow.Exited {
		return m, tea.Quit
	}
	m.message = ""
	m.fieldCursor = 0
	m.inputs = make(map[string]string)
	for _, f := range m.ctrl.Fields() {
		m.inputs[f.Key] = f.Default
	}
	return m, nil
}

func (m model) formKey(msg tea.KeyMsg) (model, tea.Cmd) {
	fields := m.ctrl.Fields()
	key := fields[m.fieldCursor].Key

	switch msg.String() {
	case "esc":
		if err := m.ctrl.Back(); err != nil {
			m.setError(err)
		}
		m.message = ""
		return m, nil
	case "up", "shift+tab":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "tab":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "backspace":
		if buf := m.inputs[key]; len(buf) > 0 {
			m.inputs[key] = buf[:len(buf)-1]
		}
	case "enter":
		return m.submit()
	default:
		if msg.Type == tea.KeyRunes {
			for _, c := range msg.Runes {
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' || c == 'E' || c == '+' {
					m.inputs[key] += string(c)
				}
			}
		}
	}
	return m, nil
}

func (m model) submit() (model, tea.Cmd) {
	run, err := m.ctrl.Submit(m.inputs)
	if err != nil {
		m.setError(err)
		return m, nil
	}

	last := run.Trajectory.Last()
	logger.L().Info("simulation finished",
		"model", run.Model,
		"samples", len(run.Trajectory),
		"duration", last.Time,
		"impact_speed", last.Speed,
	)
	logger.L().Info("trajectory exported", "path", run.OutputPath)

	m.failed = false
	m.message = fmt.Sprintf("Data saved to '%s'", run.OutputPath)
	m.player = viz.NewPlayer(run.Trajectory, titles[run.Model], m.interval)
	m.shaft = newShaft(run.Params.Height)
	return m, tea.Batch(tea.ClearScreen, m.player.Init())
}

func (m *model) setError(err error) {
	m.failed = true
	switch {
	case errors.Is(err, fall.ErrNumericDomain):
		m.message = "Cannot simulate these parameters: " + err.Error()
	case errors.Is(err, fall.ErrInvalidParameter):
		m.message = "Invalid input: " + err.Error()
	default:
		m.message = "Error: " + err.Error()
	}
	logger.L().Warn("run rejected", "error", err)
}

func (m model) runKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if err := m.ctrl.Finish(); err != nil {
			m.setError(err)
		}
		m.shaft = nil
		return m, tea.ClearScreen
	}
	var cmd tea.Cmd
	m.player, cmd = m.player.Step(msg)
	return m, cmd
}

func (m model) View() string {
	var body string
	switch m.ctrl.State() {
	case flow.MainMenu:
		body = m.viewMenu()
	case flow.FreeFallForm, flow.DragForm:
		body = m.viewForm()
	case flow.Running:
		body = m.viewRun()
	}
	if m.message != "" {
		style := green
		if m.failed {
			style = red
		}
		body += "\n      " + style.Render(m.message) + "\n"
	}
	return body
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("            " + cyan.Render("f a l l s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, item := range menu {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", item.label)) + dim.Render(item.desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", item.label)) + dimmer.Render(item.desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")

	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder

	title := titles[config.ModelFree]
	if m.ctrl.State() == flow.DragForm {
		title = titles[config.ModelDrag]
	}

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(title) + "  " + dim.Render("parameters") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 40)) + "\n\n")

	for i, f := range m.ctrl.Fields() {
		val := m.inputs[f.Key]
		if i == m.fieldCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-28s", f.Label)) + magenta.Render(val+"▋") + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-28s", f.Label)) + dim.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ field   type value   enter run   esc back") + "\n")

	return b.String()
}

func (m model) viewRun() string {
	graph := m.player.View()
	if m.shaft == nil {
		return graph
	}
	scene := m.shaft.draw(m.player.Current())
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 3, 0, 2).Render(scene),
		graph,
	) + "\n"
}

func RunInteractive(cfg *config.Config) error {
	p := tea.NewProgram(NewInteractiveApp(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
