package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fallsim/internal/fall"
)

// StopThreshold halts playback once the next frame's height or speed is at
// or below it.
const StopThreshold = 0.01

const (
	DefaultInterval = 50 * time.Millisecond
	plotWidth       = 60
	plotHeight      = 12
)

var lastID atomic.Int64

// frameMsg carries the id of the player that scheduled it, so ticks left
// over from a previous player are dropped.
type frameMsg struct {
	id   int64
	time time.Time
}

// Player animates a precomputed trajectory, one frame per sample. The first
// frame is the release point; every later frame is subject to StopThreshold.
type Player struct {
	id       int64
	traj     fall.Trajectory
	title    string
	frame    int
	done     bool
	paused   bool
	interval time.Duration
}

func NewPlayer(traj fall.Trajectory, title string, interval time.Duration) Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Player{
		id:       lastID.Add(1),
		traj:     traj,
		title:    title,
		interval: interval,
		done:     len(traj) == 0,
	}
}

func (p Player) Frame() int   { return p.frame }
func (p Player) Done() bool   { return p.done }
func (p Player) Paused() bool { return p.paused }

// Current is the sample shown in the current frame.
func (p Player) Current() fall.Sample {
	if len(p.traj) == 0 {
		return fall.Sample{}
	}
	return p.traj[p.frame]
}

func (p Player) tick() tea.Cmd {
	id := p.id
	return tea.Tick(p.interval, func(t time.Time) tea.Msg { return frameMsg{id: id, time: t} })
}

func (p Player) Init() tea.Cmd {
	if p.done {
		return nil
	}
	return p.tick()
}

// advance moves to the next frame unless it would cross the stop threshold
// or run past the end, in which case playback freezes on the current frame.
func (p Player) advance() Player {
	if p.done {
		return p
	}
	next := p.frame + 1
	if next >= len(p.traj) {
		p.done = true
		return p
	}
	s := p.traj[next]
	if s.Height <= StopThreshold || s.Speed <= StopThreshold {
		p.done = true
		return p
	}
	p.frame = next
	return p
}

func (p Player) replay() Player {
	p.frame = 0
	p.paused = false
	p.done = len(p.traj) == 0
	return p
}

// Step handles playback messages. It is separate from Update so that
// containing models keep a concrete Player.
func (p Player) Step(msg tea.Msg) (Player, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.id != p.id || p.done {
			return p, nil
		}
		if !p.paused {
			p = p.advance()
		}
		if p.done {
			return p, nil
		}
		return p, p.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "p":
			p.paused = !p.paused
		case "r":
			wasDone := p.done
			p = p.replay()
			if wasDone {
				return p, p.tick()
			}
		}
	}
	return p, nil
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return p.Step(msg)
}

func (p Player) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(strings.ToUpper(p.title)) + "\n")

	status := StatusRunning.Render("falling")
	switch {
	case p.done:
		status = StatusLanded.Render("landed")
	case p.paused:
		status = StatusPaused.Render("paused")
	}
	progress := 0.0
	if len(p.traj) > 1 {
		progress = float64(p.frame) / float64(len(p.traj)-1)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", status, ProgressBar(progress, 36)))

	b.WriteString(GraphStyle.Render(p.plot()) + "\n")

	cur := p.Current()
	b.WriteString(MetricLabel.Render("time") + MetricValue.Render(fmt.Sprintf("%.2f s", cur.Time)) + "\n")
	b.WriteString(MetricLabel.Render("height") + MetricValue.Render(fmt.Sprintf("%.2f m", cur.Height)) + "\n")
	b.WriteString(MetricLabel.Render("speed") + MetricValue.Render(fmt.Sprintf("%.2f m/s", cur.Speed)) + "\n")

	b.WriteString("\n" + KeyHint.Render("space pause  r replay  q back"))
	return b.String()
}

// plot draws the heights up to the current frame. The y axis is pinned to
// [0, initial height] and the width grows with elapsed time so the curve
// fills the box on the last frame.
func (p Player) plot() string {
	if p.frame < 1 {
		return strings.Repeat("\n", plotHeight)
	}
	heights := p.traj[:p.frame+1].Heights()
	w := plotWidth * len(heights) / len(p.traj)
	if w < 2 {
		w = 2
	}
	return asciigraph.Plot(heights,
		asciigraph.Height(plotHeight),
		asciigraph.Width(w),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(p.traj[0].Height),
		asciigraph.Caption("height (m) vs time"),
	)
}

type standalone struct {
	Player
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return s, tea.Quit
		}
	}
	var cmd tea.Cmd
	s.Player, cmd = s.Player.Step(msg)
	return s, cmd
}

// Play runs the player full screen until the user quits.
func Play(traj fall.Trajectory, title string, interval time.Duration) error {
	p := tea.NewProgram(standalone{NewPlayer(traj, title, interval)})
	_, err := p.Run()
	return err
}
