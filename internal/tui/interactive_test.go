package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fallsim/internal/fall"
	"github.com/san-kum/fallsim/internal/flow"
)

type recorder struct {
	paths []string
}

func (r *recorder) Export(path string, traj fall.Trajectory) error {
	r.paths = append(r.paths, path)
	return nil
}

func testModel(rec *recorder) model {
	ctrl := flow.New(rec, flow.Options{FreeFallPath: "free.csv", DragPath: "drag.csv"})
	return newModel(ctrl, time.Millisecond)
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func TestMenuOpensForms(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.Msg
		expected flow.State
		fields   int
	}{
		{"free fall", []tea.Msg{key(tea.KeyEnter)}, flow.FreeFallForm, 3},
		{"drag", []tea.Msg{key(tea.KeyDown), key(tea.KeyEnter)}, flow.DragForm, 6},
		{"cursor clamps", []tea.Msg{key(tea.KeyUp), key(tea.KeyUp), key(tea.KeyEnter)}, flow.FreeFallForm, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := send(testModel(&recorder{}), tt.keys...)
			if m.ctrl.State() != tt.expected {
				t.Fatalf("expected %s, got %s", tt.expected, m.ctrl.State())
			}
			if len(m.inputs) != tt.fields {
				t.Errorf("expected %d inputs, got %d", tt.fields, len(m.inputs))
			}
		})
	}
}

func TestDragFormDefaults(t *testing.T) {
	m, _ := send(testModel(&recorder{}), key(tea.KeyDown), key(tea.KeyEnter))

	want := map[string]string{
		"mass": "", "height": "", "gravity": "9.8",
		"air_density": "1.225", "area": "0.01", "drag_coefficient": "0.47",
	}
	for k, v := range want {
		if m.inputs[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, m.inputs[k])
		}
	}
}

func TestSubmitFreeFall(t *testing.T) {
	rec := &recorder{}
	m, _ := send(testModel(rec),
		key(tea.KeyEnter),
		typed("1"), key(tea.KeyTab),
		typed("10"),
	)
	m, cmd := send(m, key(tea.KeyEnter))

	if m.ctrl.State() != flow.Running {
		t.Fatalf("expected running, got %s (%s)", m.ctrl.State(), m.message)
	}
	if cmd == nil {
		t.Error("expected playback to start")
	}
	if m.message != "Data saved to 'free.csv'" {
		t.Errorf("unexpected message %q", m.message)
	}
	if len(rec.paths) != 1 || rec.paths[0] != "free.csv" {
		t.Errorf("unexpected exports %v", rec.paths)
	}
	if !strings.Contains(m.View(), "FREE FALL") {
		t.Error("running view should show the player")
	}

	m, _ = send(m, typed("q"))
	if m.ctrl.State() != flow.MainMenu {
		t.Errorf("expected main menu after q, got %s", m.ctrl.State())
	}
}

func TestInvalidInputStaysOnForm(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.Msg
		prefix string
	}{
		{"empty mass", nil, "Invalid input"},
		{"zero height", []tea.Msg{typed("1"), key(tea.KeyTab), typed("0")}, "Invalid input"},
		{"negative mass", []tea.Msg{typed("-1"), key(tea.KeyTab), typed("5")}, "Invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			m, _ := send(testModel(rec), key(tea.KeyEnter))
			m, _ = send(m, tt.keys...)
			m, _ = send(m, key(tea.KeyEnter))

			if m.ctrl.State() != flow.FreeFallForm {
				t.Fatalf("expected to stay on form, got %s", m.ctrl.State())
			}
			if !m.failed || !strings.HasPrefix(m.message, tt.prefix) {
				t.Errorf("unexpected message %q", m.message)
			}
			if len(rec.paths) != 0 {
				t.Error("nothing should be exported")
			}
		})
	}
}

func TestDomainErrorMessage(t *testing.T) {
	m, _ := send(testModel(&recorder{}), key(tea.KeyDown), key(tea.KeyEnter))
	m.inputs["mass"] = "0.001"
	m.inputs["height"] = "1000000"
	m.inputs["area"] = "1"
	m, _ = send(m, key(tea.KeyEnter))

	if m.ctrl.State() != flow.DragForm {
		t.Fatalf("expected drag form, got %s", m.ctrl.State())
	}
	if !strings.HasPrefix(m.message, "Cannot simulate") {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestFormEditing(t *testing.T) {
	m, _ := send(testModel(&recorder{}), key(tea.KeyEnter), typed("12x"), key(tea.KeyBackspace))
	if m.inputs["mass"] != "1" {
		t.Errorf("expected %q, got %q", "1", m.inputs["mass"])
	}

	m, _ = send(m, key(tea.KeyEsc))
	if m.ctrl.State() != flow.MainMenu {
		t.Errorf("esc should return to menu, got %s", m.ctrl.State())
	}
}

func TestQuit(t *testing.T) {
	m, cmd := send(testModel(&recorder{}), typed("q"))
	if m.ctrl.State() != flow.Exited {
		t.Errorf("expected exited, got %s", m.ctrl.State())
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestShaftPlacesBody(t *testing.T) {
	s := newShaft(10)
	top := s.draw(fall.Sample{Height: 10})
	if strings.Index(top, "●") > strings.Index(top, "\n") {
		t.Error("body at release height should be on the first row")
	}
	ground := s.draw(fall.Sample{Height: 0, Speed: 14})
	lines := strings.Split(ground, "\n")
	if !strings.Contains(lines[shaftHeight-2], "●") {
		t.Error("body at zero height should sit just above the ground line")
	}
	if !strings.Contains(lines[shaftHeight-3], "┆") {
		t.Error("expected a motion trail above a moving body")
	}
}
