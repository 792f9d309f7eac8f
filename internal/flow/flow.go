// Package flow implements the navigation of the interactive front end as a
// finite-state controller: main menu, one parameter form per model, and a
// running state that holds the result of the last simulation.
//
// The controller never renders anything. Front ends feed it choices and raw
// form values and read back plain values ([State], [Field], [Run]).
package flow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/fallsim/internal/config"
	"github.com/san-kum/fallsim/internal/fall"
)

type State int

const (
	MainMenu State = iota
	FreeFallForm
	DragForm
	Running
	Exited
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main menu"
	case FreeFallForm:
		return "free fall form"
	case DragForm:
		return "drag form"
	case Running:
		return "running"
	case Exited:
		return "exited"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Choice int

const (
	ChooseFreeFall Choice = iota
	ChooseDrag
	ChooseExit
)

var ErrInvalidTransition = errors.New("flow: invalid transition")

// InputError reports a form value that is not a number. It unwraps to
// fall.ErrInvalidParameter so front ends handle it like any bad parameter.
type InputError struct {
	Field string
	Raw   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("flow: %s: %q is not a number", e.Field, e.Raw)
}

func (e *InputError) Unwrap() error {
	return fall.ErrInvalidParameter
}

// Field describes one input of a parameter form.
type Field struct {
	Key     string
	Label   string
	Default string
}

var FreeFallFields = []Field{
	{Key: "mass", Label: "Mass (kg)"},
	{Key: "height", Label: "Initial height (m)"},
	{Key: "gravity", Label: "Gravity (m/s²)", Default: "9.8"},
}

var DragFields = []Field{
	{Key: "mass", Label: "Mass (kg)"},
	{Key: "height", Label: "Initial height (m)"},
	{Key: "gravity", Label: "Gravity (m/s²)", Default: "9.8"},
	{Key: "air_density", Label: "Air density (kg/m³)", Default: "1.225"},
	{Key: "area", Label: "Cross-sectional area (m²)", Default: "0.01"},
	{Key: "drag_coefficient", Label: "Drag coefficient (Cd)", Default: "0.47"},
}

// Exporter persists a finished trajectory.
type Exporter interface {
	Export(path string, traj fall.Trajectory) error
}

type ExporterFunc func(path string, traj fall.Trajectory) error

func (f ExporterFunc) Export(path string, traj fall.Trajectory) error { return f(path, traj) }

// Run is the outcome of a submitted form.
type Run struct {
	Model      string
	Params     fall.DragParams // drag fields are zero for a free fall run
	Trajectory fall.Trajectory
	OutputPath string
}

type Options struct {
	TimeStep     float64
	FreeFallPath string
	DragPath     string
}

type Controller struct {
	state    State
	exporter Exporter
	opts     Options
	last     *Run
}

func New(exporter Exporter, opts Options) *Controller {
	if opts.TimeStep <= 0 {
		opts.TimeStep = fall.DefaultTimeStep
	}
	return &Controller{state: MainMenu, exporter: exporter, opts: opts}
}

func (c *Controller) State() State { return c.state }

// LastRun returns the run shown in the Running state, or nil.
func (c *Controller) LastRun() *Run { return c.last }

// Fields returns the inputs of the current form, or nil outside a form.
func (c *Controller) Fields() []Field {
	switch c.state {
	case FreeFallForm:
		return FreeFallFields
	case DragForm:
		return DragFields
	}
	return nil
}

func (c *Controller) Choose(ch Choice) error {
	if c.state != MainMenu {
		return c.invalid("choose")
	}
	switch ch {
	case ChooseFreeFall:
		c.state = FreeFallForm
	case ChooseDrag:
		c.state = DragForm
	case ChooseExit:
		c.state = Exited
	default:
		return fmt.Errorf("%w: unknown choice %d", ErrInvalidTransition, ch)
	}
	return nil
}

// Back returns to the main menu from a form or a finished run.
func (c *Controller) Back() error {
	switch c.state {
	case FreeFallForm, DragForm, Running:
		c.state = MainMenu
		c.last = nil
		return nil
	}
	return c.invalid("back")
}

// Submit parses the form values, runs the simulation and exports it. On any
// error the controller stays on the form so the user can correct the input.
// Missing keys fall back to the field default.
func (c *Controller) Submit(values map[string]string) (*Run, error) {
	var model string
	switch c.state {
	case FreeFallForm:
		model = config.ModelFree
	case DragForm:
		model = config.ModelDrag
	default:
		return nil, c.invalid("submit")
	}

	nums, err := parseFields(c.Fields(), values)
	if err != nil {
		return nil, err
	}

	run := &Run{Model: model}
	run.Params.Mass = nums["mass"]
	run.Params.Height = nums["height"]
	run.Params.Gravity = nums["gravity"]

	if model == config.ModelFree {
		run.OutputPath = c.opts.FreeFallPath
		run.Trajectory, err = fall.SimulateFreeFall(run.Params.Params, c.opts.TimeStep)
	} else {
		run.OutputPath = c.opts.DragPath
		run.Params.AirDensity = nums["air_density"]
		run.Params.Area = nums["area"]
		run.Params.DragCoefficient = nums["drag_coefficient"]
		run.Trajectory, err = fall.SimulateDragFall(run.Params, c.opts.TimeStep)
	}
	if err != nil {
		return nil, err
	}

	if c.exporter != nil && run.OutputPath != "" {
		if err := c.exporter.Export(run.OutputPath, run.Trajectory); err != nil {
			return nil, fmt.Errorf("flow: export %s: %w", run.OutputPath, err)
		}
	}

	c.last = run
	c.state = Running
	return run, nil
}

// Finish leaves the Running state once the presenter is done.
func (c *Controller) Finish() error {
	if c.state != Running {
		return c.invalid("finish")
	}
	return c.Back()
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, c.state)
}

func parseFields(fields []Field, values map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		raw, ok := values[f.Key]
		if !ok {
			raw = f.Default
		}
		raw = strings.TrimSpace(raw)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &InputError{Field: f.Key, Raw: raw}
		}
		out[f.Key] = v
	}
	return out, nil
}
