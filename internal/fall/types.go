package fall

import (
	"fmt"
	"math"
)

// DefaultTimeStep is the sampling interval in seconds.
const DefaultTimeStep = 0.01

// DefaultMaxSamples bounds the length of a single trajectory.
const DefaultMaxSamples = 5_000_000

// Params describes a body released from rest.
type Params struct {
	Mass    float64 `json:"mass"`    // kg
	Height  float64 `json:"height"`  // m
	Gravity float64 `json:"gravity"` // m/s²
}

// Validate reports the first field that is not strictly positive and finite.
func (p Params) Validate() error {
	return checkPositive(
		field{"mass", p.Mass},
		field{"height", p.Height},
		field{"gravity", p.Gravity},
	)
}

// DragParams adds the aerodynamic properties needed by the drag model.
type DragParams struct {
	Params
	AirDensity      float64 `json:"air_density,omitempty"`      // kg/m³
	Area            float64 `json:"area,omitempty"`             // m²
	DragCoefficient float64 `json:"drag_coefficient,omitempty"`
}

func (p DragParams) Validate() error {
	if err := p.Params.Validate(); err != nil {
		return err
	}
	return checkPositive(
		field{"air_density", p.AirDensity},
		field{"area", p.Area},
		field{"drag_coefficient", p.DragCoefficient},
	)
}

// Sample is the state of the body at one instant.
type Sample struct {
	Time   float64 // s
	Height float64 // m, never negative
	Speed  float64 // m/s
}

// Trajectory is a time-ordered series of samples starting at t=0.
type Trajectory []Sample

func (tr Trajectory) Times() []float64 {
	out := make([]float64, len(tr))
	for i, s := range tr {
		out[i] = s.Time
	}
	return out
}

func (tr Trajectory) Heights() []float64 {
	out := make([]float64, len(tr))
	for i, s := range tr {
		out[i] = s.Height
	}
	return out
}

func (tr Trajectory) Speeds() []float64 {
	out := make([]float64, len(tr))
	for i, s := range tr {
		out[i] = s.Speed
	}
	return out
}

// Last returns the final sample, or the zero Sample for an empty trajectory.
func (tr Trajectory) Last() Sample {
	if len(tr) == 0 {
		return Sample{}
	}
	return tr[len(tr)-1]
}

// Duration is the time of the final sample.
func (tr Trajectory) Duration() float64 {
	return tr.Last().Time
}

type field struct {
	name  string
	value float64
}

func checkPositive(fields ...field) error {
	for _, f := range fields {
		if !isPositive(f.value) {
			return &ParameterError{Name: f.name, Value: f.value}
		}
	}
	return nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func isRepresentable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// sampleBudget returns the number of samples needed to cover [0, limit] at
// the given step, including the boundary sample.
func sampleBudget(limit, step float64, maxSamples int) (int, error) {
	n := math.Ceil(limit/step) + 1
	if math.IsNaN(n) || n > float64(maxSamples) {
		return 0, fmt.Errorf("%w: %.0f samples needed, limit is %d", ErrSampleLimit, n, maxSamples)
	}
	return int(n), nil
}

func sampleLimit(n int) int {
	if n <= 0 {
		return DefaultMaxSamples
	}
	return n
}
