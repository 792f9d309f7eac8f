// Package sweep evaluates the drag model over a range of one parameter.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fallsim/internal/fall"
)

var ErrUnknownParam = errors.New("sweep: unknown parameter")

var setters = map[string]func(*fall.DragParams, float64){
	"mass":    func(p *fall.DragParams, v float64) { p.Mass = v },
	"height":  func(p *fall.DragParams, v float64) { p.Height = v },
	"gravity": func(p *fall.DragParams, v float64) { p.Gravity = v },
	"rho":     func(p *fall.DragParams, v float64) { p.AirDensity = v },
	"area":    func(p *fall.DragParams, v float64) { p.Area = v },
	"cd":      func(p *fall.DragParams, v float64) { p.DragCoefficient = v },
}

// Params lists the names accepted by Apply, sorted.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of p with the named parameter set to v.
func Apply(p fall.DragParams, name string, v float64) (fall.DragParams, error) {
	set, ok := setters[name]
	if !ok {
		return p, fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, name, Params())
	}
	set(&p, v)
	return p, nil
}

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// Point is the outcome of one simulation in a sweep.
type Point struct {
	Value            float64
	LandingTime      float64
	ImpactSpeed      float64
	TerminalVelocity float64
	Samples          int
}

type Config struct {
	Param    string
	Values   []float64
	TimeStep float64
	Workers  int
}

// Run simulates base once per value, in parallel, and returns the points in
// the order of cfg.Values. The first failing simulation cancels the rest.
func Run(ctx context.Context, base fall.DragParams, cfg Config) ([]Point, error) {
	if _, ok := setters[cfg.Param]; !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, cfg.Param, Params())
	}
	step := cfg.TimeStep
	if step == 0 {
		step = fall.DefaultTimeStep
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sim := fall.NewDragFallSimulator()
	sim.TimeStep = step

	points := make([]Point, len(cfg.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range cfg.Values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, _ := Apply(base, cfg.Param, v)
			traj, err := sim.Simulate(p)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", cfg.Param, v, err)
			}
			last := traj.Last()
			points[i] = Point{
				Value:            v,
				LandingTime:      last.Time,
				ImpactSpeed:      last.Speed,
				TerminalVelocity: p.TerminalVelocity(),
				Samples:          len(traj),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
