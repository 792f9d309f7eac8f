package fall

import "math"

// FreeFallSimulator samples the drag-free solution h(t) = h0 - g·t²/2.
type FreeFallSimulator struct {
	TimeStep   float64
	MaxSamples int
}

func NewFreeFallSimulator() *FreeFallSimulator {
	return &FreeFallSimulator{
		TimeStep:   DefaultTimeStep,
		MaxSamples: DefaultMaxSamples,
	}
}

// SimulateFreeFall runs a drag-free simulation with the given time step.
func SimulateFreeFall(p Params, step float64) (Trajectory, error) {
	s := NewFreeFallSimulator()
	s.TimeStep = step
	return s.Simulate(p)
}

// LandingTime is the analytic time to reach the ground, sqrt(2h/g).
func (s *FreeFallSimulator) LandingTime(p Params) float64 {
	return math.Sqrt(2 * p.Height / p.Gravity)
}

// Simulate samples the fall at t = 0, Δt, 2Δt, ... up to and including the
// first sample at or past the landing time. Mass does not affect the motion.
func (s *FreeFallSimulator) Simulate(p Params) (Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkPositive(field{"time_step", s.TimeStep}); err != nil {
		return nil, err
	}

	landing := s.LandingTime(p)
	if !isRepresentable(landing) {
		return nil, &DomainError{Quantity: "landing time", Value: landing}
	}

	n, err := sampleBudget(landing, s.TimeStep, sampleLimit(s.MaxSamples))
	if err != nil {
		return nil, err
	}

	traj := make(Trajectory, 0, n+1)
	for i := 0; ; i++ {
		t := float64(i) * s.TimeStep
		h := p.Height - 0.5*p.Gravity*t*t
		if h < 0 || t >= landing {
			h = 0
		}
		traj = append(traj, Sample{Time: t, Height: h, Speed: p.Gravity * t})
		if t >= landing {
			break
		}
	}
	return traj, nil
}
