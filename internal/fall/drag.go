package fall

import "math"

// DragFallSimulator samples the closed-form solution for a body subject to
// drag proportional to the square of its speed:
//
//	v(t) = v_t·tanh(ω·t)
//	h(t) = h0 - (m/k)·ln(cosh(ω·t))
//
// with k = ρ·A·Cd/2, v_t = sqrt(m·g/k) and ω = sqrt(g·k/m).
type DragFallSimulator struct {
	TimeStep   float64
	MaxSamples int
}

func NewDragFallSimulator() *DragFallSimulator {
	return &DragFallSimulator{
		TimeStep:   DefaultTimeStep,
		MaxSamples: DefaultMaxSamples,
	}
}

// SimulateDragFall runs a drag simulation with the given time step.
func SimulateDragFall(p DragParams, step float64) (Trajectory, error) {
	s := NewDragFallSimulator()
	s.TimeStep = step
	return s.Simulate(p)
}

// DragConstant is k = ρ·A·Cd/2 in kg/m.
func (p DragParams) DragConstant() float64 {
	return 0.5 * p.AirDensity * p.Area * p.DragCoefficient
}

// TerminalVelocity is the speed at which drag balances weight.
func (p DragParams) TerminalVelocity() float64 {
	return math.Sqrt(p.Mass * p.Gravity / p.DragConstant())
}

// LandingTime is t_max = sqrt(m/(g·k))·arccosh(exp(h·k/m)). It fails with
// ErrNumericDomain when the result is not a finite positive number, which
// happens once h·k/m is large enough to overflow exp.
func (p DragParams) LandingTime() (float64, error) {
	k := p.DragConstant()
	if !isRepresentable(k) {
		return 0, &DomainError{Quantity: "drag constant", Value: k}
	}
	tMax := math.Sqrt(p.Mass/(p.Gravity*k)) * math.Acosh(math.Exp(p.Height*k/p.Mass))
	if !isRepresentable(tMax) {
		return 0, &DomainError{Quantity: "landing time", Value: tMax}
	}
	return tMax, nil
}

// Simulate samples the fall until the height reaches exactly zero. Heights
// are clamped to zero once they go negative or the analytic landing time
// has passed, so the final sample always lies on the ground.
func (s *DragFallSimulator) Simulate(p DragParams) (Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkPositive(field{"time_step", s.TimeStep}); err != nil {
		return nil, err
	}

	tMax, err := p.LandingTime()
	if err != nil {
		return nil, err
	}

	k := p.DragConstant()
	vt := p.TerminalVelocity()
	omega := math.Sqrt(p.Gravity * k / p.Mass)
	if !isRepresentable(vt) {
		return nil, &DomainError{Quantity: "terminal velocity", Value: vt}
	}
	if !isRepresentable(omega) {
		return nil, &DomainError{Quantity: "drag rate", Value: omega}
	}
	scale := p.Mass / k

	n, err := sampleBudget(tMax, s.TimeStep, sampleLimit(s.MaxSamples))
	if err != nil {
		return nil, err
	}

	traj := make(Trajectory, 0, n+1)
	for i := 0; ; i++ {
		t := float64(i) * s.TimeStep
		wt := omega * t
		h := p.Height - scale*math.Log(math.Cosh(wt))
		if h < 0 || t >= tMax {
			h = 0
		}
		traj = append(traj, Sample{Time: t, Height: h, Speed: vt * math.Tanh(wt)})
		if h == 0 {
			break
		}
	}
	return traj, nil
}
