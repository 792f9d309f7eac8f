package metrics

import (
	"math"

	"github.com/san-kum/fallsim/internal/fall"
)

// Summary condenses a trajectory into the numbers printed after a run.
type Summary struct {
	Samples     int
	Duration    float64
	ImpactSpeed float64
	PeakSpeed   float64
	MeanSpeed   float64

	// Energies in joules. DragLoss is the part of the initial potential
	// energy that did not arrive as kinetic energy, never negative.
	PotentialEnergy float64
	ImpactEnergy    float64
	DragLoss        float64
}

func Summarize(traj fall.Trajectory, mass, gravity float64) Summary {
	var s Summary
	if len(traj) == 0 {
		return s
	}

	s.Samples = len(traj)
	s.Duration = traj.Duration()
	s.ImpactSpeed = traj.Last().Speed

	total := 0.0
	for _, p := range traj {
		s.PeakSpeed = math.Max(s.PeakSpeed, p.Speed)
		total += p.Speed
	}
	s.MeanSpeed = total / float64(len(traj))

	s.PotentialEnergy = mass * gravity * traj[0].Height
	s.ImpactEnergy = 0.5 * mass * s.ImpactSpeed * s.ImpactSpeed
	s.DragLoss = math.Max(0, s.PotentialEnergy-s.ImpactEnergy)
	return s
}

// Map flattens the summary for tabular output.
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		"samples":          float64(s.Samples),
		"duration":         s.Duration,
		"impact_speed":     s.ImpactSpeed,
		"peak_speed":       s.PeakSpeed,
		"mean_speed":       s.MeanSpeed,
		"potential_energy": s.PotentialEnergy,
		"impact_energy":    s.ImpactEnergy,
		"drag_loss":        s.DragLoss,
	}
}
