package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fallsim/internal/fall"
)

// PlotSeries renders one series with the sizing used by the CLI commands.
func PlotSeries(data []float64, caption string) string {
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}

// PlotHeights overlays the height profiles of several trajectories. Shorter
// series are padded with zeros so all share the same time axis.
func PlotHeights(caption string, trajs ...fall.Trajectory) string {
	longest := 0
	for _, tr := range trajs {
		if len(tr) > longest {
			longest = len(tr)
		}
	}
	if longest < 2 {
		return ""
	}

	series := make([][]float64, len(trajs))
	for i, tr := range trajs {
		s := make([]float64, longest)
		copy(s, tr.Heights())
		series[i] = s
	}

	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan, asciigraph.Red}
	if len(series) < len(colors) {
		colors = colors[:len(series)]
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}
