package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fallsim/internal/fall"
)

// TrajectoryToSVG draws height against time as a single polyline. The axes
// span [0, last time] and [0, initial height].
func TrajectoryToSVG(traj fall.Trajectory, width, height int, strokeColor string) string {
	if len(traj) < 2 {
		return ""
	}

	maxT := traj.Duration()
	maxH := traj[0].Height
	if maxT == 0 {
		maxT = 1
	}
	if maxH == 0 {
		maxH = 1
	}

	// 5% margin on every side
	padX := float64(width) * 0.05
	padY := float64(height) * 0.05
	plotW := float64(width) - 2*padX
	plotH := float64(height) - 2*padY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#444466" stroke-width="1" d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height,
		padX, padY, padX, padY+plotH, padX+plotW, padY+plotH,
		strokeColor))

	for i, s := range traj {
		x := padX + s.Time/maxT*plotW
		y := padY + plotH - s.Height/maxH*plotH

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
