package tui

import (
	"fmt"
	"strings"

	"github.com/san-kum/fallsim/internal/fall"
)

const (
	shaftWidth  = 13
	shaftHeight = 16
)

// shaft draws the body inside a vertical column scaled to the drop height,
// with a ground line and a tick mark every quarter of the height.
type shaft struct {
	canvas [][]rune
	top    float64
}

func newShaft(top float64) *shaft {
	canvas := make([][]rune, shaftHeight)
	for i := range canvas {
		canvas[i] = make([]rune, shaftWidth)
	}
	return &shaft{canvas: canvas, top: top}
}

func (s *shaft) clear() {
	for y := range s.canvas {
		for x := range s.canvas[y] {
			s.canvas[y][x] = ' '
		}
	}
}

func (s *shaft) set(x, y int, c rune) {
	if x >= 0 && x < shaftWidth && y >= 0 && y < shaftHeight {
		s.canvas[y][x] = c
	}
}

func (s *shaft) line(x1, x2, y int, c rune) {
	for x := x1; x <= x2; x++ {
		s.set(x, y, c)
	}
}

// row maps a height to a canvas row; the ground is the last row.
func (s *shaft) row(h float64) int {
	ground := shaftHeight - 1
	if s.top <= 0 {
		return ground - 1
	}
	frac := h / s.top
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int(float64(ground-1) * (1 - frac))
}

func (s *shaft) draw(cur fall.Sample) string {
	s.clear()
	ground := shaftHeight - 1
	mid := shaftWidth / 2

	for y := 0; y < ground; y++ {
		s.set(0, y, '│')
	}
	for q := 0; q <= 4; q++ {
		s.set(1, s.row(s.top*float64(q)/4), '╴')
	}
	s.line(0, shaftWidth-1, ground, '▔')

	body := s.row(cur.Height)
	if cur.Speed > 0 {
		for y := body - 1; y >= 0 && y >= body-trailLength(cur.Speed); y-- {
			s.set(mid, y, '┆')
		}
	}
	s.set(mid, body, '●')

	var b strings.Builder
	for _, r := range s.canvas {
		b.WriteString(string(r))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%-*s", shaftWidth, fmt.Sprintf("%.1f m", cur.Height)))
	return b.String()
}

// trailLength grows with speed, one cell per 5 m/s, capped at 4.
func trailLength(speed float64) int {
	n := int(speed / 5)
	if n > 4 {
		n = 4
	}
	return n
}
