package analysis

import (
	"strings"

	"github.com/san-kum/physcore/internal/sim"
)

// PhasePortrait2D holds one state column plotted against another.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// NewPhasePortrait pairs columns xIdx and yIdx of a recorded trajectory,
// typically a position and its velocity. It returns nil when either index
// is out of range.
func NewPhasePortrait(states []sim.State, xIdx, yIdx int) *PhasePortrait2D {
	if len(states) == 0 || xIdx >= len(states[0]) || yIdx >= len(states[0]) || xIdx < 0 || yIdx < 0 {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}
	for _, x := range states {
		if xIdx >= len(x) || yIdx >= len(x) {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait
}

// ASCII renders the portrait on a width×height character grid with a
// tenth of the range as margin on each side. Axes are drawn where zero is
// visible.
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
