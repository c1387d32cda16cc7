package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport maps the world's x/y plane onto canvas sub-pixels, y up. It
// only ever grows, so the picture does not jump as bodies settle.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
	empty                  bool
}

func NewViewport() Viewport {
	return Viewport{empty: true}
}

// Fit grows the viewport to hold every point plus a margin.
func (v *Viewport) Fit(points []mgl64.Vec3) {
	for _, p := range points {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			continue
		}
		if v.empty {
			v.MinX, v.MaxX, v.MinY, v.MaxY = p[0]-1, p[0]+1, p[1]-1, p[1]+1
			v.empty = false
			continue
		}
		v.MinX = min(v.MinX, p[0]-1)
		v.MaxX = max(v.MaxX, p[0]+1)
		v.MinY = min(v.MinY, p[1]-1)
		v.MaxY = max(v.MaxY, p[1]+1)
	}
}

// Project returns the sub-pixel of world point p on c.
func (v Viewport) Project(c *Canvas, p mgl64.Vec3) (int, int) {
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	x := (p[0] - v.MinX) / (v.MaxX - v.MinX) * w
	y := (v.MaxY - p[1]) / (v.MaxY - v.MinY) * h
	return int(math.Round(x)), int(math.Round(y))
}
