package analysis

import (
	"math"

	"github.com/san-kum/physcore/internal/sim"
)

// Divergence fits a line to the log of the distance between two
// trajectories recorded every dt and returns its slope. A positive value
// means the runs separate exponentially. Frames where the runs coincide
// are skipped; fewer than two usable frames give zero.
func Divergence(a, b []sim.State, dt float64) float64 {
	n := min(len(a), len(b))

	var sumT, sumL, sumTT, sumTL float64
	count := 0
	for i := 0; i < n; i++ {
		d := distance(a[i], b[i])
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		t := float64(i) * dt
		l := math.Log(d)
		sumT += t
		sumL += l
		sumTT += t * t
		sumTL += t * l
		count++
	}
	if count < 2 {
		return 0
	}

	c := float64(count)
	denom := c*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}
	return (c*sumTL - sumT*sumL) / denom
}

func distance(a, b sim.State) float64 {
	sum := 0.0
	for i := 0; i < min(len(a), len(b)); i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Column extracts one state component from every frame.
func Column(states []sim.State, idx int) []float64 {
	out := make([]float64, 0, len(states))
	for _, s := range states {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}
