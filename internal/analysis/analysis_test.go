package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/physcore/internal/sim"
)

func sine(freq, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		dt   float64
		n    int
	}{
		{"power of two", 2, 0.01, 512},
		{"odd length", 1.5, 1.0 / 60, 601},
		{"slow", 0.25, 0.05, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, power := DominantFrequency(sine(tt.freq, tt.dt, tt.n), tt.dt)
			resolution := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(f-tt.freq) > resolution {
				t.Errorf("expected %f Hz within %f, got %f", tt.freq, resolution, f)
			}
			if power <= 0 {
				t.Errorf("expected positive power, got %f", power)
			}
		})
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if f, p := DominantFrequency([]float64{1}, 0.1); f != 0 || p != 0 {
		t.Errorf("expected zero for a single sample, got %f, %f", f, p)
	}
	if f, _ := DominantFrequency(sine(1, 0.01, 100), 0); f != 0 {
		t.Errorf("expected zero for non-positive dt, got %f", f)
	}
}

func TestPowerSpectrumIgnoresOffset(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5, 5, 5})
	for i, v := range ps {
		if v > 1e-9 {
			t.Errorf("bin %d: expected no power in a constant signal, got %f", i, v)
		}
	}
}

func TestDivergence(t *testing.T) {
	const dt = 0.1
	const rate = 0.7
	a := make([]sim.State, 50)
	b := make([]sim.State, 50)
	for i := range a {
		sep := 1e-6 * math.Exp(rate*float64(i)*dt)
		a[i] = sim.State{1, 2}
		b[i] = sim.State{1 + sep, 2}
	}

	if got := Divergence(a, b, dt); math.Abs(got-rate) > 1e-3 {
		t.Errorf("expected rate %f, got %f", rate, got)
	}
	if got := Divergence(a, a, dt); got != 0 {
		t.Errorf("expected zero for identical runs, got %f", got)
	}
}

func TestColumn(t *testing.T) {
	states := []sim.State{{1, 2}, {3, 4}, {5}}
	got := Column(states, 1)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("unexpected column %v", got)
	}
}

func TestPhasePortrait(t *testing.T) {
	states := make([]sim.State, 200)
	for i := range states {
		th := 2 * math.Pi * float64(i) / 200
		states[i] = sim.State{math.Cos(th), 0, math.Sin(th)}
	}

	p := NewPhasePortrait(states, 0, 2)
	if p == nil || len(p.Points) != 200 {
		t.Fatalf("expected 200 points, got %+v", p)
	}

	art := p.ASCII(40, 20)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 lines, got %d", len(lines))
	}
	if !strings.Contains(art, "•") || !strings.Contains(art, "│") || !strings.Contains(art, "─") {
		t.Errorf("expected points and both axes:\n%s", art)
	}

	if NewPhasePortrait(states, 0, 3) != nil {
		t.Error("expected nil for out of range column")
	}
	if (*PhasePortrait2D)(nil).ASCII(10, 10) != "" {
		t.Error("expected empty rendering for nil portrait")
	}
}
