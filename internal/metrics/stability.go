package metrics

import "github.com/san-kum/physcore/internal/sim"

// AwakeRatio is the mean fraction of bodies awake per frame. Worlds
// without sleep report 1.
type AwakeRatio struct {
	name    string
	sum     float64
	samples int
}

func NewAwakeRatio() *AwakeRatio {
	return &AwakeRatio{name: "awake_ratio"}
}

func (a *AwakeRatio) Name() string { return a.name }

func (a *AwakeRatio) Observe(s sim.Sample) {
	a.samples++
	if s.Bodies == 0 {
		a.sum++
		return
	}
	a.sum += float64(s.Awake) / float64(s.Bodies)
}

func (a *AwakeRatio) Value() float64 {
	if a.samples == 0 {
		return 1.0
	}
	return a.sum / float64(a.samples)
}

func (a *AwakeRatio) Reset() {
	a.sum = 0
	a.samples = 0
}

// Default returns the metric set every scene run reports.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewContactLoad(),
		NewResolverEffort(),
		NewPenetration(),
		NewAwakeRatio(),
		NewTruncations(),
	}
}
