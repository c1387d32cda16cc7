package sim

import "math"

// State is a flat readout of every body's kinematic state, in body order.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sample summarizes one frame for metrics and observers.
type Sample struct {
	Time          float64 `json:"time"`
	KineticEnergy float64 `json:"kinetic_energy"`
	Bodies        int     `json:"bodies"`
	Awake         int     `json:"awake"`
	Contacts      int     `json:"contacts"`
	Iterations    int     `json:"iterations"`
	Pairs         int     `json:"pairs"`
	Penetration   float64 `json:"penetration"`
	Truncated     bool    `json:"truncated"`
}

// Stepper is a world the simulator can advance one frame at a time.
type Stepper interface {
	Step(dt float64) error
	State() State
	Labels() []string
	Sample() Sample
	Fingerprint() uint64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
	// Frames overrides Duration when positive.
	Frames int
	// Stride records every Stride-th frame. Zero records all of them.
	Stride int
}

// Steps returns the number of frames cfg asks for.
func (c Config) Steps() int {
	if c.Frames > 0 {
		return c.Frames
	}
	return int(math.Round(c.Duration / c.Dt))
}

type Result struct {
	Labels      []string           `json:"labels"`
	States      []State            `json:"states"`
	Times       []float64          `json:"times"`
	Samples     []Sample           `json:"samples"`
	Metrics     map[string]float64 `json:"metrics"`
	StepsTaken  int                `json:"steps"`
	Fingerprint uint64             `json:"fingerprint"`
}
