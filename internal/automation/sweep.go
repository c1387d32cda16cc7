package automation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/metrics"
	"github.com/san-kum/physcore/internal/scene"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/world"
)

// ParameterSweep runs one scene across evenly spaced values of a world
// parameter.
type ParameterSweep struct {
	Scene      string
	Integrator string
	Param      string
	Min, Max   float64
	NumSteps   int
	Dt         float64
	Frames     int
	Base       world.Config
	// Parallel caps concurrent runs. Zero runs them all at once.
	Parallel int
}

// SweepResult holds the outcome of one sweep point.
type SweepResult struct {
	ParamValue  float64
	Metrics     map[string]float64
	Fingerprint uint64
	MinEnergy   float64
	MaxEnergy   float64
}

// Values returns the parameter values the sweep visits.
func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps <= 1 {
		return []float64{p.Min}
	}
	step := (p.Max - p.Min) / float64(p.NumSteps-1)
	values := make([]float64, p.NumSteps)
	for i := range values {
		values[i] = p.Min + float64(i)*step
	}
	return values
}

// RunSweep executes the sweep as an ensemble, one member per value.
func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *scene.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	integrator := sweep.Integrator
	if integrator == "" {
		integrator = config.DefaultIntegrator
	}
	values := sweep.Values()

	configs := make([]world.Config, len(values))
	for i, v := range values {
		configs[i] = sweep.Base
		if err := SetParam(&configs[i], sweep.Param, v); err != nil {
			return nil, err
		}
		if err := configs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
	}

	ensemble := sim.NewEnsemble(func(i int) (sim.Stepper, error) {
		return reg.Build(sweep.Scene, scene.Params{Integrator: integrator, World: configs[i], Logger: logger})
	}, len(values), sweep.Parallel).WithMetrics(metrics.Default)

	runs, err := ensemble.Run(ctx, sim.Config{Dt: sweep.Dt, Frames: sweep.Frames})
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		lo, hi := energyRange(r.Samples)
		results[i] = SweepResult{
			ParamValue:  values[i],
			Metrics:     r.Metrics,
			Fingerprint: r.Fingerprint,
			MinEnergy:   lo,
			MaxEnergy:   hi,
		}
		logger.Debug("sweep point",
			zap.String("param", sweep.Param),
			zap.Float64("value", values[i]),
			zap.Uint64("fingerprint", r.Fingerprint))
	}
	return results, nil
}

func energyRange(samples []sim.Sample) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	lo, hi := samples[0].KineticEnergy, samples[0].KineticEnergy
	for _, s := range samples[1:] {
		lo = min(lo, s.KineticEnergy)
		hi = max(hi, s.KineticEnergy)
	}
	return lo, hi
}
