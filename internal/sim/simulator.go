package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(stepper Stepper, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances the stepper for the configured number of frames, recording
// the state after each recorded frame. The initial state is always kept.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	stride := max(cfg.Stride, 1)
	result := &Result{
		Labels:  s.stepper.Labels(),
		States:  make([]State, 0, steps/stride+1),
		Times:   make([]float64, 0, steps/stride+1),
		Samples: make([]Sample, 0, steps/stride+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.States = append(result.States, s.stepper.State())
	result.Times = append(result.Times, t)
	result.Samples = append(result.Samples, s.stepper.Sample())

	s.logger.Info("run started", zap.Int("steps", steps), zap.Float64("dt", cfg.Dt))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := s.stepper.Step(cfg.Dt); err != nil {
			s.finish(result)
			return result, &StepError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt
		result.StepsTaken++

		x := s.stepper.State()
		if !x.IsValid() {
			s.finish(result)
			return result, &StepError{Step: i, Time: t, Wrapped: ErrInvalidState}
		}

		sample := s.stepper.Sample()
		sample.Time = t
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, sample)
		}

		if (i+1)%stride == 0 || i == steps-1 {
			result.States = append(result.States, x)
			result.Times = append(result.Times, t)
			result.Samples = append(result.Samples, sample)
		}
	}

	s.finish(result)
	s.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.String("fingerprint", fmt.Sprintf("%016x", result.Fingerprint)))
	return result, nil
}

// RunWithCallback steps until the configured end or until callback returns
// false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(State, Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.stepper.Step(cfg.Dt); err != nil {
			return &StepError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt

		sample := s.stepper.Sample()
		sample.Time = t
		if !callback(s.stepper.State(), sample) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Fingerprint = s.stepper.Fingerprint()
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Frames <= 0 && !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Stride < 0 {
		return fmt.Errorf("%w: stride must not be negative, got %d", ErrInvalidConfig, cfg.Stride)
	}
	return nil
}
