package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds the i-th independent stepper of an ensemble.
type Factory func(i int) (Stepper, error)

// Ensemble runs independent worlds concurrently. Each member owns its
// stepper; nothing is shared between goroutines.
type Ensemble struct {
	factory Factory
	metrics func() []Metric
	numRuns int
	limit   int
}

// NewEnsemble runs numRuns members, at most limit at a time. A limit of
// zero or less means no limit.
func NewEnsemble(factory Factory, numRuns, limit int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, limit: limit}
}

// WithMetrics attaches a fresh metric set from fn to every member.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			stepper, err := e.factory(i)
			if err != nil {
				return err
			}
			s := New(stepper, nil)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
