package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/physcore/internal/sim"
)

// RunFunc runs one candidate parameter set.
type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// GridSearch tries every combination of parameter values and keeps the one
// that minimizes a result metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size returns the number of combinations the search visits.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best parameters and their metric value. A failing
// candidate aborts the search.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if g.Size() == 0 {
		return nil, 0, errors.New("optim: empty search grid")
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no candidate reported a finite %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		result, err := run(ctx, current)
		if err != nil {
			return fmt.Errorf("candidate %v: %w", current, err)
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: result has no metric %q", metricName)
		}
		if val < *best {
			*best = val
			*bestParams = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, run, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
