// Package optim searches coefficient space for tunings that optimize a
// run metric.
package optim

import (
	"context"
	"fmt"
	"math"
)

// Objective evaluates one coefficient assignment and returns the metric
// value to minimize.
type Objective func(ctx context.Context, coeffs map[string]float64) (float64, error)

// Range describes the grid for one coefficient.
type Range struct {
	Name  string
	Min   float64
	Max   float64
	Steps int
}

// Values expands the range into its grid points.
func (r Range) Values() []float64 {
	if r.Steps <= 1 {
		return []float64{r.Min}
	}
	vals := make([]float64, r.Steps)
	step := (r.Max - r.Min) / float64(r.Steps-1)
	for i := range vals {
		vals[i] = r.Min + float64(i)*step
	}
	return vals
}

type GridSearch struct {
	ranges []Range
}

func NewGridSearch(ranges []Range) (*GridSearch, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("grid search needs at least one range")
	}
	for _, r := range ranges {
		if r.Steps < 1 {
			return nil, fmt.Errorf("range %s: steps must be at least 1", r.Name)
		}
		if r.Max < r.Min {
			return nil, fmt.Errorf("range %s: max below min", r.Name)
		}
	}
	return &GridSearch{ranges: ranges}, nil
}

// Search walks the full grid and returns the assignment with the lowest
// objective value. Evaluation errors skip the point; context
// cancellation aborts the walk.
func (g *GridSearch) Search(ctx context.Context, eval Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestCoeffs map[string]float64

	err := g.walk(ctx, 0, make(map[string]float64), eval, &best, &bestCoeffs)
	if err != nil {
		return nil, 0, err
	}
	if bestCoeffs == nil {
		return nil, 0, fmt.Errorf("no grid point evaluated successfully")
	}
	return bestCoeffs, best, nil
}

func (g *GridSearch) walk(ctx context.Context, depth int, current map[string]float64, eval Objective, best *float64, bestCoeffs *map[string]float64) error {
	if depth == len(g.ranges) {
		val, err := eval(ctx, current)
		if err != nil {
			return nil // skip failed points
		}
		if val < *best {
			*best = val
			snapshot := make(map[string]float64, len(current))
			for k, v := range current {
				snapshot[k] = v
			}
			*bestCoeffs = snapshot
		}
		return nil
	}

	r := g.ranges[depth]
	for _, v := range r.Values() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current[r.Name] = v
		if err := g.walk(ctx, depth+1, current, eval, best, bestCoeffs); err != nil {
			return err
		}
	}
	delete(current, r.Name)
	return nil
}
