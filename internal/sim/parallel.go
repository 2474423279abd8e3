package sim

import (
	"context"
	"sync"

	"github.com/selkora/hyperfield/internal/equation"
)

// Ensemble runs independent calculators in parallel, one per variant.
// The factory builds a fresh calculator for each slot so runs never
// share mutable state; mutate applies the per-variant tweak before the
// run starts.
type Ensemble struct {
	factory func() (*equation.Calculator, error)
	mutate  func(calc *equation.Calculator, idx int)
	metrics []func() Metric
}

func NewEnsemble(factory func() (*equation.Calculator, error), mutate func(*equation.Calculator, int)) *Ensemble {
	return &Ensemble{factory: factory, mutate: mutate}
}

// AddMetric registers a metric constructor; each run gets its own
// instance.
func (e *Ensemble) AddMetric(mk func() Metric) {
	e.metrics = append(e.metrics, mk)
}

func (e *Ensemble) Run(ctx context.Context, variants int, cfg Config) ([]*Result, error) {
	results := make([]*Result, variants)
	errs := make([]error, variants)

	var wg sync.WaitGroup
	for i := 0; i < variants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			calc, err := e.factory()
			if err != nil {
				errs[idx] = err
				return
			}
			if e.mutate != nil {
				e.mutate(calc, idx)
			}

			runner := New(calc)
			for _, mk := range e.metrics {
				runner.AddMetric(mk())
			}

			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
