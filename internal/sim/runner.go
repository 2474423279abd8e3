package sim

import (
	"context"
	"fmt"

	"github.com/selkora/hyperfield/internal/equation"
)

// Runner drives a calculator through dimension cycles, collecting one
// energy frame per tick.
type Runner struct {
	calc      *equation.Calculator
	metrics   []Metric
	observers []Observer
}

func New(calc *equation.Calculator) *Runner {
	return &Runner{
		calc:      calc,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Calculator exposes the underlying calculator for live tuning.
func (r *Runner) Calculator() *equation.Calculator { return r.calc }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]equation.DimensionData, 0, cfg.Cycles),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Cycles; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		data := r.calc.UpdateCache()
		if !data.Energy().IsFinite() {
			return result, RunError{Cycle: i, Message: "non-finite energy frame"}
		}

		for _, m := range r.metrics {
			m.Observe(data, i)
		}
		for _, obs := range r.observers {
			obs.OnCycle(data, i)
		}

		result.Frames = append(result.Frames, data)
		result.CyclesRun++

		r.calc.AdvanceCycle()
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until the callback returns false or the cycle
// budget is spent.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(data equation.DimensionData, cycle int) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Cycles; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data := r.calc.UpdateCache()
		if !callback(data, i) {
			return nil
		}
		r.calc.AdvanceCycle()
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", cfg.Cycles)
	}
	return nil
}
