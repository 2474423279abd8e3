package sim

import (
	"context"
	"testing"

	"github.com/selkora/hyperfield/internal/equation"
)

func newTestCalc(t *testing.T, maxDims int) *equation.Calculator {
	t.Helper()
	cfg := equation.DefaultConfig()
	cfg.MaxDimensions = maxDims
	calc, err := equation.New(cfg)
	if err != nil {
		t.Fatalf("calculator construction failed: %v", err)
	}
	return calc
}

func TestRunnerRun(t *testing.T) {
	calc := newTestCalc(t, 5)
	runner := New(calc)

	result, err := runner.Run(context.Background(), Config{Cycles: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 10 {
		t.Errorf("expected 10 frames, got %d", len(result.Frames))
	}
	if result.CyclesRun != 10 {
		t.Errorf("expected 10 cycles run, got %d", result.CyclesRun)
	}

	// Frames walk the dimensions cyclically starting at mode.
	want := 1
	for i, frame := range result.Frames {
		if frame.Dimension != want {
			t.Errorf("frame %d: expected dimension %d, got %d", i, want, frame.Dimension)
		}
		want = want%5 + 1
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	runner := New(newTestCalc(t, 3))

	for _, cycles := range []int{0, -5} {
		if _, err := runner.Run(context.Background(), Config{Cycles: cycles}); err == nil {
			t.Errorf("expected error for cycles=%d", cycles)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	runner := New(newTestCalc(t, 3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx, Config{Cycles: 100})
	if err == nil {
		t.Error("expected context error")
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames after immediate cancel, got %d", len(result.Frames))
	}
}

type countMetric struct {
	count int
}

func (m *countMetric) Name() string                                   { return "count" }
func (m *countMetric) Observe(data equation.DimensionData, cycle int) { m.count++ }
func (m *countMetric) Value() float64                                 { return float64(m.count) }
func (m *countMetric) Reset()                                         { m.count = 0 }

func TestRunnerMetrics(t *testing.T) {
	runner := New(newTestCalc(t, 4))

	metric := &countMetric{}
	runner.AddMetric(metric)

	result, err := runner.Run(context.Background(), Config{Cycles: 8})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 8 {
		t.Errorf("expected 8 observations, got %f", result.Metrics["count"])
	}
}

func TestRunnerCallbackStopsEarly(t *testing.T) {
	runner := New(newTestCalc(t, 4))

	seen := 0
	err := runner.RunWithCallback(context.Background(), Config{Cycles: 100}, func(data equation.DimensionData, cycle int) bool {
		seen++
		return seen < 5
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if seen != 5 {
		t.Errorf("expected 5 callbacks, got %d", seen)
	}
}

func TestEnsembleRun(t *testing.T) {
	factory := func() (*equation.Calculator, error) {
		cfg := equation.DefaultConfig()
		cfg.MaxDimensions = 4
		return equation.New(cfg)
	}

	ens := NewEnsemble(factory, func(calc *equation.Calculator, idx int) {
		calc.SetInfluence(1.0 + float64(idx))
	})
	ens.AddMetric(func() Metric { return &countMetric{} })

	results, err := ens.Run(context.Background(), 4, Config{Cycles: 6})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, res := range results {
		if res.CyclesRun != 6 {
			t.Errorf("variant %d: expected 6 cycles, got %d", i, res.CyclesRun)
		}
		if res.Metrics["count"] != 6 {
			t.Errorf("variant %d: expected count 6, got %f", i, res.Metrics["count"])
		}
	}

	// Higher influence must not leak between variants: variant 3's
	// observable should exceed variant 0's at every shared dimension.
	if results[3].Frames[0].Observable <= results[0].Frames[0].Observable {
		t.Error("influence variants produced non-increasing observables")
	}
}
