package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/selkora/hyperfield/internal/config"
	"github.com/selkora/hyperfield/internal/equation"
	"github.com/selkora/hyperfield/internal/metrics"
	"github.com/selkora/hyperfield/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func makeTestRun(t *testing.T, cfg *config.Config) *sim.Result {
	t.Helper()
	calc, err := equation.New(cfg.Equation())
	if err != nil {
		t.Fatalf("calculator construction failed: %v", err)
	}
	runner := sim.New(calc)
	runner.AddMetric(metrics.NewMeanObservable())

	result, err := runner.Run(context.Background(), sim.Config{Cycles: cfg.Cycles})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestSaveAndLoadRun(t *testing.T) {
	st := openTestStore(t)

	cfg := config.DefaultConfig()
	cfg.MaxDimensions = 4
	cfg.Cycles = 8
	result := makeTestRun(t, cfg)

	runID, err := st.SaveRun(cfg, "standard", result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	rec, err := st.LoadRun(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Preset != "standard" {
		t.Errorf("expected preset standard, got %s", rec.Preset)
	}
	if rec.MaxDimensions != 4 {
		t.Errorf("expected 4 max dimensions, got %d", rec.MaxDimensions)
	}
	if rec.Cycles != 8 {
		t.Errorf("expected 8 cycles, got %d", rec.Cycles)
	}

	coeffs, err := rec.CoefficientMap()
	if err != nil {
		t.Fatalf("decode coefficients: %v", err)
	}
	if coeffs["influence"] != cfg.Coefficients.Influence {
		t.Errorf("influence not round-tripped: %v", coeffs)
	}
	if coeffs["two_d"] != cfg.Coefficients.TwoD {
		t.Errorf("coefficient keys not snake_case: %v", coeffs)
	}

	mets, err := rec.MetricMap()
	if err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := mets["mean_observable"]; !ok {
		t.Error("mean_observable metric missing")
	}
}

func TestLoadFrames(t *testing.T) {
	st := openTestStore(t)

	cfg := config.DefaultConfig()
	cfg.MaxDimensions = 3
	cfg.Cycles = 6
	result := makeTestRun(t, cfg)

	runID, err := st.SaveRun(cfg, "", result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f != result.Frames[i] {
			t.Errorf("frame %d not round-tripped: %+v vs %+v", i, f, result.Frames[i])
		}
	}
}

func TestListRuns(t *testing.T) {
	st := openTestStore(t)

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	cfg := config.DefaultConfig()
	cfg.MaxDimensions = 3
	cfg.Cycles = 3
	for i := 0; i < 3; i++ {
		if _, err := st.SaveRun(cfg, "standard", makeTestRun(t, cfg)); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	runs, err = st.ListRuns(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected limit of 2 runs, got %d", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadRun("no-such-id"); err == nil {
		t.Error("expected error for missing run")
	}
}
