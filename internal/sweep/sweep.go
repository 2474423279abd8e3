// Package sweep explores coefficient space along smooth, seeded noise
// trajectories. Unlike a grid search, a sweep perturbs several
// coefficients together with simplex noise, giving continuous,
// reproducible excursions around a base tuning.
package sweep

import (
	"context"
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/selkora/hyperfield/internal/config"
	"github.com/selkora/hyperfield/internal/equation"
	"github.com/selkora/hyperfield/internal/metrics"
	"github.com/selkora/hyperfield/internal/sim"
)

// noiseScale sets how fast the modulation wanders step to step.
const noiseScale = 0.15

// Point is one evaluated position along the sweep.
type Point struct {
	Step           int
	Coefficients   map[string]float64
	MeanObservable float64
	PeakPotential  float64
}

type Sweep struct {
	noise     opensimplex.Noise
	seed      int64
	names     []string
	amplitude float64
}

// New builds a sweep over the named coefficients. Amplitude is the
// maximum relative excursion (0.5 means ±50% of the base value).
func New(seed int64, names []string, amplitude float64) (*Sweep, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("sweep needs at least one coefficient")
	}
	if amplitude <= 0 {
		return nil, fmt.Errorf("amplitude must be positive, got %g", amplitude)
	}
	return &Sweep{
		noise:     opensimplex.New(seed),
		seed:      seed,
		names:     names,
		amplitude: amplitude,
	}, nil
}

// Offsets returns the relative modulation per coefficient at a step.
// Each coefficient gets its own noise lane so they drift independently
// but deterministically for a given seed.
func (s *Sweep) Offsets(step int) map[string]float64 {
	out := make(map[string]float64, len(s.names))
	for lane, name := range s.names {
		n := s.noise.Eval2(float64(step)*noiseScale, float64(lane)*7.31)
		out[name] = n * s.amplitude
	}
	return out
}

// Run evaluates steps positions: at each one the base coefficients are
// modulated, clamped into their documented ranges, and a short run is
// measured.
func (s *Sweep) Run(ctx context.Context, base *config.Config, steps, cyclesPerStep int) ([]Point, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if cyclesPerStep <= 0 {
		return nil, fmt.Errorf("cycles per step must be positive, got %d", cyclesPerStep)
	}

	points := make([]Point, 0, steps)
	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return points, ctx.Err()
		default:
		}

		cfg := *base
		offsets := s.Offsets(step)

		calc, err := equation.New(cfg.Equation())
		if err != nil {
			return points, fmt.Errorf("step %d: %w", step, err)
		}

		coeffs := calc.Coefficients()
		applied := make(map[string]float64, len(offsets))
		for name, rel := range offsets {
			basev, ok := coeffs[name]
			if !ok {
				return points, fmt.Errorf("step %d: unknown coefficient %s", step, name)
			}
			v := config.ClampValue(name, basev*(1+rel))
			if err := calc.SetCoefficient(name, v); err != nil {
				return points, fmt.Errorf("step %d: %w", step, err)
			}
			applied[name] = v
		}

		runner := sim.New(calc)
		mean := metrics.NewMeanObservable()
		peak := metrics.NewPeakPotential()
		runner.AddMetric(mean)
		runner.AddMetric(peak)

		result, err := runner.Run(ctx, sim.Config{Cycles: cyclesPerStep})
		if err != nil {
			return points, fmt.Errorf("step %d: %w", step, err)
		}

		points = append(points, Point{
			Step:           step,
			Coefficients:   applied,
			MeanObservable: result.Metrics["mean_observable"],
			PeakPotential:  result.Metrics["peak_potential"],
		})
	}

	return points, nil
}
