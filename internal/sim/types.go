package sim

import (
	"fmt"

	"github.com/selkora/hyperfield/internal/equation"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(data equation.DimensionData, cycle int)
	Value() float64
	Reset()
}

// Observer sees every tick as it happens.
type Observer interface {
	OnCycle(data equation.DimensionData, cycle int)
}

type Config struct {
	// Cycles is the number of ticks to run; each tick produces one
	// DimensionData frame and then advances the dimension.
	Cycles int
}

type Result struct {
	Frames    []equation.DimensionData
	Metrics   map[string]float64
	CyclesRun int
}

type RunError struct {
	Cycle   int
	Message string
}

func (e RunError) Error() string {
	return fmt.Sprintf("cycle %d: %s", e.Cycle, e.Message)
}
