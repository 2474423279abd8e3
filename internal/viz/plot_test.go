package viz

import (
	"strings"
	"testing"

	"github.com/selkora/hyperfield/internal/equation"
)

func TestEnergyPlots(t *testing.T) {
	frames := []equation.DimensionData{
		{Dimension: 1, Observable: 1.0, Potential: 0.5, DarkMatter: 0.1, DarkEnergy: 0.1},
		{Dimension: 2, Observable: 2.0, Potential: 0.8, DarkMatter: 0.2, DarkEnergy: 0.2},
		{Dimension: 3, Observable: 1.5, Potential: 0.6, DarkMatter: 0.15, DarkEnergy: 0.3},
	}

	out := EnergyPlots(frames, 40, 5)
	for _, caption := range []string{"observable vs cycle", "potential vs cycle", "dark matter vs cycle", "dark energy vs cycle"} {
		if !strings.Contains(out, caption) {
			t.Errorf("missing plot caption %q", caption)
		}
	}

	if got := EnergyPlots(nil, 40, 5); got != "no frames" {
		t.Errorf("expected placeholder for empty frames, got %q", got)
	}
}

func TestDimensionTrace(t *testing.T) {
	frames := []equation.DimensionData{
		{Dimension: 1}, {Dimension: 2}, {Dimension: 3}, {Dimension: 1},
	}
	out := DimensionTrace(frames, 40)
	if !strings.Contains(out, "active dimension") {
		t.Error("missing caption")
	}
}
