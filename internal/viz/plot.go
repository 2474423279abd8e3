package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/selkora/hyperfield/internal/equation"
)

// components in display order, with extractors.
var components = []struct {
	name string
	pick func(equation.DimensionData) float64
}{
	{"observable", func(f equation.DimensionData) float64 { return f.Observable }},
	{"potential", func(f equation.DimensionData) float64 { return f.Potential }},
	{"dark matter", func(f equation.DimensionData) float64 { return f.DarkMatter }},
	{"dark energy", func(f equation.DimensionData) float64 { return f.DarkEnergy }},
}

// EnergyPlots renders one asciigraph per energy component.
func EnergyPlots(frames []equation.DimensionData, width, height int) string {
	if len(frames) == 0 {
		return "no frames"
	}

	var sb strings.Builder
	for _, comp := range components {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = comp.pick(f)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s vs cycle", comp.name)),
		)
		sb.WriteString(graph)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// DimensionTrace renders the active-dimension staircase over cycles.
func DimensionTrace(frames []equation.DimensionData, width int) string {
	if len(frames) == 0 {
		return "no frames"
	}
	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = float64(f.Dimension)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Caption("active dimension"),
	)
}
