package export

import (
	"fmt"
	"strings"

	"github.com/selkora/hyperfield/internal/equation"
)

var svgSeries = []struct {
	name  string
	color string
	pick  func(equation.DimensionData) float64
}{
	{"observable", "#00ff88", func(f equation.DimensionData) float64 { return f.Observable }},
	{"potential", "#ffaa00", func(f equation.DimensionData) float64 { return f.Potential }},
	{"dark matter", "#b069ff", func(f equation.DimensionData) float64 { return f.DarkMatter }},
	{"dark energy", "#ff5577", func(f equation.DimensionData) float64 { return f.DarkEnergy }},
}

// EnergySVG renders all four energy components as polylines over the
// cycle axis, sharing one vertical scale.
func EnergySVG(frames []equation.DimensionData, width, height int) (string, error) {
	if len(frames) < 2 {
		return "", ErrNoFrames
	}

	minV, maxV := frames[0].Observable, frames[0].Observable
	for _, f := range frames {
		for _, s := range svgSeries {
			v := s.pick(f)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range svgSeries {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.color))
		for i, f := range frames {
			x := float64(i) / float64(len(frames)-1) * float64(width)
			y := float64(height) - (s.pick(f)-minV)/rangeV*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}
