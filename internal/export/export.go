// Package export writes run frames to interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/selkora/hyperfield/internal/equation"
)

// WriteCSV emits one row per cycle with all four energy components.
func WriteCSV(w io.Writer, frames []equation.DimensionData) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"cycle", "dimension", "observable", "potential", "dark_matter", "dark_energy"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, f := range frames {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(f.Dimension),
			strconv.FormatFloat(f.Observable, 'f', 6, 64),
			strconv.FormatFloat(f.Potential, 'f', 6, 64),
			strconv.FormatFloat(f.DarkMatter, 'f', 6, 64),
			strconv.FormatFloat(f.DarkEnergy, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Run bundles run metadata with its frames for JSON export.
type Run struct {
	ID           string                   `json:"id"`
	Preset       string                   `json:"preset,omitempty"`
	Coefficients map[string]float64       `json:"coefficients,omitempty"`
	Metrics      map[string]float64       `json:"metrics,omitempty"`
	Frames       []equation.DimensionData `json:"frames"`
}

// WriteJSON emits an indented run document.
func WriteJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// ErrNoFrames is returned when there is nothing to export.
var ErrNoFrames = fmt.Errorf("export: no frames")
