package equation

import "math"

// EnergyResult is the four-component output of a single Compute call.
// It is a plain value; callers may copy it freely.
type EnergyResult struct {
	Observable float64
	Potential  float64
	DarkMatter float64
	DarkEnergy float64
}

// IsFinite reports whether all four components are finite.
func (r EnergyResult) IsFinite() bool {
	for _, v := range [...]float64{r.Observable, r.Potential, r.DarkMatter, r.DarkEnergy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DimensionData tags an EnergyResult with the dimension it was computed
// for. This is the per-tick contract consumed by rendering code.
type DimensionData struct {
	Dimension  int     `json:"dimension"`
	Observable float64 `json:"observable"`
	Potential  float64 `json:"potential"`
	DarkMatter float64 `json:"dark_matter"`
	DarkEnergy float64 `json:"dark_energy"`
}

// Energy returns the untagged result.
func (d DimensionData) Energy() EnergyResult {
	return EnergyResult{
		Observable: d.Observable,
		Potential:  d.Potential,
		DarkMatter: d.DarkMatter,
		DarkEnergy: d.DarkEnergy,
	}
}

// Interaction describes one hypercube vertex's contribution relative to
// the reference vertex (index 0).
type Interaction struct {
	Vertex   int
	Distance float64
	Strength float64
}

// Config holds the construction parameters for a Calculator.
type Config struct {
	MaxDimensions  int
	Mode           int
	Influence      float64
	Weak           float64
	Collapse       float64
	TwoD           float64
	ThreeD         float64
	OneDPermeation float64
	DarkMatter     float64
	DarkEnergy     float64
	Alpha          float64
	Beta           float64
	Debug          bool
}

// DefaultConfig returns the tuning used by the reference renderer.
func DefaultConfig() Config {
	return Config{
		MaxDimensions:  9,
		Mode:           1,
		Influence:      1.0,
		Weak:           0.5,
		Collapse:       0.5,
		TwoD:           1.0,
		ThreeD:         1.5,
		OneDPermeation: 0.3,
		DarkMatter:     0.27,
		DarkEnergy:     0.68,
		Alpha:          2.0,
		Beta:           0.2,
	}
}
