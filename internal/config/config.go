package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/selkora/hyperfield/internal/equation"
)

const (
	DefaultMaxDimensions = 9
	DefaultCycles        = 90
	DefaultFrameRate     = 30
)

// Coefficients mirrors the calculator tunables. Documented ranges are
// advisory: out-of-range values degrade output quality but never crash;
// Clamp normalizes them.
type Coefficients struct {
	Influence      float64 `yaml:"influence" json:"influence"`               // [0, 10]
	Weak           float64 `yaml:"weak" json:"weak"`                         // [0, 1]
	Collapse       float64 `yaml:"collapse" json:"collapse"`                 // [0, 5]
	TwoD           float64 `yaml:"two_d" json:"two_d"`                       // [0, 5]
	ThreeD         float64 `yaml:"three_d" json:"three_d"`                   // [0, 5]
	OneDPermeation float64 `yaml:"one_d_permeation" json:"one_d_permeation"` // [0, 5]
	DarkMatter     float64 `yaml:"dark_matter" json:"dark_matter"`           // [0, 2]
	DarkEnergy     float64 `yaml:"dark_energy" json:"dark_energy"`           // [0, 2]
	Alpha          float64 `yaml:"alpha" json:"alpha"`                       // [0.01, 10]
	Beta           float64 `yaml:"beta" json:"beta"`                         // [0, 5]
}

type Config struct {
	MaxDimensions int          `yaml:"max_dimensions"`
	Mode          int          `yaml:"mode"`
	Cycles        int          `yaml:"cycles"`
	FrameRate     int          `yaml:"frame_rate"`
	Debug         bool         `yaml:"debug"`
	Coefficients  Coefficients `yaml:"coefficients"`
}

func DefaultConfig() *Config {
	eq := equation.DefaultConfig()
	return &Config{
		MaxDimensions: DefaultMaxDimensions,
		Mode:          1,
		Cycles:        DefaultCycles,
		FrameRate:     DefaultFrameRate,
		Coefficients: Coefficients{
			Influence:      eq.Influence,
			Weak:           eq.Weak,
			Collapse:       eq.Collapse,
			TwoD:           eq.TwoD,
			ThreeD:         eq.ThreeD,
			OneDPermeation: eq.OneDPermeation,
			DarkMatter:     eq.DarkMatter,
			DarkEnergy:     eq.DarkEnergy,
			Alpha:          eq.Alpha,
			Beta:           eq.Beta,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Equation converts to the calculator's construction parameters.
func (c *Config) Equation() equation.Config {
	return equation.Config{
		MaxDimensions:  c.MaxDimensions,
		Mode:           c.Mode,
		Influence:      c.Coefficients.Influence,
		Weak:           c.Coefficients.Weak,
		Collapse:       c.Coefficients.Collapse,
		TwoD:           c.Coefficients.TwoD,
		ThreeD:         c.Coefficients.ThreeD,
		OneDPermeation: c.Coefficients.OneDPermeation,
		DarkMatter:     c.Coefficients.DarkMatter,
		DarkEnergy:     c.Coefficients.DarkEnergy,
		Alpha:          c.Coefficients.Alpha,
		Beta:           c.Coefficients.Beta,
		Debug:          c.Debug,
	}
}

// Range is the documented [Min, Max] span for one coefficient.
type Range struct {
	Min, Max float64
}

// CoefficientRanges holds the documented ranges keyed by coefficient name.
var CoefficientRanges = map[string]Range{
	"influence":        {0, 10},
	"weak":             {0, 1},
	"collapse":         {0, 5},
	"two_d":            {0, 5},
	"three_d":          {0, 5},
	"one_d_permeation": {0, 5},
	"dark_matter":      {0, 2},
	"dark_energy":      {0, 2},
	"alpha":            {0.01, 10},
	"beta":             {0, 5},
}

// ClampValue forces v inside name's documented range. Unknown names
// pass through unchanged.
func ClampValue(name string, v float64) float64 {
	r, ok := CoefficientRanges[name]
	if !ok {
		return v
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

type bound struct {
	name string
	val  *float64
}

// Clamp forces every coefficient inside its documented range and
// returns a description of each adjustment made.
func (c *Config) Clamp() []string {
	bounds := []bound{
		{"influence", &c.Coefficients.Influence},
		{"weak", &c.Coefficients.Weak},
		{"collapse", &c.Coefficients.Collapse},
		{"two_d", &c.Coefficients.TwoD},
		{"three_d", &c.Coefficients.ThreeD},
		{"one_d_permeation", &c.Coefficients.OneDPermeation},
		{"dark_matter", &c.Coefficients.DarkMatter},
		{"dark_energy", &c.Coefficients.DarkEnergy},
		{"alpha", &c.Coefficients.Alpha},
		{"beta", &c.Coefficients.Beta},
	}

	var adjusted []string
	for _, b := range bounds {
		orig := *b.val
		*b.val = ClampValue(b.name, orig)
		if *b.val != orig {
			adjusted = append(adjusted, fmt.Sprintf("%s: %g -> %g", b.name, orig, *b.val))
		}
	}

	if c.MaxDimensions < equation.MinDimensions || c.MaxDimensions > equation.MaxSupportedDimensions {
		orig := c.MaxDimensions
		if c.MaxDimensions < equation.MinDimensions {
			c.MaxDimensions = equation.MinDimensions
		} else {
			c.MaxDimensions = equation.MaxSupportedDimensions
		}
		adjusted = append(adjusted, fmt.Sprintf("max_dimensions: %d -> %d", orig, c.MaxDimensions))
	}
	if c.Mode < 1 || c.Mode > c.MaxDimensions {
		adjusted = append(adjusted, fmt.Sprintf("mode: %d -> 1", c.Mode))
		c.Mode = 1
	}

	return adjusted
}
