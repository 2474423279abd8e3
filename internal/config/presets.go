package config

// Presets are hand-tuned starting points for the model. Coefficients
// not listed fall back to the defaults.
var Presets = map[string]*Config{
	"standard": {
		MaxDimensions: 9, Mode: 1, Cycles: 90, FrameRate: 30,
		Coefficients: Coefficients{
			Influence: 1.0, Weak: 0.5, Collapse: 0.5, TwoD: 1.0, ThreeD: 1.5,
			OneDPermeation: 0.3, DarkMatter: 0.27, DarkEnergy: 0.68, Alpha: 2.0, Beta: 0.2,
		},
	},
	"flatland": {
		MaxDimensions: 4, Mode: 2, Cycles: 60, FrameRate: 30,
		Coefficients: Coefficients{
			Influence: 2.0, Weak: 0.3, Collapse: 1.0, TwoD: 3.0, ThreeD: 0.5,
			OneDPermeation: 0.1, DarkMatter: 0.1, DarkEnergy: 0.2, Alpha: 1.5, Beta: 0.4,
		},
	},
	"volumetric": {
		MaxDimensions: 6, Mode: 3, Cycles: 120, FrameRate: 30,
		Coefficients: Coefficients{
			Influence: 1.5, Weak: 0.6, Collapse: 0.3, TwoD: 0.8, ThreeD: 3.0,
			OneDPermeation: 0.2, DarkMatter: 0.3, DarkEnergy: 0.5, Alpha: 1.8, Beta: 0.15,
		},
	},
	"deepfield": {
		MaxDimensions: 20, Mode: 1, Cycles: 200, FrameRate: 15,
		Coefficients: Coefficients{
			Influence: 0.8, Weak: 0.15, Collapse: 0.2, TwoD: 1.0, ThreeD: 1.0,
			OneDPermeation: 0.05, DarkMatter: 0.4, DarkEnergy: 0.9, Alpha: 2.5, Beta: 0.1,
		},
	},
	"darkage": {
		MaxDimensions: 9, Mode: 1, Cycles: 90, FrameRate: 30,
		Coefficients: Coefficients{
			Influence: 0.5, Weak: 0.5, Collapse: 0.1, TwoD: 1.0, ThreeD: 1.0,
			OneDPermeation: 0.1, DarkMatter: 1.6, DarkEnergy: 1.8, Alpha: 2.0, Beta: 0.2,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
