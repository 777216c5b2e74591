package config

import "sort"

var Presets = map[string]*Config{
	"baseline": DefaultConfig(),
	"viral": {
		Beta: 0.8, Gamma: 0.1, Theta: 1.8, Rho: 0.0, Horizon: 60, Step: 0.1,
		Initial: InitStateConfig{S: 0.99, I: 0.01, R: 0.0},
	},
	"fading": {
		Beta: 0.15, Gamma: 0.4, Theta: 0.5, Rho: 0.0, Horizon: 60, Step: 0.1,
		Initial: InitStateConfig{S: 0.95, I: 0.05, R: 0.0},
	},
	"recurring": {
		Beta: 0.5, Gamma: 0.2, Theta: 1.2, Rho: 0.3, Horizon: 365, Step: 0.1,
		Initial: InitStateConfig{S: 0.95, I: 0.05, R: 0.0},
	},
	"misinformation": {
		Beta: 0.3, Gamma: 0.15, Theta: 2.0, Rho: 0.1, Horizon: 180, Step: 0.1,
		Initial: InitStateConfig{S: 0.98, I: 0.02, R: 0.0},
	},
}

// GetPreset returns a copy so callers may override fields.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
