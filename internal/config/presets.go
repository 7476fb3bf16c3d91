package config

import "sort"

var Presets = map[string]map[string]*Config{
	"tred": {
		"stand": {
			Model: "tred", Control: "none", Dt: DefaultDt, Duration: 5.0,
		},
		"crouch": {
			Model: "tred", Control: "constant", Dt: DefaultDt, Duration: 5.0,
			Input: InputConfig{Y: 0.2},
		},
		"lean": {
			Model: "tred", Control: "constant", Dt: DefaultDt, Duration: 5.0,
			Input: InputConfig{Pitch: 15},
		},
		"sway": {
			Model: "tred", Control: "sweep", Dt: DefaultDt, Duration: 10.0,
			Sweep: SweepConfig{X: 0.15, Frequency: 0.5},
		},
		"march": {
			Model: "tred", Control: "sweep", Dt: DefaultDt, Duration: 10.0,
			Sweep: SweepConfig{Y: 0.1, Z: 0.1, Frequency: 1.0},
		},
	},
	"limb": {
		"reach": {
			Model: "limb", Control: "constant", Dt: DefaultDt, Duration: 3.0,
			Input: InputConfig{X: 0.3},
		},
		"circle": {
			Model: "limb", Control: "sweep", Dt: DefaultDt, Duration: 6.0,
			Sweep: SweepConfig{X: 0.2, Z: 0.2, Frequency: 0.5},
		},
	},
}

// GetPreset returns a copy of a preset merged over the defaults, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Control = p.Control
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Input = p.Input
	cfg.Sweep = p.Sweep
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
