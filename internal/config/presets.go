package config

import "sort"

// Presets reproduce the two published animations.
var Presets = map[string]func() *Config{
	"simple": func() *Config {
		return DefaultConfig()
	},
	"fill": func() *Config {
		cfg := DefaultConfig()
		cfg.Variant = "fill"
		cfg.Frames = 400
		cfg.Output = "drone_animation_3.gif"
		cfg.Fill = true
		cfg.Payload = ArrowConfig{
			Mode:  ModeDrain,
			Width: 0.3,
			Color: "red",
		}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
