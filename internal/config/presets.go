package config

import "sort"

func presetScene(sources []SourceConfig, observer PointConfig, freq, span, scale float64) *Config {
	cfg := DefaultConfig()
	cfg.Sources = sources
	cfg.Observer = observer
	cfg.Frequency, cfg.FrequencySpan, cfg.Scale = freq, span, scale
	return cfg
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	// Observer on the perpendicular bisector: equal paths, constructive.
	"broadside": presetScene(
		[]SourceConfig{{X: 50, Y: 40}, {X: 50, Y: 60}},
		PointConfig{X: 90, Y: 50}, 440, 100, 5,
	),
	// Same layout with one source inverted: the paths cancel at the observer.
	"cancel": presetScene(
		[]SourceConfig{{X: 50, Y: 40}, {X: 50, Y: 60, Inverted: true}},
		PointConfig{X: 90, Y: 50}, 440, 100, 5,
	),
	// Sources side by side, far apart, low frequency.
	"wide": presetScene(
		[]SourceConfig{{X: 10, Y: 50}, {X: 90, Y: 50}},
		PointConfig{X: 50, Y: 80}, 110, 50, 2,
	),
	// Close sources at high zoom show a dense pattern.
	"close": presetScene(
		[]SourceConfig{{X: 48, Y: 50}, {X: 52, Y: 50}},
		PointConfig{X: 50, Y: 20}, 1000, 200, 20,
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
