package config

// Presets are named starting configurations per biomorph type. They only
// vary the knobs that matter for the look; everything else stays at the
// defaults.
var Presets = map[string]*Config{
	"mold-sparse": {
		Type: "mold", Pattern: "organic",
		Density: 0.25, Complexity: 0.3, Connectivity: 0.3, GrowthRate: 0.5,
	},
	"mold-dense": {
		Type: "mold", Pattern: "organic",
		Density: 0.8, Complexity: 0.6, Connectivity: 0.6, GrowthRate: 0.8,
	},
	"mold-web": {
		Type: "mold", Pattern: "radial",
		Density: 0.5, Complexity: 0.2, Connectivity: 0.9, GrowthRate: 0.6,
	},
	"mold-compact": {
		Type: "mold", Pattern: "organic",
		Density: 0.6, Complexity: 0.9, Connectivity: 0.5, GrowthRate: 0.4,
	},
}

// Preset returns a full config with preset values applied over defaults.
func Preset(name string) (*Config, bool) {
	p, ok := Presets[name]
	if !ok {
		return nil, false
	}
	cfg := DefaultConfig()
	cfg.Type = p.Type
	cfg.Pattern = p.Pattern
	cfg.Density = p.Density
	cfg.Complexity = p.Complexity
	cfg.Connectivity = p.Connectivity
	cfg.GrowthRate = p.GrowthRate
	return cfg, true
}
