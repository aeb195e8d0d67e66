package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/mesh"
	"github.com/san-kum/biomorph/internal/morph"
)

const (
	DefaultDensity      = 0.5
	DefaultComplexity   = 0.5
	DefaultConnectivity = 0.4
	DefaultGrowthRate   = 0.6
	DefaultZoneSize     = 20.0
	DefaultResolution   = 32
)

type Config struct {
	Type           string       `yaml:"type"`
	Pattern        string       `yaml:"pattern"`
	Density        float64      `yaml:"density"`
	Complexity     float64      `yaml:"complexity"`
	Connectivity   float64      `yaml:"connectivity"`
	GrowthRate     float64      `yaml:"growth_rate"`
	AdaptationRate float64      `yaml:"adaptation_rate"`
	Seed           int64        `yaml:"seed"`
	Zone           ZoneConfig   `yaml:"zone"`
	Growth         GrowthConfig `yaml:"growth"`
	Mesh           MeshConfig   `yaml:"mesh"`
}

type ZoneConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
	MaxZ float64 `yaml:"max_z"`
}

type GrowthConfig struct {
	NodeMinDistance float64 `yaml:"node_min_distance"`
	NodeMaxDistance float64 `yaml:"node_max_distance"`
	SeedCount       int     `yaml:"seed_count"`
	MaxNodes        int     `yaml:"max_nodes"`
	Curve           string  `yaml:"curve"`
}

type MeshConfig struct {
	Style      string  `yaml:"style"`
	Radius     float64 `yaml:"radius"`
	Resolution int     `yaml:"resolution"`
	Threshold  float64 `yaml:"threshold"`
}

func DefaultConfig() *Config {
	s := morph.DefaultSettings()
	return &Config{
		Type:         string(morph.TypeMold),
		Pattern:      string(morph.PatternOrganic),
		Density:      DefaultDensity,
		Complexity:   DefaultComplexity,
		Connectivity: DefaultConnectivity,
		GrowthRate:   DefaultGrowthRate,
		Zone: ZoneConfig{
			MaxX: DefaultZoneSize, MaxY: DefaultZoneSize, MaxZ: DefaultZoneSize,
		},
		Growth: GrowthConfig{
			NodeMinDistance: s.NodeMinDistance,
			NodeMaxDistance: s.NodeMaxDistance,
			SeedCount:       s.SeedCount,
			MaxNodes:        s.MaxNodes,
			Curve:           s.GrowthCurve,
		},
		Mesh: MeshConfig{
			Style:      "discrete",
			Radius:     1.5,
			Resolution: DefaultResolution,
			Threshold:  0.4,
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

// Parameters assembles the per-run parameter struct.
func (c *Config) Parameters() morph.Parameters {
	return morph.Parameters{
		Density:        c.Density,
		Complexity:     c.Complexity,
		Connectivity:   c.Connectivity,
		GrowthRate:     c.GrowthRate,
		AdaptationRate: c.AdaptationRate,
		Type:           morph.BiomorphType(c.Type),
		Pattern:        morph.GrowthPattern(c.Pattern),
	}
}

func (c *Config) Settings() morph.Settings {
	return morph.Settings{
		NodeMinDistance: c.Growth.NodeMinDistance,
		NodeMaxDistance: c.Growth.NodeMaxDistance,
		SeedCount:       c.Growth.SeedCount,
		MaxNodes:        c.Growth.MaxNodes,
		GrowthCurve:     c.Growth.Curve,
	}
}

// MeshOptions assembles the mesh synthesis style and options.
func (c *Config) MeshOptions() (mesh.Style, mesh.Options) {
	return mesh.Style(c.Mesh.Style), mesh.Options{
		Radius:     c.Mesh.Radius,
		Resolution: c.Mesh.Resolution,
		Threshold:  c.Mesh.Threshold,
	}
}

func (c *Config) GrowthZone() geom.AABB {
	return geom.AABB{
		Min: geom.Vec3{X: c.Zone.MinX, Y: c.Zone.MinY, Z: c.Zone.MinZ},
		Max: geom.Vec3{X: c.Zone.MaxX, Y: c.Zone.MaxY, Z: c.Zone.MaxZ},
	}
}
