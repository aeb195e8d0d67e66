package morph

import "fmt"

// BiomorphType selects which growth heuristic and mesh style apply.
type BiomorphType string

const (
	TypeMold     BiomorphType = "mold"
	TypeBone     BiomorphType = "bone"
	TypeCoral    BiomorphType = "coral"
	TypeMycelium BiomorphType = "mycelium"
	TypeCustom   BiomorphType = "custom"
)

// GrowthPattern tags the overall shape the run should tend toward.
type GrowthPattern string

const (
	PatternOrganic     GrowthPattern = "organic"
	PatternRadial      GrowthPattern = "radial"
	PatternDirectional GrowthPattern = "directional"
	PatternFractal     GrowthPattern = "fractal"
)

func Types() []BiomorphType {
	return []BiomorphType{TypeMold, TypeBone, TypeCoral, TypeMycelium, TypeCustom}
}

func ParseType(s string) (BiomorphType, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBiomorph, s)
}

// Parameters are the per-request knobs of a generation run. All ratio
// fields live in [0,1]. Immutable once handed to the generator.
type Parameters struct {
	Density        float64
	Complexity     float64
	Connectivity   float64
	GrowthRate     float64
	AdaptationRate float64
	Type           BiomorphType
	Pattern        GrowthPattern
}

func (p Parameters) Validate() error {
	ratios := map[string]float64{
		"density":        p.Density,
		"complexity":     p.Complexity,
		"connectivity":   p.Connectivity,
		"growthRate":     p.GrowthRate,
		"adaptationRate": p.AdaptationRate,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s = %g", ErrParameterBounds, name, v)
		}
	}
	if _, err := ParseType(string(p.Type)); err != nil {
		return err
	}
	switch p.Pattern {
	case PatternOrganic, PatternRadial, PatternDirectional, PatternFractal:
	default:
		return fmt.Errorf("%w: unknown pattern %q", ErrParameterBounds, p.Pattern)
	}
	return nil
}

// Growth curve names for Settings.GrowthCurve.
const (
	CurveLinear  = "linear"
	CurveEaseOut = "ease-out"
)

// Settings is run-independent configuration of the growth process.
type Settings struct {
	NodeMinDistance float64
	NodeMaxDistance float64
	SeedCount       int
	MaxNodes        int
	GrowthCurve     string
}

func DefaultSettings() Settings {
	return Settings{
		NodeMinDistance: 0.5,
		NodeMaxDistance: 2.5,
		SeedCount:       5,
		MaxNodes:        400,
		GrowthCurve:     CurveLinear,
	}
}

func (s Settings) Validate() error {
	if s.NodeMinDistance < 0 || s.NodeMaxDistance <= 0 {
		return fmt.Errorf("%w: node distances must be positive", ErrSettingsBounds)
	}
	if s.NodeMinDistance > s.NodeMaxDistance {
		return fmt.Errorf("%w: nodeMinDistance %g > nodeMaxDistance %g",
			ErrSettingsBounds, s.NodeMinDistance, s.NodeMaxDistance)
	}
	if s.SeedCount < 1 {
		return fmt.Errorf("%w: seed count must be at least 1", ErrSettingsBounds)
	}
	if s.MaxNodes < s.SeedCount {
		return fmt.Errorf("%w: maxNodes %d < seedCount %d",
			ErrSettingsBounds, s.MaxNodes, s.SeedCount)
	}
	switch s.GrowthCurve {
	case "", CurveLinear, CurveEaseOut:
	default:
		return fmt.Errorf("%w: unknown growth curve %q", ErrSettingsBounds, s.GrowthCurve)
	}
	return nil
}

// CurveValue shapes a progress ratio in [0,1] according to the configured
// growth-speed curve. Linear is the identity; ease-out front-loads growth.
func (s Settings) CurveValue(progress float64) float64 {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	switch s.GrowthCurve {
	case CurveEaseOut:
		return 1 - (1-progress)*(1-progress)
	default:
		return progress
	}
}
