package mesh

import (
	"fmt"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/morph"
)

// Style selects the synthesis path.
type Style string

const (
	StyleDiscrete Style = "discrete"
	StyleMetaball Style = "metaball"
	StyleVoronoi  Style = "voronoi"
)

// Options tune the continuous paths. Zero values fall back to defaults.
type Options struct {
	Radius     float64 // metaball radius
	Resolution int     // voxel grid samples per axis
	Threshold  float64 // iso threshold for the metaball field
}

func (o Options) withDefaults() Options {
	if o.Radius <= 0 {
		o.Radius = 1.5
	}
	if o.Resolution < 2 {
		o.Resolution = 32
	}
	if o.Threshold <= 0 {
		o.Threshold = 0.4
	}
	return o
}

// GenerateMorphologyMesh is the renderer-facing entry point: it converts
// a node/connection set into vertex, triangle and uv buffers using the
// discrete composition path for the given biomorph type.
func GenerateMorphologyMesh(nodes []geom.Vec3, pairs [][2]int, typ morph.BiomorphType) *Mesh {
	return Compose(nodes, pairs, typ)
}

// Generate synthesizes a mesh with an explicitly chosen style.
func Generate(nodes []geom.Vec3, pairs [][2]int, typ morph.BiomorphType, style Style, opts Options) (*Mesh, error) {
	opts = opts.withDefaults()
	switch style {
	case StyleDiscrete, "":
		return Compose(nodes, pairs, typ), nil
	case StyleMetaball:
		return GenerateMetaballMesh(nodes, opts.Radius, opts.Resolution, opts.Threshold), nil
	case StyleVoronoi:
		return GenerateVoronoiMesh(nodes, pairs, opts.Radius, opts.Resolution), nil
	default:
		return nil, fmt.Errorf("mesh: unknown style %q", style)
	}
}
