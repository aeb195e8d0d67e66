package strategy

import (
	"math/rand"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
)

// BiasProfile names the tunable extension points of the reference
// heuristic. The bone/coral/mycelium heuristics were never concretely
// specified upstream, so no built-in profiles exist for them; a caller
// who wants one must supply the coefficients explicitly.
type BiasProfile struct {
	// VerticalDamping in [0,1] scales down the Y component of the
	// proposed direction; 0 leaves it untouched.
	VerticalDamping float64

	// BranchBias in [0,1] is the probability of re-rolling the source
	// node toward low-degree nodes, favoring network expansion.
	BranchBias float64

	// CentroidWeight replaces the Complexity-driven centroid blend
	// weight when non-negative; set to -1 to keep the reference blend.
	CentroidWeight float64

	// StepScale multiplies the reference step distance; 0 means 1.
	StepScale float64
}

// Biased applies a BiasProfile on top of the reference heuristic.
type Biased struct {
	typ     morph.BiomorphType
	profile BiasProfile
}

func NewBiased(typ morph.BiomorphType, profile BiasProfile) *Biased {
	return &Biased{typ: typ, profile: profile}
}

func (b *Biased) Name() string { return string(b.typ) }

func (b *Biased) EvaluateStep(g *graph.Graph, zone geom.AABB, p morph.Parameters,
	influence geom.ScalarField, obstacles geom.ObstacleMask, rng *rand.Rand) Result {

	src := g.RandomNode(rng)
	if src == nil {
		return Invalid()
	}
	if b.profile.BranchBias > 0 && rng.Float64() < b.profile.BranchBias {
		// Prefer a sparser node when one turns up.
		if alt := g.RandomNode(rng); alt != nil && alt.Degree() < src.Degree() {
			src = alt
		}
	}

	weight := p.Complexity
	if b.profile.CentroidWeight >= 0 {
		weight = b.profile.CentroidWeight
	}

	wander := randomUnit(rng)
	toCenter := zone.Center().Sub(src.Pos).Normalize()
	dir := wander.Scale(1 - weight).Add(toCenter.Scale(weight))
	dir.Y *= 1 - b.profile.VerticalDamping
	dir = dir.Normalize()
	if dir.Length() == 0 {
		dir = wander
	}

	scale := b.profile.StepScale
	if scale == 0 {
		scale = 1
	}
	step := (moldStepMin + (moldStepMax-moldStepMin)*p.Complexity) * scale
	pos := zone.Clamp(src.Pos.Add(dir.Scale(step)))

	if obstacles != nil && obstacles.Blocked(pos) {
		return Invalid()
	}

	quality := 1.0
	if influence != nil {
		quality = influence.Sample(pos)
	}

	return Result{Valid: true, Pos: pos, Parent: src.ID, Quality: quality}
}
