package strategy

import (
	"math/rand"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
)

// Step distance bounds for the reference heuristic. The actual step
// interpolates between them by Complexity.
const (
	moldStepMin = 0.8
	moldStepMax = 2.2
)

// Mold is the reference growth heuristic: pick a random existing node,
// blend a random unit direction with the direction toward the zone
// centroid weighted by Complexity, step by a Complexity-interpolated
// distance and clamp into the zone.
type Mold struct{}

func NewMold() *Mold { return &Mold{} }

func (*Mold) Name() string { return "mold" }

func (m *Mold) EvaluateStep(g *graph.Graph, zone geom.AABB, p morph.Parameters,
	influence geom.ScalarField, obstacles geom.ObstacleMask, rng *rand.Rand) Result {

	src := g.RandomNode(rng)
	if src == nil {
		return Invalid()
	}

	wander := randomUnit(rng)
	toCenter := zone.Center().Sub(src.Pos).Normalize()
	dir := wander.Scale(1 - p.Complexity).Add(toCenter.Scale(p.Complexity)).Normalize()
	if dir.Length() == 0 {
		dir = wander
	}

	step := moldStepMin + (moldStepMax-moldStepMin)*p.Complexity
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
