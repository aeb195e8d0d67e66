// Package strategy holds the pluggable growth heuristics. A strategy
// proposes one incremental change per evaluation; it never mutates the
// graph itself. Strategies hold only configuration, so one instance can
// be reused across runs.
package strategy

import (
	"math/rand"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
)

// Result is the outcome of one strategy evaluation. Consumed within a
// single tick, never persisted. Parent is -1 when the proposal has no
// source node to connect to.
type Result struct {
	Valid   bool
	Pos     geom.Vec3
	Parent  graph.NodeID
	Quality float64
}

// Invalid is the zero-value rejection result.
func Invalid() Result {
	return Result{Parent: -1}
}

type Strategy interface {
	Name() string

	// EvaluateStep proposes one candidate node position. The influence
	// field and obstacle mask may be nil. The orchestrator, not the
	// strategy, materializes accepted proposals.
	EvaluateStep(g *graph.Graph, zone geom.AABB, p morph.Parameters,
		influence geom.ScalarField, obstacles geom.ObstacleMask, rng *rand.Rand) Result
}

// randomUnit draws a uniformly distributed direction on the unit sphere.
func randomUnit(rng *rand.Rand) geom.Vec3 {
	for {
		v := geom.Vec3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if l := v.Length(); l > 1e-9 && l <= 1 {
			return v.Scale(1 / l)
		}
	}
}
