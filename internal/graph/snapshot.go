package graph

import (
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/morph"
)

// Snapshot is the immutable export of a finished (or cancelled) graph:
// ordered node positions, connection index pairs into that order, the
// metrics computed at export time and the parameters that produced it.
// This is the unit handed to external collaborators.
type Snapshot struct {
	ID          string             `json:"id"`
	Positions   []geom.Vec3        `json:"positions"`
	Pairs       [][2]int           `json:"pairs"`
	SeedIndices []int              `json:"seed_indices,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	Parameters  morph.Parameters   `json:"parameters"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Export produces a snapshot of the current graph. Node order in the
// snapshot matches insertion order, and connection pairs are indices
// into that order.
func (g *Graph) Export(params morph.Parameters, metrics map[string]float64) *Snapshot {
	index := make(map[NodeID]int, len(g.order))
	for i, id := range g.order {
		index[id] = i
	}

	snap := &Snapshot{
		ID:         uuid.NewString(),
		Positions:  g.Positions(),
		Pairs:      make([][2]int, 0, len(g.conns)),
		Metrics:    metrics,
		Parameters: params,
		CreatedAt:  time.Now().UTC(),
	}
	for i, id := range g.order {
		if g.nodes[id].Seed {
			snap.SeedIndices = append(snap.SeedIndices, i)
		}
	}
	for _, c := range g.Connections() {
		snap.Pairs = append(snap.Pairs, [2]int{index[c.A], index[c.B]})
	}
	return snap
}

// Import clears the graph and rebuilds it from a snapshot, restoring the
// exact node order and connection pairing.
func (g *Graph) Import(snap *Snapshot) error {
	g.Clear()
	ids := make([]NodeID, len(snap.Positions))
	for i, pos := range snap.Positions {
		n := &Node{ID: g.nextN, Pos: pos, Conns: make([]ConnID, 0, 4)}
		g.nextN++
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
		ids[i] = n.ID
	}
	for _, i := range snap.SeedIndices {
		if i >= 0 && i < len(ids) {
			g.nodes[ids[i]].Seed = true
		}
	}
	for _, pair := range snap.Pairs {
		a, b := pair[0], pair[1]
		if a < 0 || a >= len(ids) || b < 0 || b >= len(ids) {
			continue
		}
		g.AddConnection(ids[a], ids[b])
	}
	return g.Validate()
}
