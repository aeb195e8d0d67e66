package graph

import (
	"testing"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/morph"
)

func buildGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	a := g.AddSeed(geom.Vec3{X: 0, Y: 0, Z: 0})
	b := g.AddNode(geom.Vec3{X: 1, Y: 0, Z: 0})
	c := g.AddNode(geom.Vec3{X: 0, Y: 2, Z: 0})
	d := g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 3})
	g.AddConnection(a.ID, b.ID)
	g.AddConnection(b.ID, c.ID)
	g.AddConnection(c.ID, d.ID)
	return g
}

func TestExportImportRoundTrip(t *testing.T) {
	g := buildGraph(t)
	params := morph.Parameters{Type: morph.TypeMold, Density: 0.5}
	snap := g.Export(params, map[string]float64{"node_count": 4})

	if snap.ID == "" {
		t.Error("snapshot must carry an identity")
	}
	if snap.CreatedAt.IsZero() {
		t.Error("snapshot must carry a timestamp")
	}
	if len(snap.Positions) != 4 || len(snap.Pairs) != 3 {
		t.Fatalf("expected 4 positions / 3 pairs, got %d / %d",
			len(snap.Positions), len(snap.Pairs))
	}

	restored := New()
	if err := restored.Import(snap); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	gotPos := restored.Positions()
	for i, want := range snap.Positions {
		if gotPos[i] != want {
			t.Errorf("position %d: expected %v, got %v", i, want, gotPos[i])
		}
	}

	second := restored.Export(params, nil)
	if len(second.Pairs) != len(snap.Pairs) {
		t.Fatalf("pair count changed: %d vs %d", len(second.Pairs), len(snap.Pairs))
	}
	for i, pair := range snap.Pairs {
		if second.Pairs[i] != pair {
			t.Errorf("pair %d: expected %v, got %v", i, pair, second.Pairs[i])
		}
	}
	if len(second.SeedIndices) != 1 || second.SeedIndices[0] != 0 {
		t.Errorf("seed flags lost in round trip: %v", second.SeedIndices)
	}
}

func TestImportRejectsCorruptPairs(t *testing.T) {
	snap := &Snapshot{
		Positions: []geom.Vec3{{}, {X: 1}},
		Pairs:     [][2]int{{0, 1}, {0, 5}},
	}

	g := New()
	if err := g.Import(snap); err != nil {
		t.Fatalf("import must skip out-of-range pairs, got %v", err)
	}
	if g.ConnCount() != 1 {
		t.Errorf("expected 1 connection after skipping bad pair, got %d", g.ConnCount())
	}
}

func TestImportClearsPreviousState(t *testing.T) {
	g := buildGraph(t)
	snap := &Snapshot{Positions: []geom.Vec3{{X: 9, Y: 9, Z: 9}}}

	if err := g.Import(snap); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if g.NodeCount() != 1 || g.ConnCount() != 0 {
		t.Errorf("import must replace previous graph, got %d nodes %d conns",
			g.NodeCount(), g.ConnCount())
	}
}
