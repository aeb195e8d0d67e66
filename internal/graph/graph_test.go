package graph

import (
	"testing"

	"github.com/san-kum/biomorph/internal/geom"
)

func TestAddNodeDedupe(t *testing.T) {
	g := New()

	a := g.AddNode(geom.Vec3{X: 1, Y: 1, Z: 1})
	b := g.AddNode(geom.Vec3{X: 1, Y: 1, Z: 1 + dedupeEpsilon/2})

	if a.ID != b.ID {
		t.Errorf("nearby position must dedupe to the same node, got %d and %d", a.ID, b.ID)
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}

	c := g.AddNode(geom.Vec3{X: 2, Y: 1, Z: 1})
	if c.ID == a.ID {
		t.Error("distant position must create a new node")
	}
}

func TestAddConnection(t *testing.T) {
	g := New()
	a := g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 0})
	b := g.AddNode(geom.Vec3{X: 1, Y: 0, Z: 0})

	c := g.AddConnection(a.ID, b.ID)
	if c == nil {
		t.Fatal("expected connection")
	}
	if g.Length(c) != 1 {
		t.Errorf("expected length 1, got %f", g.Length(c))
	}

	if g.AddConnection(a.ID, a.ID) != nil {
		t.Error("self-pair must be a no-op")
	}
	if g.AddConnection(b.ID, a.ID) != nil {
		t.Error("duplicate undirected pair must be a no-op")
	}
	if g.AddConnection(a.ID, 999) != nil {
		t.Error("unknown endpoint must be a no-op")
	}
	if g.ConnCount() != 1 {
		t.Errorf("expected 1 connection, got %d", g.ConnCount())
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := New()
	a := g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 0})
	b := g.AddNode(geom.Vec3{X: 1, Y: 0, Z: 0})
	c := g.AddNode(geom.Vec3{X: 2, Y: 0, Z: 0})
	g.AddConnection(a.ID, b.ID)
	g.AddConnection(b.ID, c.ID)

	g.RemoveNode(b.ID)

	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}
	if g.ConnCount() != 0 {
		t.Errorf("removal must cascade to incident connections, got %d", g.ConnCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("graph invalid after cascade: %v", err)
	}

	// the freed pair can be reconnected
	if g.AddConnection(a.ID, c.ID) == nil {
		t.Error("expected reconnection to succeed")
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	g := New()
	a := g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 0})
	b := g.AddNode(geom.Vec3{X: 1, Y: 0, Z: 0})
	g.AddConnection(a.ID, b.ID)

	if err := g.Validate(); err != nil {
		t.Fatalf("fresh graph must validate: %v", err)
	}

	// sever the node map behind the connection's back
	delete(g.nodes, b.ID)
	if err := g.Validate(); err == nil {
		t.Error("expected dangling endpoint to fail validation")
	}
}

func TestNodesOrdered(t *testing.T) {
	g := New()
	positions := []geom.Vec3{{}, {X: 5}, {Y: 5}, {Z: 5}}
	for _, p := range positions {
		g.AddNode(p)
	}

	got := g.Positions()
	for i, p := range positions {
		if got[i] != p {
			t.Errorf("position %d: expected %v, got %v", i, p, got[i])
		}
	}
}
