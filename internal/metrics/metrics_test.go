package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
)

func TestVolumetricDensityExact(t *testing.T) {
	zone := geom.AABB{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}
	g := graph.New()
	for i := 0; i < 50; i++ {
		g.AddNode(geom.Vec3{X: float64(i) * 0.1, Y: 1, Z: 1})
	}

	if d := VolumetricDensity(g, zone); d != 0.05 {
		t.Errorf("expected density 0.05, got %g", d)
	}
}

func TestAvgConnectionLength(t *testing.T) {
	g := graph.New()
	if AvgConnectionLength(g) != 0 {
		t.Error("no connections must give 0")
	}

	a := g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 0})
	b := g.AddNode(geom.Vec3{X: 2, Y: 0, Z: 0})
	c := g.AddNode(geom.Vec3{X: 2, Y: 4, Z: 0})
	g.AddConnection(a.ID, b.ID)
	g.AddConnection(b.ID, c.ID)

	if avg := AvgConnectionLength(g); math.Abs(avg-3) > 1e-12 {
		t.Errorf("expected mean length 3, got %f", avg)
	}
}

func TestBoundingVolume(t *testing.T) {
	g := graph.New()
	g.AddNode(geom.Vec3{X: 0, Y: 0, Z: 0})
	g.AddNode(geom.Vec3{X: 2, Y: 3, Z: 4})

	if v := BoundingVolume(g); math.Abs(v-24) > 1e-12 {
		t.Errorf("expected bounding volume 24, got %f", v)
	}
}

func TestComputeKeys(t *testing.T) {
	zone := geom.AABB{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}
	g := graph.New()
	g.AddNode(geom.Vec3{X: 1, Y: 1, Z: 1})

	m := Compute(g, zone)
	for _, key := range []string{"node_count", "connection_count", "density", "avg_conn_length", "bounding_volume"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing metric %q", key)
		}
	}
	if m["node_count"] != 1 {
		t.Errorf("expected node_count 1, got %v", m["node_count"])
	}
}
