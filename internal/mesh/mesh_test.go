package mesh

import (
	"math"
	"testing"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/morph"
)

func TestMetaballKernel(t *testing.T) {
	if got := MetaballKernel(0, 2); got != 1 {
		t.Errorf("kernel at node must be 1, got %g", got)
	}
	if got := MetaballKernel(2, 2); got != 0 {
		t.Errorf("kernel at radius must be 0, got %g", got)
	}
	if got := MetaballKernel(5, 2); got != 0 {
		t.Errorf("kernel beyond radius must be 0, got %g", got)
	}
	if got := MetaballKernel(1, 0); got != 0 {
		t.Errorf("degenerate radius must yield 0, got %g", got)
	}

	// (1 - 1/4)^2 at half radius
	if got := MetaballKernel(1, 2); math.Abs(got-0.5625) > 1e-12 {
		t.Errorf("expected 0.5625 at half radius, got %g", got)
	}

	// strictly decreasing on (0, r)
	prev := MetaballKernel(0, 2)
	for d := 0.1; d < 2; d += 0.1 {
		v := MetaballKernel(d, 2)
		if v >= prev {
			t.Fatalf("kernel not decreasing at d=%g", d)
		}
		prev = v
	}
}

func TestMetaballFieldSum(t *testing.T) {
	f := MetaballField{
		Nodes:  []geom.Vec3{{X: -1}, {X: 1}},
		Radius: 3,
	}
	// midpoint gets equal contributions from both nodes
	want := 2 * MetaballKernel(1, 3)
	if got := f.Sample(geom.Vec3{}); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %g at midpoint, got %g", want, got)
	}
	if got := f.Sample(geom.Vec3{X: 100}); got != 0 {
		t.Errorf("expected 0 far from all nodes, got %g", got)
	}
}

func TestInterpolateCrossesThreshold(t *testing.T) {
	p1 := geom.Vec3{X: 0}
	p2 := geom.Vec3{X: 1}

	p := interpolate(0.5, p1, p2, 0, 1)
	if math.Abs(p.X-0.5) > 1e-12 {
		t.Errorf("expected crossing at 0.5, got %g", p.X)
	}

	p = interpolate(0.25, p1, p2, 0, 1)
	if math.Abs(p.X-0.25) > 1e-12 {
		t.Errorf("expected crossing at 0.25, got %g", p.X)
	}

	// endpoint snapping when a corner sits on the threshold
	p = interpolate(0.5, p1, p2, 0.5, 1)
	if p != p1 {
		t.Errorf("expected snap to p1, got %v", p)
	}
	p = interpolate(0.5, p1, p2, 0, 0.5)
	if p != p2 {
		t.Errorf("expected snap to p2, got %v", p)
	}

	// flat edge must not divide by zero
	p = interpolate(0.5, p1, p2, 0.3, 0.3)
	if p != p1 {
		t.Errorf("expected p1 on flat edge, got %v", p)
	}
}

func TestMarchSingleMetaball(t *testing.T) {
	m := GenerateMetaballMesh([]geom.Vec3{{X: 5, Y: 5, Z: 5}}, 2, 24, 0.4)
	if m.Empty() {
		t.Fatal("single metaball must produce a surface")
	}
	if len(m.UVs) != len(m.Vertices) {
		t.Fatalf("uv count %d must match vertex count %d", len(m.UVs), len(m.Vertices))
	}
	if len(m.Triangles)%3 != 0 {
		t.Fatalf("triangle buffer length %d is not a multiple of 3", len(m.Triangles))
	}
	for _, idx := range m.Triangles {
		if idx < 0 || idx >= len(m.Vertices) {
			t.Fatalf("triangle references vertex %d of %d", idx, len(m.Vertices))
		}
	}

	// the extracted surface sits near the kernel iso-distance from the
	// center: (1-d²/r²)² = 0.4 at d = r·sqrt(1-sqrt(0.4))
	center := geom.Vec3{X: 5, Y: 5, Z: 5}
	want := 2 * math.Sqrt(1-math.Sqrt(0.4))
	for _, v := range m.Vertices {
		d := v.Dist(center)
		if math.Abs(d-want) > 0.35 {
			t.Fatalf("vertex at distance %g, expected near %g", d, want)
		}
	}
}

func TestMarchSharedEdgeVertices(t *testing.T) {
	m := GenerateMetaballMesh([]geom.Vec3{{}, {X: 1.5}}, 2, 20, 0.4)
	if m.Empty() {
		t.Fatal("expected a surface")
	}

	// shared lattice edges must yield one vertex, not near-duplicates
	const eps = 1e-9
	for i := 0; i < len(m.Vertices); i++ {
		for j := i + 1; j < len(m.Vertices); j++ {
			if m.Vertices[i].Dist(m.Vertices[j]) < eps {
				t.Fatalf("duplicate vertices %d and %d at %v", i, j, m.Vertices[i])
			}
		}
	}
}

func TestMarchEmptyField(t *testing.T) {
	grid := NewScalarGrid(geom.AABB{Min: geom.Vec3{}, Max: geom.Vec3{X: 1, Y: 1, Z: 1}}, 8)
	// all zero, threshold above everything: no crossings
	m := March(grid, 0.5)
	if !m.Empty() {
		t.Errorf("uniform field must produce no triangles, got %d", m.TriangleCount())
	}
}

func TestGenerateMetaballEmptyInput(t *testing.T) {
	m := GenerateMetaballMesh(nil, 2, 16, 0.4)
	if !m.Empty() {
		t.Error("no nodes must yield an empty mesh")
	}
}

func TestGenerateVoronoiMesh(t *testing.T) {
	nodes := []geom.Vec3{{}, {X: 3}, {X: 1.5, Y: 2.5}}
	pairs := [][2]int{{0, 1}, {1, 2}, {7, 9}} // out-of-range pair is skipped
	m := GenerateVoronoiMesh(nodes, pairs, 1.2, 24)
	if m.Empty() {
		t.Fatal("voronoi path must produce a surface for a connected cluster")
	}
}

func TestComposeEmptyGraph(t *testing.T) {
	m := Compose(nil, nil, morph.TypeMold)
	if !m.Empty() {
		t.Error("empty graph must yield an empty mesh")
	}
}

func TestComposeCounts(t *testing.T) {
	nodes := []geom.Vec3{{}, {X: 2}}
	solo := Compose(nodes, nil, morph.TypeMold)
	linked := Compose(nodes, [][2]int{{0, 1}}, morph.TypeMold)

	if solo.Empty() {
		t.Fatal("nodes alone must still emit spheres")
	}
	if linked.TriangleCount() <= solo.TriangleCount() {
		t.Errorf("connection must add tube geometry: %d vs %d",
			linked.TriangleCount(), solo.TriangleCount())
	}

	// invalid pair indices contribute nothing
	bad := Compose(nodes, [][2]int{{0, 5}, {-1, 1}}, morph.TypeMold)
	if bad.TriangleCount() != solo.TriangleCount() {
		t.Errorf("out-of-range pairs must be ignored, got %d vs %d",
			bad.TriangleCount(), solo.TriangleCount())
	}
}

func TestComposeStylesDiffer(t *testing.T) {
	nodes := []geom.Vec3{{}, {X: 2}}
	pairs := [][2]int{{0, 1}}

	mold := Compose(nodes, pairs, morph.TypeMold)
	mycelium := Compose(nodes, pairs, morph.TypeMycelium)
	if len(mold.Vertices) == len(mycelium.Vertices) {
		t.Error("mycelium tessellation must differ from mold")
	}
}

func TestGenerateStyles(t *testing.T) {
	nodes := []geom.Vec3{{}, {X: 2}}
	pairs := [][2]int{{0, 1}}

	for _, style := range []Style{StyleDiscrete, StyleMetaball, StyleVoronoi} {
		m, err := Generate(nodes, pairs, morph.TypeMold, style, Options{})
		if err != nil {
			t.Fatalf("style %s: %v", style, err)
		}
		if m.Empty() {
			t.Errorf("style %s produced no geometry", style)
		}
	}

	if _, err := Generate(nodes, pairs, morph.TypeMold, "nurbs", Options{}); err == nil {
		t.Error("unknown style must be rejected")
	}
}
