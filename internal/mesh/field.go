package mesh

import (
	"math"

	"github.com/san-kum/biomorph/internal/geom"
)

// MetaballKernel is the smooth falloff each node contributes to the
// scalar field: (1 - d²/r²)² for d < r, 0 beyond. The value is exactly 1
// at the node and reaches 0 with zero slope at the radius.
func MetaballKernel(d, r float64) float64 {
	if r <= 0 || d >= r {
		return 0
	}
	t := 1 - (d*d)/(r*r)
	return t * t
}

// MetaballField sums the kernel over all node positions.
type MetaballField struct {
	Nodes  []geom.Vec3
	Radius float64
}

func (f MetaballField) Sample(p geom.Vec3) float64 {
	sum := 0.0
	for _, n := range f.Nodes {
		sum += MetaballKernel(n.Dist(p), f.Radius)
	}
	return sum
}

// GenerateMetaballMesh builds a voxel grid around the nodes (padded by
// the metaball radius) and triangulates the summed field at threshold.
// An empty node set yields an empty mesh.
func GenerateMetaballMesh(nodes []geom.Vec3, radius float64, resolution int, threshold float64) *Mesh {
	if len(nodes) == 0 {
		return NewMesh()
	}
	bounds := geom.BoundsOf(nodes).Expand(radius)
	grid := NewScalarGrid(bounds, resolution)
	grid.Fill(MetaballField{Nodes: nodes, Radius: radius}.Sample)
	return March(grid, threshold)
}

// VoronoiField classifies grid points against the structure: a point
// within Threshold distance of any node or connection segment is inside
// and gets 0.5 - |d1 - d2| over its two nearest seed sites; outside
// points get -1. Triangulating at 0 traces the cell walls.
type VoronoiField struct {
	Nodes     []geom.Vec3
	Segments  [][2]geom.Vec3
	Threshold float64
}

func (f VoronoiField) Sample(p geom.Vec3) float64 {
	if !f.inside(p) {
		return -1
	}
	d1, d2 := f.twoNearest(p)
	if math.IsInf(d2, 1) {
		d2 = d1
	}
	return 0.5 - absf(d1-d2)
}

func (f VoronoiField) inside(p geom.Vec3) bool {
	for _, n := range f.Nodes {
		if n.Dist(p) <= f.Threshold {
			return true
		}
	}
	for _, s := range f.Segments {
		if distToSegment(p, s[0], s[1]) <= f.Threshold {
			return true
		}
	}
	return false
}

func (f VoronoiField) twoNearest(p geom.Vec3) (float64, float64) {
	d1 := math.Inf(1)
	d2 := math.Inf(1)
	for _, n := range f.Nodes {
		d := n.Dist(p)
		switch {
		case d < d1:
			d1, d2 = d, d1
		case d < d2:
			d2 = d
		}
	}
	return d1, d2
}

// distToSegment is the distance from p to the segment ab.
func distToSegment(p, a, b geom.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(a.Add(ab.Scale(t)))
}

// GenerateVoronoiMesh triangulates the Voronoi-cell field at threshold 0.
func GenerateVoronoiMesh(nodes []geom.Vec3, pairs [][2]int, cellThreshold float64, resolution int) *Mesh {
	if len(nodes) == 0 {
		return NewMesh()
	}
	segments := make([][2]geom.Vec3, 0, len(pairs))
	for _, pr := range pairs {
		if pr[0] < 0 || pr[0] >= len(nodes) || pr[1] < 0 || pr[1] >= len(nodes) {
			continue
		}
		segments = append(segments, [2]geom.Vec3{nodes[pr[0]], nodes[pr[1]]})
	}
	bounds := geom.BoundsOf(nodes).Expand(cellThreshold)
	grid := NewScalarGrid(bounds, resolution)
	grid.Fill(VoronoiField{Nodes: nodes, Segments: segments, Threshold: cellThreshold}.Sample)
	return March(grid, 0)
}
