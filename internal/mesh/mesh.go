// Package mesh synthesizes renderable geometry from a biomorph graph,
// either by composing primitives per node/connection or by triangulating
// the iso-surface of a scalar field with marching cubes.
package mesh

import "github.com/san-kum/biomorph/internal/geom"

// Mesh is the shared vertex/triangle/uv buffer handed to the external
// renderer. Triangles index into Vertices; UVs parallel Vertices.
type Mesh struct {
	Vertices  []geom.Vec3
	Triangles []int
	UVs       [][2]float64
}

func NewMesh() *Mesh {
	return &Mesh{
		Vertices:  make([]geom.Vec3, 0),
		Triangles: make([]int, 0),
		UVs:       make([][2]float64, 0),
	}
}

// AddVertex appends a vertex with its uv and returns its index.
func (m *Mesh) AddVertex(p geom.Vec3, u, v float64) int {
	m.Vertices = append(m.Vertices, p)
	m.UVs = append(m.UVs, [2]float64{u, v})
	return len(m.Vertices) - 1
}

func (m *Mesh) AddTriangle(a, b, c int) {
	m.Triangles = append(m.Triangles, a, b, c)
}

func (m *Mesh) TriangleCount() int { return len(m.Triangles) / 3 }

func (m *Mesh) Empty() bool { return len(m.Vertices) == 0 }
