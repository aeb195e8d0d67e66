package mesh

import "github.com/san-kum/biomorph/internal/geom"

// ScalarGrid is an ephemeral voxel grid of field samples, built only for
// the duration of one synthesis call.
type ScalarGrid struct {
	Origin geom.Vec3
	Step   geom.Vec3 // lattice spacing per axis
	Nx     int       // sample counts per axis
	Ny     int
	Nz     int
	Values []float64 // len Nx*Ny*Nz, x fastest
}

func NewScalarGrid(bounds geom.AABB, resolution int) *ScalarGrid {
	if resolution < 2 {
		resolution = 2
	}
	size := bounds.Size()
	n := resolution
	return &ScalarGrid{
		Origin: bounds.Min,
		Step: geom.Vec3{
			X: size.X / float64(n-1),
			Y: size.Y / float64(n-1),
			Z: size.Z / float64(n-1),
		},
		Nx:     n,
		Ny:     n,
		Nz:     n,
		Values: make([]float64, n*n*n),
	}
}

func (g *ScalarGrid) index(i, j, k int) int {
	return (k*g.Ny+j)*g.Nx + i
}

func (g *ScalarGrid) At(i, j, k int) float64 {
	return g.Values[g.index(i, j, k)]
}

func (g *ScalarGrid) Set(i, j, k int, v float64) {
	g.Values[g.index(i, j, k)] = v
}

// Pos is the world position of lattice point (i,j,k).
func (g *ScalarGrid) Pos(i, j, k int) geom.Vec3 {
	return geom.Vec3{
		X: g.Origin.X + float64(i)*g.Step.X,
		Y: g.Origin.Y + float64(j)*g.Step.Y,
		Z: g.Origin.Z + float64(k)*g.Step.Z,
	}
}

// Fill samples fn at every lattice point. Slabs along z are sampled in
// parallel, so fn must be safe for concurrent calls.
func (g *ScalarGrid) Fill(fn func(p geom.Vec3) float64) {
	parallelFor(g.Nz, 4, func(kStart, kEnd int) {
		for k := kStart; k < kEnd; k++ {
			for j := 0; j < g.Ny; j++ {
				for i := 0; i < g.Nx; i++ {
					g.Set(i, j, k, fn(g.Pos(i, j, k)))
				}
			}
		}
	})
}

// edgeKey identifies a lattice edge globally: the lower lattice point
// plus the axis the edge runs along. Adjacent cubes sharing an edge see
// the same key, which is what makes vertex dedup crack-free.
type edgeKey struct {
	i, j, k int
	axis    int // 0=x 1=y 2=z
}

func (g *ScalarGrid) keyFor(ci, cj, ck, edge int) edgeKey {
	a := edgeCorners[edge][0]
	b := edgeCorners[edge][1]
	oa := cornerOffsets[a]
	ob := cornerOffsets[b]
	// lower lattice point of the edge
	i := ci + min(oa[0], ob[0])
	j := cj + min(oa[1], ob[1])
	k := ck + min(oa[2], ob[2])
	axis := 0
	switch {
	case oa[1] != ob[1]:
		axis = 1
	case oa[2] != ob[2]:
		axis = 2
	}
	return edgeKey{i, j, k, axis}
}

// March triangulates the iso-surface of the grid at threshold. Vertices
// on edges shared between neighboring cubes are emitted once; skipping
// the dedup produces T-junction cracks, so it is not optional.
func March(g *ScalarGrid, threshold float64) *Mesh {
	m := NewMesh()
	verts := make(map[edgeKey]int)

	var corner [8]geom.Vec3
	var value [8]float64

	for ck := 0; ck < g.Nz-1; ck++ {
		for cj := 0; cj < g.Ny-1; cj++ {
			for ci := 0; ci < g.Nx-1; ci++ {
				cube := 0
				for v := 0; v < 8; v++ {
					o := cornerOffsets[v]
					i, j, k := ci+o[0], cj+o[1], ck+o[2]
					corner[v] = g.Pos(i, j, k)
					value[v] = g.At(i, j, k)
					if value[v] < threshold {
						cube |= 1 << uint(v)
					}
				}
				if edgeTable[cube] == 0 {
					continue
				}

				var edgeVert [12]int
				for e := 0; e < 12; e++ {
					if edgeTable[cube]&(1<<uint(e)) == 0 {
						continue
					}
					key := g.keyFor(ci, cj, ck, e)
					idx, ok := verts[key]
					if !ok {
						a := edgeCorners[e][0]
						b := edgeCorners[e][1]
						p := interpolate(threshold, corner[a], corner[b], value[a], value[b])
						u, v := surfaceUV(g, p)
						idx = m.AddVertex(p, u, v)
						verts[key] = idx
					}
					edgeVert[e] = idx
				}

				for t := 0; triTable[cube][t] != -1; t += 3 {
					m.AddTriangle(
						edgeVert[triTable[cube][t]],
						edgeVert[triTable[cube][t+1]],
						edgeVert[triTable[cube][t+2]],
					)
				}
			}
		}
	}
	return m
}

// interpolate finds the point along edge (p1,p2) where the field crosses
// the threshold.
func interpolate(threshold float64, p1, p2 geom.Vec3, v1, v2 float64) geom.Vec3 {
	const eps = 1e-9
	if absf(threshold-v1) < eps {
		return p1
	}
	if absf(threshold-v2) < eps {
		return p2
	}
	if absf(v1-v2) < eps {
		return p1
	}
	t := (threshold - v1) / (v2 - v1)
	return p1.Lerp(p2, t)
}

// surfaceUV maps a surface point to a planar uv inside the grid bounds.
func surfaceUV(g *ScalarGrid, p geom.Vec3) (float64, float64) {
	sx := float64(g.Nx-1) * g.Step.X
	sz := float64(g.Nz-1) * g.Step.Z
	u, v := 0.0, 0.0
	if sx > 0 {
		u = (p.X - g.Origin.X) / sx
	}
	if sz > 0 {
		v = (p.Z - g.Origin.Z) / sz
	}
	return u, v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
