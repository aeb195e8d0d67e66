package mesh

import (
	"math"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/morph"
)

// Per-type primitive sizing. Radii scale with local connection count in
// Compose; tessellation is fixed per type.
type composeStyle struct {
	nodeRadius   float64
	connRadius   float64
	rings        int
	sectors      int
	tubeSegments int
	profile      connProfile
}

type connProfile int

const (
	profileTube  connProfile = iota // uniform radius
	profileStrut                    // thicker middle
	profilePlate                    // tapers toward low-degree endpoints
)

func styleFor(typ morph.BiomorphType) composeStyle {
	switch typ {
	case morph.TypeBone:
		return composeStyle{nodeRadius: 0.5, connRadius: 0.22, rings: 8, sectors: 10, tubeSegments: 8, profile: profileStrut}
	case morph.TypeCoral:
		return composeStyle{nodeRadius: 0.45, connRadius: 0.16, rings: 6, sectors: 8, tubeSegments: 8, profile: profilePlate}
	case morph.TypeMycelium:
		return composeStyle{nodeRadius: 0.25, connRadius: 0.08, rings: 5, sectors: 6, tubeSegments: 6, profile: profileTube}
	default: // mold, custom
		return composeStyle{nodeRadius: 0.4, connRadius: 0.14, rings: 6, sectors: 8, tubeSegments: 8, profile: profileTube}
	}
}

// Compose walks nodes and connections once and appends a sphere per node
// and a tube/strut/plate per connection into shared buffers. Cost is
// linear in node+connection count; an empty graph yields an empty mesh.
func Compose(nodes []geom.Vec3, pairs [][2]int, typ morph.BiomorphType) *Mesh {
	m := NewMesh()
	style := styleFor(typ)

	degree := make([]int, len(nodes))
	for _, pr := range pairs {
		if pr[0] >= 0 && pr[0] < len(nodes) && pr[1] >= 0 && pr[1] < len(nodes) {
			degree[pr[0]]++
			degree[pr[1]]++
		}
	}

	for i, pos := range nodes {
		// junction nodes grow slightly with their degree
		r := style.nodeRadius * (1 + 0.08*float64(min(degree[i], 6)))
		appendSphere(m, pos, r, style.rings, style.sectors)
	}

	for _, pr := range pairs {
		if pr[0] < 0 || pr[0] >= len(nodes) || pr[1] < 0 || pr[1] >= len(nodes) {
			continue
		}
		a, b := nodes[pr[0]], nodes[pr[1]]
		r := style.connRadius
		var radii []float64
		switch style.profile {
		case profileStrut:
			radii = []float64{r, r * 1.6, r}
		case profilePlate:
			ra, rb := r, r
			if degree[pr[0]] <= 1 {
				ra = r * 0.35
			}
			if degree[pr[1]] <= 1 {
				rb = r * 0.35
			}
			radii = []float64{ra, (ra + rb) * 0.5, rb}
		default:
			radii = []float64{r, r}
		}
		appendTube(m, a, b, radii, style.tubeSegments)
	}

	return m
}

// appendSphere emits a UV sphere of the given tessellation.
func appendSphere(m *Mesh, center geom.Vec3, radius float64, rings, sectors int) {
	if rings < 2 {
		rings = 2
	}
	if sectors < 3 {
		sectors = 3
	}
	base := len(m.Vertices)
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			p := geom.Vec3{
				X: center.X + radius*math.Sin(phi)*math.Cos(theta),
				Y: center.Y + radius*math.Cos(phi),
				Z: center.Z + radius*math.Sin(phi)*math.Sin(theta),
			}
			m.AddVertex(p, float64(s)/float64(sectors), float64(r)/float64(rings))
		}
	}
	stride := sectors + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			i0 := base + r*stride + s
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			m.AddTriangle(i0, i2, i1)
			m.AddTriangle(i1, i2, i3)
		}
	}
}

// appendTube emits a tube from a to b. radii gives the ring radius at
// evenly spaced parameters along the axis (at least two entries), which
// is how struts and tapering plates share one generator.
func appendTube(m *Mesh, a, b geom.Vec3, radii []float64, segments int) {
	if len(radii) < 2 || segments < 3 {
		return
	}
	axis := b.Sub(a)
	length := axis.Length()
	if length == 0 {
		return
	}
	dir := axis.Scale(1 / length)

	// orthonormal frame around dir
	ref := geom.Vec3{Y: 1}
	if absf(dir.Dot(ref)) > 0.99 {
		ref = geom.Vec3{X: 1}
	}
	u := dir.Cross(ref).Normalize()
	v := dir.Cross(u)

	base := len(m.Vertices)
	n := len(radii)
	for ri, radius := range radii {
		t := float64(ri) / float64(n-1)
		center := a.Lerp(b, t)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			offset := u.Scale(math.Cos(theta) * radius).Add(v.Scale(math.Sin(theta) * radius))
			m.AddVertex(center.Add(offset), float64(s)/float64(segments), t)
		}
	}
	stride := segments + 1
	for ri := 0; ri < n-1; ri++ {
		for s := 0; s < segments; s++ {
			i0 := base + ri*stride + s
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			m.AddTriangle(i0, i2, i1)
			m.AddTriangle(i1, i2, i3)
		}
	}
}
