package geom

import "math"

// AABB is an axis-aligned bounding box. The growth zone handed to a
// generation run is one of these; it is read-only to the core.
type AABB struct {
	Min, Max Vec3
}

func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Valid reports whether the box has positive extent on every axis.
func (b AABB) Valid() bool {
	return b.Max.X > b.Min.X && b.Max.Y > b.Min.Y && b.Max.Z > b.Min.Z
}

func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns p moved to the nearest point inside the box.
func (b AABB) Clamp(p Vec3) Vec3 {
	return Vec3{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
		Z: math.Min(math.Max(p.Z, b.Min.Z), b.Max.Z),
	}
}

// Expand grows the box by pad on every side.
func (b AABB) Expand(pad float64) AABB {
	d := Vec3{pad, pad, pad}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Include extends the box to cover p.
func (b AABB) Include(p Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// BoundsOf computes the tightest box around a set of points.
// The zero box is returned for an empty set.
func BoundsOf(points []Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Include(p)
	}
	return b
}
