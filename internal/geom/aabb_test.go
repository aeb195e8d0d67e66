package geom

import (
	"math"
	"testing"
)

func TestAABBVolume(t *testing.T) {
	b := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 10}}

	if b.Volume() != 1000 {
		t.Errorf("expected volume 1000, got %f", b.Volume())
	}

	if !b.Valid() {
		t.Error("expected valid box")
	}
}

func TestAABBInvalid(t *testing.T) {
	flat := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{10, 0, 10}}

	if flat.Valid() {
		t.Error("zero-extent box must be invalid")
	}

	if (AABB{}).Valid() {
		t.Error("zero box must be invalid")
	}
}

func TestAABBClamp(t *testing.T) {
	b := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	p := b.Clamp(Vec3{2, -1, 0.5})
	want := Vec3{1, 0, 0.5}
	if p != want {
		t.Errorf("expected %v, got %v", want, p)
	}

	if !b.Contains(p) {
		t.Error("clamped point must be inside the box")
	}
}

func TestBoundsOf(t *testing.T) {
	pts := []Vec3{{1, 2, 3}, {-1, 5, 0}, {4, 0, 1}}
	b := BoundsOf(pts)

	if b.Min != (Vec3{-1, 0, 0}) || b.Max != (Vec3{4, 5, 3}) {
		t.Errorf("unexpected bounds %v %v", b.Min, b.Max)
	}

	if BoundsOf(nil).Volume() != 0 {
		t.Error("empty point set must have zero-volume bounds")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, 6}

	mid := a.Lerp(b, 0.5)
	if math.Abs(mid.X-1) > 1e-12 || math.Abs(mid.Y-2) > 1e-12 || math.Abs(mid.Z-3) > 1e-12 {
		t.Errorf("expected midpoint, got %v", mid)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", v.Length())
	}

	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector normalizes to zero")
	}
}
