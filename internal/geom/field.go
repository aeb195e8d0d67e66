package geom

// ScalarField is an externally owned influence map sampled by growth
// strategies to bias placement. Implementations must be read-only from
// the core's point of view.
type ScalarField interface {
	Sample(p Vec3) float64
}

// ObstacleMask marks regions where no node may be placed.
type ObstacleMask interface {
	Blocked(p Vec3) bool
}

// ConstField is a uniform influence field, mostly useful in tests.
type ConstField float64

func (c ConstField) Sample(Vec3) float64 { return float64(c) }
