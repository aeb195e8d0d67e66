package morph

import "errors"

// Domain errors for morphology generation.
var (
	// ErrInvalidZone indicates a growth zone with zero or negative volume.
	ErrInvalidZone = errors.New("morph: invalid growth zone (non-positive extent)")

	// ErrUnsupportedBiomorph indicates no strategy is registered for the
	// requested biomorph type.
	ErrUnsupportedBiomorph = errors.New("morph: unsupported biomorph type")

	// ErrParameterBounds indicates a probability-like parameter outside [0,1].
	ErrParameterBounds = errors.New("morph: parameter out of valid bounds")

	// ErrSettingsBounds indicates inconsistent morphology settings.
	ErrSettingsBounds = errors.New("morph: settings out of valid bounds")

	// ErrCancelled indicates the run was interrupted before reaching target.
	ErrCancelled = errors.New("morph: generation cancelled")

	// ErrBudgetExceeded indicates the wall-clock safety budget elapsed.
	ErrBudgetExceeded = errors.New("morph: wall-clock budget exceeded")
)

// GrowthError wraps an error with the phase and tick it occurred in.
type GrowthError struct {
	Phase   string
	Tick    int
	Wrapped error
}

func (e *GrowthError) Error() string {
	return e.Wrapped.Error()
}

func (e *GrowthError) Unwrap() error {
	return e.Wrapped
}
