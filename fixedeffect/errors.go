package fixedeffect

import "errors"

var (
	// ErrNilFixedEffect is returned when a nil descriptor is passed.
	ErrNilFixedEffect = errors.New("fixedeffect: fixed effect is nil")
	// ErrEmptyObservations indicates an empty refs slice.
	ErrEmptyObservations = errors.New("fixedeffect: at least one observation required")
	// ErrLevelCount indicates a non-positive number of levels.
	ErrLevelCount = errors.New("fixedeffect: number of levels must be positive")
	// ErrRefRange indicates a reference value outside [1, n]; a value below 1
	// marks a missing observation, a value above n an encoding bug.
	ErrRefRange = errors.New("fixedeffect: reference value out of range")
	// ErrInteractionLength indicates the interaction vector length differs
	// from the refs length.
	ErrInteractionLength = errors.New("fixedeffect: interaction length mismatch")
	// ErrInteractionNaN indicates an undefined interaction weight.
	ErrInteractionNaN = errors.New("fixedeffect: interaction weight is NaN")
	// ErrCoefficientLength indicates a per-level coefficient vector shorter
	// than the level count.
	ErrCoefficientLength = errors.New("fixedeffect: coefficient vector shorter than level count")
	// ErrExpandLength indicates an expansion destination whose length differs
	// from the number of observations.
	ErrExpandLength = errors.New("fixedeffect: expansion destination length mismatch")
)
