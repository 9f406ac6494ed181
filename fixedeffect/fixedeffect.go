package fixedeffect

import (
	"fmt"
	"math"
)

// FixedEffect describes one categorical grouping of observations.
//
// Refs assigns every observation a dense 1-based level index in [1, N].
// Interaction is nil for a pure (plain dummy) fixed effect; a non-nil
// vector of per-observation weights marks the effect as interacted with a
// continuous covariate. Pureness is structural: an explicit all-ones
// Interaction still counts as interacted.
//
// A FixedEffect is built once and treated as immutable for the duration of
// any solve that references it.
type FixedEffect struct {
	// Refs holds one 1-based level index per observation.
	Refs []int
	// N is the number of distinct levels.
	N int
	// Interaction holds per-observation continuous weights, or nil.
	Interaction []float64
}

// New builds a pure fixed effect over refs with n distinct levels.
// The descriptor is validated eagerly; the refs slice is referenced, not
// copied.
func New(refs []int, n int) (*FixedEffect, error) {
	fe := &FixedEffect{Refs: refs, N: n}
	if err := fe.Validate(); err != nil {
		return nil, err
	}

	return fe, nil
}

// NewInteracted builds a fixed effect interacted with the given continuous
// weights. interaction must have one entry per observation and contain no
// NaN values.
func NewInteracted(refs []int, n int, interaction []float64) (*FixedEffect, error) {
	fe := &FixedEffect{Refs: refs, N: n, Interaction: interaction}
	if err := fe.Validate(); err != nil {
		return nil, err
	}

	return fe, nil
}

// Validate checks the descriptor invariants: at least one observation,
// positive level count, every ref inside [1, N], and, when present, an
// interaction vector of matching length with no NaN entries.
// Zero allocations on the happy path.
func (fe *FixedEffect) Validate() error {
	if fe == nil {
		return ErrNilFixedEffect
	}
	if len(fe.Refs) == 0 {
		return ErrEmptyObservations
	}
	if fe.N < 1 {
		return fmt.Errorf("%w: n = %d", ErrLevelCount, fe.N)
	}
	for i, r := range fe.Refs {
		if r < 1 || r > fe.N {
			return fmt.Errorf("%w: refs[%d] = %d with n = %d", ErrRefRange, i, r, fe.N)
		}
	}
	if fe.Interaction != nil {
		if len(fe.Interaction) != len(fe.Refs) {
			return fmt.Errorf("%w: len(interaction) = %d, len(refs) = %d",
				ErrInteractionLength, len(fe.Interaction), len(fe.Refs))
		}
		for i, w := range fe.Interaction {
			if math.IsNaN(w) {
				return fmt.Errorf("%w: interaction[%d]", ErrInteractionNaN, i)
			}
		}
	}

	return nil
}

// Pure reports whether the fixed effect is a plain dummy set, i.e. carries
// no continuous interaction. Only pure effects participate in
// identification (see package ident).
func (fe *FixedEffect) Pure() bool { return fe.Interaction == nil }

// Len returns the number of observations.
func (fe *FixedEffect) Len() int { return len(fe.Refs) }

// Expand gathers per-level coefficients into a per-observation vector:
// dst[i] = coef[Refs[i]-1]. dst must have observation length and coef at
// least N entries. All bounds are checked before the first write, so dst
// is never partially filled on error.
func (fe *FixedEffect) Expand(dst, coef []float64) error {
	if fe == nil {
		return ErrNilFixedEffect
	}
	if len(dst) != len(fe.Refs) {
		return fmt.Errorf("%w: len(dst) = %d, want %d", ErrExpandLength, len(dst), len(fe.Refs))
	}
	if len(coef) < fe.N {
		return fmt.Errorf("%w: len(coef) = %d, n = %d", ErrCoefficientLength, len(coef), fe.N)
	}
	for i, r := range fe.Refs {
		if r < 1 || r > fe.N {
			return fmt.Errorf("%w: refs[%d] = %d with n = %d", ErrRefRange, i, r, fe.N)
		}
	}
	for i, r := range fe.Refs {
		dst[i] = coef[r-1]
	}

	return nil
}
