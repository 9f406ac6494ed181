// Package lsmr defines the operator contract, options and result of the
// LSMR iteration.
package lsmr

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for LSMR execution.
var (
	// ErrNilOperator is returned when a nil operator is passed.
	ErrNilOperator = errors.New("lsmr: operator is nil")
	// ErrDimensionMismatch is returned when b or x disagrees with the
	// operator dimensions.
	ErrDimensionMismatch = errors.New("lsmr: vector length does not match operator dimensions")
	// ErrOptionViolation is returned when an invalid option value is set.
	ErrOptionViolation = errors.New("lsmr: invalid option value")
)

// Operator is the matrix contract LSMR iterates against. Implementations
// must not retain dst or x beyond the call and must not read dst before
// overwriting it.
type Operator interface {
	// Dims returns the number of rows and columns of A.
	Dims() (rows, cols int)
	// MulVec computes dst = A·x; len(dst) = rows, len(x) = cols.
	MulVec(dst, x []float64)
	// MulVecTrans computes dst = Aᵀ·y; len(dst) = cols, len(y) = rows.
	MulVecTrans(dst, y []float64)
}

// Options tune the LSMR iteration. Start from DefaultOptions; the zero
// value is rejected (MaxIter must be positive).
//
// Fields:
//   - Atol    — relative tolerance on ‖Aᵀr‖; also enters the ‖r‖ test.
//   - Btol    — relative tolerance on ‖r‖.
//   - Conlim  — stop once the condition-number estimate exceeds this;
//     0 disables the test.
//   - Damp    — Tikhonov damping λ ≥ 0; 0 solves the plain problem.
//   - MaxIter — iteration budget; exhausting it reports Converged=false.
type Options struct {
	Atol    float64
	Btol    float64
	Conlim  float64
	Damp    float64
	MaxIter int
}

// DefaultOptions returns the standard configuration: Atol = Btol = 1e-8,
// Conlim = 1e8, no damping, MaxIter = 10000.
func DefaultOptions() Options {
	return Options{
		Atol:    1e-8,
		Btol:    1e-8,
		Conlim:  1e8,
		Damp:    0,
		MaxIter: 10000,
	}
}

// validate rejects option values the iteration cannot run with.
func (o Options) validate() error {
	if o.MaxIter < 1 {
		return fmt.Errorf("%w: MaxIter must be positive (%d)", ErrOptionViolation, o.MaxIter)
	}
	if o.Atol < 0 || math.IsNaN(o.Atol) {
		return fmt.Errorf("%w: Atol = %v", ErrOptionViolation, o.Atol)
	}
	if o.Btol < 0 || math.IsNaN(o.Btol) {
		return fmt.Errorf("%w: Btol = %v", ErrOptionViolation, o.Btol)
	}
	if o.Conlim < 0 || math.IsNaN(o.Conlim) {
		return fmt.Errorf("%w: Conlim = %v", ErrOptionViolation, o.Conlim)
	}
	if o.Damp < 0 || math.IsNaN(o.Damp) {
		return fmt.Errorf("%w: Damp = %v", ErrOptionViolation, o.Damp)
	}

	return nil
}

// Result reports the outcome of one Solve call.
type Result struct {
	// Iterations is the number of completed iterations.
	Iterations int
	// Converged reports whether a tolerance test stopped the iteration;
	// false means the budget or the condition limit did.
	Converged bool
	// ResidualNorm is the final estimate of ‖b − A·x‖.
	ResidualNorm float64
	// OptimalityNorm is the final estimate of ‖Aᵀ(b − A·x)‖.
	OptimalityNorm float64
}
