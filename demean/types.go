package demean

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/absorb/solver"
)

// Sentinel errors; callers match with errors.Is.
var (
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("demean: invalid option supplied")

	// ErrNoFixedEffects is returned when the effect slice is empty.
	ErrNoFixedEffects = errors.New("demean: no fixed effects")

	// ErrObsMismatch is returned when effects disagree on observation count.
	ErrObsMismatch = errors.New("demean: observation count mismatch")

	// ErrResponseLength is returned when a response column does not match
	// the observation count.
	ErrResponseLength = errors.New("demean: response length mismatch")

	// ErrWeightLength is returned when the weights length does not match
	// the observation count.
	ErrWeightLength = errors.New("demean: weights length mismatch")

	// ErrWeightInvalid is returned when a weight is negative, NaN or
	// infinite.
	ErrWeightInvalid = errors.New("demean: weights must be finite and nonnegative")

	// ErrNoColumns is returned when ResidualsMatrix gets zero columns.
	ErrNoColumns = errors.New("demean: no response columns")
)

// Defaults applied by DefaultOptions.
const (
	// DefaultMaxIterations bounds the backend iteration count.
	DefaultMaxIterations = 10_000

	// DefaultTolerance is the backend convergence tolerance.
	DefaultTolerance = 1e-8
)

// Option configures a solve via functional arguments. An invalid value
// (non-positive budget, NaN tolerance) is recorded internally and
// surfaced as ErrOptionViolation when the solve is invoked.
type Option func(*Options)

// Options holds the parameters of one solve.
type Options struct {
	// Ctx bounds the scheduling of the multi-column path. Single-column
	// solves run to completion and do not consult it.
	Ctx context.Context

	// Weights are per-observation weights, nonnegative, zero allowed.
	// Nil means uniform weights and skips scaling entirely.
	Weights []float64

	// Method selects the least-squares backend.
	Method solver.Method

	// MaxIterations bounds the backend iteration count.
	MaxIterations int

	// Tolerance is the backend convergence tolerance.
	Tolerance float64

	// Logger receives one Warn per non-converged solve.
	Logger *zap.Logger

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with sane defaults:
//   - context.Background()
//   - uniform weights
//   - solver.LSMR
//   - MaxIterations 10000, Tolerance 1e-8
//   - a no-op logger.
func DefaultOptions() Options {
	return Options{
		Ctx:           context.Background(),
		Weights:       nil,
		Method:        solver.LSMR,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Logger:        zap.NewNop(),
		err:           nil,
	}
}

// WithContext sets the context consulted by ResidualsMatrix when
// scheduling column solves.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithWeights sets per-observation weights. Nil keeps uniform weights.
// Length and value checks run against the effects at solve time.
func WithWeights(w []float64) Option {
	return func(o *Options) {
		o.Weights = w
	}
}

// WithMethod selects the least-squares backend.
func WithMethod(m solver.Method) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithMaxIterations bounds the backend iteration count.
//
//	n >= 1: use n
//	n < 1:  invalid option → ErrOptionViolation
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: MaxIterations must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}

// WithTolerance sets the backend convergence tolerance.
//
//	tol > 0: use tol
//	else:    invalid option → ErrOptionViolation
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 || math.IsNaN(tol) {
			o.err = fmt.Errorf("%w: Tolerance must be positive (%v)", ErrOptionViolation, tol)
			return
		}
		o.Tolerance = tol
	}
}

// WithLogger sets the logger that receives non-convergence warnings.
// Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
