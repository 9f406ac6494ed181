package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// Sentinel errors; callers match with errors.Is.
var (
	// ErrUnknownMethod reports a method tag that names no backend.
	ErrUnknownMethod = errors.New("solver: unknown method")
	// ErrNoFixedEffects reports an empty fixed-effect slice.
	ErrNoFixedEffects = errors.New("solver: no fixed effects")
	// ErrObsMismatch reports fixed effects of unequal observation count.
	ErrObsMismatch = errors.New("solver: observation count mismatch")
	// ErrWeightLength reports a sqrt-weight slice of the wrong length.
	ErrWeightLength = errors.New("solver: weight length mismatch")
	// ErrResponseLength reports a response slice of the wrong length.
	ErrResponseLength = errors.New("solver: response length mismatch")
	// ErrMaxIterations reports a non-positive iteration budget.
	ErrMaxIterations = errors.New("solver: max iterations must be positive")
	// ErrTolerance reports a non-positive or NaN tolerance.
	ErrTolerance = errors.New("solver: tolerance must be positive")
	// ErrFactorization reports a direct backend that failed to factorize
	// or to apply its factorization.
	ErrFactorization = errors.New("solver: factorization failed")
)

// Method selects a least-squares backend.
type Method int

const (
	// LSMR is the iterative, matrix-free backend. It is the default
	// choice: memory stays linear in observations and each iteration is
	// one gather and one scatter over the fixed effects.
	LSMR Method = iota
	// Cholesky forms the normal equations of the column-normalized
	// design once, adds a small ridge, and factorizes at construction.
	// Repeat solves against the same effects are then cheap.
	Cholesky
	// QR factorizes the ridge-augmented stacked design. Slower to build
	// than Cholesky and numerically the most robust of the three.
	QR
)

// String returns the lower-case tag of the method.
func (m Method) String() string {
	switch m {
	case LSMR:
		return "lsmr"
	case Cholesky:
		return "cholesky"
	case QR:
		return "qr"
	default:
		return "unknown"
	}
}

// MethodFromString parses a method tag, case-insensitively.
// Unrecognized tags return ErrUnknownMethod.
func MethodFromString(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lsmr":
		return LSMR, nil
	case "cholesky":
		return Cholesky, nil
	case "qr":
		return QR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Solver solves least-squares problems against one fixed design, in the
// sqrt-weight scaled space prepared by the caller. Implementations are
// safe for concurrent use.
type Solver interface {
	// FixedEffects returns the effect sequence the solver was built
	// from, in construction order. Callers must not mutate it.
	FixedEffects() []*fixedeffect.FixedEffect

	// SolveResiduals replaces r with the component of r orthogonal to
	// the span of the fixed effects. It returns the iterations spent and
	// whether the backend converged within them. On error r is
	// untouched.
	SolveResiduals(r []float64, maxIter int, tol float64) (iterations int, converged bool, err error)

	// SolveCoefficients regresses r on the fixed effects and returns one
	// per-level coefficient slice per effect, in the natural (unscaled)
	// parametrization. r is not modified.
	SolveCoefficients(r []float64, maxIter int, tol float64) (coefs [][]float64, iterations int, converged bool, err error)
}
