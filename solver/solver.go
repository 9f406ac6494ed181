package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// ridge is the diagonal regularization the direct backends add to cope
// with the rank deficiency inherent to multiple fixed effects. It is
// small enough to leave fitted values exact to working precision and
// large enough to keep the factorizations positive definite.
const ridge = 1e-10

// New builds a Solver over the given fixed effects for the chosen
// method. sqrtw holds per-observation square roots of the weights; nil
// means uniform. The effect sequence is captured by reference and must
// not be mutated while the solver is in use.
//
// Direct methods pay their factorization cost here, so construction can
// return ErrFactorization; LSMR construction only validates and builds
// the scale tables.
func New(fes []*fixedeffect.FixedEffect, sqrtw []float64, method Method) (Solver, error) {
	m, err := newLinmap(fes, sqrtw)
	if err != nil {
		return nil, err
	}
	switch method {
	case LSMR:
		return &iterative{m: m}, nil
	case Cholesky:
		return newCholesky(m)
	case QR:
		return newQR(m)
	default:
		return nil, fmt.Errorf("%w: Method(%d)", ErrUnknownMethod, int(method))
	}
}

// checkSolveParams rejects non-positive iteration budgets and
// tolerances before any backend work starts.
func checkSolveParams(maxIter int, tol float64) error {
	if maxIter < 1 {
		return fmt.Errorf("%w: got %d", ErrMaxIterations, maxIter)
	}
	if tol <= 0 || math.IsNaN(tol) {
		return fmt.Errorf("%w: got %v", ErrTolerance, tol)
	}
	return nil
}
