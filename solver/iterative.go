package solver

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/absorb/fixedeffect"
	"github.com/katalvlaran/absorb/lsmr"
)

// iterative is the LSMR backend. Each solve runs the Krylov iteration
// against the implicit design with fresh scratch, so the backend carries
// no mutable state between calls.
type iterative struct {
	m *linmap
}

// FixedEffects returns the effect sequence the solver was built from.
func (s *iterative) FixedEffects() []*fixedeffect.FixedEffect { return s.m.fes }

// SolveResiduals projects r onto the orthogonal complement of the design
// span, in place: solve for x, then subtract A·x from r.
func (s *iterative) SolveResiduals(r []float64, maxIter int, tol float64) (int, bool, error) {
	x, res, err := s.solve(r, maxIter, tol)
	if err != nil {
		return 0, false, err
	}
	ax := make([]float64, s.m.nobs)
	s.m.MulVec(ax, x)
	floats.Sub(r, ax)
	return res.Iterations, res.Converged, nil
}

// SolveCoefficients regresses r on the design and unscales the solution
// into natural per-level coefficients. r is left untouched.
func (s *iterative) SolveCoefficients(r []float64, maxIter int, tol float64) ([][]float64, int, bool, error) {
	x, res, err := s.solve(r, maxIter, tol)
	if err != nil {
		return nil, 0, false, err
	}
	return s.m.unscale(x), res.Iterations, res.Converged, nil
}

// solve validates, then runs LSMR from a cold start with the shared
// tolerance on both the residual and optimality tests.
func (s *iterative) solve(r []float64, maxIter int, tol float64) ([]float64, lsmr.Result, error) {
	if err := checkSolveParams(maxIter, tol); err != nil {
		return nil, lsmr.Result{}, err
	}
	if err := s.m.checkResponse(r); err != nil {
		return nil, lsmr.Result{}, err
	}
	opts := lsmr.DefaultOptions()
	opts.Atol = tol
	opts.Btol = tol
	opts.MaxIter = maxIter

	x := make([]float64, s.m.ncols)
	res, err := lsmr.Solve(s.m, r, x, opts)
	if err != nil {
		return nil, lsmr.Result{}, err
	}
	return x, res, nil
}
