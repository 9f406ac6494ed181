package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// cholesky is the normal-equations backend: it assembles G = AᵀA + δ·I
// over the column-normalized design once, factorizes it at construction,
// and answers every solve with one scatter and one triangular solve.
type cholesky struct {
	m    *linmap
	chol mat.Cholesky
}

// newCholesky assembles and factorizes the ridged normal matrix.
func newCholesky(m *linmap) (*cholesky, error) {
	n := m.ncols
	g := make([]float64, n*n)

	// One pass per effect pair. Within a single effect distinct levels
	// never share an observation, so the diagonal block is itself
	// diagonal; cross blocks accumulate one product per observation.
	for j := range m.fes {
		offj := m.offsets[j]
		refsj := m.fes[j].Refs
		cj := m.caches[j]
		for i, r := range refsj {
			d := offj + r - 1
			g[d*n+d] += cj[i] * cj[i]
		}
		for k := j + 1; k < len(m.fes); k++ {
			offk := m.offsets[k]
			refsk := m.fes[k].Refs
			ck := m.caches[k]
			for i, r := range refsj {
				row := offj + r - 1
				col := offk + refsk[i] - 1
				g[row*n+col] += cj[i] * ck[i]
			}
		}
	}
	for a := 0; a < n; a++ {
		g[a*n+a] += ridge
		for b := a + 1; b < n; b++ {
			g[b*n+a] = g[a*n+b]
		}
	}

	s := &cholesky{m: m}
	if ok := s.chol.Factorize(mat.NewSymDense(n, g)); !ok {
		return nil, fmt.Errorf("%w: normal matrix is not positive definite", ErrFactorization)
	}
	return s, nil
}

// FixedEffects returns the effect sequence the solver was built from.
func (s *cholesky) FixedEffects() []*fixedeffect.FixedEffect { return s.m.fes }

// SolveResiduals projects r onto the orthogonal complement of the design
// span, in place. Direct backends report a single converged iteration.
func (s *cholesky) SolveResiduals(r []float64, maxIter int, tol float64) (int, bool, error) {
	x, err := s.solve(r, maxIter, tol)
	if err != nil {
		return 0, false, err
	}
	ax := make([]float64, s.m.nobs)
	s.m.MulVec(ax, x)
	floats.Sub(r, ax)
	return 1, true, nil
}

// SolveCoefficients regresses r on the design and unscales the solution
// into natural per-level coefficients. r is left untouched.
func (s *cholesky) SolveCoefficients(r []float64, maxIter int, tol float64) ([][]float64, int, bool, error) {
	x, err := s.solve(r, maxIter, tol)
	if err != nil {
		return nil, 0, false, err
	}
	return s.m.unscale(x), 1, true, nil
}

// solve validates, forms the right-hand side Aᵀr, and applies the cached
// factorization.
func (s *cholesky) solve(r []float64, maxIter int, tol float64) ([]float64, error) {
	if err := checkSolveParams(maxIter, tol); err != nil {
		return nil, err
	}
	if err := s.m.checkResponse(r); err != nil {
		return nil, err
	}
	rhs := make([]float64, s.m.ncols)
	s.m.MulVecTrans(rhs, r)

	var x mat.VecDense
	if err := s.chol.SolveVecTo(&x, mat.NewVecDense(s.m.ncols, rhs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFactorization, err)
	}
	return x.RawVector().Data, nil
}
