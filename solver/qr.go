package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// qr is the augmented least-squares backend: it factorizes the stacked
// matrix [A; √δ·I] at construction, which regularizes the rank-deficient
// design without ever forming AᵀA. Numerically the sturdiest backend and
// the most expensive to build.
type qr struct {
	m   *linmap
	fac mat.QR
}

// newQR materializes the augmented design densely and factorizes it.
func newQR(m *linmap) (*qr, error) {
	rows := m.nobs + m.ncols
	aug := mat.NewDense(rows, m.ncols, nil)
	for j, fe := range m.fes {
		off := m.offsets[j]
		cache := m.caches[j]
		for i, r := range fe.Refs {
			aug.Set(i, off+r-1, cache[i])
		}
	}
	sq := math.Sqrt(ridge)
	for d := 0; d < m.ncols; d++ {
		aug.Set(m.nobs+d, d, sq)
	}

	s := &qr{m: m}
	s.fac.Factorize(aug)
	return s, nil
}

// FixedEffects returns the effect sequence the solver was built from.
func (s *qr) FixedEffects() []*fixedeffect.FixedEffect { return s.m.fes }

// SolveResiduals projects r onto the orthogonal complement of the design
// span, in place. Direct backends report a single converged iteration.
func (s *qr) SolveResiduals(r []float64, maxIter int, tol float64) (int, bool, error) {
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
func (s *qr) SolveCoefficients(r []float64, maxIter int, tol float64) ([][]float64, int, bool, error) {
	x, err := s.solve(r, maxIter, tol)
	if err != nil {
		return nil, 0, false, err
	}
	return s.m.unscale(x), 1, true, nil
}

// solve validates, zero-pads r to the augmented height, and applies the
// cached factorization.
func (s *qr) solve(r []float64, maxIter int, tol float64) ([]float64, error) {
	if err := checkSolveParams(maxIter, tol); err != nil {
		return nil, err
	}
	if err := s.m.checkResponse(r); err != nil {
		return nil, err
	}
	rhs := make([]float64, s.m.nobs+s.m.ncols)
	copy(rhs, r)

	var x mat.VecDense
	if err := s.fac.SolveVecTo(&x, false, mat.NewVecDense(len(rhs), rhs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFactorization, err)
	}
	return x.RawVector().Data, nil
}
