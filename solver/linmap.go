package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// linmap is the column-normalized design matrix of a fixed-effect
// sequence, kept implicit. Column (j, l) holds interaction·sqrtw at the
// observations of level l of effect j, divided by the column norm; the
// matrix is only ever applied as a gather (MulVec) or scatter
// (MulVecTrans) through two precomputed tables:
//
//	scales[j][l-1]  inverse norm of column (j, l), zero for empty columns
//	caches[j][i]    interaction[i]·sqrtw[i]·scales[j][refs[i]-1]
//
// It satisfies lsmr.Operator and backs the direct factorizations too.
type linmap struct {
	fes     []*fixedeffect.FixedEffect
	scales  [][]float64
	caches  [][]float64
	offsets []int // column offset of each effect in the stacked vector
	nobs    int
	ncols   int
}

// newLinmap validates the effect sequence against the optional
// sqrt-weights and precomputes the scale and cache tables.
func newLinmap(fes []*fixedeffect.FixedEffect, sqrtw []float64) (*linmap, error) {
	if len(fes) == 0 {
		return nil, ErrNoFixedEffects
	}
	for j, fe := range fes {
		if err := fe.Validate(); err != nil {
			return nil, fmt.Errorf("solver: fixed effect %d: %w", j, err)
		}
	}
	nobs := fes[0].Len()
	for j, fe := range fes[1:] {
		if fe.Len() != nobs {
			return nil, fmt.Errorf("%w: effect 0 has %d observations, effect %d has %d",
				ErrObsMismatch, nobs, j+1, fe.Len())
		}
	}
	if sqrtw != nil && len(sqrtw) != nobs {
		return nil, fmt.Errorf("%w: len(sqrtw) = %d, observations = %d",
			ErrWeightLength, len(sqrtw), nobs)
	}

	m := &linmap{
		fes:     fes,
		scales:  make([][]float64, len(fes)),
		caches:  make([][]float64, len(fes)),
		offsets: make([]int, len(fes)),
		nobs:    nobs,
	}
	for j, fe := range fes {
		m.offsets[j] = m.ncols
		m.ncols += fe.N
	}
	for j, fe := range fes {
		scale := make([]float64, fe.N)
		for i, r := range fe.Refs {
			e := designEntry(fe, sqrtw, i)
			scale[r-1] += e * e
		}
		for l, s := range scale {
			if s > 0 {
				scale[l] = 1 / math.Sqrt(s)
			}
		}
		cache := make([]float64, nobs)
		for i, r := range fe.Refs {
			cache[i] = designEntry(fe, sqrtw, i) * scale[r-1]
		}
		m.scales[j] = scale
		m.caches[j] = cache
	}
	return m, nil
}

// designEntry is the raw design entry of observation i in its effect's
// column, before column normalization.
func designEntry(fe *fixedeffect.FixedEffect, sqrtw []float64, i int) float64 {
	e := 1.0
	if fe.Interaction != nil {
		e = fe.Interaction[i]
	}
	if sqrtw != nil {
		e *= sqrtw[i]
	}
	return e
}

// Dims returns the (observations, stacked columns) shape.
func (m *linmap) Dims() (rows, cols int) { return m.nobs, m.ncols }

// MulVec sets dst = A·x: for each observation, the sum over effects of
// the coordinate its level selects, times the cached multiplier.
func (m *linmap) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for j, fe := range m.fes {
		off := m.offsets[j]
		cache := m.caches[j]
		for i, r := range fe.Refs {
			dst[i] += x[off+r-1] * cache[i]
		}
	}
}

// MulVecTrans sets dst = Aᵀ·y: each observation scatters its weighted
// value into the column of its level, once per effect.
func (m *linmap) MulVecTrans(dst, y []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for j, fe := range m.fes {
		off := m.offsets[j]
		cache := m.caches[j]
		for i, r := range fe.Refs {
			dst[off+r-1] += y[i] * cache[i]
		}
	}
}

// unscale maps a solution of the normalized system back to per-level
// coefficients in the natural parametrization, one slice per effect.
// Levels whose column vanished (no observations, or only zero-weight
// ones) come back as exact zeros.
func (m *linmap) unscale(x []float64) [][]float64 {
	out := make([][]float64, len(m.fes))
	for j, fe := range m.fes {
		off := m.offsets[j]
		coef := make([]float64, fe.N)
		for l := range coef {
			coef[l] = x[off+l] * m.scales[j][l]
		}
		out[j] = coef
	}
	return out
}

// checkResponse verifies a response slice matches the observation count.
func (m *linmap) checkResponse(r []float64) error {
	if len(r) != m.nobs {
		return fmt.Errorf("%w: len(response) = %d, observations = %d",
			ErrResponseLength, len(r), m.nobs)
	}
	return nil
}
