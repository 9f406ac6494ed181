package ident

import (
	"fmt"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// Rescale normalizes per-level coefficients in place so that they are the
// unique representative of their equivalence class.
//
// coefs[j] holds the per-level coefficients of fes[j] (length ≥ fes[j].N).
// Only pure fixed effects participate; interacted ones pass through
// untouched. With fewer than two pure effects there is nothing to resolve
// and Rescale returns (nil, nil) without reading a single coefficient.
//
// Otherwise the first pure effect (by index) is the reference. Per
// connected component, every other pure effect is demeaned to zero over
// the component's levels, in reverse effect order, and the sum of removed
// means is added to the reference levels of that component. Fitted values
// are preserved; applying Rescale twice is a no-op.
//
// The components used are returned for inspection.
func Rescale(coefs [][]float64, fes []*fixedeffect.FixedEffect) ([]Component, error) {
	if err := validateSet(fes); err != nil {
		return nil, err
	}
	if len(coefs) != len(fes) {
		return nil, fmt.Errorf("%w: %d coefficient vectors for %d fixed effects",
			ErrCoefShape, len(coefs), len(fes))
	}

	idx := Eligible(fes)
	if len(idx) < 2 {
		return nil, nil
	}

	sub := make([]*fixedeffect.FixedEffect, len(idx))
	xs := make([][]float64, len(idx))
	for k, j := range idx {
		if len(coefs[j]) < fes[j].N {
			return nil, fmt.Errorf("%w: coefs[%d] has %d entries, effect has %d levels",
				ErrCoefShape, j, len(coefs[j]), fes[j].N)
		}
		sub[k] = fes[j]
		xs[k] = coefs[j]
	}

	comps := discover(sub)
	for _, comp := range comps {
		var adjust float64
		// demean all but the reference effect, in reverse order
		for k := len(xs) - 1; k >= 1; k-- {
			levels := comp[k]
			if len(levels) == 0 {
				continue
			}
			var mean float64
			for _, l := range levels {
				mean += xs[k][l-1]
			}
			mean /= float64(len(levels))
			for _, l := range levels {
				xs[k][l-1] -= mean
			}
			adjust += mean
		}
		// fold the removed mass into the reference effect
		for _, l := range comp[0] {
			xs[0][l-1] += adjust
		}
	}

	return comps, nil
}
