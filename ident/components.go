package ident

import (
	"fmt"

	"github.com/katalvlaran/absorb/fixedeffect"
)

// Component records the levels of one connected component.
// Component[j] lists, in discovery order, the 1-based levels of the j-th
// fixed effect passed to Components that occur inside the component.
type Component [][]int

// Eligible returns the indices of the pure (trivial-interaction) fixed
// effects, the only ones participating in identification.
func Eligible(fes []*fixedeffect.FixedEffect) []int {
	var idx []int
	for j, fe := range fes {
		if fe != nil && fe.Pure() {
			idx = append(idx, j)
		}
	}

	return idx
}

// Components partitions observations and levels into connected components.
// Every passed fixed effect participates; callers normally pass the
// Eligible subset. Each observation lands in exactly one component; each
// level used by at least one observation lands in exactly one component;
// levels no observation maps to appear in none.
//
// Time:   O(observations × effects + levels).
// Memory: O(observations + levels).
func Components(fes []*fixedeffect.FixedEffect) ([]Component, error) {
	if err := validateSet(fes); err != nil {
		return nil, err
	}

	return discover(fes), nil
}

// discover runs the BFS proper; inputs are assumed validated.
func discover(fes []*fixedeffect.FixedEffect) []Component {
	nobs := fes[0].Len()

	// Level → observations index, one pass per effect.
	wheres := make([][][]int, len(fes))
	for j, fe := range fes {
		where := make([][]int, fe.N+1) // 1-based levels, slot 0 unused
		for i, r := range fe.Refs {
			where[r] = append(where[r], i)
		}
		wheres[j] = where
	}

	// stamp[j][l] is the component that recorded level l of effect j, or -1.
	stamp := make([][]int, len(fes))
	for j, fe := range fes {
		s := make([]int, fe.N+1)
		for l := range s {
			s[l] = -1
		}
		stamp[j] = s
	}

	seen := make([]bool, nobs)
	var comps []Component

	for i0 := 0; i0 < nobs; i0++ {
		if seen[i0] {
			continue
		}
		// BFS to collect one component
		cid := len(comps)
		comp := make(Component, len(fes))
		queue := []int{i0}
		seen[i0] = true

		for qi := 0; qi < len(queue); qi++ {
			o := queue[qi]
			for j, fe := range fes {
				l := fe.Refs[o]
				if stamp[j][l] == cid {
					continue // level already recorded for this component
				}
				stamp[j][l] = cid
				comp[j] = append(comp[j], l)
				for _, v := range wheres[j][l] {
					if !seen[v] {
						seen[v] = true
						queue = append(queue, v)
					}
				}
			}
		}
		comps = append(comps, comp)
	}

	return comps
}

// validateSet checks the shared preconditions of the package entry points.
func validateSet(fes []*fixedeffect.FixedEffect) error {
	if len(fes) == 0 {
		return ErrNoFixedEffects
	}
	for j, fe := range fes {
		if err := fe.Validate(); err != nil {
			return fmt.Errorf("ident: fixed effect %d: %w", j, err)
		}
	}
	nobs := fes[0].Len()
	for j, fe := range fes[1:] {
		if fe.Len() != nobs {
			return fmt.Errorf("%w: effect 0 has %d observations, effect %d has %d",
				ErrObsMismatch, nobs, j+1, fe.Len())
		}
	}

	return nil
}
