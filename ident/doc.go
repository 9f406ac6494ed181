// Package ident resolves the identification of fixed-effects coefficients.
//
// What:
//
// Coefficients estimated for two or more pure categorical fixed effects are
// only identified up to an additive constant per connected component: any
// constant can be moved between the effects of levels that co-occur in the
// same observations without changing a single fitted value. This package
//
//   - discovers those components (Components): a breadth-first search over
//     the implicit bipartite graph whose nodes are observations on one side
//     and (fixed effect, level) pairs on the other, with an edge between
//     observation i and level Refs[i] of every participating effect;
//   - imposes the canonical normalization (Rescale): inside every
//     component each non-reference effect is demeaned to zero over the
//     component's levels and the removed mass is folded into the first
//     pure effect, the reference.
//
// Why:
//
//   - Reproducibility: without normalization two runs (or two solver
//     backends) may return different, equally valid coefficient vectors.
//   - Interpretation: "firm effect relative to the component mean" only
//     means something once the component structure is fixed.
//
// Algorithm:
//
//  1. Build, per effect, a level → observations index ("where") in one
//     pass over refs.
//  2. Scan observations in order; every unvisited one seeds a component.
//     Pop observations from an explicit queue; for each participating
//     effect record the observation's level once per component and enqueue
//     the unvisited observations sharing that level.
//  3. Rescale walks each component's effects in reverse order, demeaning
//     every non-reference effect and accumulating the removed means into
//     an adjustment added to the reference levels of that component.
//
// The traversal order is irrelevant: only the partition into components
// matters, and that is unique.
//
// Complexity:
//
//   - Components: O(observations × effects + levels) time,
//     O(observations + levels) memory.
//   - Rescale: discovery plus O(levels) per component.
//
// Errors:
//
//   - ErrNoFixedEffects: the descriptor slice is empty.
//   - ErrObsMismatch: descriptors disagree on observation count.
//   - ErrCoefShape: coefficient vectors do not match the descriptors.
//
// Rescale preserves fitted values exactly up to floating-point rounding and
// is idempotent: rescaling an already-normalized set changes nothing.
package ident
