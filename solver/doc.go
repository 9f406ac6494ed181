// Package solver owns the backend seam of the absorb engine: the implicit
// design matrix spanned by a set of fixed effects and the interchangeable
// least-squares backends that solve against it.
//
// What:
//
//   - Method is an open enumeration of backends: LSMR (iterative,
//     matrix-free), Cholesky (direct, normal equations) and QR (direct,
//     augmented least squares). Adding a backend touches only this
//     package.
//   - New builds a Solver from (fixed effects, sqrt-weights, method). The
//     internal representation is opaque: per-level inverse column norms
//     plus per-observation multipliers, so the design matrix is only ever
//     applied as gather/scatter and never materialized by the iterative
//     backend.
//   - Solver exposes the ordered fixed-effect sequence and the two solve
//     shapes: residual-mode (in place, same shape) and coefficient-mode
//     (one per-level vector per effect, natural parametrization).
//
// Why:
//
//   - The orchestration layer (package demean) must not know how a
//     backend works, only that it returns (result, iterations,
//     converged) and never fails silently.
//   - Column normalization preconditions the iterative solve and makes
//     zero-weight observations and unused levels harmless: their columns
//     vanish and their coefficients come back as zero.
//
// Direct backends and rank deficiency: with two or more fixed effects the
// design matrix never has full column rank, so Cholesky factorizes the
// normal equations with a small diagonal ridge and QR factorizes the
// stacked matrix [A; √δ·I]. Either way the fitted values are exact to
// working precision and the coefficient ambiguity is resolved afterwards
// by package ident.
//
// Solvers are safe for concurrent use: per-call scratch is freshly
// allocated and factorizations are read-only after construction.
//
// Complexity:
//
//   - New: O(observations × effects) for LSMR;
//     plus O(columns² × observations) (Cholesky) or
//     O((observations + columns) × columns²) (QR) for the direct methods.
//   - SolveResiduals / SolveCoefficients: O(iterations × observations ×
//     effects) for LSMR, O(columns²) per solve for the direct methods.
//
// Errors:
//
//   - ErrUnknownMethod: the method tag names no backend.
//   - ErrNoFixedEffects: the effect slice is empty.
//   - ErrObsMismatch: effects disagree on observation count.
//   - ErrWeightLength: sqrt-weight length differs from observation count.
//   - ErrResponseLength: a response length differs from observation count.
//   - ErrMaxIterations, ErrTolerance: non-positive solve parameters.
//   - ErrFactorization: a direct backend could not factorize or solve.
package solver
