// Package absorb is a fixed-effects engine: project high-dimensional
// categorical structure out of response data, or estimate it, at panel
// scale.
//
// 🚀 What is absorb?
//
//	A focused library for models with absorbed categorical effects:
//		• Effects: dense 1-based level maps, pure or interacted, built from raw keys
//		• Demeaning: residualize vectors or whole response matrices, in place
//		• Estimation: per-level coefficients, identified per connected component
//		• Backends: LSMR (iterative, matrix-free), Cholesky and QR (direct)
//		• Weights: nonnegative observation weights, zeros allowed
//
// ✨ Why choose absorb?
//
//   - Matrix-free core – the design matrix is applied, never materialized
//   - Identification built in – component discovery plus rescaling, not folklore
//   - Explicit failure modes – sentinel errors, full validation before numeric work
//   - Honest convergence – a stalled solve is reported, never retried, never upgraded to an error
//
// Under the hood, everything is organized under five subpackages:
//
//	fixedeffect/ — level maps: validation, grouping, interactions, expansion
//	ident/       — connected components & coefficient rescaling
//	lsmr/        — the iterative least-squares core (Fong & Saunders)
//	solver/      — backend seam: LSMR, Cholesky, QR behind one interface
//	demean/      — public orchestration: Residuals, ResidualsMatrix, Coefficients
//
// Quick sketch:
//
//	firm, _ := fixedeffect.GroupStrings(firms)
//	year, _ := fixedeffect.GroupInts(years)
//	resid, iters, ok, err := demean.Residuals(wages,
//		[]*fixedeffect.FixedEffect{firm, year})
//
// Dive into examples/ for runnable walkthroughs: a worker-firm wage
// panel, the identification machinery step by step, and a before/after
// scatter plot.
//
//	go get github.com/katalvlaran/absorb
package absorb
