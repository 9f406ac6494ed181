// Package lsmr implements the LSMR iterative algorithm for least-squares
// problems min ‖A·x − b‖₂ (Fong & Saunders, 2011), optionally with Tikhonov
// damping min ‖A·x − b‖² + λ²‖x‖².
//
// What:
//
//   - Operator is the minimal matrix contract: dimensions, A·x and Aᵀ·y.
//     Any implicit or sparse representation qualifies; no matrix is ever
//     materialized.
//   - Solve runs Golub–Kahan bidiagonalization with two nested plane
//     rotations, keeping running estimates of ‖r‖, ‖Aᵀr‖, ‖A‖ and cond(A)
//     that drive the stopping tests.
//
// Why:
//
//   - Demeaning design matrices are huge, sparse and only ever applied as
//     gather/scatter; LSMR touches them through two matrix-vector products
//     per iteration and O(rows + cols) extra memory.
//   - On rank-deficient systems LSMR converges to the minimum-norm
//     least-squares solution, which is exactly what an identification
//     pass can then normalize.
//
// Stopping (per iteration, first match wins):
//
//   - iteration budget exhausted                → not converged
//   - cond(A) estimate at machine precision     → not converged
//   - ‖Aᵀr‖ or ‖r‖ tests at machine precision   → converged
//   - cond(A) estimate beyond Conlim            → not converged
//   - ‖Aᵀr‖ ≤ Atol·‖A‖·‖r‖                      → converged
//   - ‖r‖ ≤ Btol·‖b‖ + Atol·‖A‖·‖x‖             → converged
//
// Complexity: O(MaxIter × cost(MulVec + MulVecTrans)) time,
// O(rows + cols) memory.
//
// Errors:
//
//   - ErrNilOperator: no operator supplied.
//   - ErrDimensionMismatch: b or x does not match the operator shape.
//   - ErrOptionViolation: a negative tolerance, damping factor or
//     non-positive iteration budget.
package lsmr
