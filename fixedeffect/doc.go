// Package fixedeffect defines the categorical descriptor consumed by the
// absorb solvers: an ordered assignment of every observation to one level
// of a grouping variable, optionally interacted with a continuous weight.
//
// What:
//
//   - FixedEffect wraps dense 1-based level references (Refs), the level
//     count (N) and an optional per-observation Interaction weight.
//   - New / NewInteracted build validated descriptors from prepared refs.
//   - GroupInts / GroupStrings build descriptors straight from raw
//     categorical data, numbering levels in first-appearance order.
//   - Expand broadcasts per-level coefficients back to observation length.
//
// Why:
//
//   - Panel regressions: encode worker, firm or year identifiers once and
//     reuse the descriptor across residual and coefficient solves.
//   - Interactions: a continuous covariate times a dummy set is the same
//     descriptor with a non-nil Interaction vector.
//
// Complexity:
//
//   - Validate: O(n) time, O(1) memory.
//   - GroupInts / GroupStrings: O(n) time, O(levels) memory.
//   - Expand: O(n) time, O(1) extra memory.
//
// Errors:
//
//   - ErrNilFixedEffect: a nil descriptor was passed.
//   - ErrEmptyObservations: refs contain no observations.
//   - ErrLevelCount: the level count is not positive.
//   - ErrRefRange: a reference value lies outside [1, n].
//   - ErrInteractionLength: interaction length differs from refs length.
//   - ErrInteractionNaN: an interaction weight is NaN.
//   - ErrCoefficientLength: a coefficient vector is shorter than n.
//   - ErrExpandLength: an expansion destination length differs from refs.
package fixedeffect
