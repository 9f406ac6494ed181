// Package demean is the public face of the absorb engine: it removes the
// influence of categorical fixed effects from response data, either as
// residuals (the response with all fixed-effect structure projected out)
// or as identified per-observation coefficient contributions.
//
// What:
//
//   - Residuals replaces a response vector with its projection onto the
//     orthogonal complement of the fixed-effect span.
//   - ResidualsMatrix does the same for many response columns sharing
//     one design, solving columns concurrently.
//   - Coefficients regresses a response on the fixed effects, resolves
//     the inherent level ambiguity through package ident, and expands
//     the result to one per-observation vector per effect.
//
// Why:
//
//   - Weighted problems are handled as a scoped transformation: the
//     response is scaled by sqrt-weights on entry and the scaling is
//     undone on every exit path, so caller buffers never leak out in
//     the scaled state, not even on failure.
//   - Everything is validated before any numeric work: effect
//     definitions, observation counts, weight values, response shapes.
//     A backend is only ever handed a well-formed problem.
//   - Non-convergence is not an error. The backend's best effort comes
//     back with converged == false and one Warn on the configured
//     logger; callers choose their own severity.
//
// Behavior is tuned through functional options: WithWeights,
// WithMethod, WithMaxIterations, WithTolerance, WithLogger,
// WithContext. Invalid option values surface as ErrOptionViolation
// before any work starts.
//
// Zero weights are allowed. A zero-weight observation contributes
// nothing to any solve; its residual entry passes through as the
// original response value.
//
// Complexity: validation and scaling are O(observations × effects);
// solve cost is the chosen backend's (see package solver).
//
// Errors:
//
//   - ErrOptionViolation: an option carried an invalid value.
//   - ErrNoFixedEffects: the effect slice is empty.
//   - ErrObsMismatch: effects disagree on observation count.
//   - ErrResponseLength: a response column has the wrong length.
//   - ErrWeightLength: the weights length differs from the observation
//     count.
//   - ErrWeightInvalid: a weight is negative, NaN or infinite.
//   - ErrNoColumns: ResidualsMatrix got zero columns.
//
// Validation failures inside an effect definition surface as the
// fixedeffect sentinels, wrapped with the offending index.
package demean
