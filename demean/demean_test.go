package demean_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/absorb/demean"
	"github.com/katalvlaran/absorb/fixedeffect"
	"github.com/katalvlaran/absorb/solver"
)

// TestMain verifies no solve leaks goroutines, including the parallel
// multi-column path.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// methods lists every backend under test, keyed by display name.
var methods = map[string]solver.Method{
	"lsmr":     solver.LSMR,
	"cholesky": solver.Cholesky,
	"qr":       solver.QR,
}

// mustFE builds a pure fixed effect or fails the test.
func mustFE(t *testing.T, refs []int, n int) *fixedeffect.FixedEffect {
	t.Helper()
	fe, err := fixedeffect.New(refs, n)
	require.NoError(t, err)
	return fe
}

// twoWay is the fully linked two-effect panel used across tests.
func twoWay(t *testing.T) []*fixedeffect.FixedEffect {
	t.Helper()
	return []*fixedeffect.FixedEffect{
		mustFE(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, 5),
		mustFE(t, []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2}, 2),
	}
}

// TestResiduals_SingleEffect checks the defaults end to end: one pure
// effect reduces to within-group demeaning, in place.
func TestResiduals_SingleEffect(t *testing.T) {
	fe, err := fixedeffect.GroupStrings([]string{"a", "a", "b", "b"})
	require.NoError(t, err)

	y := []float64{1, 3, 10, 14}
	out, iterations, converged, err := demean.Residuals(y, []*fixedeffect.FixedEffect{fe})
	require.NoError(t, err)
	assert.True(t, converged)
	assert.GreaterOrEqual(t, iterations, 1)
	assert.Same(t, &y[0], &out[0], "residuals must be written in place")
	assert.InDeltaSlice(t, []float64{-1, 1, -2, 2}, y, 1e-8)
}

// TestResiduals_TwoWayReconstruction checks the central property on
// every backend: residual plus expanded coefficient contributions
// reconstructs the original response.
func TestResiduals_TwoWayReconstruction(t *testing.T) {
	for name, method := range methods {
		t.Run(name, func(t *testing.T) {
			fes := twoWay(t)
			y := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}

			r := append([]float64(nil), y...)
			_, _, _, err := demean.Residuals(r, fes, demean.WithMethod(method))
			require.NoError(t, err)

			coefs, _, converged, err := demean.Coefficients(y, fes, demean.WithMethod(method))
			require.NoError(t, err)
			require.True(t, converged)
			require.Len(t, coefs, 2)

			for i := range y {
				fit := coefs[0][i] + coefs[1][i]
				assert.InDelta(t, y[i], r[i]+fit, 1e-6, "observation %d", i)
			}

			// The second effect is demeaned within the single component,
			// and its levels are balanced, so its expansion averages to 0.
			mean := 0.0
			for _, v := range coefs[1] {
				mean += v
			}
			assert.InDelta(t, 0, mean/float64(len(coefs[1])), 1e-6)
		})
	}
}

// TestResiduals_Weighted checks weighted demeaning against the weighted
// group mean, with a zero-weight observation passing through unchanged.
func TestResiduals_Weighted(t *testing.T) {
	for name, method := range methods {
		t.Run(name, func(t *testing.T) {
			fes := []*fixedeffect.FixedEffect{mustFE(t, []int{1, 1, 1}, 1)}
			y := []float64{2, 6, 7}

			// Weighted mean of the first two observations: (2 + 3*6)/4 = 5.
			out, _, converged, err := demean.Residuals(y, fes,
				demean.WithMethod(method),
				demean.WithWeights([]float64{1, 3, 0}),
			)
			require.NoError(t, err)
			require.True(t, converged)
			assert.InDelta(t, -3, out[0], 1e-9)
			assert.InDelta(t, 1, out[1], 1e-9)
			assert.Equal(t, 7.0, out[2], "zero-weight observations pass through")
		})
	}
}

// TestCoefficients_TwoWay solves a noise-free two-way panel and checks
// the identified expansion by hand: the reference effect absorbs the
// mean of the second, which ends centered at zero.
func TestCoefficients_TwoWay(t *testing.T) {
	fes := []*fixedeffect.FixedEffect{
		mustFE(t, []int{1, 1, 2, 2}, 2),
		mustFE(t, []int{1, 2, 1, 2}, 2),
	}
	y := []float64{11, 12, 21, 22}

	coefs, _, converged, err := demean.Coefficients(y, fes)
	require.NoError(t, err)
	require.True(t, converged)
	assert.InDeltaSlice(t, []float64{11.5, 11.5, 21.5, 21.5}, coefs[0], 1e-6)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5, -0.5, 0.5}, coefs[1], 1e-6)
	assert.Equal(t, []float64{11, 12, 21, 22}, y, "response must read back unchanged")
}

// TestCoefficients_WeightedRestoresResponse checks the scoped scaling:
// after a weighted coefficient solve the response is bit-identical to
// what was passed, and positive-weight observations reconstruct.
func TestCoefficients_WeightedRestoresResponse(t *testing.T) {
	fes := twoWay(t)
	weights := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1, 0}
	y := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	orig := append([]float64(nil), y...)

	coefs, _, _, err := demean.Coefficients(y, fes, demean.WithWeights(weights))
	require.NoError(t, err)
	assert.Equal(t, orig, y)

	r := append([]float64(nil), y...)
	_, _, _, err = demean.Residuals(r, fes, demean.WithWeights(weights))
	require.NoError(t, err)

	for i := range y {
		if weights[i] == 0 {
			continue
		}
		fit := coefs[0][i] + coefs[1][i]
		assert.InDelta(t, y[i], r[i]+fit, 1e-6, "observation %d", i)
	}
}

// TestResiduals_Validation exercises every pre-backend guard and checks
// a rejected call never touches the response.
func TestResiduals_Validation(t *testing.T) {
	fe := mustFE(t, []int{1, 1, 2}, 2)
	y := []float64{1, 2, 3}
	orig := append([]float64(nil), y...)

	cases := []struct {
		name string
		fes  []*fixedeffect.FixedEffect
		y    []float64
		opts []demean.Option
		want error
	}{
		{"no effects", nil, y, nil, demean.ErrNoFixedEffects},
		{
			"invalid effect",
			[]*fixedeffect.FixedEffect{{Refs: []int{7, 1, 1}, N: 2}},
			y, nil, fixedeffect.ErrRefRange,
		},
		{
			"observation mismatch",
			[]*fixedeffect.FixedEffect{fe, mustFE(t, []int{1}, 1)},
			y, nil, demean.ErrObsMismatch,
		},
		{"response length", []*fixedeffect.FixedEffect{fe}, []float64{1, 2}, nil, demean.ErrResponseLength},
		{
			"weights length",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithWeights([]float64{1, 2})},
			demean.ErrWeightLength,
		},
		{
			"negative weight",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithWeights([]float64{1, -2, 1})},
			demean.ErrWeightInvalid,
		},
		{
			"nan weight",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithWeights([]float64{1, math.NaN(), 1})},
			demean.ErrWeightInvalid,
		},
		{
			"zero max iterations",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithMaxIterations(0)},
			demean.ErrOptionViolation,
		},
		{
			"negative tolerance",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithTolerance(-1)},
			demean.ErrOptionViolation,
		},
		{
			"unknown method",
			[]*fixedeffect.FixedEffect{fe}, y,
			[]demean.Option{demean.WithMethod(solver.Method(9))},
			solver.ErrUnknownMethod,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := demean.Residuals(tc.y, tc.fes, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			_, _, _, err = demean.Coefficients(tc.y, tc.fes, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, orig, y)
		})
	}
}

// TestResiduals_NonConvergenceWarns starves the iterative backend and
// checks the outcome: no error, a false flag, and exactly one warning
// on the configured logger.
func TestResiduals_NonConvergenceWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	nobs := 40
	r1 := make([]int, nobs)
	r2 := make([]int, nobs)
	y := make([]float64, nobs)
	for i := 0; i < nobs; i++ {
		r1[i] = i/2 + 1
		r2[i] = (i+1)/2 + 1
		y[i] = float64(i % 7)
	}
	fes := []*fixedeffect.FixedEffect{
		mustFE(t, r1, nobs/2+1),
		mustFE(t, r2, nobs/2+1),
	}

	_, iterations, converged, err := demean.Residuals(y, fes,
		demean.WithMaxIterations(1),
		demean.WithTolerance(1e-14),
		demean.WithLogger(zap.New(core)),
	)
	require.NoError(t, err, "non-convergence must not be an error")
	assert.False(t, converged)
	assert.Equal(t, 1, iterations)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "did not converge")
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

// TestResidualsMatrix_MatchesColumnwise checks the parallel path column
// by column against independent single-column solves.
func TestResidualsMatrix_MatchesColumnwise(t *testing.T) {
	fes := twoWay(t)
	cols := [][]float64{
		{3, 1, 4, 1, 5, 9, 2, 6, 5, 3},
		{2, 7, 1, 8, 2, 8, 1, 8, 2, 8},
		{1, 0, -1, 0, 1, 0, -1, 0, 1, 0},
	}

	want := make([][]float64, len(cols))
	wantIters := 0
	for c, y := range cols {
		w := append([]float64(nil), y...)
		_, iters, converged, err := demean.Residuals(w, fes)
		require.NoError(t, err)
		require.True(t, converged)
		if iters > wantIters {
			wantIters = iters
		}
		want[c] = w
	}

	iterations, converged, err := demean.ResidualsMatrix(cols, fes)
	require.NoError(t, err)
	assert.True(t, converged)
	assert.Equal(t, wantIters, iterations)
	for c := range cols {
		assert.InDeltaSlice(t, want[c], cols[c], 1e-12, "column %d", c)
	}
}

// TestResidualsMatrix_Validation covers the matrix-only guards.
func TestResidualsMatrix_Validation(t *testing.T) {
	fes := []*fixedeffect.FixedEffect{mustFE(t, []int{1, 1, 2}, 2)}

	_, _, err := demean.ResidualsMatrix(nil, fes)
	assert.ErrorIs(t, err, demean.ErrNoColumns)

	_, _, err = demean.ResidualsMatrix([][]float64{{1, 2, 3}, {1, 2}}, fes)
	assert.ErrorIs(t, err, demean.ErrResponseLength)
}

// TestResidualsMatrix_ContextCanceled checks that a canceled context
// stops the parallel path before any column is modified.
func TestResidualsMatrix_ContextCanceled(t *testing.T) {
	fes := []*fixedeffect.FixedEffect{mustFE(t, []int{1, 1, 2, 2}, 2)}
	cols := [][]float64{{1, 3, 10, 14}, {4, 2, 8, 6}}
	orig := [][]float64{{1, 3, 10, 14}, {4, 2, 8, 6}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := demean.ResidualsMatrix(cols, fes, demean.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, orig, cols)
}

// TestDefaultOptions pins the documented defaults.
func TestDefaultOptions(t *testing.T) {
	o := demean.DefaultOptions()
	assert.Equal(t, context.Background(), o.Ctx)
	assert.Nil(t, o.Weights)
	assert.Equal(t, solver.LSMR, o.Method)
	assert.Equal(t, demean.DefaultMaxIterations, o.MaxIterations)
	assert.Equal(t, demean.DefaultTolerance, o.Tolerance)
	assert.NotNil(t, o.Logger)
}
