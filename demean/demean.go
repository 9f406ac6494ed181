// Package demean removes categorical fixed-effect structure from
// response data: residual projections and identified coefficient
// expansions over a shared solver seam.
package demean

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/absorb/fixedeffect"
	"github.com/katalvlaran/absorb/ident"
	"github.com/katalvlaran/absorb/solver"
)

// plan is a fully validated solve: parsed options, checked effects,
// sqrt-weights and a constructed backend. Everything that can fail
// cheaply has already failed by the time a plan exists.
type plan struct {
	opts  Options
	fes   []*fixedeffect.FixedEffect
	nobs  int
	sqrtw []float64 // nil for uniform weights
	be    solver.Solver
}

// prepare parses options and validates the whole problem before any
// numeric work: every effect definition, observation counts, weight
// length and values. The backend is constructed last.
func prepare(fes []*fixedeffect.FixedEffect, opts []Option) (*plan, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	if len(fes) == 0 {
		return nil, ErrNoFixedEffects
	}
	for j, fe := range fes {
		if err := fe.Validate(); err != nil {
			return nil, fmt.Errorf("demean: fixed effect %d: %w", j, err)
		}
	}
	nobs := fes[0].Len()
	for j, fe := range fes[1:] {
		if fe.Len() != nobs {
			return nil, fmt.Errorf("%w: effect 0 has %d observations, effect %d has %d",
				ErrObsMismatch, nobs, j+1, fe.Len())
		}
	}

	sqrtw, err := sqrtWeights(o.Weights, nobs)
	if err != nil {
		return nil, err
	}

	be, err := solver.New(fes, sqrtw, o.Method)
	if err != nil {
		return nil, err
	}
	return &plan{opts: o, fes: fes, nobs: nobs, sqrtw: sqrtw, be: be}, nil
}

// sqrtWeights validates the weight vector and takes elementwise square
// roots. Nil weights stay nil.
func sqrtWeights(w []float64, nobs int) ([]float64, error) {
	if w == nil {
		return nil, nil
	}
	if len(w) != nobs {
		return nil, fmt.Errorf("%w: len(weights) = %d, observations = %d",
			ErrWeightLength, len(w), nobs)
	}
	out := make([]float64, nobs)
	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: weights[%d] = %v", ErrWeightInvalid, i, v)
		}
		out[i] = math.Sqrt(v)
	}
	return out, nil
}

// checkResponse verifies one response column against the plan's shape.
func (p *plan) checkResponse(y []float64) error {
	if len(y) != p.nobs {
		return fmt.Errorf("%w: len(response) = %d, observations = %d",
			ErrResponseLength, len(y), p.nobs)
	}
	return nil
}

// warnIfStalled emits the single non-convergence warning. Stalling is
// reported, never retried and never upgraded to an error.
func (p *plan) warnIfStalled(op string, iterations int, converged bool) {
	if converged {
		return
	}
	p.opts.Logger.Warn("solve did not converge within the iteration budget",
		zap.String("op", op),
		zap.Int("iterations", iterations),
		zap.Int("max_iterations", p.opts.MaxIterations),
		zap.Float64("tolerance", p.opts.Tolerance),
	)
}

// scaledResponse is the scoped sqrt-weight transformation of one
// response buffer. Exactly one of unscale or restore runs before the
// buffer returns to the caller, so no exit path leaks a scaled buffer.
type scaledResponse struct {
	buf   []float64
	sqrtw []float64
	orig  []float64
}

// beginScale multiplies buf by the sqrt-weights in place and snapshots
// the original contents. Uniform-weight plans scale nothing.
func (p *plan) beginScale(buf []float64) scaledResponse {
	if p.sqrtw == nil {
		return scaledResponse{}
	}
	sc := scaledResponse{buf: buf, sqrtw: p.sqrtw, orig: append([]float64(nil), buf...)}
	for i, s := range p.sqrtw {
		buf[i] *= s
	}
	return sc
}

// unscale divides the solved contents back by the sqrt-weights.
// Zero-weight observations carry nothing through the solve; their
// entries come back as the original response values.
func (sc scaledResponse) unscale() {
	if sc.buf == nil {
		return
	}
	for i, s := range sc.sqrtw {
		if s > 0 {
			sc.buf[i] /= s
		} else {
			sc.buf[i] = sc.orig[i]
		}
	}
}

// restore puts the pre-scale contents back exactly.
func (sc scaledResponse) restore() {
	if sc.buf == nil {
		return
	}
	copy(sc.buf, sc.orig)
}

// Residuals projects the fixed-effect structure out of y, in place, and
// returns the same slice together with the backend's iteration count
// and convergence flag. Weighted solves scale y on entry and always
// unscale before returning, on success and on failure alike.
//
// Non-convergence is reported through the flag and one Warn on the
// configured logger; the residual is still the backend's best effort.
func Residuals(y []float64, fes []*fixedeffect.FixedEffect, opts ...Option) ([]float64, int, bool, error) {
	p, err := prepare(fes, opts)
	if err != nil {
		return nil, 0, false, err
	}
	if err := p.checkResponse(y); err != nil {
		return nil, 0, false, err
	}

	sc := p.beginScale(y)
	iterations, converged, err := p.be.SolveResiduals(y, p.opts.MaxIterations, p.opts.Tolerance)
	if err != nil {
		sc.restore()
		return nil, 0, false, err
	}
	sc.unscale()

	p.warnIfStalled("residuals", iterations, converged)
	return y, iterations, converged, nil
}

// ResidualsMatrix projects the same fixed-effect structure out of every
// column of ys, in place. Columns are independent solves over one
// shared backend and run concurrently, bounded by GOMAXPROCS; the
// option context can cancel columns that have not started.
//
// The returned iteration count is the maximum over columns and the
// convergence flag is the conjunction over columns.
func ResidualsMatrix(ys [][]float64, fes []*fixedeffect.FixedEffect, opts ...Option) (int, bool, error) {
	p, err := prepare(fes, opts)
	if err != nil {
		return 0, false, err
	}
	if len(ys) == 0 {
		return 0, false, ErrNoColumns
	}
	for c, y := range ys {
		if err := p.checkResponse(y); err != nil {
			return 0, false, fmt.Errorf("column %d: %w", c, err)
		}
	}

	var (
		mu         sync.Mutex
		iterations int
		converged  = true
	)
	g, ctx := errgroup.WithContext(p.opts.Ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, y := range ys {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc := p.beginScale(y)
			iters, conv, err := p.be.SolveResiduals(y, p.opts.MaxIterations, p.opts.Tolerance)
			if err != nil {
				sc.restore()
				return err
			}
			sc.unscale()

			mu.Lock()
			if iters > iterations {
				iterations = iters
			}
			converged = converged && conv
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, false, err
	}

	p.warnIfStalled("residuals matrix", iterations, converged)
	return iterations, converged, nil
}

// Coefficients regresses y on the fixed effects and returns one
// per-observation vector per effect: the coefficient of the level each
// observation belongs to, after the component-wise normalization of
// package ident. y is scaled for the solve and restored before
// returning, so it reads back exactly as passed.
//
// Coefficients live in the natural parametrization; they are per-level
// estimates and are never divided by sqrt-weights.
func Coefficients(y []float64, fes []*fixedeffect.FixedEffect, opts ...Option) ([][]float64, int, bool, error) {
	p, err := prepare(fes, opts)
	if err != nil {
		return nil, 0, false, err
	}
	if err := p.checkResponse(y); err != nil {
		return nil, 0, false, err
	}

	sc := p.beginScale(y)
	coefs, iterations, converged, err := p.be.SolveCoefficients(y, p.opts.MaxIterations, p.opts.Tolerance)
	sc.restore()
	if err != nil {
		return nil, 0, false, err
	}
	p.warnIfStalled("coefficients", iterations, converged)

	if _, err := ident.Rescale(coefs, fes); err != nil {
		return nil, 0, false, err
	}

	out := make([][]float64, len(fes))
	for j, fe := range fes {
		out[j] = make([]float64, p.nobs)
		if err := fe.Expand(out[j], coefs[j]); err != nil {
			return nil, 0, false, err
		}
	}
	return out, iterations, converged, nil
}
