package lsmr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Solve runs LSMR on min ‖A·x − b‖₂ (+ λ²‖x‖² when Damp > 0).
//
// x is both warm start and output: the initial content is folded into the
// starting residual and the final solution overwrites it, so a zero x
// solves from scratch. b is never modified. b and x must not alias.
//
// The returned Result always carries a best-effort solution; Converged
// reports whether a tolerance test stopped the iteration (see package doc
// for the stopping rules).
func Solve(op Operator, b, x []float64, opts Options) (Result, error) {
	if op == nil {
		return Result{}, ErrNilOperator
	}
	rows, cols := op.Dims()
	if len(b) != rows {
		return Result{}, fmt.Errorf("%w: len(b) = %d, operator has %d rows", ErrDimensionMismatch, len(b), rows)
	}
	if len(x) != cols {
		return Result{}, fmt.Errorf("%w: len(x) = %d, operator has %d columns", ErrDimensionMismatch, len(x), cols)
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	var (
		u      = make([]float64, rows)
		v      = make([]float64, cols)
		h      = make([]float64, cols)
		hbar   = make([]float64, cols)
		tmpRow = make([]float64, rows)
		tmpCol = make([]float64, cols)
	)

	// 1) Initial bidiagonalization vectors: β·u = b − A·x, α·v = Aᵀ·u.
	op.MulVec(u, x)
	floats.SubTo(u, b, u)
	beta := floats.Norm(u, 2)
	if beta > 0 {
		floats.Scale(1/beta, u)
	}
	op.MulVecTrans(v, u)
	alpha := floats.Norm(v, 2)
	if alpha > 0 {
		floats.Scale(1/alpha, v)
	}
	copy(h, v)

	var (
		// rotation state
		zetabar  = alpha * beta
		alphabar = alpha
		rho      = 1.0
		rhobar   = 1.0
		cbar     = 1.0
		sbar     = 0.0

		// ‖r‖ estimation state
		betadd     = beta
		betad      = 0.0
		rhodold    = 1.0
		tautilde   = 0.0
		thetatilde = 0.0
		zeta       = 0.0
		dnorm      = 0.0

		// ‖A‖ / cond(A) estimation state
		normA2  = alpha * alpha
		maxrbar = 0.0
		minrbar = 1e100

		normb  = beta
		normr  = beta
		normAr = alpha * beta
	)

	ctol := 0.0
	if opts.Conlim > 0 {
		ctol = 1 / opts.Conlim
	}

	// b orthogonal to range(A): x is already a least-squares solution.
	if normAr == 0 {
		return Result{Iterations: 0, Converged: true, ResidualNorm: normr, OptimalityNorm: 0}, nil
	}

	iter := 0
	istop := 0
	for iter < opts.MaxIter {
		iter++

		// 2) Continue the bidiagonalization: β·u = A·v − α·u, α·v = Aᵀ·u − β·v.
		op.MulVec(tmpRow, v)
		floats.AddScaledTo(u, tmpRow, -alpha, u)
		beta = floats.Norm(u, 2)
		if beta > 0 {
			floats.Scale(1/beta, u)
			op.MulVecTrans(tmpCol, u)
			floats.AddScaledTo(v, tmpCol, -beta, v)
			alpha = floats.Norm(v, 2)
			if alpha > 0 {
				floats.Scale(1/alpha, v)
			}
		}

		// 3) Rotation absorbing the damping parameter.
		alphahat := math.Hypot(alphabar, opts.Damp)
		chat := alphabar / alphahat
		shat := opts.Damp / alphahat

		// 4) Plane rotation turning the bidiagonal B into R.
		rhoold := rho
		rho = math.Hypot(alphahat, beta)
		c := alphahat / rho
		s := beta / rho
		thetanew := s * alpha
		alphabar = c * alpha

		// 5) Second rotation turning Rᵀ into R̄.
		rhobarold := rhobar
		zetaold := zeta
		thetabar := sbar * rho
		rhotemp := cbar * rho
		rhobar = math.Hypot(cbar*rho, thetanew)
		cbar = cbar * rho / rhobar
		sbar = thetanew / rhobar
		zeta = cbar * zetabar
		zetabar = -sbar * zetabar

		// 6) Update the search directions and the solution.
		floats.AddScaledTo(hbar, h, -thetabar*rho/(rhoold*rhobarold), hbar)
		floats.AddScaled(x, zeta/(rho*rhobar), hbar)
		floats.AddScaledTo(h, v, -thetanew/rho, h)

		// 7) Advance the ‖r‖ estimate.
		betaacute := chat * betadd
		betacheck := -shat * betadd
		betahat := c * betaacute
		betadd = -s * betaacute

		thetatildeold := thetatilde
		rhotildeold := math.Hypot(rhodold, thetabar)
		ctildeold := rhodold / rhotildeold
		stildeold := thetabar / rhotildeold
		thetatilde = stildeold * rhobar
		rhodold = ctildeold * rhobar
		betad = -stildeold*betad + ctildeold*betahat

		tautilde = (zetaold - thetatildeold*tautilde) / rhotildeold
		taud := (zeta - thetatilde*tautilde) / rhodold
		dnorm += betacheck * betacheck
		normr = math.Sqrt(dnorm + (betad-taud)*(betad-taud) + betadd*betadd)

		// 8) Advance the ‖A‖ and cond(A) estimates.
		normA2 += beta * beta
		normA := math.Sqrt(normA2)
		normA2 += alpha * alpha
		if rhobarold > maxrbar {
			maxrbar = rhobarold
		}
		if iter > 1 && rhobarold < minrbar {
			minrbar = rhobarold
		}
		condA := math.Max(maxrbar, rhotemp) / math.Min(minrbar, rhotemp)

		// 9) Stopping tests, first match wins.
		normAr = math.Abs(zetabar)
		normx := floats.Norm(x, 2)
		test1 := normr / normb
		test2 := normAr / (normA * normr)
		test3 := 1 / condA
		t1 := test1 / (1 + normA*normx/normb)
		rtol := opts.Btol + opts.Atol*normA*normx/normb

		switch {
		case iter >= opts.MaxIter:
			istop = 7
		case 1+test3 <= 1:
			istop = 6
		case 1+test2 <= 1:
			istop = 5
		case 1+t1 <= 1:
			istop = 4
		case ctol > 0 && test3 <= ctol:
			istop = 3
		case test2 <= opts.Atol:
			istop = 2
		case test1 <= rtol:
			istop = 1
		}
		if istop != 0 {
			break
		}
	}

	converged := istop == 1 || istop == 2 || istop == 4 || istop == 5

	return Result{
		Iterations:     iter,
		Converged:      converged,
		ResidualNorm:   normr,
		OptimalityNorm: normAr,
	}, nil
}
