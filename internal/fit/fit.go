// Package fit estimates curve coefficients from pooled historical
// observations by nonlinear least squares.
//
// The solver is Levenberg–Marquardt with Marquardt diagonal scaling and
// analytic Jacobians; the damped normal equations are solved by Cholesky
// factorization. There is no randomness anywhere, so identical inputs give
// bit-identical coefficients.
package fit

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"matdemand/internal/dataset"
	"matdemand/internal/logging"
	"matdemand/internal/material"
)

// Settings bound the solver.
type Settings struct {
	MaxIterations int     // damping updates, accepted or rejected
	FTol          float64 // relative reduction of the residual sum of squares
	XTol          float64 // relative step per coefficient
	GTol          float64 // cosine between residual and Jacobian columns
}

// DefaultSettings mirrors a MINPACK-style curve fit.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: 400,
		FTol:          1e-10,
		XTol:          1e-10,
		GTol:          1e-10,
	}
}

// Result is a fitted coefficient record with its goodness of fit.
type Result struct {
	Material     material.Material
	Form         material.Form
	Coefficients material.Coefficients
	Iterations   int
	SSR          float64
	RMSE         float64
	RSquared     float64
	Observations int
	FirstYear    int
	LastYear     int
}

const (
	initialDamping = 1e-3
	maxDamping     = 1e32
)

// Fit minimizes the squared residuals between spec.Form and observed
// per-capita consumption, starting from spec.Guess.
func Fit(ctx context.Context, spec material.Spec, obs []dataset.Observation, s Settings) (*Result, error) {
	if s.MaxIterations <= 0 {
		s = DefaultSettings()
	}
	logger := logging.ForMaterial("fit", spec.Material.String())

	first, last := dataset.YearWindow(obs)
	fail := func(iter int, reason string, err error) error {
		return &Error{
			Material:     spec.Material,
			FirstYear:    first,
			LastYear:     last,
			Observations: len(obs),
			Iterations:   iter,
			Reason:       reason,
			Err:          err,
		}
	}

	params := spec.Form.Params()
	n := len(params)
	if n == 0 {
		return nil, fail(0, "no registered functional form", &material.ConfigError{Subject: "functional form", Value: spec.Form.String(), Reason: "no registered implementation"})
	}
	if len(obs) < n {
		return nil, fail(0, "fewer observations than coefficients", nil)
	}

	inputs := make([]material.Input, len(obs))
	y := make([]float64, len(obs))
	for i, o := range obs {
		inputs[i] = material.Input{IncomePerCapita: o.IncomePerCapita, YearsSinceReference: o.YearsSinceReference}
		y[i] = o.ConsumptionPerCapita
	}

	p := spec.Form.Vector(spec.Guess)
	jac := mat.NewDense(len(obs), n, nil)
	res := make([]float64, len(obs))
	ssr, ok := evaluate(spec.Form, p, inputs, y, res, jac)
	if !ok {
		return nil, fail(0, "non-finite residuals at initial guess", nil)
	}

	var (
		jtj   = mat.NewSymDense(n, nil)
		grad  = mat.NewVecDense(n, nil)
		damp  = mat.NewSymDense(n, nil)
		step  = mat.NewVecDense(n, nil)
		chol  mat.Cholesky
		trial = make([]float64, n)
		tres  = make([]float64, len(obs))
		tjac  = mat.NewDense(len(obs), n, nil)
		scale = make([]float64, n)
	)

	normal := func() {
		jtj.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(len(res), res))
		for i := 0; i < n; i++ {
			scale[i] = math.Max(scale[i], jtj.At(i, i))
		}
	}
	normal()
	maxDiag := math.Max(floats.Max(scale), 1)
	lambda, nu := initialDamping*maxDiag, 2.0
	// Reduction stalls only count once damping is back near its start value.
	stallDamping := lambda

	converged := ssr == 0
	iter := 0
	for ; !converged && iter < s.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, fail(iter, "cancelled", err)
		}
		if gradientConverged(jtj, grad, ssr, s.GTol) {
			converged = true
			break
		}

		damp.CopySym(jtj)
		for i := 0; i < n; i++ {
			damp.SetSym(i, i, jtj.At(i, i)+lambda*math.Max(scale[i], 1e-12*maxDiag))
		}
		if !chol.Factorize(damp) {
			if lambda, nu = lambda*nu, nu*2; lambda > maxDamping {
				return nil, fail(iter, "singular normal equations", nil)
			}
			continue
		}
		if err := chol.SolveVecTo(step, grad); err != nil {
			if lambda, nu = lambda*nu, nu*2; lambda > maxDamping {
				return nil, fail(iter, "singular normal equations", err)
			}
			continue
		}

		small := true
		for i := 0; i < n; i++ {
			d := step.AtVec(i)
			trial[i] = p[i] + d
			if math.Abs(d) > s.XTol*(math.Abs(p[i])+s.XTol) {
				small = false
			}
		}

		predicted := 0.0
		for i := 0; i < n; i++ {
			d := step.AtVec(i)
			predicted += d * (lambda*math.Max(scale[i], 1e-12*maxDiag)*d + grad.AtVec(i))
		}

		tssr, finite := evaluate(spec.Form, trial, inputs, y, tres, tjac)
		if finite && tssr < ssr {
			rho := (ssr - tssr) / predicted
			reduction := (ssr - tssr) / ssr
			copy(p, trial)
			copy(res, tres)
			jac, tjac = tjac, jac
			ssr = tssr
			normal()
			stalled := reduction <= s.FTol && lambda <= stallDamping
			lambda *= math.Max(1.0/3.0, 1-math.Pow(2*rho-1, 3))
			nu = 2
			if ssr == 0 || stalled || small {
				converged = true
			}
			continue
		}

		if small {
			// No representable improvement left around p.
			converged = true
			break
		}
		if lambda, nu = lambda*nu, nu*2; lambda > maxDamping {
			return nil, fail(iter, "damping exhausted without improvement", nil)
		}
	}
	if !converged {
		return nil, fail(iter, "iteration budget exhausted", nil)
	}

	coefs := spec.Form.FromVector(p)
	fitted := make([]float64, len(obs))
	for i := range obs {
		fitted[i] = y[i] - res[i]
	}
	out := &Result{
		Material:     spec.Material,
		Form:         spec.Form,
		Coefficients: coefs,
		Iterations:   iter,
		SSR:          ssr,
		RMSE:         math.Sqrt(ssr / float64(len(obs))),
		RSquared:     stat.RSquaredFrom(fitted, y, nil),
		Observations: len(obs),
		FirstYear:    first,
		LastYear:     last,
	}
	logger.Debug("curve fitted",
		"form", spec.Form.String(),
		"a", coefs.A, "b", coefs.B, "m", coefs.M,
		"iterations", iter, "rmse", out.RMSE, "r2", out.RSquared)
	return out, nil
}

// evaluate fills res with y − f(p) and jac with ∂f/∂p, returning the
// residual sum of squares and whether every value is finite.
func evaluate(form material.Form, p []float64, inputs []material.Input, y, res []float64, jac *mat.Dense) (float64, bool) {
	c := form.FromVector(p)
	_, n := jac.Dims()
	row := make([]float64, n)
	for i, in := range inputs {
		v := form.Partials(c, in, row)
		res[i] = y[i] - v
		jac.SetRow(i, row)
		if math.IsNaN(res[i]) || math.IsInf(res[i], 0) {
			return 0, false
		}
		for _, d := range row {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return 0, false
			}
		}
	}
	ssr := floats.Dot(res, res)
	return ssr, !math.IsInf(ssr, 0)
}

// gradientConverged is MINPACK's gtol test: the largest cosine between the
// residual vector and a Jacobian column.
func gradientConverged(jtj *mat.SymDense, grad *mat.VecDense, ssr, gtol float64) bool {
	if ssr == 0 {
		return true
	}
	norm := math.Sqrt(ssr)
	worst := 0.0
	for i := 0; i < grad.Len(); i++ {
		col := math.Sqrt(jtj.At(i, i))
		if col == 0 {
			continue
		}
		worst = math.Max(worst, math.Abs(grad.AtVec(i))/(col*norm))
	}
	return worst <= gtol
}
