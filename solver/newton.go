package solver

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RHSFunc is the assembled-system surface this package consumes: rates for
// differential slots, residuals for algebraic ones, written into dst.
type RHSFunc func(dst, state []float64, t float64) error

// Options controls the Newton iteration shared by the steady solver and the
// transient stepper's inner loop.
type Options struct {
	Tolerance     float64 // residual inf-norm target, default 1e-8
	MaxIterations int     // default 50
	Damping       float64 // Newton step fraction in (0, 1], default 1
	JacobianStep  float64 // relative finite-difference perturbation, default 1e-7
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-8
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 50
	}
	if o.Damping <= 0 || o.Damping > 1 {
		o.Damping = 1
	}
	if o.JacobianStep <= 0 {
		o.JacobianStep = 1e-7
	}
	return o
}

// ErrNotConverged carries the terminal residual norm of a failed iteration.
type ErrNotConverged struct {
	Iterations   int
	ResidualNorm float64
}

func (e *ErrNotConverged) Error() string {
	return fmt.Sprintf("solver: no convergence after %d iterations, residual norm %.3e", e.Iterations, e.ResidualNorm)
}

type residualFunc func(dst, x []float64) error

// newton performs damped Newton iterations on g(x) = 0, updating x in
// place. The Jacobian is a dense forward-difference approximation solved by
// LU factorization.
func newton(g residualFunc, x []float64, opts Options) (iters int, err error) {
	var (
		n   = len(x)
		res = make([]float64, n)
		per = make([]float64, n)
		jac = mat.NewDense(n, n, nil)
		rhs = mat.NewVecDense(n, nil)
		dx  = mat.NewVecDense(n, nil)
		xp  = make([]float64, n)
	)
	if err = g(res, x); err != nil {
		return 0, err
	}
	for iters = 0; iters < opts.MaxIterations; iters++ {
		norm := floats.Norm(res, math.Inf(1))
		if norm < opts.Tolerance {
			return iters, nil
		}
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			return iters, fmt.Errorf("solver: residual is not finite at iteration %d", iters)
		}
		copy(xp, x)
		for j := 0; j < n; j++ {
			h := opts.JacobianStep * math.Max(math.Abs(x[j]), 1)
			xp[j] = x[j] + h
			if err = g(per, xp); err != nil {
				return iters, err
			}
			xp[j] = x[j]
			for i := 0; i < n; i++ {
				jac.Set(i, j, (per[i]-res[i])/h)
			}
		}
		for i := 0; i < n; i++ {
			rhs.SetVec(i, -res[i])
		}
		if err = dx.SolveVec(jac, rhs); err != nil {
			return iters, fmt.Errorf("solver: singular Jacobian at iteration %d: %w", iters, err)
		}
		for i := 0; i < n; i++ {
			x[i] += opts.Damping * dx.AtVec(i)
		}
		if err = g(res, x); err != nil {
			return iters, err
		}
	}
	return iters, &ErrNotConverged{Iterations: iters, ResidualNorm: floats.Norm(res, math.Inf(1))}
}

// SolveSteady finds a root of the full right-hand side at fixed time t:
// all rates and all algebraic residuals zero. x0 is the initial guess; the
// returned state is a fresh vector.
func SolveSteady(f RHSFunc, x0 []float64, t float64, opts Options) ([]float64, error) {
	opts = opts.withDefaults()
	x := append([]float64(nil), x0...)
	g := func(dst, x []float64) error { return f(dst, x, t) }
	iters, err := newton(g, x, opts)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"iterations": iters, "dim": len(x)}).Debug("steady state converged")
	return x, nil
}
