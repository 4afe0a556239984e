package solver

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// IntegrateImplicitEuler advances the DAE
//
//	M·dx/dt = f(x, t)   where M = diag(mass), entries 1 or 0
//
// from t0 to t1 with fixed step dt, solving the backward-Euler system
//
//	M·(x_{n+1} - x_n) - dt·f(x_{n+1}, t_{n+1}) = 0
//
// with the shared Newton iteration at each step. Algebraic slots (mass 0)
// reduce to their instantaneous constraints, so the scheme handles the
// index-1 DAE structure directly.
func IntegrateImplicitEuler(f RHSFunc, mass, x0 []float64, t0, t1, dt float64, opts Options) (*Trajectory, error) {
	if len(mass) != len(x0) {
		return nil, fmt.Errorf("solver: mass diagonal length %d does not match state length %d", len(mass), len(x0))
	}
	if dt <= 0 || t1 <= t0 {
		return nil, fmt.Errorf("solver: need dt > 0 and t1 > t0, got dt=%v t0=%v t1=%v", dt, t0, t1)
	}
	opts = opts.withDefaults()

	var (
		n      = len(x0)
		nSteps = int((t1 - t0) / dt)
		x      = append([]float64(nil), x0...)
		xn     = make([]float64, n)
		frhs   = make([]float64, n)
	)
	if t0+float64(nSteps)*dt < t1 {
		nSteps++ // final partial step
	}
	tr := &Trajectory{
		Times:  make([]float64, 0, nSteps+1),
		States: mat.NewDense(nSteps+1, n, nil),
	}
	tr.record(t0, x)

	t := t0
	for step := 0; step < nSteps; step++ {
		h := dt
		if t+h > t1 {
			h = t1 - t
		}
		tNext := t + h
		copy(xn, x)
		g := func(dst, y []float64) error {
			if err := f(frhs, y, tNext); err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				dst[i] = mass[i]*(y[i]-xn[i]) - h*frhs[i]
			}
			return nil
		}
		iters, err := newton(g, x, opts)
		if err != nil {
			return nil, fmt.Errorf("solver: step %d (t=%.6g): %w", step, tNext, err)
		}
		t = tNext
		tr.record(t, x)
		if step%100 == 0 {
			log.WithFields(log.Fields{"step": step, "t": t, "newtonIters": iters}).Debug("transient step")
		}
	}
	return tr, nil
}
