package solver

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveSteadyNonlinear(t *testing.T) {
	// x^2 = 4 coupled to y = x
	f := func(dst, x []float64, t float64) error {
		dst[0] = x[0]*x[0] - 4
		dst[1] = x[1] - x[0]
		return nil
	}
	x, err := SolveSteady(f, []float64{1, 0}, 0, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x[0], 1e-8)
	assert.InDelta(t, 2.0, x[1], 1e-8)
}

func TestSolveSteadyInputUntouched(t *testing.T) {
	f := func(dst, x []float64, t float64) error {
		dst[0] = x[0] - 7
		return nil
	}
	x0 := []float64{1}
	_, err := SolveSteady(f, x0, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, x0)
}

func TestSolveSteadyNotConverged(t *testing.T) {
	f := func(dst, x []float64, t float64) error {
		dst[0] = x[0]*x[0] - 4
		return nil
	}
	_, err := SolveSteady(f, []float64{100}, 0, Options{MaxIterations: 2})
	require.Error(t, err)
	var nc *ErrNotConverged
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, 2, nc.Iterations)
	assert.Greater(t, nc.ResidualNorm, 0.0)
}

func TestImplicitEulerExponentialDecay(t *testing.T) {
	f := func(dst, x []float64, t float64) error {
		dst[0] = -x[0]
		return nil
	}
	const dt = 1e-3
	tr, err := IntegrateImplicitEuler(f, []float64{1}, []float64{1}, 0, 1, dt, Options{})
	require.NoError(t, err)

	x := tr.Final()[0]
	// first-order global error
	assert.InDelta(t, math.Exp(-1), x, 5e-4)
	// and the exact backward-Euler recurrence
	assert.InDelta(t, math.Pow(1+dt, -1000), x, 1e-9)
	assert.InDelta(t, 1.0, tr.Times[len(tr.Times)-1], 1e-12)
}

func TestImplicitEulerDAE(t *testing.T) {
	// differential x' = -x with the algebraic closure y = x^2
	f := func(dst, x []float64, t float64) error {
		dst[0] = -x[0]
		dst[1] = x[1] - x[0]*x[0]
		return nil
	}
	tr, err := IntegrateImplicitEuler(f, []float64{1, 0}, []float64{1, 1}, 0, 2, 0.01, Options{})
	require.NoError(t, err)

	fin := tr.Final()
	assert.InDelta(t, fin[0]*fin[0], fin[1], 1e-8)
	for i := range tr.Times {
		x := tr.States.At(i, 0)
		assert.InDelta(t, x*x, tr.States.At(i, 1), 1e-8)
	}
}

func TestImplicitEulerPartialFinalStep(t *testing.T) {
	f := func(dst, x []float64, t float64) error {
		dst[0] = -x[0]
		return nil
	}
	tr, err := IntegrateImplicitEuler(f, []float64{1}, []float64{1}, 0, 0.25, 0.1, Options{})
	require.NoError(t, err)
	require.Len(t, tr.Times, 4)
	for i, want := range []float64{0, 0.1, 0.2, 0.25} {
		assert.InDelta(t, want, tr.Times[i], 1e-12)
	}
}

func TestImplicitEulerValidatesInput(t *testing.T) {
	f := func(dst, x []float64, t float64) error {
		dst[0] = 0
		return nil
	}
	_, err := IntegrateImplicitEuler(f, []float64{1, 0}, []float64{1}, 0, 1, 0.1, Options{})
	assert.Error(t, err)
	_, err = IntegrateImplicitEuler(f, []float64{1}, []float64{1}, 0, 1, 0, Options{})
	assert.Error(t, err)
	_, err = IntegrateImplicitEuler(f, []float64{1}, []float64{1}, 1, 1, 0.1, Options{})
	assert.Error(t, err)
}

func TestTrajectoryAccess(t *testing.T) {
	tr := SteadyTrajectory([]string{"node0.p", "node0.T"}, 0, []float64{1e5, 300})

	v, err := tr.At(0, "node0.T")
	require.NoError(t, err)
	assert.Equal(t, 300.0, v)
	_, err = tr.At(0, "node9.T")
	assert.Error(t, err)

	assert.Equal(t, []float64{1e5, 300}, tr.Final())
}

func TestTrajectoryWriteCSV(t *testing.T) {
	tr := SteadyTrajectory([]string{"a", "b"}, 1.5, []float64{2, -3.25})
	var buf bytes.Buffer
	require.NoError(t, tr.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "t,a,b", lines[0])
	assert.Equal(t, "1.5,2,-3.25", lines[1])
}
