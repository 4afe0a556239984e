package solver

import (
	"encoding/csv"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Trajectory is a time series of state vectors keyed by slot symbol.
// Steady-state results are a single-row trajectory.
type Trajectory struct {
	Symbols []string
	Times   []float64
	States  *mat.Dense // one row per recorded time
	n       int        // rows recorded
}

// SteadyTrajectory wraps a single steady-state vector as a one-row
// trajectory for uniform export.
func SteadyTrajectory(symbols []string, t float64, x []float64) *Trajectory {
	tr := &Trajectory{
		Symbols: symbols,
		States:  mat.NewDense(1, len(x), nil),
	}
	tr.record(t, x)
	return tr
}

func (tr *Trajectory) record(t float64, x []float64) {
	for j, v := range x {
		tr.States.Set(tr.n, j, v)
	}
	tr.Times = append(tr.Times, t)
	tr.n++
}

// At returns the value of the named slot at time index i.
func (tr *Trajectory) At(i int, symbol string) (float64, error) {
	for j, s := range tr.Symbols {
		if s == symbol {
			return tr.States.At(i, j), nil
		}
	}
	return 0, fmt.Errorf("solver: unknown symbol %q", symbol)
}

// Final returns the last recorded state as a fresh slice.
func (tr *Trajectory) Final() []float64 {
	_, c := tr.States.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = tr.States.At(tr.n-1, j)
	}
	return out
}

// WriteCSV exports the trajectory as a table: one row per time, one column
// per symbol, with a leading "t" column.
func (tr *Trajectory) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"t"}, tr.Symbols...)); err != nil {
		return err
	}
	_, c := tr.States.Dims()
	row := make([]string, c+1)
	for i := 0; i < tr.n; i++ {
		row[0] = fmt.Sprintf("%g", tr.Times[i])
		for j := 0; j < c; j++ {
			row[j+1] = fmt.Sprintf("%g", tr.States.At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
