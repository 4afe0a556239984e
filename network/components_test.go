package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipe(t *testing.T) {
	{ // cell count = round(length/width), at least 1
		p, err := NewPipe(0.1, 0.12, 100, 4.5e-5, 0.4, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, p.CellCount)
		assert.Equal(t, 11, p.Dim())
		assert.InDelta(t, 10.0, p.CellWidth(), 1e-12)
		assert.InDelta(t, 0.25*math.Pi*0.01, p.FlowArea(), 1e-12)
	}
	{ // rounding, not truncation
		p, err := NewPipe(0.1, 0.12, 100, 4.5e-5, 0.4, 40)
		require.NoError(t, err)
		assert.Equal(t, 3, p.CellCount) // round(2.5) away from zero
	}
	{ // very short pipe still gets one cell
		p, err := NewPipe(0.1, 0.12, 6, 4.5e-5, 0.4, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, p.CellCount)
	}

	// construction failures
	cases := []struct {
		name                                   string
		innerD, outerD, length, rough, k, width float64
	}{
		{"zero length", 0.1, 0.12, 0, 0, 0.4, 10},
		{"negative length", 0.1, 0.12, -5, 0, 0.4, 10},
		{"infinite length", 0.1, 0.12, math.Inf(1), 0, 0.4, 10},
		{"zero cell width", 0.1, 0.12, 100, 0, 0.4, 0},
		{"NaN cell width", 0.1, 0.12, 100, 0, 0.4, math.NaN()},
		{"rounds to zero cells", 0.1, 0.12, 1, 0, 0.4, 10},
		{"outer not larger than inner", 0.12, 0.1, 100, 0, 0.4, 10},
	}
	for _, tc := range cases {
		_, err := NewPipe(tc.innerD, tc.outerD, tc.length, tc.rough, tc.k, tc.width)
		assert.Errorf(t, err, "%s", tc.name)
	}
}

func TestProsumerConstruction(t *testing.T) {
	var (
		ctl     = ConstantControl(1450)
		thermal = ConstantControl(1e5)
		char    = func(u, m float64) float64 { return u }
	)
	p, err := NewPressureChangeProsumer(ctl, char, thermal)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Dim())

	_, err = NewPressureChangeProsumer(nil, char, thermal)
	assert.Error(t, err)
	_, err = NewPressureChangeProsumer(ctl, nil, thermal)
	assert.Error(t, err)

	m, err := NewMassflowProsumer(ctl, nil, thermal) // characteristic optional
	require.NoError(t, err)
	assert.Equal(t, 3, m.Dim())

	_, err = NewMassflowProsumer(ctl, nil, nil)
	assert.Error(t, err)
}

func TestGraphConstruction(t *testing.T) {
	g := NewGraph()
	n0 := g.AddReference(1e5)
	n1 := g.AddJunction()
	assert.Equal(t, NodeID(0), n0)
	assert.Equal(t, NodeID(1), n1)

	pipe, err := NewPipe(0.1, 0.12, 100, 4.5e-5, 0.4, 10)
	require.NoError(t, err)

	e0, err := g.AddEdge(n0, n1, pipe)
	require.NoError(t, err)
	assert.Equal(t, EdgeID(0), e0)

	// parallel edge between the same pair is legal
	_, err = g.AddEdge(n0, n1, pipe)
	require.NoError(t, err)

	src, dst, rec := g.Edge(e0)
	assert.Equal(t, n0, src)
	assert.Equal(t, n1, dst)
	assert.Same(t, pipe, rec)

	assert.True(t, g.Connected())

	// rejected edges
	_, err = g.AddEdge(n0, NodeID(7), pipe)
	assert.Error(t, err)
	_, err = g.AddEdge(n1, n1, pipe)
	assert.Error(t, err)
	_, err = g.AddEdge(n0, n1, nil)
	assert.Error(t, err)

	// an orphan node disconnects the network
	g.AddJunction()
	assert.False(t, g.Connected())
}
