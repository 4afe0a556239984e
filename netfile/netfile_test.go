package netfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maritimebear/godhn/network"
)

const loopYAML = `
Nodes:
  - Type: reference
    Pressure: 1.0e5
  - Type: junction
  - Type: junction
  - Type: junction
Edges:
  - Type: producer
    Source: 0
    Target: 1
    Pump:
      Reference1: {Massflow: 0.5, PressureRise: 3.0e5, Speed: 1450}
      Reference2: {Massflow: 2.0, PressureRise: 1.0e5, Speed: 1450}
    SpeedControl:
      - {Time: 0, Value: 1450}
    ThermalControl:
      - {Time: 0, Value: 100e3}
  - Type: pipe
    Source: 1
    Target: 2
    InnerDiameter: 0.1
    OuterDiameter: 0.12
    Length: 100
    Roughness: 4.5e-5
    WallConductivity: 0.4
  - Type: consumer
    Source: 2
    Target: 3
    MassflowControl:
      - {Time: 0, Value: 0.5}
      - {Time: 3600, Value: 1.5}
    ThermalControl:
      - {Time: 0, Value: -80e3}
  - Type: pipe
    Source: 3
    Target: 0
    InnerDiameter: 0.1
    OuterDiameter: 0.12
    Length: 100
    Roughness: 4.5e-5
    WallConductivity: 0.4
`

func TestParseLoop(t *testing.T) {
	g, err := Parse([]byte(loopYAML), 25, 990)
	require.NoError(t, err)

	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 4, g.NumEdges())
	assert.True(t, g.Connected())

	ref, ok := g.Node(0).(network.ReferenceNode)
	require.True(t, ok)
	assert.Equal(t, 1.0e5, ref.Pressure)
	_, ok = g.Node(1).(network.JunctionNode)
	assert.True(t, ok)

	src, dst, rec := g.Edge(0)
	assert.Equal(t, network.NodeID(0), src)
	assert.Equal(t, network.NodeID(1), dst)
	prod, ok := rec.(*network.ProsumerPressureChange)
	require.True(t, ok)
	assert.Equal(t, 1450.0, prod.HydraulicControl(0))
	assert.Equal(t, 100e3, prod.ThermalControl(720))

	_, _, rec = g.Edge(1)
	pipe, ok := rec.(*network.Pipe)
	require.True(t, ok)
	assert.Equal(t, 4, pipe.CellCount) // 100 m at 25 m cells
	assert.Equal(t, 0.1, pipe.InnerDiameter)

	_, _, rec = g.Edge(2)
	cons, ok := rec.(*network.ProsumerMassflow)
	require.True(t, ok)
	assert.InDelta(t, 1.0, cons.HydraulicControl(1800), 1e-12) // table midpoint

	// the parsed graph assembles cleanly
	sys, err := network.Assemble(g, network.Config{})
	require.NoError(t, err)
	assert.Equal(t, 4*2+3+5+3+5, sys.Dim())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad node type", "Nodes:\n  - Type: resevoir\n"},
		{"reference without pressure", "Nodes:\n  - Type: reference\n"},
		{"bad edge type", "Nodes:\n  - Type: junction\n  - Type: junction\nEdges:\n  - {Type: valve, Source: 0, Target: 1}\n"},
		{"producer without pump", "Nodes:\n  - Type: junction\n  - Type: junction\nEdges:\n  - {Type: producer, Source: 0, Target: 1}\n"},
		{"consumer without controls", "Nodes:\n  - Type: junction\n  - Type: junction\nEdges:\n  - {Type: consumer, Source: 0, Target: 1}\n"},
		{"dangling endpoint", "Nodes:\n  - Type: junction\nEdges:\n  - {Type: consumer, Source: 0, Target: 5, MassflowControl: [{Time: 0, Value: 1}], ThermalControl: [{Time: 0, Value: 0}]}\n"},
		{"not yaml", ": ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), 10, 990)
			assert.Error(t, err)
		})
	}
}

func TestTableControl(t *testing.T) {
	ctl, err := TableControl([]TablePoint{
		{Time: 100, Value: 2},
		{Time: 0, Value: 1}, // out of order on purpose
		{Time: 200, Value: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, ctl(-50)) // clamped below
	assert.Equal(t, 1.0, ctl(0))
	assert.InDelta(t, 1.5, ctl(50), 1e-12)
	assert.Equal(t, 2.0, ctl(100))
	assert.InDelta(t, 1.0, ctl(150), 1e-12)
	assert.Equal(t, 0.0, ctl(200))
	assert.Equal(t, 0.0, ctl(1e6)) // clamped above

	_, err = TableControl(nil)
	assert.Error(t, err)

	single, err := TableControl([]TablePoint{{Time: 10, Value: 7}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, single(0))
	assert.Equal(t, 7.0, single(1e9))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loopYAML), 0o644))
	g, err := Load(path, 25, 990)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumEdges())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), 25, 990)
	assert.Error(t, err)
}
