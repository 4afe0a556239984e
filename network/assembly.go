package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/maritimebear/godhn/utils"
)

// Layout is the assembled system's state-vector geometry: total dimension,
// per-entity offsets, the differential/algebraic marker per slot (1 =
// differential, 0 = algebraic, the mass-matrix diagonal), and a symbolic
// name per slot for result interpretation. It is plain data and survives a
// marshal round trip unchanged.
type Layout struct {
	Dim          int       `json:"dim"`
	NodeOffsets  []int     `json:"nodeOffsets"`
	EdgeOffsets  []int     `json:"edgeOffsets"`
	MassDiagonal []float64 `json:"massDiagonal"`
	Symbols      []string  `json:"symbols"`
}

// System is one assembled network: immutable topology and component records
// plus the derived layout and adjacency indexes. The mutable state lives in
// the solver-owned state vector; System only ever reads it.
type System struct {
	graph  *Graph
	cfg    Config
	layout Layout

	// Adjacency, precomputed once: incident edges per node in declared
	// direction. Derived from the node-edge incidence matrix.
	inEdges   [][]EdgeID
	outEdges  [][]EdgeID
	incidence *sparse.CSR
}

// Assemble validates the component records, lays out the global state
// vector (nodes in id order, then edges in id order), and precomputes the
// adjacency indexes the right-hand side routes sub-states through.
func Assemble(g *Graph, cfg Config) (*System, error) {
	if g == nil || g.NumNodes() == 0 {
		return nil, fmt.Errorf("network: cannot assemble an empty graph")
	}
	s := &System{
		graph: g,
		cfg:   cfg.withDefaults(),
	}

	var (
		nn  = g.NumNodes()
		ne  = g.NumEdges()
		dim = 0
	)
	s.layout.NodeOffsets = make([]int, nn)
	s.layout.EdgeOffsets = make([]int, ne)

	for i := 0; i < nn; i++ {
		rec := g.Node(NodeID(i))
		switch rec.(type) {
		case JunctionNode, ReferenceNode:
		default:
			return nil, fmt.Errorf("network: node %d: unrecognized variant %T", i, rec)
		}
		s.layout.NodeOffsets[i] = dim
		s.layout.Symbols = append(s.layout.Symbols, nodeSymbol(i, "p"), nodeSymbol(i, "T"))
		s.layout.MassDiagonal = append(s.layout.MassDiagonal, 0, 0)
		dim += rec.Dim()
	}

	// Node-edge incidence: -1 at the source node row, +1 at the destination
	// node row, one column per edge
	dok := sparse.NewDOK(nn, ne)
	for j := 0; j < ne; j++ {
		src, dst, rec := g.Edge(EdgeID(j))
		s.layout.EdgeOffsets[j] = dim
		switch r := rec.(type) {
		case *Pipe:
			if r.CellCount < 1 {
				return nil, fmt.Errorf("network: edge %d: pipe has %d cells, need at least 1", j, r.CellCount)
			}
			s.layout.Symbols = append(s.layout.Symbols, edgeSymbol(j, "m"))
			s.layout.MassDiagonal = append(s.layout.MassDiagonal, 0)
			for k := 1; k <= r.CellCount; k++ {
				s.layout.Symbols = append(s.layout.Symbols, edgeSymbol(j, fmt.Sprintf("T_%d", k)))
				s.layout.MassDiagonal = append(s.layout.MassDiagonal, 1)
			}
		case *ProsumerPressureChange, *ProsumerMassflow:
			s.layout.Symbols = append(s.layout.Symbols,
				edgeSymbol(j, "m"), edgeSymbol(j, "T_1"), edgeSymbol(j, "T_2"))
			s.layout.MassDiagonal = append(s.layout.MassDiagonal, 0, 0, 0)
		default:
			return nil, fmt.Errorf("network: edge %d: unrecognized variant %T", j, rec)
		}
		dim += rec.Dim()
		dok.Set(int(src), j, -1)
		dok.Set(int(dst), j, 1)
	}
	s.layout.Dim = dim

	s.incidence = dok.ToCSR()
	s.inEdges = make([][]EdgeID, nn)
	s.outEdges = make([][]EdgeID, nn)
	s.incidence.DoNonZero(func(i, j int, v float64) {
		if v > 0 {
			s.inEdges[i] = append(s.inEdges[i], EdgeID(j))
		} else {
			s.outEdges[i] = append(s.outEdges[i], EdgeID(j))
		}
	})
	for i := range s.inEdges {
		sortEdgeIDs(s.inEdges[i])
		sortEdgeIDs(s.outEdges[i])
	}
	return s, nil
}

func nodeSymbol(i int, sym string) string { return fmt.Sprintf("node%d.%s", i, sym) }
func edgeSymbol(j int, sym string) string { return fmt.Sprintf("edge%d.%s", j, sym) }

func sortEdgeIDs(ids []EdgeID) {
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
}

func (s *System) Dim() int { return s.layout.Dim }

func (s *System) Graph() *Graph { return s.graph }

// MassDiagonal returns a copy of the mass-matrix diagonal: 1 for
// differential slots, 0 for algebraic constraints.
func (s *System) MassDiagonal() []float64 {
	return append([]float64(nil), s.layout.MassDiagonal...)
}

// Symbols returns a copy of the per-slot symbol table.
func (s *System) Symbols() []string {
	return append([]string(nil), s.layout.Symbols...)
}

// Layout returns a deep copy of the state-vector layout.
func (s *System) Layout() Layout {
	return Layout{
		Dim:          s.layout.Dim,
		NodeOffsets:  append([]int(nil), s.layout.NodeOffsets...),
		EdgeOffsets:  append([]int(nil), s.layout.EdgeOffsets...),
		MassDiagonal: s.MassDiagonal(),
		Symbols:      s.Symbols(),
	}
}

// IncidenceMatrix exposes the node-edge incidence matrix (rows: nodes,
// columns: edges, -1 source / +1 destination) for diagnostics.
func (s *System) IncidenceMatrix() mat.Matrix { return s.incidence }

// NewState builds an initial state vector: node pressures p0 (reference
// nodes take their pinned pressure), all temperatures T0, all mass flows m0.
func (s *System) NewState(p0, T0, m0 float64) []float64 {
	st := make([]float64, s.layout.Dim)
	for i := 0; i < s.graph.NumNodes(); i++ {
		off := s.layout.NodeOffsets[i]
		p := p0
		if ref, ok := s.graph.Node(NodeID(i)).(ReferenceNode); ok {
			p = ref.Pressure
		}
		st[off+slotPressure] = p
		st[off+slotTemperature] = T0
	}
	for j := 0; j < s.graph.NumEdges(); j++ {
		off := s.layout.EdgeOffsets[j]
		_, _, rec := s.graph.Edge(EdgeID(j))
		st[off] = m0
		for k := 1; k < rec.Dim(); k++ {
			st[off+k] = T0
		}
	}
	return st
}

// RHS evaluates the global right-hand side: rates for differential slots,
// residuals for algebraic ones. One call is a synchronous barrier - it reads
// state, never writes it, and writes each dst slot exactly once. Edge
// contributions are independent of each other, as are node contributions,
// so each phase fans out across Config.ParallelDegree workers.
func (s *System) RHS(dst, state []float64, par Parameters, t float64) error {
	if len(dst) != s.layout.Dim || len(state) != s.layout.Dim {
		return fmt.Errorf("network: RHS buffer length %d/%d, system dimension %d", len(dst), len(state), s.layout.Dim)
	}
	if err := s.forEach(s.graph.NumEdges(), func(j int) error {
		return s.evalEdge(EdgeID(j), dst, state, par, t)
	}); err != nil {
		return err
	}
	return s.forEach(s.graph.NumNodes(), func(i int) error {
		return s.evalNode(NodeID(i), dst, state)
	})
}

func (s *System) forEach(n int, eval func(int) error) error {
	np := s.cfg.ParallelDegree
	if np <= 1 || n < 2*np {
		for i := 0; i < n; i++ {
			if err := eval(i); err != nil {
				return err
			}
		}
		return nil
	}
	var (
		pm   = utils.NewPartitionMap(np, n)
		errs = make([]error, np)
		wg   sync.WaitGroup
	)
	for b := 0; b < np; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			lo, hi := pm.GetBucketRange(b)
			for i := lo; i < hi; i++ {
				if err := eval(i); err != nil {
					errs[b] = err
					return
				}
			}
		}(b)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *System) nodeState(state []float64, id NodeID) []float64 {
	off := s.layout.NodeOffsets[id]
	return state[off : off+2]
}

func (s *System) edgeState(state []float64, id EdgeID) []float64 {
	off := s.layout.EdgeOffsets[id]
	_, _, rec := s.graph.Edge(id)
	return state[off : off+rec.Dim()]
}

func (s *System) evalEdge(id EdgeID, dst, state []float64, par Parameters, t float64) error {
	var (
		src, dnode, rec = s.graph.Edge(id)
		local           = s.edgeState(state, id)
		out             = s.edgeState(dst, id)
		srcState        = s.nodeState(state, src)
		dstState        = s.nodeState(state, dnode)
	)
	switch r := rec.(type) {
	case *Pipe:
		return pipeRHS(out, r, &s.cfg, local, srcState, dstState, par, t)
	case *ProsumerPressureChange:
		return prosumerRHS(out, r.HydraulicControl, r.Hydraulic, r.ThermalControl, true, &s.cfg, local, srcState, dstState, par, t)
	case *ProsumerMassflow:
		return prosumerRHS(out, r.HydraulicControl, r.Hydraulic, r.ThermalControl, false, &s.cfg, local, srcState, dstState, par, t)
	}
	// Variants are checked at assembly time
	panic(fmt.Sprintf("network: edge %d: unreachable variant %T", id, rec))
}

func (s *System) evalNode(id NodeID, dst, state []float64) error {
	var (
		incoming = s.endStates(state, s.inEdges[id])
		outgoing = s.endStates(state, s.outEdges[id])
		local    = s.nodeState(state, id)
		out      = s.nodeState(dst, id)
	)
	return nodeRHS(out, s.graph.Node(id), local, incoming, outgoing, id)
}

func (s *System) endStates(state []float64, ids []EdgeID) []EdgeEndState {
	if len(ids) == 0 {
		return nil
	}
	es := make([]EdgeEndState, len(ids))
	for k, id := range ids {
		st := s.edgeState(state, id)
		_, _, rec := s.graph.Edge(id)
		es[k] = EdgeEndState{Massflow: st[0]}
		switch rec.(type) {
		case *Pipe:
			es[k].SrcTemp = st[1]
			es[k].DstTemp = st[len(st)-1]
		default: // prosumers
			es[k].SrcTemp = st[1]
			es[k].DstTemp = st[2]
		}
	}
	return es
}
