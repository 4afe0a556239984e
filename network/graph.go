package network

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// NodeID and EdgeID are stable small integers assigned in insertion order.
type NodeID int

type EdgeID int

type edgeEntry struct {
	Src, Dst NodeID
	Rec      EdgeRecord
}

// Graph is the network topology: a directed multigraph (parallel edges
// between one node pair are legal, e.g. twinned supply pipes) whose nodes
// and edges each carry a typed component record. An edge's (Src, Dst) pair
// fixes the sign convention of its mass-flow state for its entire lifetime:
// flow is positive when running Src -> Dst.
//
// The graph is built once, then assembled; it is never mutated during a
// simulation.
type Graph struct {
	g     *multi.DirectedGraph
	nodes []NodeRecord
	edges []edgeEntry
}

func NewGraph() *Graph {
	return &Graph{g: multi.NewDirectedGraph()}
}

func (gr *Graph) addNode(rec NodeRecord) NodeID {
	id := NodeID(len(gr.nodes))
	gr.nodes = append(gr.nodes, rec)
	gr.g.AddNode(multi.Node(id))
	return id
}

// AddJunction adds a pure mixing node.
func (gr *Graph) AddJunction() NodeID {
	return gr.addNode(JunctionNode{})
}

// AddReference adds a node whose pressure is pinned to the given value [Pa].
func (gr *Graph) AddReference(pressure float64) NodeID {
	return gr.addNode(ReferenceNode{Pressure: pressure})
}

// AddEdge connects src -> dst with the given component record.
func (gr *Graph) AddEdge(src, dst NodeID, rec EdgeRecord) (EdgeID, error) {
	if !gr.validNode(src) || !gr.validNode(dst) {
		return 0, fmt.Errorf("network: edge endpoints (%d, %d) must be existing nodes", src, dst)
	}
	if src == dst {
		return 0, fmt.Errorf("network: self-loop on node %d not allowed", src)
	}
	if rec == nil {
		return 0, fmt.Errorf("network: nil edge record")
	}
	id := EdgeID(len(gr.edges))
	gr.edges = append(gr.edges, edgeEntry{Src: src, Dst: dst, Rec: rec})
	gr.g.SetLine(multi.Line{F: multi.Node(src), T: multi.Node(dst), UID: int64(id)})
	return id, nil
}

func (gr *Graph) validNode(id NodeID) bool {
	return id >= 0 && int(id) < len(gr.nodes)
}

func (gr *Graph) NumNodes() int { return len(gr.nodes) }
func (gr *Graph) NumEdges() int { return len(gr.edges) }

func (gr *Graph) Node(id NodeID) NodeRecord { return gr.nodes[id] }

func (gr *Graph) Edge(id EdgeID) (src, dst NodeID, rec EdgeRecord) {
	e := gr.edges[id]
	return e.Src, e.Dst, e.Rec
}

// Connected reports whether the network is one weakly connected component.
// A disconnected network is almost always an input-file defect.
func (gr *Graph) Connected() bool {
	if len(gr.nodes) == 0 {
		return false
	}
	return len(topo.ConnectedComponents(graph.Undirect{G: gr.g})) == 1
}
