package network

import (
	"errors"
)

// ErrNoInflow reports that a node has zero net mass flow into it, leaving
// its mixing temperature undefined. Surfaced explicitly instead of letting a
// 0/0 NaN poison the DAE.
var ErrNoInflow = errors.New("network: no inflow to node, mixing temperature undefined")

// EdgeEndState is the slice of an incident edge's state a node needs for
// mixing: its signed mass flow and the temperatures carried at its two ends.
// SrcTemp/DstTemp follow the edge's declared direction, not the momentary
// flow direction.
type EdgeEndState struct {
	Massflow float64
	SrcTemp  float64
	DstTemp  float64
}

// NodeTemperature computes the flow-weighted mean temperature of all streams
// entering a node. incoming holds the states of edges declared toward the
// node, outgoing those declared away from it. An incoming edge feeds the
// node when its mass flow is positive, carrying its destination-end
// temperature; an outgoing edge feeds the node when its mass flow is
// negative, carrying its source-end temperature. Edge reversal therefore
// needs no topological reclassification.
func NodeTemperature(incoming, outgoing []EdgeEndState) (float64, error) {
	var enthalpyIn, massflowIn float64
	for _, e := range incoming {
		if e.Massflow > 0 {
			enthalpyIn += e.Massflow * e.DstTemp
			massflowIn += e.Massflow
		}
	}
	for _, e := range outgoing {
		if e.Massflow < 0 {
			enthalpyIn += -e.Massflow * e.SrcTemp
			massflowIn += -e.Massflow
		}
	}
	if massflowIn == 0 {
		return 0, ErrNoInflow
	}
	return enthalpyIn / massflowIn, nil
}
