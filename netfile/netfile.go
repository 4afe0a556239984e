// Package netfile parses YAML network descriptions into component records
// and a directed graph ready for assembly.
package netfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"

	"github.com/maritimebear/godhn/network"
)

type NodeSpec struct {
	Type     string  `json:"Type"`     // "junction" or "reference"
	Pressure float64 `json:"Pressure"` // reference nodes only [Pa]
}

type TablePoint struct {
	Time  float64 `json:"Time"`
	Value float64 `json:"Value"`
}

type PumpSpec struct {
	Reference1 RefPoint `json:"Reference1"`
	Reference2 RefPoint `json:"Reference2"`
}

type RefPoint struct {
	Massflow     float64 `json:"Massflow"`     // [kg/s]
	PressureRise float64 `json:"PressureRise"` // [Pa]
	Speed        float64 `json:"Speed"`        // [rpm]
}

type EdgeSpec struct {
	Type   string `json:"Type"` // "pipe", "producer", "consumer"
	Source int    `json:"Source"`
	Target int    `json:"Target"`

	// Pipe geometry
	InnerDiameter    float64 `json:"InnerDiameter"`
	OuterDiameter    float64 `json:"OuterDiameter"`
	Length           float64 `json:"Length"`
	Roughness        float64 `json:"Roughness"`
	WallConductivity float64 `json:"WallConductivity"`

	// Prosumer controls: piecewise-linear time tables. A single entry is a
	// constant.
	Pump            *PumpSpec    `json:"Pump"`            // producer: pump characteristic
	SpeedControl    []TablePoint `json:"SpeedControl"`    // producer: commanded speed [rpm]
	MassflowControl []TablePoint `json:"MassflowControl"` // consumer: forced mass flow [kg/s]
	ThermalControl  []TablePoint `json:"ThermalControl"`  // imposed thermal power [W]
}

type NetworkSpec struct {
	Nodes []NodeSpec `json:"Nodes"`
	Edges []EdgeSpec `json:"Edges"`
}

// TableControl builds a piecewise-linear control function from a time table,
// clamped to the first and last values outside the table range.
func TableControl(points []TablePoint) (network.ControlFunc, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("netfile: empty control table")
	}
	pts := append([]TablePoint(nil), points...)
	sort.Slice(pts, func(a, b int) bool { return pts[a].Time < pts[b].Time })
	return func(t float64) float64 {
		if t <= pts[0].Time {
			return pts[0].Value
		}
		last := len(pts) - 1
		if t >= pts[last].Time {
			return pts[last].Value
		}
		k := sort.Search(len(pts), func(i int) bool { return pts[i].Time > t }) - 1
		var (
			p0 = pts[k]
			p1 = pts[k+1]
			w  = (t - p0.Time) / (p1.Time - p0.Time)
		)
		return p0.Value + w*(p1.Value-p0.Value)
	}, nil
}

// Parse builds the network graph from a YAML description. cellWidth is the
// requested pipe finite-volume width, density the constant fluid density
// used to calibrate pump characteristics.
func Parse(data []byte, cellWidth, density float64) (*network.Graph, error) {
	var spec NetworkSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("netfile: %w", err)
	}
	return Build(&spec, cellWidth, density)
}

// Load reads and parses a network description file.
func Load(path string, cellWidth, density float64) (*network.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netfile: %w", err)
	}
	return Parse(data, cellWidth, density)
}

func Build(spec *NetworkSpec, cellWidth, density float64) (*network.Graph, error) {
	g := network.NewGraph()
	for i, ns := range spec.Nodes {
		switch ns.Type {
		case "junction":
			g.AddJunction()
		case "reference":
			if ns.Pressure <= 0 {
				return nil, fmt.Errorf("netfile: node %d: reference node needs positive Pressure", i)
			}
			g.AddReference(ns.Pressure)
		default:
			return nil, fmt.Errorf("netfile: node %d: unknown type %q", i, ns.Type)
		}
	}
	for j, es := range spec.Edges {
		rec, err := buildEdge(&es, cellWidth, density)
		if err != nil {
			return nil, fmt.Errorf("netfile: edge %d: %w", j, err)
		}
		if _, err := g.AddEdge(network.NodeID(es.Source), network.NodeID(es.Target), rec); err != nil {
			return nil, fmt.Errorf("netfile: edge %d: %w", j, err)
		}
	}
	if !g.Connected() {
		log.Warn("network is not weakly connected, assembly will likely fail to solve")
	}
	log.WithFields(log.Fields{"nodes": g.NumNodes(), "edges": g.NumEdges()}).Info("network loaded")
	return g, nil
}

func buildEdge(es *EdgeSpec, cellWidth, density float64) (network.EdgeRecord, error) {
	switch es.Type {
	case "pipe":
		return network.NewPipe(es.InnerDiameter, es.OuterDiameter, es.Length,
			es.Roughness, es.WallConductivity, cellWidth)
	case "producer":
		if es.Pump == nil {
			return nil, fmt.Errorf("producer requires a Pump characteristic")
		}
		pump, err := network.NewPumpModel(
			network.PumpReference(es.Pump.Reference1),
			network.PumpReference(es.Pump.Reference2),
			density)
		if err != nil {
			return nil, err
		}
		speed, err := TableControl(es.SpeedControl)
		if err != nil {
			return nil, fmt.Errorf("SpeedControl: %w", err)
		}
		thermal, err := TableControl(es.ThermalControl)
		if err != nil {
			return nil, fmt.Errorf("ThermalControl: %w", err)
		}
		return network.NewPressureChangeProsumer(speed, pump.Characteristic, thermal)
	case "consumer":
		flow, err := TableControl(es.MassflowControl)
		if err != nil {
			return nil, fmt.Errorf("MassflowControl: %w", err)
		}
		thermal, err := TableControl(es.ThermalControl)
		if err != nil {
			return nil, fmt.Errorf("ThermalControl: %w", err)
		}
		return network.NewMassflowProsumer(flow, nil, thermal)
	}
	return nil, fmt.Errorf("unknown type %q", es.Type)
}
