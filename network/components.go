package network

import (
	"fmt"
	"math"
)

// ControlFunc is a prosumer control input as a function of simulation time.
type ControlFunc func(t float64) float64

// Characteristic maps (control input, current mass flow) to the quantity a
// prosumer imposes: a pressure delta [Pa] for pressure-change control, a
// mass flow [kg/s] for massflow control.
type Characteristic func(control, massflow float64) float64

// NodeRecord and EdgeRecord are closed variant sets: the assembly dispatches
// over the concrete types and rejects anything else at construction time.
// Records are immutable after construction; physics reads them, never
// mutates them.
type NodeRecord interface {
	nodeRecord()
	// Dim is the number of state slots the node owns.
	Dim() int
}

type EdgeRecord interface {
	edgeRecord()
	Dim() int
}

// JunctionNode mixes its incident flows. States: pressure, temperature.
type JunctionNode struct{}

func (JunctionNode) nodeRecord() {}
func (JunctionNode) Dim() int    { return 2 }

// ReferenceNode fixes its pressure to a constant [Pa]. States: pressure,
// temperature.
type ReferenceNode struct {
	Pressure float64
}

func (ReferenceNode) nodeRecord() {}
func (ReferenceNode) Dim() int    { return 2 }

// Pipe is a finite-volume duct with wall friction and radial heat loss to
// ambient. States: mass flow (algebraic) followed by CellCount cell
// temperatures (differential).
type Pipe struct {
	InnerDiameter    float64 // [m]
	OuterDiameter    float64 // [m]
	Length           float64 // [m]
	Roughness        float64 // absolute wall roughness [m]
	WallConductivity float64 // [W/(m·K)]
	CellCount        int
}

// NewPipe derives the cell count from the requested cell width,
// round(length/width), and fails if the result is not a positive finite
// integer.
func NewPipe(innerD, outerD, length, roughness, wallK, cellWidth float64) (*Pipe, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("network: pipe length %v must be positive and finite", length)
	}
	if !(cellWidth > 0) || math.IsInf(cellWidth, 0) {
		return nil, fmt.Errorf("network: pipe cell width %v must be positive and finite", cellWidth)
	}
	if !(outerD > innerD) || !(innerD > 0) {
		return nil, fmt.Errorf("network: pipe diameters inner=%v outer=%v must satisfy 0 < inner < outer", innerD, outerD)
	}
	n := int(math.Round(length / cellWidth))
	if n < 1 {
		return nil, fmt.Errorf("network: pipe of length %v at cell width %v yields %d cells, need at least 1", length, cellWidth, n)
	}
	return &Pipe{
		InnerDiameter:    innerD,
		OuterDiameter:    outerD,
		Length:           length,
		Roughness:        roughness,
		WallConductivity: wallK,
		CellCount:        n,
	}, nil
}

func (*Pipe) edgeRecord() {}

func (p *Pipe) Dim() int { return p.CellCount + 1 }

// CellWidth is the realized cell width after rounding.
func (p *Pipe) CellWidth() float64 { return p.Length / float64(p.CellCount) }

// FlowArea is the inner cross-section.
func (p *Pipe) FlowArea() float64 {
	return 0.25 * math.Pi * p.InnerDiameter * p.InnerDiameter
}

// ProsumerPressureChange is a producer/consumer whose mass flow is a DAE
// unknown closed by a pressure-balance constraint: the hydraulic
// characteristic, driven by a control input, imposes the pressure delta
// across the edge. States: mass flow, source-side temperature,
// destination-side temperature, all algebraic.
type ProsumerPressureChange struct {
	HydraulicControl ControlFunc
	Hydraulic        Characteristic
	ThermalControl   ControlFunc // imposed thermal power [W]
}

func NewPressureChangeProsumer(hydraulicControl ControlFunc, hydraulic Characteristic, thermalControl ControlFunc) (*ProsumerPressureChange, error) {
	if hydraulicControl == nil || hydraulic == nil || thermalControl == nil {
		return nil, fmt.Errorf("network: pressure-change prosumer requires hydraulic control, characteristic and thermal control functions")
	}
	return &ProsumerPressureChange{
		HydraulicControl: hydraulicControl,
		Hydraulic:        hydraulic,
		ThermalControl:   thermalControl,
	}, nil
}

func (*ProsumerPressureChange) edgeRecord() {}
func (*ProsumerPressureChange) Dim() int    { return 3 }

// ProsumerMassflow forces its mass flow to the control value, optionally
// modulated by a characteristic. Same state layout as
// ProsumerPressureChange.
type ProsumerMassflow struct {
	HydraulicControl ControlFunc
	Hydraulic        Characteristic // nil: the control value is the mass flow
	ThermalControl   ControlFunc
}

func NewMassflowProsumer(hydraulicControl ControlFunc, hydraulic Characteristic, thermalControl ControlFunc) (*ProsumerMassflow, error) {
	if hydraulicControl == nil || thermalControl == nil {
		return nil, fmt.Errorf("network: massflow prosumer requires hydraulic and thermal control functions")
	}
	return &ProsumerMassflow{
		HydraulicControl: hydraulicControl,
		Hydraulic:        hydraulic,
		ThermalControl:   thermalControl,
	}, nil
}

func (*ProsumerMassflow) edgeRecord() {}
func (*ProsumerMassflow) Dim() int    { return 3 }

// ConstantControl is the degenerate control input.
func ConstantControl(value float64) ControlFunc {
	return func(float64) float64 { return value }
}
