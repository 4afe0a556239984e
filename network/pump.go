package network

import (
	"fmt"
)

// PumpReference is one measured operating point of a pump, in SI units.
type PumpReference struct {
	Massflow     float64 // [kg/s]
	PressureRise float64 // [Pa]
	Speed        float64 // [rpm]
}

// PumpModel is a quadratic pump characteristic
//
//	dP = c1·V² + c2·N²
//
// fitted through two reference operating points. The correlation works in
// its native units (V in m³/h, dP in bar, N in rpm); conversion from and to
// SI happens at the call boundary.
type PumpModel struct {
	c1, c2  float64
	density float64 // for mass flow -> volumetric conversion [kg/m³]
}

const (
	pascalPerBar   = 1e5
	secondsPerHour = 3600.0
)

func NewPumpModel(ref1, ref2 PumpReference, density float64) (*PumpModel, error) {
	if !(density > 0) {
		return nil, fmt.Errorf("network: pump model density %v must be positive", density)
	}
	var (
		v1 = ref1.Massflow / density * secondsPerHour
		v2 = ref2.Massflow / density * secondsPerHour
		p1 = ref1.PressureRise / pascalPerBar
		p2 = ref2.PressureRise / pascalPerBar
		n1 = ref1.Speed
		n2 = ref2.Speed
	)
	det := v1*v1*n2*n2 - v2*v2*n1*n1
	if det == 0 {
		return nil, fmt.Errorf("network: pump reference points are degenerate, cannot fit characteristic")
	}
	return &PumpModel{
		c1:      (p1*n2*n2 - p2*n1*n1) / det,
		c2:      (v1*v1*p2 - v2*v2*p1) / det,
		density: density,
	}, nil
}

// Characteristic adapts the pump model to the prosumer hydraulic interface:
// the control input is the commanded speed [rpm], the result the imposed
// pressure rise [Pa] at the current mass flow.
func (pm *PumpModel) Characteristic(speed, massflow float64) float64 {
	v := massflow / pm.density * secondsPerHour
	dpBar := pm.c1*v*v + pm.c2*speed*speed
	return dpBar * pascalPerBar
}
