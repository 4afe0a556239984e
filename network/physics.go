package network

import (
	"fmt"
	"math"

	"github.com/maritimebear/godhn/convection"
	"github.com/maritimebear/godhn/fluids"
	"github.com/maritimebear/godhn/utils"
)

// Parameters is the global parameter object handed opaquely to every
// physics evaluation. Density is treated as constant across the network;
// the remaining fluid properties stay temperature-dependent.
type Parameters struct {
	Density            float64 // [kg/m³]
	AmbientTemperature float64 // [K]
}

// Config selects the per-simulation strategies: the working fluid, the
// convection scheme, and the friction/Nusselt correlations. Selected once
// at assembly time and never varied during a simulation.
type Config struct {
	Fluid          fluids.Fluid
	Scheme         convection.Scheme
	Friction       fluids.FrictionFactor
	Nusselt        fluids.NusseltNumber
	ParallelDegree int // RHS worker count, <=1 evaluates sequentially
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.Fluid == nil {
		out.Fluid = fluids.Water{}
	}
	if out.Scheme == nil {
		out.Scheme = convection.Upwind
	}
	if out.Friction == nil {
		out.Friction = fluids.FrictionChurchill
	}
	if out.Nusselt == nil {
		out.Nusselt = fluids.NusseltGnielinski
	}
	return out
}

// Node state slots.
const (
	slotPressure    = 0
	slotTemperature = 1
)

// pipeRHS writes the pipe's residual/rate contributions into dst:
// dst[0] the algebraic momentum residual, dst[1:] the temperature cell
// rates. st is the pipe's own state, srcNode/dstNode the two incident node
// states in declared direction.
func pipeRHS(dst []float64, pipe *Pipe, cfg *Config, st, srcNode, dstNode []float64, par Parameters, t float64) error {
	var (
		n     = pipe.CellCount
		m     = st[0]
		cells = st[1 : 1+n]
		rho   = par.Density
		area  = pipe.FlowArea()
		dx    = pipe.CellWidth()
		d     = pipe.InnerDiameter
	)
	v := m / (rho * area)

	// Bulk mean temperature for property evaluation, once per call
	Tmean := 0.5 * (cells[0] + cells[n-1])
	var (
		mu = cfg.Fluid.DynamicViscosity(Tmean)
		kf = cfg.Fluid.ThermalConductivity(Tmean)
		cp = cfg.Fluid.SpecificHeat(Tmean)
	)
	Re := fluids.ReynoldsNumber(math.Abs(v), rho, d, mu)
	f := cfg.Friction(Re, pipe.Roughness/d)

	// Momentum: friction pressure drop balances the node pressure difference
	dPFriction := -utils.Sign(v) * f * (pipe.Length / d) * 0.5 * rho * v * v
	dst[0] = dPFriction - (dstNode[slotPressure] - srcNode[slotPressure])

	// Heat loss: fluid-side convection in series with radial wall conduction
	Pr := fluids.PrandtlNumber(mu, cp, kf)
	Nu := cfg.Nusselt(f, Re, Pr)
	var (
		uaFluid = Nu * kf * math.Pi * dx
		uaWall  = 2 * math.Pi * pipe.WallConductivity * dx / math.Log(pipe.OuterDiameter/pipe.InnerDiameter)
		ua      = 1.0 / (1.0/uaFluid + 1.0/uaWall)
	)

	// Energy: advection via the selected scheme, node temperatures as the
	// boundary values at the two ends
	rates := dst[1 : 1+n]
	cfg.Scheme(rates, cells, srcNode[slotTemperature], dstNode[slotTemperature], v)
	heatCoeff := ua / (rho * cp * area * dx)
	for i := 0; i < n; i++ {
		rates[i] = -rates[i]/dx + heatCoeff*(par.AmbientTemperature-cells[i])
	}
	return nil
}

// prosumerRHS covers both control modes; pressureControlled selects the
// momentum residual. All three prosumer states are algebraic.
func prosumerRHS(dst []float64, hydraulicControl ControlFunc, hydraulic Characteristic, thermalControl ControlFunc,
	pressureControlled bool, cfg *Config, st, srcNode, dstNode []float64, par Parameters, t float64) error {
	var (
		m    = st[0]
		tSrc = st[1]
		tDst = st[2]
	)
	control := hydraulicControl(t)
	if pressureControlled {
		dst[0] = hydraulic(control, m) - (dstNode[slotPressure] - srcNode[slotPressure])
	} else {
		forced := control
		if hydraulic != nil {
			forced = hydraulic(control, m)
		}
		dst[0] = forced - m
	}

	// Thermal: the upwind node sets the inlet temperature, the imposed power
	// lifts the outlet. Alignment follows the sign of the mass flow so that
	// reversal swaps the roles without reclassifying the edge.
	aligned := m >= 0
	inlet := srcNode[slotTemperature]
	if !aligned {
		inlet = dstNode[slotTemperature]
	}
	outlet := inlet
	if m != 0 {
		cp := cfg.Fluid.SpecificHeat(0.5 * (tSrc + tDst))
		outlet = inlet + thermalControl(t)/(math.Abs(m)*cp)
	}
	if aligned {
		dst[1] = tSrc - inlet
		dst[2] = tDst - outlet
	} else {
		dst[1] = tSrc - outlet
		dst[2] = tDst - inlet
	}
	return nil
}

// nodeRHS writes a node's residuals: mass or pressure closure in slot 0,
// the mixing-temperature constraint in slot 1. incoming/outgoing carry the
// incident edge end-states in declared direction.
func nodeRHS(dst []float64, rec NodeRecord, st []float64, incoming, outgoing []EdgeEndState, nodeID NodeID) error {
	switch r := rec.(type) {
	case JunctionNode:
		var net float64
		for _, e := range incoming {
			net += e.Massflow
		}
		for _, e := range outgoing {
			net -= e.Massflow
		}
		dst[0] = net
	case ReferenceNode:
		dst[0] = st[slotPressure] - r.Pressure
	default:
		return fmt.Errorf("network: unknown node variant %T", rec)
	}
	tMix, err := NodeTemperature(incoming, outgoing)
	if err != nil {
		return fmt.Errorf("node %d: %w", nodeID, err)
	}
	dst[1] = st[slotTemperature] - tMix
	return nil
}
