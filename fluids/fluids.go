package fluids

import (
	"fmt"
	"math"

	"github.com/maritimebear/godhn/utils"
)

// Fluid supplies temperature-dependent transport and thermodynamic
// properties. All temperatures are absolute [K], all properties SI.
// Implementations must be pure: no state, no side effects, total over the
// liquid range they model.
type Fluid interface {
	Name() string
	Density(T float64) float64           // [kg/m³]
	DynamicViscosity(T float64) float64  // [Pa·s]
	ThermalConductivity(T float64) float64 // [W/(m·K)]
	SpecificHeat(T float64) float64      // [J/(kg·K)]
}

// Water, liquid phase, fits valid roughly 273 K to 370 K at 1 bar.
type Water struct{}

func (Water) Name() string { return "water" }

func (Water) Density(T float64) float64 {
	// Kell-type polynomial about 4 °C
	tc := T - 273.15
	return 999.85 + 5.332e-2*tc - 7.564e-3*utils.POW(tc, 2) + 4.323e-5*utils.POW(tc, 3) - 1.673e-7*utils.POW(tc, 4)
}

func (Water) DynamicViscosity(T float64) float64 {
	// Vogel-Fulcher form
	return 2.414e-5 * math.Pow(10, 247.8/(T-140.0))
}

func (Water) ThermalConductivity(T float64) float64 {
	return -0.8691 + 8.9489e-3*T - 1.5837e-5*utils.POW(T, 2) + 7.9754e-9*utils.POW(T, 3)
}

func (Water) SpecificHeat(T float64) float64 {
	// quadratic about the cp minimum near 35 °C
	tc := T - 273.15
	return 4178.0 + 0.0143*(tc-35)*(tc-35)
}

// PGWater models a propylene-glycol/water brine of a given glycol mass
// fraction, as used in networks with freeze protection. Property fits are
// linear blends anchored on the pure-water fits; adequate for fractions
// up to ~0.5.
type PGWater struct {
	Fraction float64 // glycol mass fraction, 0..1
}

func (f PGWater) Name() string { return fmt.Sprintf("pg-water-%.2f", f.Fraction) }

func (f PGWater) Density(T float64) float64 {
	w := Water{}.Density(T)
	return w*(1-f.Fraction) + (1050.0-0.65*(T-273.15))*f.Fraction
}

func (f PGWater) DynamicViscosity(T float64) float64 {
	// Glycol raises viscosity steeply; exponential mixing rule on log-mu
	wv := math.Log(Water{}.DynamicViscosity(T))
	gv := math.Log(0.0042 * math.Pow(10, 370.0/(T-150.0)))
	return math.Exp(wv*(1-f.Fraction) + gv*f.Fraction)
}

func (f PGWater) ThermalConductivity(T float64) float64 {
	w := Water{}.ThermalConductivity(T)
	return w*(1-f.Fraction) + 0.20*f.Fraction
}

func (f PGWater) SpecificHeat(T float64) float64 {
	w := Water{}.SpecificHeat(T)
	return w*(1-f.Fraction) + (2500.0+2.9*(T-273.15))*f.Fraction
}

// ByName resolves a fluid identity from an input-file token:
// "water", or "pg-water:<fraction>".
func ByName(name string) (Fluid, error) {
	switch {
	case name == "water" || name == "":
		return Water{}, nil
	default:
		var frac float64
		if n, _ := fmt.Sscanf(name, "pg-water:%f", &frac); n == 1 {
			if frac < 0 || frac > 1 {
				return nil, fmt.Errorf("fluids: glycol fraction %v out of range [0,1]", frac)
			}
			return PGWater{Fraction: frac}, nil
		}
	}
	return nil, fmt.Errorf("fluids: unknown fluid %q", name)
}
