package fluids

import (
	"math"
)

// ReynoldsNumber for duct flow: speed [m/s] (magnitude), density [kg/m³],
// hydraulic diameter [m], dynamic viscosity [Pa·s].
func ReynoldsNumber(speed, rho, diameter, mu float64) float64 {
	return rho * speed * diameter / mu
}

// PrandtlNumber from dynamic viscosity, specific heat and conductivity.
func PrandtlNumber(mu, cp, k float64) float64 {
	return mu * cp / k
}

// FrictionFactor maps (Reynolds number, relative roughness) to a Darcy
// friction factor. NusseltNumber maps (friction factor, Re, Pr) to a
// Nusselt number. Both are selected once per simulation and treated as
// opaque by the assembly.
type FrictionFactor func(Re, relRoughness float64) float64

type NusseltNumber func(frictionFactor, Re, Pr float64) float64

// FrictionChurchill is valid across laminar, transitional and turbulent
// regimes and degrades gracefully at Re -> 0.
func FrictionChurchill(Re, relRoughness float64) float64 {
	if Re < 1e-6 {
		Re = 1e-6 // stagnant flow: friction force vanishes with v² anyway
	}
	a := math.Pow(2.457*math.Log(1.0/(math.Pow(7.0/Re, 0.9)+0.27*relRoughness)), 16)
	b := math.Pow(37530.0/Re, 16)
	return 8.0 * math.Pow(math.Pow(8.0/Re, 12)+1.0/math.Pow(a+b, 1.5), 1.0/12.0)
}

// FrictionHaaland, explicit approximation to Colebrook-White. Turbulent
// only; falls back to 64/Re below Re = 2300.
func FrictionHaaland(Re, relRoughness float64) float64 {
	if Re < 1e-6 {
		Re = 1e-6
	}
	if Re < 2300 {
		return 64.0 / Re
	}
	rhs := -1.8 * math.Log10(math.Pow(relRoughness/3.7, 1.11)+6.9/Re)
	return 1.0 / (rhs * rhs)
}

// NusseltGnielinski with a laminar constant-wall-temperature floor.
// The friction factor argument is the Darcy factor from the selected
// friction correlation.
func NusseltGnielinski(frictionFactor, Re, Pr float64) float64 {
	const NuLaminar = 3.66
	if Re < 2300 {
		return NuLaminar
	}
	f8 := frictionFactor / 8.0
	Nu := f8 * (Re - 1000.0) * Pr / (1.0 + 12.7*math.Sqrt(f8)*(math.Pow(Pr, 2.0/3.0)-1.0))
	if Nu < NuLaminar {
		Nu = NuLaminar
	}
	return Nu
}
