package convection

import (
	"fmt"
	"math"

	"github.com/maritimebear/godhn/utils"
)

// Scheme computes the net convective rate leaving each cell of a 1-D duct:
// the closed surface integral of velocity times the advected quantity over
// each cell's two faces. cells holds the cell-centered values in increasing
// coordinate order, west/east the boundary values supplied by whatever sits
// at the two ends of the duct, vel the signed face velocity (positive
// transports toward increasing index). Results are written into dst, which
// must have len(cells).
//
// Every scheme yields an identically zero rate at vel == 0 and never divides
// by the velocity or by a vanishing gradient.
type Scheme func(dst, cells []float64, west, east, vel float64)

// Upwind is the first-order donor-cell scheme: each face takes the value of
// its upstream cell, or the boundary value where the upstream neighbour is
// missing.
func Upwind(dst, cells []float64, west, east, vel float64) {
	if vel == 0 {
		zero(dst)
		return
	}
	if vel > 0 {
		prev := west
		for i, c := range cells {
			dst[i] = vel * (c - prev)
			prev = c
		}
		return
	}
	// vel < 0: donor is the eastern neighbour
	for i, c := range cells {
		next := east
		if i < len(cells)-1 {
			next = cells[i+1]
		}
		dst[i] = -vel * (c - next)
	}
}

// Limiter is a TVD flux limiter phi(r) of the gradient ratio
// r = upwind gradient / downwind gradient. phi must vanish for r <= 0
// (pure upwind) and stay within the second-order TVD region for r > 0.
type Limiter func(r float64) float64

func LimiterLinearUpwind(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return r
}

func LimiterVanLeer(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return 2 * r / (1 + r)
}

func LimiterVanAlbada(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return r * (r + 1) / (r*r + 1)
}

func LimiterMinmod(r float64) float64 {
	if r <= 0 {
		return 0
	}
	if r < 1 {
		return r
	}
	return 1
}

// Limited builds a flux-limited scheme from a limiter: face values blend the
// donor-cell value and the central-difference value by phi(r),
//
//	u_face = u_C + phi(r)/2 * (u_D - u_C)
//
// where C is the upwind cell at that face, D the downwind cell, and
// r = (u_C - u_U)/(u_D - u_C) with U the far-upwind cell. Missing
// neighbours at the two domain ends take the corresponding boundary value.
func Limited(phi Limiter) Scheme {
	return func(dst, cells []float64, west, east, vel float64) {
		if vel == 0 {
			zero(dst)
			return
		}
		n := len(cells)
		faces := make([]float64, n+1)
		if vel > 0 {
			faces[0] = west
			for j := 1; j <= n; j++ {
				uC := cells[j-1]
				uD := east
				if j < n {
					uD = cells[j]
				}
				uU := west
				if j >= 2 {
					uU = cells[j-2]
				}
				faces[j] = faceValue(phi, uU, uC, uD)
			}
		} else {
			faces[n] = east
			for j := 0; j < n; j++ {
				uC := cells[j]
				uD := west
				if j > 0 {
					uD = cells[j-1]
				}
				uU := east
				if j < n-1 {
					uU = cells[j+1]
				}
				faces[j] = faceValue(phi, uU, uC, uD)
			}
		}
		for i := range dst {
			dst[i] = vel * (faces[i+1] - faces[i])
		}
	}
}

// faceValue blends towards the central value by phi(r). A vanishing
// downwind gradient leaves the ratio undefined and the blend moot, so the
// face falls back to the donor value.
func faceValue(phi Limiter, uU, uC, uD float64) float64 {
	d := uD - uC
	if math.Abs(d) < utils.NODETOL {
		return uC
	}
	r := (uC - uU) / d
	return uC + 0.5*phi(r)*d
}

func zero(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
}

// ByName resolves a scheme from an input-file token.
func ByName(name string) (Scheme, error) {
	switch name {
	case "upwind", "":
		return Upwind, nil
	case "linear-upwind":
		return Limited(LimiterLinearUpwind), nil
	case "van-leer":
		return Limited(LimiterVanLeer), nil
	case "van-albada":
		return Limited(LimiterVanAlbada), nil
	case "minmod":
		return Limited(LimiterMinmod), nil
	}
	return nil, fmt.Errorf("convection: unknown scheme %q", name)
}
