package geodesic

import "math"

// A scalar ODE right hand side dr/dphi = f(r).
type DerivativeFunc func(r float64) float64

// A single integration step of signed size h starting at r.
type StepFunc func(r, h float64) float64

// Derivative evaluates dr/dphi for an equatorial null geodesic with E = 1:
//
//	dr/dphi = (r^2 / L) * sqrt(1 - (1 - rs/r) * L^2 / r^2)
//
// A radicand <= 0 means the ray reached a turning point and the derivative
// is reported as 0.
func Derivative(r, l, rs float64) float64 {
	radicand := 1.0 - (1.0-rs/r)*l*l/(r*r)
	if radicand <= 0 {
		return 0
	}
	return r * r / l * math.Sqrt(radicand)
}

// RK4 performs one classic 4th order Runge-Kutta step of size h.
func RK4(r, h float64, f DerivativeFunc) float64 {
	k1 := f(r)
	k2 := f(r + 0.5*h*k1)
	k3 := f(r + 0.5*h*k2)
	k4 := f(r + h*k3)
	return r + h/6.0*(k1+2*k2+2*k3+k4)
}
