package types

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// A 2 component vector. Screen space coordinates use [0, 1] on both axes
// with the origin at the top-left corner.
type Vec2 f32.Vec2

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Get the x component.
func (v Vec2) X() float32 {
	return v[0]
}

// Get the y component.
func (v Vec2) Y() float32 {
	return v[1]
}

// Add a vector.
func (v Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v[0] + v2[0], v[1] + v2[1]}
}

// Subtract a vector.
func (v Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v[0] - v2[0], v[1] - v2[1]}
}

// Multiply with a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Component-wise multiplication.
func (v Vec2) MulVec(v2 Vec2) Vec2 {
	return Vec2{v[0] * v2[0], v[1] * v2[1]}
}

// Calculate dot product of 2 vectors
func (v Vec2) Dot(v2 Vec2) float32 {
	return v[0]*v2[0] + v[1]*v2[1]
}

// Get vector length.
func (v Vec2) Len() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Wrap both components into [0, 1).
func (v Vec2) Fract() Vec2 {
	return Vec2{fract(v[0]), fract(v[1])}
}

func fract(x float32) float32 {
	f := x - math32.Floor(x)
	// x - floor(x) rounds up to 1 for tiny negative inputs
	if f >= 1.0 {
		return 0
	}
	return f
}
