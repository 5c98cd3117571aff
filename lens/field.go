package lens

import (
	"image/color"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/types"
	"github.com/chewxy/math32"
)

// Distances below this value are clamped to keep the deflection finite at
// the lens centre.
const minLensDistance float32 = 1e-4

var screenCenter = types.XY(0.5, 0.5)

// Deflection sums the point lens deflections at screen coordinate p. Each
// lens contributes a vector of length re²/dist pointing away from its
// centre. The x axis is scaled by the aspect ratio so that lenses stay round
// on non-square frames.
func Deflection(p types.Vec2, params *Params) types.Vec2 {
	var sum types.Vec2
	for i := 0; i < int(params.Count); i++ {
		d := p.Sub(params.Positions[i])
		d[0] *= params.Aspect

		dist := math32.Max(d.Len(), minLensDistance)
		re := params.Radii[i]
		sum = sum.Add(d.Mul(re * re / (dist * dist)))
	}
	sum[0] /= params.Aspect
	return sum
}

// SourceCoord maps screen coordinate p to the background coordinate seen
// through the lenses. It applies the lens equation beta = p - deflection,
// scales the result about the screen centre and wraps it into [0, 1).
func SourceCoord(p types.Vec2, params *Params) types.Vec2 {
	beta := p.Sub(Deflection(p, params))
	return beta.Sub(screenCenter).Mul(params.BackgroundScale).Add(screenCenter).Fract()
}

// PixelCoord returns the normalized centre of pixel (x, y).
func PixelCoord(x, y, w, h int) types.Vec2 {
	return types.XY(
		(float32(x)+0.5)/float32(w),
		(float32(y)+0.5)/float32(h),
	)
}

// Evaluate returns the colour of pixel (x, y) of a w x h frame.
func Evaluate(x, y, w, h int, params *Params, field background.Field) color.RGBA {
	return field.Sample(SourceCoord(PixelCoord(x, y, w, h), params))
}
