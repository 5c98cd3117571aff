package background

import (
	"image/color"
	"math"
)

// Phase offsets for the R, G and B channels.
var wheelOffsets = [3]float64{0, 1.0 / 3.0, 2.0 / 3.0}

// Sample maps an accumulated deflection angle to a periodic colour wheel
// value. Each channel is round(255 * (0.5 + 0.5*cos(2π(t + offset)))) with
// t = (phi / 2π) mod 1.
func Sample(phi float64) color.RGBA {
	t := math.Mod(phi/(2*math.Pi), 1.0)
	if t < 0 {
		t += 1.0
	}

	var ch [3]uint8
	for i, off := range wheelOffsets {
		v := 255.0 * (0.5 + 0.5*math.Cos(2*math.Pi*(t+off)))
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}

	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
}

// Captured is the colour reserved for rays that crossed the horizon.
var Captured = color.RGBA{A: 255}
