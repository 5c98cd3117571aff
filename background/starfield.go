package background

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// Defaults for the procedural background.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
	DefaultStars  = 8000
)

var (
	skyColor      = color.RGBA{0, 0, 10, 255}
	minBrightness = 150
	maxBrightness = 255
)

// Starfield renders w x h random white dots over a dark blue sky. The same
// seed always yields the same texture.
func Starfield(w, h, stars int, seed int64) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: skyColor}, image.Point{}, draw.Src)

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < stars; i++ {
		x := rng.Intn(w)
		y := rng.Intn(h)
		b := uint8(minBrightness + rng.Intn(maxBrightness-minBrightness+1))
		img.SetRGBA(x, y, color.RGBA{b, b, b, 255})
	}

	return &Texture{img: img}
}
