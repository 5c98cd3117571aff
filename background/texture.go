package background

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/achilleasa/gravlens/types"
)

// A Field is a read-only 2D colour source addressed by normalized coordinates.
type Field interface {
	Sample(uv types.Vec2) color.RGBA
}

// Texture is an RGBA8 image sampled with nearest-neighbour filtering.
// Coordinates outside [0, 1) wrap around on both axes.
type Texture struct {
	img *image.RGBA
}

// Create a texture from an image. The image data is copied.
func NewTexture(src image.Image) *Texture {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Texture{img: img}
}

func (t *Texture) Width() int {
	return t.img.Rect.Dx()
}

func (t *Texture) Height() int {
	return t.img.Rect.Dy()
}

// Get the packed RGBA pixel data in row-major order.
func (t *Texture) Pix() []uint8 {
	return t.img.Pix
}

// Get the texture as an image.
func (t *Texture) Image() *image.RGBA {
	return t.img
}

// Sample the texture at uv.
func (t *Texture) Sample(uv types.Vec2) color.RGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}

	uv = uv.Fract()
	x := int(uv[0] * float32(w))
	y := int(uv[1] * float32(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}

	off := y*t.img.Stride + x*4
	p := t.img.Pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
