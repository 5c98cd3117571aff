package renderer

import (
	"image"

	"github.com/achilleasa/gravlens/lens"
)

type Renderer interface {
	// Render a frame for the given lens parameters. The returned image is
	// owned by the renderer and remains valid until the next call to Render.
	Render(params lens.Params) (*image.RGBA, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
