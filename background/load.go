package background

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/achilleasa/gravlens/asset"
	"github.com/achilleasa/gravlens/log"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var logger = log.New("background")

// Load decodes a background image from a resource. If w and h are both
// positive the image is resized to w x h.
func Load(res *asset.Resource, w, h int) (*Texture, error) {
	img, imgFmt, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("background: could not decode %s: %w", res.Path(), err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("background: %s contains an empty image", res.Path())
	}

	if w > 0 && h > 0 && (b.Dx() != w || b.Dy() != h) {
		logger.Infof("resizing %s background %s from %dx%d to %dx%d", imgFmt, res.Path(), b.Dx(), b.Dy(), w, h)
		return &Texture{img: transform.Resize(img, w, h, transform.Linear)}, nil
	}

	return NewTexture(img), nil
}
