package session

import (
	"image"
	"image/png"
	"os"
)

// Create a ScreenshotFunc that encodes screenshots as PNG files at path.
// Opaque images are written as RGB; each screenshot overwrites the previous
// one.
func PNGWriter(path string) ScreenshotFunc {
	return func(img *image.RGBA) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}

		if err = png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		logger.Noticef("wrote screenshot to %s", path)
		return f.Close()
	}
}
