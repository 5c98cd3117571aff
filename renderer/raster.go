package renderer

import (
	"context"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PixelFunc returns the colour of pixel (x, y).
type PixelFunc func(x, y int) color.RGBA

// Raster produces a w x h image by evaluating fn for every pixel. Rows are
// split into contiguous bands, one per worker, and Raster returns once every
// band is complete. Cancelling ctx stops workers at the next row.
func Raster(ctx context.Context, w, h, workers int, fn PixelFunc) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidFrameSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rowsPerWorker := (h + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < h; start += rowsPerWorker {
		end := min(start+rowsPerWorker, h)

		g.Go(func() error {
			for y := start; y < end; y++ {
				if gctx.Err() != nil {
					return ErrInterrupted
				}
				off := y * img.Stride
				for x := 0; x < w; x++ {
					c := fn(x, y)
					img.Pix[off] = c.R
					img.Pix[off+1] = c.G
					img.Pix[off+2] = c.B
					img.Pix[off+3] = c.A
					off += 4
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}
