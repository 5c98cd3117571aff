package renderer

import "fmt"

type Options struct {
	// Frame dims.
	FrameW uint32 `toml:"width"`
	FrameH uint32 `toml:"height"`

	// Number of goroutines used by host rendering stages. If <= 0, one
	// goroutine per CPU is used.
	Workers int `toml:"workers"`

	// Device selection.
	BlackListedDevices []string `toml:"blacklist"`
	ForcePrimaryDevice string   `toml:"force_primary"`
}

// Validate the frame dimensions.
func (o Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, o.FrameW, o.FrameH)
	}
	return nil
}

// Get the frame aspect ratio (width / height).
func (o Options) Aspect() float32 {
	return float32(o.FrameW) / float32(o.FrameH)
}
