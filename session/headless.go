package session

import (
	"image"
	"time"

	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
)

// Headless is a Driver without a window. It replays a script of events,
// one batch per frame, closes after a fixed number of frames and paces
// frames with a ticker when an interval is set.
type Headless struct {
	// Events posted at the start of frame i.
	Script [][]scene.Event

	// Number of frames to present before closing. Zero means no limit.
	MaxFrames int

	// The last presented frame and its stats.
	Last      *image.RGBA
	LastStats renderer.FrameStats

	frame  int
	ticker *time.Ticker
}

// Create a headless driver that presents at most maxFrames frames. If
// interval > 0 presentation waits for the next tick.
func NewHeadless(maxFrames int, interval time.Duration, script ...[]scene.Event) *Headless {
	d := &Headless{
		Script:    script,
		MaxFrames: maxFrames,
	}
	if interval > 0 {
		d.ticker = time.NewTicker(interval)
	}
	return d
}

func (d *Headless) Poll(post func(scene.Event)) {
	if d.frame >= len(d.Script) {
		return
	}
	for _, ev := range d.Script[d.frame] {
		post(ev)
	}
}

func (d *Headless) Present(frame *image.RGBA, stats renderer.FrameStats) error {
	if d.ticker != nil {
		<-d.ticker.C
	}
	d.Last = frame
	d.LastStats = stats
	d.frame++
	return nil
}

func (d *Headless) ShouldClose() bool {
	return d.MaxFrames > 0 && d.frame >= d.MaxFrames
}

// Stop the pacing ticker.
func (d *Headless) Close() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
}
