package session

import (
	"context"
	"image"
	"image/draw"

	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
)

var logger = log.New("session")

// A Driver connects a session to a window system.
type Driver interface {
	// Collect pending input and translate it to scene events.
	Poll(post func(scene.Event))

	// Display a completed frame. Drivers own presentation pacing.
	Present(frame *image.RGBA, stats renderer.FrameStats) error

	// Report whether the user closed the window.
	ShouldClose() bool
}

// ScreenshotFunc receives an opaque copy of a presented frame.
type ScreenshotFunc func(img *image.RGBA) error

// Session owns the interactive scene and drives the frame loop. Only the
// goroutine calling Frame or Run mutates the scene; other goroutines
// communicate with the session by posting events.
type Session struct {
	scene    scene.Scene
	queue    Queue
	renderer renderer.Renderer
	aspect   float32

	screenshot ScreenshotFunc

	exitRequested bool
	frames        uint64
}

// Create a session that renders initial with r. Frames have the given
// aspect ratio. If screenshot is nil, screenshot requests are ignored.
func New(r renderer.Renderer, aspect float32, initial scene.Scene, screenshot ScreenshotFunc) *Session {
	return &Session{
		scene:      initial,
		renderer:   r,
		aspect:     aspect,
		screenshot: screenshot,
	}
}

// Queue an event for the next frame. Safe for concurrent use.
func (s *Session) Post(ev scene.Event) {
	s.queue.Post(ev)
}

// Get the current scene.
func (s *Session) Scene() scene.Scene {
	return s.scene
}

// Get the number of presented frames.
func (s *Session) Frames() uint64 {
	return s.frames
}

// Report whether an exit event has been processed.
func (s *Session) ExitRequested() bool {
	return s.exitRequested
}

// Frame runs one iteration of the frame loop: poll input, apply every
// queued event, render the resulting scene, present it and finally write
// any requested screenshot. Render blocks until the whole frame has been
// evaluated so the driver never sees a partially written frame.
func (s *Session) Frame(d Driver) error {
	d.Poll(s.queue.Post)

	takeScreenshot := false
	for _, ev := range s.queue.Drain() {
		switch ev.Kind {
		case scene.Screenshot:
			takeScreenshot = true
		case scene.Exit:
			s.exitRequested = true
		default:
			s.scene = scene.Apply(s.scene, ev)
			logger.Debugf("applied %s: %s", ev.Kind, s.scene)
		}
	}

	frame, err := s.renderer.Render(s.scene.Params(s.aspect))
	if err != nil {
		return err
	}

	if err = d.Present(frame, s.renderer.Stats()); err != nil {
		return err
	}
	s.frames++

	if takeScreenshot && s.screenshot != nil {
		// A failed screenshot should not end the session.
		if err = s.screenshot(Screenshot(frame)); err != nil {
			logger.Errorf("could not save screenshot: %s", err.Error())
		}
	}

	return nil
}

// Run the frame loop until an exit event is processed, the driver reports
// that it should close or ctx is cancelled. Exit conditions are only
// checked between frames.
func (s *Session) Run(ctx context.Context, d Driver) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.exitRequested || d.ShouldClose() {
			logger.Noticef("session ended after %d frames", s.frames)
			return nil
		}

		if err := s.Frame(d); err != nil {
			return err
		}
	}
}

// Screenshot returns a copy of frame with every alpha value set to 255. The
// copy is opaque, so PNGWriter stores it as 8-bit RGB without an alpha
// channel.
func Screenshot(frame *image.RGBA) *image.RGBA {
	b := frame.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), frame, b.Min, draw.Src)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}
