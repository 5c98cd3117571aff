package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/tracer"
)

// A renderer that splits each lens frame into row blocks and distributes
// them to a pool of tracers.
type lensRenderer struct {
	logger log.Logger

	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler
	options   Options

	frame *image.RGBA

	// Block heights used for the last frame.
	blockAssignments []uint32

	stats FrameStats
}

// Create a lens renderer. Every tracer is initialized with a shared frame
// buffer and the background texture; tracers that fail to initialize are
// skipped. The renderer takes ownership of the tracers.
func NewLens(tracers []tracer.Tracer, scheduler tracer.BlockScheduler, bg *background.Texture, opts Options) (Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &lensRenderer{
		logger:    log.New("lens renderer"),
		scheduler: scheduler,
		options:   opts,
		frame:     image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
	}

	start := time.Now()
	for _, tr := range tracers {
		if err := tr.Init(opts.FrameW, opts.FrameH, r.frame.Pix, bg); err != nil {
			r.logger.Warningf("skipping tracer %s due to init error: %s", tr.Id(), err.Error())
			tr.Close()
			continue
		}
		r.logger.Infof("attached tracer %q", tr.Id())
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	r.logger.Noticef("initialized %d tracer(s) in %d ms", len(r.tracers), time.Since(start).Nanoseconds()/1e6)

	return r, nil
}

// Render a frame. Every tracer receives the same parameter snapshot and
// Render returns only after all tracers have reported back.
func (r *lensRenderer) Render(params lens.Params) (*image.RGBA, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   blockH,
			Params:   params,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all tracers so that no tracer is still writing to the frame
	// buffer when we return.
	var firstErr error
	var rows uint32
	for ; pending > 0; pending-- {
		select {
		case n := <-doneChan:
			rows += n
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if rows != r.options.FrameH {
		return nil, fmt.Errorf("renderer: tracers completed %d of %d rows", rows, r.options.FrameH)
	}

	r.updateStats(time.Since(start))
	return r.frame, nil
}

// Shutdown renderer and any attached tracer.
func (r *lensRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *lensRenderer) Stats() FrameStats {
	return r.stats
}

func (r *lensRenderer) updateStats(renderTime time.Duration) {
	stats := FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}
	for idx, tr := range r.tracers {
		trStats := tr.Stats()
		stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
			RenderTime:   trStats.RenderTime,
			UploadTime:   trStats.UploadTime,
		}
	}
	r.stats = stats
}
