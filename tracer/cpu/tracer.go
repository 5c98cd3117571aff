package cpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/tracer"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotInitialized  = errors.New("cpu tracer: tracer not initialized")
	ErrBusy            = errors.New("cpu tracer: worker did not accept block request")
	ErrBlockOutOfRange = errors.New("cpu tracer: block exceeds frame bounds")
)

// A tracer that evaluates the lens field on the host using a pool of
// goroutines.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Number of goroutines used for evaluating a block.
	workers int

	frameW      uint32
	frameH      uint32
	frameBuffer []uint8
	bg          *background.Texture

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats
}

// Create a new cpu tracer. If workers is <= 0, one worker per CPU is used.
func NewTracer(id string, workers int) tracer.Tracer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		workers:      workers,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Each worker counts as one unit of speed.
func (tr *cpuTracer) Speed() uint32 {
	return uint32(tr.workers)
}

// Initialize tracer.
func (tr *cpuTracer) Init(frameW, frameH uint32, frameBuffer []uint8, bg *background.Texture) error {
	tr.Lock()
	defer tr.Unlock()

	if len(frameBuffer) < int(frameW*frameH*4) {
		return fmt.Errorf("cpu tracer: frame buffer too small for %dx%d frame", frameW, frameH)
	}
	if bg == nil {
		return errors.New("cpu tracer: missing background")
	}

	tr.frameW, tr.frameH = frameW, frameH
	tr.frameBuffer = frameBuffer
	tr.bg = bg

	tr.startWorker()
	tr.logger.Debugf("initialized with %d workers", tr.workers)
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}
	tr.wg.Wait()

	tr.frameBuffer = nil
	tr.bg = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBusy
	}
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()
				if err := tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Evaluate the lens field for each pixel in the block. Rows are split
// between workers; each worker writes a disjoint set of rows.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.frameBuffer == nil {
		return ErrNotInitialized
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrBlockOutOfRange
	}
	if blockReq.BlockH == 0 {
		return nil
	}

	params := blockReq.Params
	w, h := int(tr.frameW), int(tr.frameH)
	rowsPerWorker := (int(blockReq.BlockH) + tr.workers - 1) / tr.workers

	var g errgroup.Group
	for start := int(blockReq.BlockY); start < int(blockReq.BlockY+blockReq.BlockH); start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > int(blockReq.BlockY+blockReq.BlockH) {
			end = int(blockReq.BlockY + blockReq.BlockH)
		}

		g.Go(func() error {
			for y := start; y < end; y++ {
				off := y * w * 4
				for x := 0; x < w; x++ {
					c := lens.Evaluate(x, y, w, h, &params, tr.bg)
					tr.frameBuffer[off] = c.R
					tr.frameBuffer[off+1] = c.G
					tr.frameBuffer[off+2] = c.B
					tr.frameBuffer[off+3] = 255
					off += 4
				}
			}
			return nil
		})
	}

	return g.Wait()
}
