package opencl

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/tracer"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
	"github.com/achilleasa/gravlens/types"
)

type clTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The device associated with this tracer instance.
	device *device.Device

	// The allocated device resources.
	resources *deviceResources

	// The tracer id.
	id string

	frameW      uint32
	frameH      uint32
	frameBuffer []uint8
	bgW         uint32
	bgH         uint32

	// The last parameter block uploaded to the device.
	uploaded    lens.Params
	hasUploaded bool

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Device speed in Gflops.
	speed uint32
}

// Create a new opencl tracer that evaluates the lens field on dev.
func NewTracer(id string, dev *device.Device) tracer.Tracer {
	return &clTracer{
		logger:       log.New(fmt.Sprintf("opencl tracer (%s)", dev.Name)),
		device:       dev,
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
		speed:        dev.Speed,
	}
}

// Get tracer id.
func (tr *clTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate (in GFlops).
func (tr *clTracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer. The device output is checked against the host
// evaluation of a probe row before the tracer accepts any blocks.
func (tr *clTracer) Init(frameW, frameH uint32, frameBuffer []uint8, bg *background.Texture) error {
	var err error
	tr.Lock()
	defer tr.Unlock()

	if len(frameBuffer) < int(frameW*frameH)*sizeofPixel {
		return fmt.Errorf("opencl tracer: frame buffer too small for %dx%d frame", frameW, frameH)
	}
	if bg == nil {
		return fmt.Errorf("opencl tracer: missing background")
	}

	if tr.resources == nil {
		tr.resources, err = newDeviceResources(tr.device)
		if err != nil {
			tr.cleanup()
			return err
		}
	}

	if err = tr.resources.buffers.AllocateLensBuffers(frameW, frameH, bg); err != nil {
		tr.cleanup()
		return err
	}

	tr.frameW, tr.frameH = frameW, frameH
	tr.frameBuffer = frameBuffer
	tr.bgW, tr.bgH = uint32(bg.Width()), uint32(bg.Height())
	tr.hasUploaded = false

	if err = tr.validateLayout(bg); err != nil {
		tr.cleanup()
		return err
	}

	tr.startWorker()
	return nil
}

// Shutdown and cleanup tracer.
func (tr *clTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.cleanup()
}

// Cleanup tracer. This method is meant to be called while holding tr.Lock()
func (tr *clTracer) cleanup() {
	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}
	tr.wg.Wait()

	// Cleanup allocated resources
	if tr.resources != nil {
		tr.resources.Close()
		tr.resources = nil
	}

	// Shutdown device
	if tr.device != nil {
		tr.device.Close()
	}

	tr.frameBuffer = nil
}

// Enqueue block request.
func (tr *clTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBusy
	}
}

// Retrieve last frame statistics.
func (tr *clTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *clTracer) startWorker() {
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
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Upload parameters if they changed since the last block
				if !tr.hasUploaded || blockReq.Params != tr.uploaded {
					if err = tr.resources.buffers.UploadLensParams(&blockReq.Params); err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.uploaded = blockReq.Params
					tr.hasUploaded = true
					tr.stats.UploadTime = time.Since(startTime)
				}

				// Render block and reply with our completion status
				if err = tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
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

// Render block.
func (tr *clTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.resources == nil || tr.frameBuffer == nil {
		return ErrNotInitialized
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrBlockOutOfRange
	}
	if blockReq.BlockH == 0 {
		return nil
	}

	_, err := tr.resources.EvaluateLensField(
		tr.frameW, tr.frameH,
		blockReq.BlockY, blockReq.BlockH,
		tr.bgW, tr.bgH,
		&blockReq.Params,
		tr.frameBuffer,
	)
	return err
}

// Render a probe row on the device and compare it against the host
// evaluation. A mismatch in most pixels means that the host and device
// disagree on the parameter or pixel layout.
func (tr *clTracer) validateLayout(bg *background.Texture) error {
	params := lens.Params{
		Count:           2,
		BackgroundScale: 1.5,
		Aspect:          float32(tr.frameW) / float32(tr.frameH),
	}
	params.Positions[0], params.Radii[0] = types.XY(0.3, 0.5), 0.08
	params.Positions[1], params.Radii[1] = types.XY(0.7, 0.4), 0.03

	if err := tr.resources.buffers.UploadLensParams(&params); err != nil {
		return err
	}

	probeY := tr.frameH / 2
	scratch := make([]uint8, len(tr.frameBuffer))
	if _, err := tr.resources.EvaluateLensField(tr.frameW, tr.frameH, probeY, 1, tr.bgW, tr.bgH, &params, scratch); err != nil {
		return err
	}

	mismatches := 0
	rowOffset := int(probeY*tr.frameW) * sizeofPixel
	for x := 0; x < int(tr.frameW); x++ {
		exp := lens.Evaluate(x, int(probeY), int(tr.frameW), int(tr.frameH), &params, bg)
		got := scratch[rowOffset+x*sizeofPixel : rowOffset+(x+1)*sizeofPixel]
		if got[0] != exp.R || got[1] != exp.G || got[2] != exp.B || got[3] != 255 {
			mismatches++
		}
	}

	// Rounding differences may pick a neighbouring texel for a few pixels.
	if mismatches > int(tr.frameW)/2 {
		return fmt.Errorf("%w: %d of %d probe pixels differ", ErrLayoutMismatch, mismatches, tr.frameW)
	}

	tr.logger.Debugf("layout probe: %d of %d pixels differ from host evaluation", mismatches, tr.frameW)
	return nil
}
