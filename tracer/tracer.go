package tracer

import (
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
)

// A unit of work that is processed by a tracer: evaluate the lens field for
// rows [BlockY, BlockY+BlockH) of the frame.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The lens parameters for the frame this block belongs to. Every block
	// of a frame carries the same snapshot.
	Params lens.Params

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// The time spent uploading lens parameters for the last block.
	UploadTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate. Used by schedulers to
	// split the first frame.
	Speed() uint32

	// Initialize the tracer. Tracers write RGBA8 pixels for the rows they
	// are assigned into frameBuffer and sample the supplied background.
	Init(frameW, frameH uint32, frameBuffer []uint8, bg *background.Texture) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last frame statistics.
	Stats() *Stats
}
