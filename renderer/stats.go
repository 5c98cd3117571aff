package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// True if this is the primary tracer
	IsPrimary bool

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Time spent uploading the lens parameters
	UploadTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Statistics for a geodesic frame.
type GeodesicStats struct {
	Columns      int
	Captured     int
	Escaped      int
	Inconclusive int

	// Integration counters summed over all columns.
	Steps    int
	Rejected int
	Forced   int

	SolveTime    time.Duration
	AssembleTime time.Duration
}
