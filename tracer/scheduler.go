package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. The assignments always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

type naiveScheduler struct {
	blockAssignment []uint32
}

// The naive scheduler splits the frame proportionally to the speed estimate
// reported by each tracer.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}

	distribute(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	naive           naiveScheduler
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed fall back to the speed estimates.
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		copy(sch.blockAssignment, sch.naive.Schedule(tracers, frameH))
		return sch.blockAssignment
	}

	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.RenderTime <= 0 || stats.BlockH == 0 {
			// No usable feedback for this tracer; keep the last split.
			return sch.blockAssignment
		}
		weights[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
	}

	distribute(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// Split frameH rows proportionally to weights. Every tracer receives at
// least one row when possible; leftover rows are appended to the first
// tracer and excess rows are trimmed from the largest blocks.
func distribute(out []uint32, weights []float64, frameH uint32) {
	if len(out) == 0 {
		return
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	var scheduledRows uint32
	for idx, w := range weights {
		rows := 1.0
		if total > 0 {
			rows = math.Max(1.0, math.Floor(w*float64(frameH)/total))
		}
		out[idx] = uint32(rows)
		scheduledRows += out[idx]
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	if scheduledRows < frameH {
		out[0] += frameH - scheduledRows
		return
	}

	for scheduledRows > frameH {
		largest := 0
		for idx := range out {
			if out[idx] > out[largest] {
				largest = idx
			}
		}
		out[largest]--
		scheduledRows--
	}
}
