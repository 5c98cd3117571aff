package cpu

import (
	"testing"
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/scene"
	"github.com/achilleasa/gravlens/tracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrameW = 16
	testFrameH = 12
)

func runBlock(t *testing.T, tr tracer.Tracer, req tracer.BlockRequest) (uint32, error) {
	t.Helper()
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	req.DoneChan = doneChan
	req.ErrChan = errChan

	tr.Enqueue(req)
	select {
	case rows := <-doneChan:
		return rows, nil
	case err := <-errChan:
		return 0, err
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for block")
	}
	return 0, nil
}

func TestTracerRendersBlock(t *testing.T) {
	bg := background.Starfield(64, 32, 500, 1)
	fb := make([]uint8, testFrameW*testFrameH*4)

	tr := NewTracer("test", 3)
	require.NoError(t, tr.Init(testFrameW, testFrameH, fb, bg))
	defer tr.Close()

	params := scene.Default().Params(float32(testFrameW) / float32(testFrameH))
	rows, err := runBlock(t, tr, tracer.BlockRequest{BlockY: 4, BlockH: 5, Params: params})
	require.NoError(t, err)
	assert.Equal(t, uint32(5), rows)
	assert.Equal(t, uint32(5), tr.Stats().BlockH)

	for y := 0; y < testFrameH; y++ {
		for x := 0; x < testFrameW; x++ {
			off := (y*testFrameW + x) * 4
			if y < 4 || y >= 9 {
				assert.Equal(t, []uint8{0, 0, 0, 0}, fb[off:off+4], "pixel (%d, %d) outside block was written", x, y)
				continue
			}
			exp := lens.Evaluate(x, y, testFrameW, testFrameH, &params, bg)
			assert.Equal(t, []uint8{exp.R, exp.G, exp.B, 255}, fb[off:off+4], "pixel (%d, %d)", x, y)
		}
	}
}

func TestTracerRejectsOutOfRangeBlock(t *testing.T) {
	fb := make([]uint8, testFrameW*testFrameH*4)
	tr := NewTracer("test", 1)
	require.NoError(t, tr.Init(testFrameW, testFrameH, fb, background.Starfield(8, 8, 4, 1)))
	defer tr.Close()

	_, err := runBlock(t, tr, tracer.BlockRequest{BlockY: 10, BlockH: 5, Params: scene.Default().Params(1)})
	assert.ErrorIs(t, err, ErrBlockOutOfRange)
}

func TestTracerInitValidation(t *testing.T) {
	tr := NewTracer("test", 1)
	defer tr.Close()

	assert.Error(t, tr.Init(testFrameW, testFrameH, make([]uint8, 4), background.Starfield(8, 8, 4, 1)))
	assert.Error(t, tr.Init(testFrameW, testFrameH, make([]uint8, testFrameW*testFrameH*4), nil))
}

func TestTracerDefaultsToOneWorkerPerCPU(t *testing.T) {
	tr := NewTracer("test", 0)
	assert.Greater(t, tr.Speed(), uint32(0))
	assert.Equal(t, "test", tr.Id())
}
