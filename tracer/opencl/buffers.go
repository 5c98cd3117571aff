package opencl

import (
	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
	"github.com/jgillich/go-opencl/cl"
)

// Size of buffer elements in bytes.
const (
	sizeofPixel        = 4 // uchar4
	sizeofLensPosition = 8 // float2
	sizeofLensRadius   = 4
	sizeofInfo         = 4 * geodesicInfoStride
)

// Number of int32 values written per column by the geodesic kernel.
const geodesicInfoStride = 5

// Number of real values in the geodesic config buffer.
const geodesicConfigLen = 12

type bufferSet struct {
	// Output frame buffer
	FrameBuffer *device.Buffer

	// Background texture
	Background *device.Buffer

	// Lens parameters
	LensPositions *device.Buffer
	LensRadii     *device.Buffer

	// Geodesic config and per-column outcomes
	GeodesicConfig *device.Buffer
	GeodesicPhi    *device.Buffer
	GeodesicInfo   *device.Buffer
}

// Allocate new buffer set.
func newBufferSet(dev *device.Device) *bufferSet {
	return &bufferSet{
		FrameBuffer:    dev.Buffer("frameBuffer"),
		Background:     dev.Buffer("background"),
		LensPositions:  dev.Buffer("lensPositions"),
		LensRadii:      dev.Buffer("lensRadii"),
		GeodesicConfig: dev.Buffer("geodesicConfig"),
		GeodesicPhi:    dev.Buffer("geodesicPhi"),
		GeodesicInfo:   dev.Buffer("geodesicInfo"),
	}
}

// Allocate the buffers used for evaluating the lens field and upload the
// background texture.
func (bs *bufferSet) AllocateLensBuffers(frameW, frameH uint32, bg *background.Texture) error {
	var err error

	if err = bs.FrameBuffer.Allocate(int(frameW*frameH)*sizeofPixel, cl.MemWriteOnly); err != nil {
		return err
	}
	if err = bs.Background.AllocateAndWriteData(bg.Pix(), cl.MemReadOnly); err != nil {
		return err
	}
	if err = bs.LensPositions.Allocate(lens.MaxLenses*sizeofLensPosition, cl.MemReadOnly); err != nil {
		return err
	}
	return bs.LensRadii.Allocate(lens.MaxLenses*sizeofLensRadius, cl.MemReadOnly)
}

// Upload the lens arrays of a parameter block.
func (bs *bufferSet) UploadLensParams(params *lens.Params) error {
	positions, radii := params.Flatten()
	if err := bs.LensPositions.WriteData(positions, 0); err != nil {
		return err
	}
	return bs.LensRadii.WriteData(radii, 0)
}

// Allocate the buffers used for tracing width columns. The size of the
// config and phi buffers depends on the precision the kernel was built with.
func (bs *bufferSet) AllocateGeodesicBuffers(width int, sizeofReal int) error {
	var err error

	if err = bs.GeodesicConfig.Allocate(geodesicConfigLen*sizeofReal, cl.MemReadOnly); err != nil {
		return err
	}
	if err = bs.GeodesicPhi.Allocate(width*sizeofReal, cl.MemWriteOnly); err != nil {
		return err
	}
	return bs.GeodesicInfo.Allocate(width*sizeofInfo, cl.MemWriteOnly)
}

// Release all buffers.
func (bs *bufferSet) Release() {
	for _, buf := range []*device.Buffer{
		bs.FrameBuffer,
		bs.Background,
		bs.LensPositions,
		bs.LensRadii,
		bs.GeodesicConfig,
		bs.GeodesicPhi,
		bs.GeodesicInfo,
	} {
		buf.Release()
	}
}
