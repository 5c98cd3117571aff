package opencl

import (
	"fmt"
	"time"

	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
)

// A container that stores handles to open CL kernels and any allocated device buffers.
type deviceResources struct {
	// The allocated device buffers.
	buffers *bufferSet

	// The set of kernels.
	kernels []*device.Kernel
}

// Using the supplied device as a target, compile the program and load all
// defined kernels.
func newDeviceResources(dev *device.Device) (*deviceResources, error) {
	var err error

	if dev == nil {
		return nil, fmt.Errorf("device_resources: invalid device handle")
	}

	if err = dev.Init(programSource(), buildOptions(dev)); err != nil {
		return nil, err
	}

	dr := &deviceResources{
		buffers: newBufferSet(dev),
		kernels: make([]*device.Kernel, numKernels),
	}

	var kType kernelType
	for kType = 0; kType < numKernels; kType++ {
		dr.kernels[kType], err = dev.Kernel(kType.String())
		if err != nil {
			dr.Close()
			return nil, err
		}
	}

	return dr, nil
}

// Release all allocated resources.
func (dr *deviceResources) Close() {
	if dr.buffers != nil {
		dr.buffers.Release()
		dr.buffers = nil
	}

	if dr.kernels != nil {
		for _, kernel := range dr.kernels {
			if kernel != nil {
				kernel.Release()
			}
		}
		dr.kernels = nil
	}
}

// Evaluate the lens field for rows [blockY, blockY+blockH) and read the
// result back into the matching rows of frameBuffer.
func (dr *deviceResources) EvaluateLensField(frameW, frameH, blockY, blockH, bgW, bgH uint32, params *lens.Params, frameBuffer []uint8) (time.Duration, error) {
	kernel := dr.kernels[evaluateLensField]

	err := kernel.SetArgs(
		dr.buffers.Background,
		bgW,
		bgH,
		dr.buffers.LensPositions,
		dr.buffers.LensRadii,
		params.Count,
		params.BackgroundScale,
		params.Aspect,
		frameW,
		frameH,
		blockY,
		dr.buffers.FrameBuffer,
	)
	if err != nil {
		return 0, err
	}

	elapsed, err := kernel.Exec2D(0, 0, int(frameW), int(blockH), 0, 0)
	if err != nil {
		return 0, err
	}

	rowBytes := int(frameW) * sizeofPixel
	offset := int(blockY) * rowBytes
	err = dr.buffers.FrameBuffer.ReadData(offset, offset, int(blockH)*rowBytes, frameBuffer)
	return elapsed, err
}

// Trace one geodesic per column and decode the outcomes.
func (dr *deviceResources) TraceGeodesics(cfg geodesic.Config, width int, useDouble bool) ([]geodesic.Outcome, time.Duration, error) {
	kernel := dr.kernels[traceGeodesic]

	cfgValues := []float64{
		cfg.SchwarzschildRadius,
		cfg.ObserverRadius,
		cfg.ImpactScale,
		cfg.InitialStep,
		cfg.MinStep,
		cfg.MaxStep,
		cfg.Tolerance,
		cfg.GrowFactor,
		cfg.ShrinkFactor,
		cfg.MinImpact,
		cfg.EscapeFraction,
		cfg.MinEscapePhi,
	}

	var err error
	if useDouble {
		err = dr.buffers.GeodesicConfig.WriteData(cfgValues, 0)
	} else {
		err = dr.buffers.GeodesicConfig.WriteData(toFloat32(cfgValues), 0)
	}
	if err != nil {
		return nil, 0, err
	}

	var adaptive int32
	if cfg.Adaptive {
		adaptive = 1
	}

	err = kernel.SetArgs(
		dr.buffers.GeodesicConfig,
		int32(cfg.MaxSteps),
		adaptive,
		uint32(width),
		dr.buffers.GeodesicPhi,
		dr.buffers.GeodesicInfo,
	)
	if err != nil {
		return nil, 0, err
	}

	elapsed, err := kernel.Exec1D(0, width, 0)
	if err != nil {
		return nil, 0, err
	}

	phi := make([]float64, width)
	if useDouble {
		err = dr.buffers.GeodesicPhi.ReadData(0, 0, 0, phi)
	} else {
		phi32 := make([]float32, width)
		err = dr.buffers.GeodesicPhi.ReadData(0, 0, 0, phi32)
		for i, v := range phi32 {
			phi[i] = float64(v)
		}
	}
	if err != nil {
		return nil, 0, err
	}

	info := make([]int32, width*geodesicInfoStride)
	if err = dr.buffers.GeodesicInfo.ReadData(0, 0, 0, info); err != nil {
		return nil, 0, err
	}

	outcomes := make([]geodesic.Outcome, width)
	for col := range outcomes {
		rec := info[col*geodesicInfoStride : (col+1)*geodesicInfoStride]
		outcomes[col] = geodesic.Outcome{
			Status:   geodesic.Status(rec[0]),
			Phi:      phi[col],
			Reason:   geodesic.Reason(rec[1]),
			Steps:    int(rec[2]),
			Rejected: int(rec[3]),
			Forced:   int(rec[4]),
		}
	}

	return outcomes, elapsed, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
