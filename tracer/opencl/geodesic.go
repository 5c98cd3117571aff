package opencl

import (
	"context"
	"fmt"

	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
)

// GeodesicSolver traces one ray per frame column on an opencl device. The
// kernel mirrors the host integrator and uses double precision when the
// device supports it.
type GeodesicSolver struct {
	logger    log.Logger
	device    *device.Device
	resources *deviceResources
	cfg       geodesic.Config
	useDouble bool
	width     int
}

// Create a geodesic solver for dev.
func NewGeodesicSolver(dev *device.Device, cfg geodesic.Config) (*GeodesicSolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resources, err := newDeviceResources(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}

	s := &GeodesicSolver{
		logger:    log.New(fmt.Sprintf("opencl geodesic (%s)", dev.Name)),
		device:    dev,
		resources: resources,
		cfg:       cfg,
		useDouble: dev.SupportsDouble(),
	}
	if !s.useDouble {
		s.logger.Warning("device lacks cl_khr_fp64; integrating in single precision")
	}
	return s, nil
}

// Solve traces every column of a frame with the given width.
func (s *GeodesicSolver) Solve(ctx context.Context, width int) ([]geodesic.Outcome, error) {
	if s.resources == nil {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if width != s.width {
		sizeofReal := 4
		if s.useDouble {
			sizeofReal = 8
		}
		if err := s.resources.buffers.AllocateGeodesicBuffers(width, sizeofReal); err != nil {
			return nil, err
		}
		s.width = width
	}

	outcomes, elapsed, err := s.resources.TraceGeodesics(s.cfg, width, s.useDouble)
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("traced %d columns in %d ms", width, elapsed.Nanoseconds()/1e6)
	return outcomes, nil
}

// Release device resources.
func (s *GeodesicSolver) Close() {
	if s.resources != nil {
		s.resources.Close()
		s.resources = nil
	}
	s.device.Close()
}
