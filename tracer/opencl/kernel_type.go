package opencl

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
)

var (
	//go:embed CL/lens.cl
	lensKernelSource string

	//go:embed CL/geodesic.cl
	geodesicKernelSource string
)

type kernelType uint8

// The list of kernels built for each device.
const (
	evaluateLensField kernelType = iota
	traceGeodesic
	//
	numKernels
)

// Implements Stringer; map kernel type to the kernel name as defined in the CL source files.
func (kt kernelType) String() string {
	switch kt {
	case evaluateLensField:
		return "evaluateLensField"
	case traceGeodesic:
		return "traceGeodesic"
	default:
		panic(fmt.Sprintf("Unsupported kernel type: %d", kt))
	}
}

// Get the program source containing every kernel.
func programSource() string {
	return lensKernelSource + "\n" + geodesicKernelSource
}

// Get the compiler options for the given device. Geodesic integration uses
// double precision when the device supports it.
func buildOptions(dev *device.Device) string {
	opts := []string{fmt.Sprintf("-D MAX_LENSES=%d", lens.MaxLenses)}
	if dev.SupportsDouble() {
		opts = append(opts, "-D USE_DOUBLE")
	}
	return strings.Join(opts, " ")
}
