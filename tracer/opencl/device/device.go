package device

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jgillich/go-opencl/cl"
)

type DeviceType uint8

// Supported device types.
const (
	CpuDevice   DeviceType = 1 << iota
	GpuDevice              = 1 << iota
	OtherDevice            = 1 << iota
	AllDevices             = 0xFF
)

var (
	indentRegex = regexp.MustCompile("(?m)^")
)

func (dt DeviceType) String() string {
	switch dt {
	case CpuDevice:
		return "CPU"
	case GpuDevice:
		return "GPU"
	case OtherDevice:
		return "Other"
	}
	panic("opencl: unsupported device type")
}

// Wrapper around opencl-supported devices.
type Device struct {
	Name string
	Type DeviceType

	compUnits  uint32
	clockSpeed uint32
	extensions string

	// Speed estimate in GFlops.
	Speed uint32

	id *cl.Device

	// Opencl handles; allocated when device is initialized.
	ctx      *cl.Context
	cmdQueue *cl.CommandQueue
	program  *cl.Program
}

// Implements Stringer.
func (d Device) String() string {
	return fmt.Sprintf(
		"Name: %s\nType: %s\nSpecs: %d computation units, %d Mhz clock, %d GFlops approximate speed",
		d.Name,
		d.Type.String(),
		d.compUnits,
		d.clockSpeed,
		d.Speed,
	)
}

// Check whether the device supports double precision arithmetic.
func (d *Device) SupportsDouble() bool {
	return strings.Contains(d.extensions, "cl_khr_fp64")
}

// Initialize the device and build the supplied program source using the
// given compiler options.
func (d *Device) Init(source, options string) error {
	var err error

	// Already initialized
	if d.ctx != nil {
		return nil
	}

	d.ctx, err = cl.CreateContext([]*cl.Device{d.id})
	if err != nil {
		return fmt.Errorf("opencl device (%s): could not create opencl context: %w", d.Name, err)
	}

	d.cmdQueue, err = d.ctx.CreateCommandQueue(d.id, 0)
	if err != nil {
		defer d.Close()
		return fmt.Errorf("opencl device (%s): could not create command queue: %w", d.Name, err)
	}

	d.program, err = d.ctx.CreateProgramWithSource([]string{source})
	if err != nil {
		defer d.Close()
		return fmt.Errorf("opencl device (%s): could not create program: %w", d.Name, err)
	}

	err = d.program.BuildProgram([]*cl.Device{d.id}, options)
	if err != nil {
		defer d.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("opencl device (%s): could not build kernel:\n%s", d.Name, string(buildErr))
		}
		return fmt.Errorf("opencl device (%s): could not build kernel: %w", d.Name, err)
	}

	return nil
}

// Shut down the device.
func (d *Device) Close() {
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}

	if d.cmdQueue != nil {
		d.cmdQueue.Release()
		d.cmdQueue = nil
	}

	if d.ctx != nil {
		d.ctx.Release()
		d.ctx = nil
	}
}

// Load kernel by name.
func (d *Device) Kernel(name string) (*Kernel, error) {
	if d.program == nil {
		return nil, fmt.Errorf("opencl device (%s): device not initialized", d.Name)
	}

	handle, err := d.program.CreateKernel(name)
	if err != nil {
		return nil, fmt.Errorf("opencl device (%s): could not load kernel %s: %w", d.Name, name, err)
	}

	return &Kernel{
		device:       d,
		kernelHandle: handle,
		name:         name,
	}, nil
}

// Create an empty buffer.
func (d *Device) Buffer(name string) *Buffer {
	return &Buffer{
		device: d,
		name:   name,
	}
}

// Detect device speed. The theoretical speed is estimated as compute units * clock speed.
func (d *Device) detectSpeed() {
	d.compUnits = uint32(d.id.MaxComputeUnits())
	d.clockSpeed = uint32(d.id.MaxClockFrequency())
	d.extensions = d.id.Extensions()
	d.Speed = d.compUnits * d.clockSpeed / 1000
	if d.Speed == 0 {
		d.Speed = 1
	}
}
