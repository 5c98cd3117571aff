package device

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/achilleasa/gravlens/types"
	"github.com/jgillich/go-opencl/cl"
)

// A wrapper around opencl kernel handles.
type Kernel struct {
	device       *Device
	kernelHandle *cl.Kernel
	name         string
}

// Free any allocated resources used by this kernel.
func (k *Kernel) Release() {
	if k.kernelHandle != nil {
		k.kernelHandle.Release()
		k.kernelHandle = nil
	}
}

// Bind arguments to kernel.
func (k *Kernel) SetArgs(args ...interface{}) error {
	var err error
	for argIndex, arg := range args {
		switch v := arg.(type) {
		case *Buffer:
			err = k.kernelHandle.SetArgBuffer(argIndex, v.Handle())
		case int32:
			err = k.kernelHandle.SetArgInt32(argIndex, v)
		case uint32:
			err = k.kernelHandle.SetArgUint32(argIndex, v)
		case float32:
			err = k.kernelHandle.SetArgFloat32(argIndex, v)
		case float64:
			err = k.kernelHandle.SetArgUnsafe(argIndex, 8, unsafe.Pointer(&v))
		case types.Vec2:
			err = k.kernelHandle.SetArgUnsafe(argIndex, 8, unsafe.Pointer(&v[0]))
		default:
			return fmt.Errorf(
				"opencl device (%s): could not set arg %d for kernel %s; unsupported arg type: %s",
				k.device.Name,
				argIndex,
				k.name,
				reflect.TypeOf(arg).Name(),
			)
		}

		if err != nil {
			return fmt.Errorf(
				"opencl device (%s): could not set arg %d for kernel %s: %w",
				k.device.Name,
				argIndex,
				k.name,
				err,
			)
		}
	}

	return nil
}

// Execute 1D kernel. If localWorkSize is equal to 0 then the opencl implementation
// will pick the optimal worksize split for the underlying hardware.
func (k *Kernel) Exec1D(offset, globalWorkSize, localWorkSize int) (time.Duration, error) {
	var offsets, local []int
	if offset > 0 {
		offsets = []int{offset}
	}
	if localWorkSize != 0 {
		local = []int{localWorkSize}
	}
	return k.exec(offsets, []int{globalWorkSize}, local)
}

// Execute 2D kernel. If both localWorkSizeX and localWorkSizeY are 0 then the opencl implementation
// will pick the optimal local worksize split for the underlying hardware.
func (k *Kernel) Exec2D(offsetX, offsetY, globalWorkSizeX, globalWorkSizeY, localWorkSizeX, localWorkSizeY int) (time.Duration, error) {
	var offsets, local []int
	if offsetX > 0 || offsetY > 0 {
		offsets = []int{offsetX, offsetY}
	}
	if localWorkSizeX != 0 && localWorkSizeY != 0 {
		local = []int{localWorkSizeX, localWorkSizeY}
	}
	return k.exec(offsets, []int{globalWorkSizeX, globalWorkSizeY}, local)
}

// Enqueue the kernel and block until it completes.
func (k *Kernel) exec(offsets, global, local []int) (time.Duration, error) {
	tick := time.Now()
	ev, err := k.device.cmdQueue.EnqueueNDRangeKernel(k.kernelHandle, offsets, global, local, nil)
	if err != nil {
		return 0, fmt.Errorf("opencl device (%s): unable to execute kernel %s: %w", k.device.Name, k.name, err)
	}
	defer ev.Release()

	// Wait for the kernel to complete
	if err = k.device.cmdQueue.Finish(); err != nil {
		return 0, fmt.Errorf("opencl device (%s): kernel %s did not complete successfully: %w", k.device.Name, k.name, err)
	}

	return time.Since(tick), nil
}
