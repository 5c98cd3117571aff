package device

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

type Buffer struct {
	// Handle to opencl buffer.
	bufHandle *cl.MemObject

	// Associated Device.
	device *Device

	// A name for identifying the buffer.
	name string

	// Allocated size.
	size int
}

// Get buffer size.
func (b *Buffer) Size() int {
	return b.size
}

// Allocate a buffer with the given size and flags.
func (b *Buffer) Allocate(size int, flags cl.MemFlag) error {
	// If the buffer is already allocated release it
	b.Release()

	handle, err := b.device.ctx.CreateEmptyBuffer(flags, size)
	if err != nil {
		return fmt.Errorf("opencl device (%s): could not allocate buffer %s of size %d: %w", b.device.Name, b.name, size, err)
	}

	b.bufHandle = handle
	b.size = size
	return nil
}

// Allocate a buffer with enough capacity to fit the given data.
func (b *Buffer) AllocateToFitData(data interface{}, flags cl.MemFlag) error {
	_, dataLen := getSliceData(data)
	return b.Allocate(dataLen, flags)
}

// Allocate a buffer with the given flags that is large enough to hold the given data
// and copy the data to the device. The behavior of this method is undefined if a
// non-slice argument is passed or the argument does not use contiguous memory.
func (b *Buffer) AllocateAndWriteData(data interface{}, flags cl.MemFlag) error {
	if err := b.AllocateToFitData(data, flags); err != nil {
		return err
	}
	return b.WriteData(data, 0)
}

// Write data to the device buffer starting at the given byte offset. The
// behavior of this method is undefined if a non-slice argument is passed or
// the argument does not use contiguous memory.
func (b *Buffer) WriteData(data interface{}, offset int) error {
	dataPtr, dataLen := getSliceData(data)

	if offset+dataLen > b.size {
		return fmt.Errorf("opencl device (%s): insufficient buffer space (%d) in %s for copying data of length %d at offset %d", b.device.Name, b.size, b.name, dataLen, offset)
	}

	ev, err := b.device.cmdQueue.EnqueueWriteBuffer(b.bufHandle, true, offset, dataLen, dataPtr, nil)
	if err != nil {
		return fmt.Errorf("opencl device (%s): error copying host data to device buffer %s: %w", b.device.Name, b.name, err)
	}
	ev.Release()

	return nil
}

// Read data from device buffer into the supplied host buffer. The behavior of
// this method is undefined if a non-slice argument is passed or if the argument
// does not use contiguous memory.
//
// If size is <= 0 then ReadData will read the entire buffer. Both src and dst
// offsets are specified in bytes.
func (b *Buffer) ReadData(srcOffset, dstOffset, size int, hostBuffer interface{}) error {
	if size <= 0 {
		size = b.size - srcOffset
	}

	dataPtr, dataLen := getSliceData(hostBuffer)
	if dstOffset+size > dataLen {
		return fmt.Errorf("opencl device (%s): host buffer too small for reading %d bytes from %s", b.device.Name, size, b.name)
	}

	ev, err := b.device.cmdQueue.EnqueueReadBuffer(
		b.bufHandle,
		true,
		srcOffset,
		size,
		unsafe.Pointer(uintptr(dataPtr)+uintptr(dstOffset)),
		nil,
	)
	if err != nil {
		return fmt.Errorf("opencl device (%s): error copying device data from %s to host buffer: %w", b.device.Name, b.name, err)
	}
	ev.Release()

	return nil
}

// Release buffer.
func (b *Buffer) Release() {
	if b.bufHandle != nil {
		b.bufHandle.Release()
		b.bufHandle = nil
		b.size = 0
	}
}

// Get opencl buffer handle.
func (b *Buffer) Handle() *cl.MemObject {
	return b.bufHandle
}

// Given an interface{} containing a slice return a pointer to its data and its length.
func getSliceData(data interface{}) (unsafe.Pointer, int) {
	reflVal := reflect.ValueOf(data)

	if reflVal.Kind() != reflect.Slice {
		panic("getSliceData: this function only supports slices")
	}

	sliceElemCount := reflVal.Len()
	if sliceElemCount == 0 {
		panic("getSliceData: supplied slice object is empty")
	}

	return unsafe.Pointer(reflVal.Index(0).Addr().Pointer()),
		sliceElemCount * int(reflect.TypeOf(data).Elem().Size())
}
