package device

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

func TestBufferAllocate(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.Allocate(128, cl.MemReadWrite)
	if err != nil {
		t.Fatal(err)
	}

	expSize := 128
	if buf.Size() != expSize {
		t.Fatalf("expected buffer size to be %d; got %d", expSize, buf.Size())
	}
}

func TestBufferAllocateToFitData(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	data := make([]float64, 128)

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.AllocateToFitData(data, cl.MemReadWrite)
	if err != nil {
		t.Fatal(err)
	}

	expSize := len(data) * int(unsafe.Sizeof(data[0]))
	if buf.Size() != expSize {
		t.Fatalf("expected buffer size to be %d; got %d", expSize, buf.Size())
	}
}

func TestDataReadWrite(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	data := make([]byte, 128)
	for i := 0; i < 128; i++ {
		data[i] = byte(i)
	}

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.AllocateAndWriteData(data, cl.MemReadWrite)
	if err != nil {
		t.Fatal(err)
	}

	dataOut := make([]byte, 128)
	err = buf.ReadData(0, 0, 0, dataOut)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(data, dataOut) {
		t.Fatal("read data does not match written data")
	}
}

func TestDataReadWriteOffsets(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	data := make([]byte, 64)
	for i := 0; i < 64; i++ {
		data[i] = byte(i)
	}

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.Allocate(128, cl.MemReadWrite)
	if err != nil {
		t.Fatal(err)
	}

	err = buf.WriteData(data, 64)
	if err != nil {
		t.Fatal(err)
	}

	// Read the upper half of the buffer into the upper half of the host buffer
	dataOut := make([]byte, 128)
	err = buf.ReadData(64, 64, 64, dataOut)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(data, dataOut[64:]) {
		t.Fatal("read data does not match written data")
	}
}

func TestWriteDataOverflow(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	buf := dev.Buffer("test")
	defer buf.Release()
	if err := buf.Allocate(16, cl.MemReadWrite); err != nil {
		t.Fatal(err)
	}

	if err := buf.WriteData(make([]byte, 16), 8); err == nil {
		t.Fatal("expected an error when writing past the end of the buffer")
	}
	if err := buf.ReadData(0, 8, 16, make([]byte, 16)); err == nil {
		t.Fatal("expected an error when reading past the end of the host buffer")
	}
}

func TestGetSliceData(t *testing.T) {
	data := make([]int32, 32)
	_, dataLen := getSliceData(data)

	expSize := 4 * 32
	if dataLen != expSize {
		t.Fatalf("expected datalen to be %d; got %d", expSize, dataLen)
	}
}
