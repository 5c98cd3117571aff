package device

import (
	"testing"

	"github.com/achilleasa/gravlens/types"
	"github.com/jgillich/go-opencl/cl"
)

func TestKernelExec1D(t *testing.T) {
	for _, localWorkSize := range []int{0, 1} {
		runSquareKernel(t, localWorkSize)
	}
}

func runSquareKernel(t *testing.T, localWorkSize int) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	kernel, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataSize := 32
	dataIn := make([]int32, dataSize)
	dataOut := make([]int32, dataSize)
	for i := 0; i < dataSize; i++ {
		dataIn[i] = int32(i)
	}

	bufIn := dev.Buffer("in")
	defer bufIn.Release()
	if err = bufIn.AllocateAndWriteData(dataIn, cl.MemReadWrite); err != nil {
		t.Fatal(err)
	}

	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.AllocateToFitData(dataOut, cl.MemReadWrite); err != nil {
		t.Fatal(err)
	}

	if err = kernel.SetArgs(bufIn, bufOut, uint32(dataSize)); err != nil {
		t.Fatal(err)
	}

	if _, err = kernel.Exec1D(0, dataSize, localWorkSize); err != nil {
		t.Fatal(err)
	}

	// Fetch and validate output
	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < dataSize; i++ {
		expValue := dataIn[i] * dataIn[i]
		if dataOut[i] != expValue {
			t.Fatalf("[item %d] expected squared value of %d to be %d; got %d", i, dataIn[i], expValue, dataOut[i])
		}
	}
}

func TestKernelExec2D(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	kernel, err := dev.Kernel("mapBlock")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataWidth := 8
	dataHeight := 8

	dataIn := make([]int32, dataWidth*dataHeight)
	dataOut := make([]int32, dataWidth*dataHeight)
	for i := 0; i < dataWidth*dataHeight; i++ {
		dataIn[i] = int32(i)
	}

	bufIn := dev.Buffer("in")
	defer bufIn.Release()
	if err = bufIn.AllocateAndWriteData(dataIn, cl.MemReadWrite); err != nil {
		t.Fatal(err)
	}

	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.AllocateToFitData(dataOut, cl.MemReadWrite); err != nil {
		t.Fatal(err)
	}

	if err = kernel.SetArgs(bufIn, bufOut, uint32(dataWidth*dataHeight)); err != nil {
		t.Fatal(err)
	}

	if _, err = kernel.Exec2D(0, 0, dataWidth, dataHeight, 0, 0); err != nil {
		t.Fatal(err)
	}

	// Fetch and validate output
	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < dataWidth*dataHeight; i++ {
		if dataOut[i] != dataIn[i] {
			t.Fatalf("[item %d] expected value %d; got %d", i, dataIn[i], dataOut[i])
		}
	}
}

func TestKernelVectorArgs(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	kernel, err := dev.Kernel("offsetVec")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataOut := make([]float32, 8)
	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.AllocateToFitData(dataOut, cl.MemWriteOnly); err != nil {
		t.Fatal(err)
	}

	if err = kernel.SetArgs(bufOut, types.XY(1, 2), float32(0.5)); err != nil {
		t.Fatal(err)
	}
	if _, err = kernel.Exec1D(0, 4, 0); err != nil {
		t.Fatal(err)
	}
	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		if dataOut[2*i] != 0.5 || dataOut[2*i+1] != 1 {
			t.Fatalf("[item %d] expected (0.5, 1); got (%f, %f)", i, dataOut[2*i], dataOut[2*i+1])
		}
	}
}
