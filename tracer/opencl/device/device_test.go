package device

import (
	"strings"
	"testing"
)

const testKernelSource = `
__kernel void square(__global const int *in, __global int *out, const uint count) {
	uint i = get_global_id(0);
	if (i < count) {
		out[i] = in[i] * in[i];
	}
}

__kernel void mapBlock(__global const int *in, __global int *out, const uint count) {
	uint i = get_global_id(1) * get_global_size(0) + get_global_id(0);
	if (i < count) {
		out[i] = in[i];
	}
}

__kernel void offsetVec(__global float *out, const float2 offset, const float scale) {
	uint i = get_global_id(0);
	out[2*i] = offset.x * scale;
	out[2*i+1] = offset.y * scale;
}
`

func TestSelectDevices(t *testing.T) {
	devList, err := SelectDevices(AllDevices, "")
	if err != nil {
		t.Skipf("opencl not available: %v", err)
	}

	for _, dev := range devList {
		if dev.Speed == 0 {
			t.Fatalf("expected device %q to report a non-zero speed estimate", dev.Name)
		}
	}
}

func TestDeviceInit(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	if dev.Type.String() != "CPU" {
		t.Fatalf("expected device type to be CpuDevice; got %s", dev.Type.String())
	}

	// Initializing twice is a no-op
	if err := dev.Init(testKernelSource, ""); err != nil {
		t.Fatal(err)
	}
}

func TestDeviceBuildError(t *testing.T) {
	dev := selectCpuDevice(t)
	defer dev.Close()

	err := dev.Init("__kernel void broken(", "")
	if err == nil {
		t.Fatal("expected build to fail")
	}
	if !strings.Contains(err.Error(), "could not build kernel") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKernelErrors(t *testing.T) {
	dev := createCpuTestDevice(t)
	defer dev.Close()

	_, err := dev.Kernel("foo")
	if err == nil {
		t.Fatal("expected to get an error while trying to load an unknown kernel")
	}

	k, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer k.Release()

	if err = k.SetArgs("unsupported"); err == nil {
		t.Fatal("expected SetArgs to reject unsupported argument types")
	}
}

func TestDeviceTypeString(t *testing.T) {
	specs := map[DeviceType]string{
		CpuDevice:   "CPU",
		GpuDevice:   "GPU",
		OtherDevice: "Other",
	}
	for dt, exp := range specs {
		if dt.String() != exp {
			t.Fatalf("expected %d to stringify as %q; got %q", dt, exp, dt.String())
		}
	}
}

func selectCpuDevice(t *testing.T) *Device {
	t.Helper()
	devList, err := SelectDevices(CpuDevice, "")
	if err != nil || len(devList) == 0 {
		t.Skip("no opencl CPU device available")
	}
	return devList[0]
}

func createCpuTestDevice(t *testing.T) *Device {
	t.Helper()
	dev := selectCpuDevice(t)
	if err := dev.Init(testKernelSource, ""); err != nil {
		t.Fatalf("error initializing device '%s': %v", dev.Name, err)
	}
	return dev
}
