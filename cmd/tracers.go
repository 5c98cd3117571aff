package cmd

import (
	"fmt"
	"strings"

	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/tracer"
	"github.com/achilleasa/gravlens/tracer/cpu"
	"github.com/achilleasa/gravlens/tracer/opencl"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
)

// Create the tracer pool for lens rendering: the requested number of cpu
// tracers followed by one tracer per usable opencl device.
func setupTracers(opts renderer.Options, cpuTracers int, useOpenCL bool) []tracer.Tracer {
	tracers := make([]tracer.Tracer, 0)

	if useOpenCL {
		for idx, dev := range selectDevices(opts) {
			tracers = append(tracers, opencl.NewTracer(fmt.Sprintf("opencl-%02d (%s)", idx, dev.Name), dev))
		}
	}

	for idx := 0; idx < cpuTracers; idx++ {
		tracers = append(tracers, cpu.NewTracer(fmt.Sprintf("cpu-%02d", idx), opts.Workers))
	}

	return tracers
}

// Enumerate opencl devices, drop blacklisted ones and move the forced
// primary device (if any) to the front of the list.
func selectDevices(opts renderer.Options) []*device.Device {
	devices, err := device.SelectDevices(device.AllDevices, "")
	if err != nil {
		logger.Warningf("could not enumerate opencl devices: %s", err.Error())
		return nil
	}

	return filterDevices(devices, opts.BlackListedDevices, opts.ForcePrimaryDevice)
}

func filterDevices(devices []*device.Device, blackList []string, forcePrimary string) []*device.Device {
	filtered := make([]*device.Device, 0, len(devices))
	for _, dev := range devices {
		keep := true
		for _, text := range blackList {
			if text != "" && strings.Contains(dev.Name, text) {
				logger.Infof("skipping blacklisted device %q", dev.Name)
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, dev)
		}
	}

	if forcePrimary == "" {
		return filtered
	}
	for idx, dev := range filtered {
		if strings.Contains(dev.Name, forcePrimary) {
			filtered[0], filtered[idx] = filtered[idx], filtered[0]
			return filtered
		}
	}
	logger.Warningf("no device matches forced primary %q", forcePrimary)
	return filtered
}
