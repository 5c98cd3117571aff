package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/gravlens/config"
	"github.com/achilleasa/gravlens/tracer/opencl/device"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List available opencl devices.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx, config.Default())

	platforms, err := device.GetPlatformInfo()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\nSystem provides %d opencl platform(s):\n\n", len(platforms)))
	for pIdx, platformInfo := range platforms {
		buf.WriteString(fmt.Sprintf("[Platform %02d]\n  Name    %s\n  Version %s\n  Profile %s\n  Devices %d\n\n", pIdx, platformInfo.Name, platformInfo.Version, platformInfo.Profile, len(platformInfo.Devices)))
		if len(platformInfo.Devices) == 0 {
			continue
		}

		table := tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"Device", "Name", "Type", "Speed", "fp64"})
		for dIdx, dev := range platformInfo.Devices {
			table.Append([]string{
				fmt.Sprintf("%02d", dIdx),
				dev.Name,
				dev.Type.String(),
				fmt.Sprintf("%d", dev.Speed),
				fmt.Sprintf("%t", dev.SupportsDouble()),
			})
		}
		table.Render()
		buf.WriteString("\n")
	}

	logger.Notice(buf.String())
	return nil
}
