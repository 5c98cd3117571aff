package main

import (
	"os"
	"runtime"

	"github.com/achilleasa/gravlens/cmd"
	"github.com/urfave/cli"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	configFlag := cli.StringFlag{
		Name:  "config, c",
		Usage: "load settings from a TOML preset file or url",
	}
	frameFlags := []cli.Flag{
		configFlag,
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width (default: 800, or the geodesic preset width)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height (default: 600, or the geodesic preset height)",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of host worker goroutines (0 = one per cpu)",
		},
		cli.StringSliceFlag{
			Name:  "blacklist, b",
			Value: &cli.StringSlice{},
			Usage: "blacklist opencl device whose names contain this value",
		},
		cli.StringFlag{
			Name:  "force-primary",
			Usage: "force a particular opencl device to be the primary device",
		},
	}
	lensFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "background",
			Usage: "background image file or url; a starfield is generated when empty",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed for the generated starfield",
		},
		cli.IntFlag{
			Name:  "cpu-tracers",
			Value: 1,
			Usage: "number of cpu tracers",
		},
		cli.BoolFlag{
			Name:  "opencl",
			Usage: "attach a tracer for each available opencl device",
		},
	}

	app := cli.NewApp()
	app.Name = "gravlens"
	app.Usage = "render gravitational lensing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: cmd.ListDevices,
		},
		{
			Name:  "render",
			Usage: "render a still frame",
			Subcommands: []cli.Command{
				{
					Name:  "geodesic",
					Usage: "render the photon sphere of a black hole by integrating null geodesics",
					Description: `
Trace one equatorial null geodesic per pixel column and colour each column by
its outcome. Captured rays are black; escaped rays sample a colour wheel using
the total swept angle.`,
					Flags: append(append([]cli.Flag{}, frameFlags...),
						cli.StringFlag{
							Name:  "preset",
							Value: "full",
							Usage: "integration preset: full, quick or fixed",
						},
						cli.StringFlag{
							Name:  "device",
							Value: "cpu",
							Usage: "geodesic solver: cpu or opencl",
						},
						cli.StringFlag{
							Name:  "cpuprofile",
							Usage: "write a cpu profile to this file",
						},
						cli.StringFlag{
							Name:  "out, o",
							Usage: "image filename for the rendered frame (default: frame.png)",
						},
					),
					Action: cmd.RenderGeodesic,
				},
				{
					Name:  "lens",
					Usage: "render a thin-lens frame",
					Flags: append(append(append([]cli.Flag{}, frameFlags...), lensFlags...),
						cli.StringSliceFlag{
							Name:  "lens, l",
							Value: &cli.StringSlice{},
							Usage: "add a lens as x,y,re in normalized coordinates",
						},
						cli.Float64Flag{
							Name:  "scale",
							Value: 1.0,
							Usage: "background scale factor",
						},
						cli.StringFlag{
							Name:  "out, o",
							Usage: "image filename for the rendered frame (default: frame.png)",
						},
					),
					Action: cmd.RenderLens,
				},
			},
		},
		{
			Name:  "interactive",
			Usage: "explore lens configurations interactively",
			Description: `
Keys: N single mode, M multi mode, C cycle active lens, +/- add or remove a
lens, arrows move, Q/E shrink or grow the Einstein radius, T/G scale the
background, S screenshot, Esc exit. Tab toggles the block overlay (glfw).`,
			Flags: append(append(append([]cli.Flag{}, frameFlags...), lensFlags...),
				cli.StringFlag{
					Name:  "frontend",
					Value: "glfw",
					Usage: "display frontend: glfw, ebiten or headless",
				},
				cli.StringFlag{
					Name:  "screenshot",
					Value: "screenshot.png",
					Usage: "image filename for screenshots",
				},
				cli.IntFlag{
					Name:  "frames",
					Usage: "stop the headless frontend after this many frames",
				},
			),
			Action: cmd.RunInteractive,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
