package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/achilleasa/gravlens/config"
	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
	"github.com/achilleasa/gravlens/session"
	"github.com/achilleasa/gravlens/tracer"
	"github.com/achilleasa/gravlens/tracer/opencl"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var ErrNoDevice = errors.New("no matching opencl device")

// Render a geodesic frame and write it to a PNG file.
func RenderGeodesic(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)
	if err = cfg.ResolveGeodesicFrame(); err != nil {
		return err
	}

	if profile := ctx.String("cpuprofile"); profile != "" {
		stop, err := startProfile(profile)
		if err != nil {
			return err
		}
		defer stop()
	}

	solver, err := geodesicSolver(ctx.String("device"), cfg)
	if err != nil {
		return err
	}

	r, err := renderer.NewGeodesic(solver, cfg.Output.Options)
	if err != nil {
		solver.Close()
		return err
	}
	defer r.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d geodesic frame (preset %q)", cfg.Output.FrameW, cfg.Output.FrameH, cfg.Geodesic.Preset)
	frame, err := r.Render(runCtx)
	if err != nil {
		return err
	}

	displayGeodesicStats(r.Stats())
	return session.PNGWriter(cfg.Output.Path)(frame)
}

// Select the column solver for the geodesic renderer.
func geodesicSolver(deviceKind string, cfg config.File) (renderer.ColumnSolver, error) {
	switch deviceKind {
	case "", "cpu":
		return renderer.NewCPUSolver(cfg.Geodesic.Config, cfg.Output.Workers)
	case "opencl":
		devices := selectDevices(cfg.Output.Options)
		if len(devices) == 0 {
			return nil, ErrNoDevice
		}
		logger.Infof("solving geodesics on %q", devices[0].Name)
		solver, err := opencl.NewGeodesicSolver(devices[0], cfg.Geodesic.Config)
		if err != nil {
			return nil, err
		}
		return solver, nil
	}
	return nil, fmt.Errorf("unsupported device %q; use cpu or opencl", deviceKind)
}

// Render a single lens frame and write it to a PNG file.
func RenderLens(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)
	if err = cfg.ResolveLensFrame(); err != nil {
		return err
	}

	sc, err := lensScene(ctx.StringSlice("lens"), ctx.Float64("scale"))
	if err != nil {
		return err
	}

	bg, err := loadBackground(cfg.Output)
	if err != nil {
		return err
	}

	tracers := setupTracers(cfg.Output.Options, max(cfg.Interactive.CPUTracers, 1), cfg.Interactive.OpenCL)
	r, err := renderer.NewLens(tracers, tracer.NaiveScheduler(), bg, cfg.Output.Options)
	if err != nil {
		return err
	}
	defer r.Close()

	frame, err := r.Render(sc.Params(cfg.Output.Aspect()))
	if err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return session.PNGWriter(cfg.Output.Path)(session.Screenshot(frame))
}

// Build the scene for an offline lens frame. Without lens definitions the
// default scene is used.
func lensScene(defs []string, scale float64) (scene.Scene, error) {
	sc := scene.Default()
	if len(defs) != 0 {
		lenses := make([]lens.Lens, 0, len(defs))
		for _, def := range defs {
			l, err := parseLens(def)
			if err != nil {
				return sc, err
			}
			lenses = append(lenses, l)
		}

		set, err := lens.NewSet(lenses...)
		if err != nil {
			return sc, err
		}
		sc.Lenses = set
	}

	if scale <= 0 {
		return sc, lens.ErrInvalidScale
	}
	sc.BackgroundScale = float32(scale)
	return sc, nil
}

func startProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err = pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	logger.Infof("writing cpu profile to %s", path)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Primary", "Block height", "% of frame", "Upload time", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.UploadTime.String(),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

func displayGeodesicStats(stats renderer.GeodesicStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Outcome", "Columns"})
	table.Append([]string{geodesic.Captured.String(), fmt.Sprintf("%d", stats.Captured)})
	table.Append([]string{geodesic.Escaped.String(), fmt.Sprintf("%d", stats.Escaped)})
	table.Append([]string{"inconclusive", fmt.Sprintf("%d", stats.Inconclusive)})
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Columns)})
	table.Render()

	buf.WriteString(fmt.Sprintf(
		"steps %d, rejected %d, forced %d; solve %s, assemble %s\n",
		stats.Steps, stats.Rejected, stats.Forced, stats.SolveTime, stats.AssembleTime,
	))
	logger.Noticef("geodesic statistics\n%s", buf.String())
}
