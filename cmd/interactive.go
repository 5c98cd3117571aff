package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/achilleasa/gravlens/config"
	"github.com/achilleasa/gravlens/display/ebitenview"
	"github.com/achilleasa/gravlens/display/glview"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
	"github.com/achilleasa/gravlens/session"
	"github.com/achilleasa/gravlens/tracer"
	"github.com/urfave/cli"
)

const windowTitle = "gravlens"

// Run an interactive lens session.
func RunInteractive(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)
	if err = cfg.ResolveLensFrame(); err != nil {
		return err
	}

	bg, err := loadBackground(cfg.Output)
	if err != nil {
		return err
	}

	opts := cfg.Output.Options
	tracers := setupTracers(opts, cfg.Interactive.CPUTracers, cfg.Interactive.OpenCL)
	r, err := renderer.NewLens(tracers, tracer.PerfectScheduler(), bg, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	var screenshot session.ScreenshotFunc
	if cfg.Interactive.Screenshot != "" {
		screenshot = session.PNGWriter(cfg.Interactive.Screenshot)
	}
	s := session.New(r, opts.Aspect(), scene.Default(), screenshot)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("starting %s session (%dx%d)", cfg.Interactive.Frontend, opts.FrameW, opts.FrameH)
	switch cfg.Interactive.Frontend {
	case config.FrontendEbiten:
		err = ebitenview.New(s, int(opts.FrameW), int(opts.FrameH)).Run(windowTitle)
	case config.FrontendHeadless:
		d := session.NewHeadless(cfg.Interactive.Frames, 0)
		defer d.Close()
		err = s.Run(runCtx, d)
		if err == nil && d.Last != nil {
			displayFrameStats(d.LastStats)
		}
	default:
		var view *glview.View
		if view, err = glview.New(opts.FrameW, opts.FrameH, windowTitle); err != nil {
			return err
		}
		defer view.Close()
		err = s.Run(runCtx, view)
	}

	if errors.Is(err, context.Canceled) {
		logger.Notice("interrupted")
		return nil
	}
	return err
}
