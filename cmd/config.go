package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/gravlens/asset"
	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/config"
	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/types"
	"github.com/urfave/cli"
)

// Load the preset file named by --config (if any) and apply explicitly set
// flags on top of it.
func loadConfig(ctx *cli.Context) (config.File, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("preset") {
		geoCfg, err := config.Preset(ctx.String("preset"))
		if err != nil {
			return cfg, err
		}
		cfg.Geodesic.Preset = ctx.String("preset")
		cfg.Geodesic.Config = geoCfg
	}
	if ctx.IsSet("width") {
		cfg.Output.FrameW = uint32(ctx.Int("width"))
	}
	if ctx.IsSet("height") {
		cfg.Output.FrameH = uint32(ctx.Int("height"))
	}
	if ctx.IsSet("workers") {
		cfg.Output.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("blacklist") {
		cfg.Output.BlackListedDevices = ctx.StringSlice("blacklist")
	}
	if ctx.IsSet("force-primary") {
		cfg.Output.ForcePrimaryDevice = ctx.String("force-primary")
	}
	if ctx.IsSet("out") {
		cfg.Output.Path = ctx.String("out")
	}
	if ctx.IsSet("background") {
		cfg.Output.Background = ctx.String("background")
	}
	if ctx.IsSet("seed") {
		cfg.Output.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("frontend") {
		cfg.Interactive.Frontend = ctx.String("frontend")
	}
	if ctx.IsSet("screenshot") {
		cfg.Interactive.Screenshot = ctx.String("screenshot")
	}
	if ctx.IsSet("cpu-tracers") {
		cfg.Interactive.CPUTracers = ctx.Int("cpu-tracers")
	}
	if ctx.IsSet("opencl") {
		cfg.Interactive.OpenCL = ctx.Bool("opencl")
	}
	if ctx.IsSet("frames") {
		cfg.Interactive.Frames = ctx.Int("frames")
	}

	return cfg, cfg.Validate()
}

// Load the background image named in the output section or generate a
// procedural starfield.
func loadBackground(out config.Output) (*background.Texture, error) {
	if out.Background == "" {
		logger.Infof("generating starfield background (seed %d)", out.Seed)
		return background.Starfield(background.DefaultWidth, background.DefaultHeight, out.Stars, out.Seed), nil
	}

	res, err := asset.NewResource(out.Background, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return background.Load(res, 0, 0)
}

// Parse a lens definition in "x,y,re" format.
func parseLens(def string) (lens.Lens, error) {
	tokens := strings.Split(def, ",")
	if len(tokens) != 3 {
		return lens.Lens{}, fmt.Errorf("invalid lens %q: expected x,y,re", def)
	}

	var values [3]float32
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil {
			return lens.Lens{}, fmt.Errorf("invalid lens %q: %w", def, err)
		}
		values[i] = float32(v)
	}

	return lens.Lens{Position: types.XY(values[0], values[1]), EinsteinRadius: values[2]}, nil
}
