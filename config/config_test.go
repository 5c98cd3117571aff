package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	specs := []struct {
		name string
		exp  geodesic.Config
	}{
		{"", geodesic.Full()},
		{"full", geodesic.Full()},
		{"Quick", geodesic.Quick()},
		{"fixed", geodesic.Fixed()},
	}

	for _, spec := range specs {
		cfg, err := Preset(spec.name)
		require.NoError(t, err, spec.name)
		assert.Equal(t, spec.exp, cfg, spec.name)
	}

	_, err := Preset("turbo")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestDecodeEmptyFile(t *testing.T) {
	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestDecodeOverridesPreset(t *testing.T) {
	src := `
[geodesic]
preset = "quick"
max_steps = 500

[output]
width = 320
height = 200
path = "out.png"
blacklist = ["Intel"]

[interactive]
frontend = "headless"
frames = 12

[log]
level = "debug"
`
	f, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	expCfg := geodesic.Quick()
	expCfg.MaxSteps = 500
	assert.Equal(t, expCfg, f.Geodesic.Config)
	assert.Equal(t, "quick", f.Geodesic.Preset)

	assert.Equal(t, renderer.Options{FrameW: 320, FrameH: 200, BlackListedDevices: []string{"Intel"}}, f.Output.Options)
	assert.Equal(t, "out.png", f.Output.Path)
	assert.Equal(t, int64(1), f.Output.Seed)

	assert.Equal(t, FrontendHeadless, f.Interactive.Frontend)
	assert.Equal(t, 12, f.Interactive.Frames)
	assert.Equal(t, "screenshot.png", f.Interactive.Screenshot)

	assert.Equal(t, log.Debug, f.LogLevel())
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[output]\nexposure = 2.0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exposure")
}

func TestDecodeValidation(t *testing.T) {
	specs := []struct {
		src string
		exp error
	}{
		{"[geodesic]\npreset = \"turbo\"\n", ErrUnknownPreset},
		{"[geodesic]\nobserver_radius = 0.5\n", geodesic.ErrInvalidConfig},
		{"[interactive]\nfrontend = \"sdl\"\n", ErrUnknownFrontend},
	}

	for _, spec := range specs {
		_, err := Decode(strings.NewReader(spec.src))
		assert.ErrorIs(t, err, spec.exp, spec.src)
	}

	_, err := Decode(strings.NewReader("[log]\nlevel = \"loud\"\n"))
	assert.Error(t, err)
}

func TestPresetFrameSizes(t *testing.T) {
	specs := []struct {
		preset string
		expW   uint32
		expH   uint32
	}{
		{"", 800, 400},
		{"full", 800, 400},
		{"quick", 200, 100},
		{"fixed", 800, 400},
	}

	for _, spec := range specs {
		w, h, err := PresetFrame(spec.preset)
		require.NoError(t, err, spec.preset)
		assert.Equal(t, spec.expW, w, spec.preset)
		assert.Equal(t, spec.expH, h, spec.preset)

		src := "[geodesic]\npreset = \"" + spec.preset + "\"\n"
		if spec.preset == "" {
			src = ""
		}
		f, err := Decode(strings.NewReader(src))
		require.NoError(t, err, spec.preset)
		require.NoError(t, f.ResolveGeodesicFrame(), spec.preset)
		assert.Equal(t, spec.expW, f.Output.FrameW, spec.preset)
		assert.Equal(t, spec.expH, f.Output.FrameH, spec.preset)
	}

	_, _, err := PresetFrame("turbo")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestExplicitFrameSizeOverridesPreset(t *testing.T) {
	f, err := Decode(strings.NewReader("[geodesic]\npreset = \"quick\"\n\n[output]\nwidth = 320\n"))
	require.NoError(t, err)
	require.NoError(t, f.ResolveGeodesicFrame())
	assert.Equal(t, uint32(320), f.Output.FrameW)
	assert.Equal(t, uint32(100), f.Output.FrameH)

	f = Default()
	f.Output.FrameH = 50
	require.NoError(t, f.ResolveGeodesicFrame())
	assert.Equal(t, uint32(800), f.Output.FrameW)
	assert.Equal(t, uint32(50), f.Output.FrameH)
}

func TestLensFrameDefaults(t *testing.T) {
	f := Default()
	require.NoError(t, f.ResolveLensFrame())
	assert.Equal(t, uint32(DefaultFrameW), f.Output.FrameW)
	assert.Equal(t, uint32(DefaultFrameH), f.Output.FrameH)

	f = Default()
	f.Output.FrameW = 64
	require.NoError(t, f.ResolveLensFrame())
	assert.Equal(t, uint32(64), f.Output.FrameW)
	assert.Equal(t, uint32(DefaultFrameH), f.Output.FrameH)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[geodesic]\npreset = \"fixed\"\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.False(t, f.Geodesic.Adaptive)
	assert.Equal(t, geodesic.Fixed(), f.Geodesic.Config)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
