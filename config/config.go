package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/achilleasa/gravlens/asset"
	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrUnknownPreset   = errors.New("config: unknown geodesic preset")
	ErrUnknownFrontend = errors.New("config: unknown interactive frontend")
)

// Frame size for lens renders when the file and the flags leave it unset.
const (
	DefaultFrameW = 800
	DefaultFrameH = 600
)

// Supported interactive frontends.
const (
	FrontendGLFW     = "glfw"
	FrontendEbiten   = "ebiten"
	FrontendHeadless = "headless"
)

// File is the layout of a TOML preset file. Every table is optional; keys
// that are not present keep their default values.
type File struct {
	Geodesic    Geodesic    `toml:"geodesic"`
	Output      Output      `toml:"output"`
	Interactive Interactive `toml:"interactive"`
	Log         Log         `toml:"log"`
}

// Geodesic selects a named integration preset and overrides its fields.
type Geodesic struct {
	Preset string `toml:"preset"`
	geodesic.Config
}

// Output describes offline frames. A zero width or height selects the
// default of the command that renders the frame.
type Output struct {
	renderer.Options

	// Image filename for rendered frames.
	Path string `toml:"path"`

	// Background image resource. A procedural starfield is generated
	// when empty.
	Background string `toml:"background"`
	Seed       int64  `toml:"seed"`
	Stars      int    `toml:"stars"`
}

// Interactive describes the interactive session.
type Interactive struct {
	Frontend   string `toml:"frontend"`
	Screenshot string `toml:"screenshot"`

	// Number of cpu tracers to attach and whether opencl devices are used.
	CPUTracers int  `toml:"cpu_tracers"`
	OpenCL     bool `toml:"opencl"`

	// Frame limit for the headless frontend.
	Frames int `toml:"frames"`
}

type Log struct {
	Level string `toml:"level"`
}

// Preset returns the geodesic configuration registered under name.
func Preset(name string) (geodesic.Config, error) {
	switch strings.ToLower(name) {
	case "", "full":
		return geodesic.Full(), nil
	case "quick":
		return geodesic.Quick(), nil
	case "fixed":
		return geodesic.Fixed(), nil
	}
	return geodesic.Config{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
}

// PresetFrame returns the default frame size for geodesic renders with the
// named preset.
func PresetFrame(name string) (w, h uint32, err error) {
	if _, err = Preset(name); err != nil {
		return 0, 0, err
	}
	if strings.ToLower(name) == "quick" {
		return 200, 100, nil
	}
	return 800, 400, nil
}

// Default returns the configuration used when no preset file is supplied.
func Default() File {
	return File{
		Geodesic: Geodesic{
			Preset: "full",
			Config: geodesic.Full(),
		},
		Output: Output{
			Path:  "frame.png",
			Seed:  1,
			Stars: background.DefaultStars,
		},
		Interactive: Interactive{
			Frontend:   FrontendGLFW,
			Screenshot: "screenshot.png",
			CPUTracers: 1,
		},
		Log: Log{Level: "notice"},
	}
}

// Load reads a preset file from a local path or an http(s) url.
func Load(pathToFile string) (File, error) {
	res, err := asset.NewResource(pathToFile, nil)
	if err != nil {
		return File{}, err
	}
	defer res.Close()

	f, err := Decode(res)
	if err != nil {
		return File{}, fmt.Errorf("config: %s: %w", res.Path(), err)
	}
	return f, nil
}

// Decode parses a preset file. Unknown keys are rejected. The geodesic preset
// named in the file is applied first and the remaining geodesic keys
// override its fields.
func Decode(r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, err
	}

	var header struct {
		Geodesic struct {
			Preset string `toml:"preset"`
		} `toml:"geodesic"`
	}
	if err = toml.Unmarshal(data, &header); err != nil {
		return File{}, err
	}

	f := Default()
	if header.Geodesic.Preset != "" {
		if f.Geodesic.Config, err = Preset(header.Geodesic.Preset); err != nil {
			return File{}, err
		}
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&f); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return File{}, errors.New(strictErr.String())
		}
		return File{}, err
	}

	if err = f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks every table of the file.
func (f File) Validate() error {
	if err := f.Geodesic.Config.Validate(); err != nil {
		return err
	}
	switch f.Interactive.Frontend {
	case FrontendGLFW, FrontendEbiten, FrontendHeadless:
	default:
		return fmt.Errorf("%w %q", ErrUnknownFrontend, f.Interactive.Frontend)
	}
	if _, err := log.ParseLevel(f.Log.Level); err != nil {
		return err
	}
	return nil
}

// ResolveFrame fills unset frame dimensions with w and h and validates the
// result.
func (f *File) ResolveFrame(w, h uint32) error {
	if f.Output.FrameW == 0 {
		f.Output.FrameW = w
	}
	if f.Output.FrameH == 0 {
		f.Output.FrameH = h
	}
	return f.Output.Options.Validate()
}

// ResolveGeodesicFrame fills unset frame dimensions with the default size of
// the selected geodesic preset.
func (f *File) ResolveGeodesicFrame() error {
	w, h, err := PresetFrame(f.Geodesic.Preset)
	if err != nil {
		return err
	}
	return f.ResolveFrame(w, h)
}

// ResolveLensFrame fills unset frame dimensions with the lens defaults.
func (f *File) ResolveLensFrame() error {
	return f.ResolveFrame(DefaultFrameW, DefaultFrameH)
}

// LogLevel returns the parsed log level.
func (f File) LogLevel() log.Level {
	level, err := log.ParseLevel(f.Log.Level)
	if err != nil {
		return log.Notice
	}
	return level
}
