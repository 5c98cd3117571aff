package scene

import (
	"fmt"

	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/types"
)

// Mode selects which lens responds to movement and strength edits.
type Mode uint8

const (
	// Edits apply to the active lens.
	Multi Mode = iota

	// Edits apply to lens 0.
	Single
)

func (m Mode) String() string {
	if m == Single {
		return "single"
	}
	return "multi"
}

// Scene holds the interactive lens configuration. Scenes are values; the
// reducer returns a modified copy and never mutates its input.
type Scene struct {
	Lenses          lens.Set
	BackgroundScale float32
	Active          int
	Mode            Mode
}

var (
	// Lenses created when entering single mode without any lenses.
	singleModeLens = lens.Lens{Position: types.XY(0.5, 0.5), EinsteinRadius: 0.05}

	// Lenses created by AddLens.
	addedLens = lens.Lens{Position: types.XY(0.5, 0.5), EinsteinRadius: 0.02}
)

// Default returns the startup scene: a symmetric binary lens.
func Default() Scene {
	lenses, _ := lens.NewSet(
		lens.Lens{Position: types.XY(0.45, 0.5), EinsteinRadius: 0.06},
		lens.Lens{Position: types.XY(0.55, 0.5), EinsteinRadius: 0.06},
	)

	return Scene{
		Lenses:          lenses,
		BackgroundScale: 1.0,
		Active:          0,
		Mode:            Multi,
	}
}

// Target returns the index of the lens that responds to edits or -1 if the
// scene has no lenses.
func (s Scene) Target() int {
	if s.Lenses.Len() == 0 {
		return -1
	}
	if s.Mode == Single {
		return 0
	}
	if s.Active < 0 || s.Active >= s.Lenses.Len() {
		return 0
	}
	return s.Active
}

// Params snapshots the scene into the per-frame upload block.
func (s Scene) Params(aspect float32) lens.Params {
	return s.Lenses.Params(s.BackgroundScale, aspect)
}

func (s Scene) String() string {
	return fmt.Sprintf("mode=%s lenses=%d active=%d bg_scale=%.3f", s.Mode, s.Lenses.Len(), s.Active, s.BackgroundScale)
}
