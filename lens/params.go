package lens

import (
	"fmt"

	"github.com/achilleasa/gravlens/types"
)

// Params is the per-frame parameter block consumed by the evaluation stage.
// Slots at and beyond Count are always zero.
type Params struct {
	Positions [MaxLenses]types.Vec2
	Radii     [MaxLenses]float32
	Count     uint32

	BackgroundScale float32

	// Frame width divided by frame height.
	Aspect float32
}

// Validate checks the block before it is uploaded.
func (p Params) Validate() error {
	if p.Count > MaxLenses {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLenses, p.Count, MaxLenses)
	}
	for i := 0; i < int(p.Count); i++ {
		if p.Radii[i] < 0 {
			return fmt.Errorf("%w: lens %d has radius %f", ErrNegativeRadius, i, p.Radii[i])
		}
	}
	for i := int(p.Count); i < MaxLenses; i++ {
		if p.Radii[i] != 0 || p.Positions[i] != (types.Vec2{}) {
			return fmt.Errorf("lens: unused slot %d is not zero", i)
		}
	}
	if !(p.BackgroundScale > 0) {
		return ErrInvalidScale
	}
	if !(p.Aspect > 0) {
		return ErrInvalidAspect
	}
	return nil
}

// Flatten returns the lens arrays in the packed float32 layout used by
// device buffers: 2*MaxLenses position components followed by MaxLenses radii.
func (p Params) Flatten() (positions, radii []float32) {
	positions = make([]float32, 2*MaxLenses)
	radii = make([]float32, MaxLenses)
	for i := 0; i < MaxLenses; i++ {
		positions[2*i] = p.Positions[i][0]
		positions[2*i+1] = p.Positions[i][1]
		radii[i] = p.Radii[i]
	}
	return positions, radii
}
