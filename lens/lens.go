package lens

import (
	"errors"

	"github.com/achilleasa/gravlens/types"
)

// The maximum number of lenses that can be uploaded to the evaluation stage.
const MaxLenses = 8

var (
	ErrTooManyLenses  = errors.New("lens: too many lenses")
	ErrNegativeRadius = errors.New("lens: negative einstein radius")
	ErrInvalidScale   = errors.New("lens: background scale must be positive")
	ErrInvalidAspect  = errors.New("lens: aspect ratio must be positive")
)

// A point lens.
type Lens struct {
	// Position in normalized screen space.
	Position types.Vec2

	// Deflection strength. Never negative.
	EinsteinRadius float32
}

// Set is a bounded sequence of at most MaxLenses lenses. A Set has value
// semantics: assigning it copies the lenses.
type Set struct {
	lenses [MaxLenses]Lens
	count  int
}

// Create a set from a list of lenses.
func NewSet(lenses ...Lens) (Set, error) {
	var s Set
	if len(lenses) > MaxLenses {
		return s, ErrTooManyLenses
	}
	for _, l := range lenses {
		if l.EinsteinRadius < 0 {
			return s, ErrNegativeRadius
		}
		s.lenses[s.count] = l
		s.count++
	}
	return s, nil
}

// Get the number of lenses in the set.
func (s Set) Len() int {
	return s.count
}

// Get the lens at index i. It panics if i is out of range.
func (s Set) At(i int) Lens {
	if i < 0 || i >= s.count {
		panic("lens: index out of range")
	}
	return s.lenses[i]
}

// Get a copy of the lenses as a slice.
func (s Set) Slice() []Lens {
	out := make([]Lens, s.count)
	copy(out, s.lenses[:s.count])
	return out
}

// Append a lens. Returns false if the set is full.
func (s *Set) Push(l Lens) bool {
	if s.count == MaxLenses {
		return false
	}
	s.lenses[s.count] = l
	s.count++
	return true
}

// Remove the last lens. The set never shrinks below one lens; Pop returns
// false when it refuses to remove.
func (s *Set) Pop() bool {
	if s.count <= 1 {
		return false
	}
	s.count--
	s.lenses[s.count] = Lens{}
	return true
}

// Replace the lens at index i. Returns false if i is out of range.
func (s *Set) Replace(i int, l Lens) bool {
	if i < 0 || i >= s.count {
		return false
	}
	s.lenses[i] = l
	return true
}

// Params snapshots the set into an upload block.
func (s Set) Params(backgroundScale, aspect float32) Params {
	p := Params{
		Count:           uint32(s.count),
		BackgroundScale: backgroundScale,
		Aspect:          aspect,
	}
	for i := 0; i < s.count; i++ {
		p.Positions[i] = s.lenses[i].Position
		p.Radii[i] = s.lenses[i].EinsteinRadius
	}
	return p
}
