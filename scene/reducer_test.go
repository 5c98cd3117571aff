package scene

import (
	"testing"

	"github.com/achilleasa/gravlens/lens"
	"github.com/achilleasa/gravlens/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScene(t *testing.T) {
	s := Default()
	require.Equal(t, 2, s.Lenses.Len())
	assert.Equal(t, types.XY(0.45, 0.5), s.Lenses.At(0).Position)
	assert.Equal(t, types.XY(0.55, 0.5), s.Lenses.At(1).Position)
	assert.Equal(t, float32(0.06), s.Lenses.At(0).EinsteinRadius)
	assert.Equal(t, float32(1), s.BackgroundScale)
	assert.Equal(t, Multi, s.Mode)
	assert.Equal(t, 0, s.Active)
}

func TestRemoveNeverDropsBelowOneLens(t *testing.T) {
	s := Default()
	for i := 0; i < 10; i++ {
		s = Apply(s, NewEvent(RemoveLens))
		require.GreaterOrEqual(t, s.Lenses.Len(), 1)
	}
	assert.Equal(t, 1, s.Lenses.Len())
	assert.Equal(t, 0, s.Active)
}

func TestAddNeverExceedsCapacity(t *testing.T) {
	s := Default()
	for i := 0; i < 20; i++ {
		s = Apply(s, NewEvent(AddLens))
		require.LessOrEqual(t, s.Lenses.Len(), lens.MaxLenses)
		require.Equal(t, s.Lenses.Len()-1, s.Active)
	}
	assert.Equal(t, lens.MaxLenses, s.Lenses.Len())

	added := s.Lenses.At(2)
	assert.Equal(t, types.XY(0.5, 0.5), added.Position)
	assert.Equal(t, float32(0.02), added.EinsteinRadius)
}

func TestCycleStaysInRange(t *testing.T) {
	s := Default()
	s = Apply(s, NewEvent(AddLens))
	for i := 0; i < 10; i++ {
		s = Apply(s, NewEvent(CycleActive))
		require.GreaterOrEqual(t, s.Active, 0)
		require.Less(t, s.Active, s.Lenses.Len())
	}

	s = Scene{BackgroundScale: 1}
	assert.Equal(t, 0, Apply(s, NewEvent(CycleActive)).Active)
}

func TestCycleWraps(t *testing.T) {
	s := Default()
	s = Apply(s, NewEvent(CycleActive))
	assert.Equal(t, 1, s.Active)
	s = Apply(s, NewEvent(CycleActive))
	assert.Equal(t, 0, s.Active)
}

func TestSingleModeCreatesLens(t *testing.T) {
	s := Apply(Scene{BackgroundScale: 1, Mode: Multi}, NewEvent(SelectSingle))
	require.Equal(t, 1, s.Lenses.Len())
	assert.Equal(t, Single, s.Mode)
	assert.Equal(t, types.XY(0.5, 0.5), s.Lenses.At(0).Position)
	assert.Equal(t, float32(0.05), s.Lenses.At(0).EinsteinRadius)
}

func TestModeSwitchIsIdempotent(t *testing.T) {
	once := Apply(Default(), NewEvent(SelectSingle))
	twice := Apply(once, NewEvent(SelectSingle))
	assert.Equal(t, once, twice)
	assert.Equal(t, 2, twice.Lenses.Len())

	multi := Apply(Apply(twice, NewEvent(SelectMulti)), NewEvent(SelectMulti))
	assert.Equal(t, Multi, multi.Mode)
	assert.Equal(t, 0, multi.Active)
}

func TestEditsTargetLensZeroInSingleMode(t *testing.T) {
	s := Default()
	s = Apply(s, NewEvent(CycleActive))
	require.Equal(t, 1, s.Active)

	single := Replay(s, []Event{
		NewEvent(SelectSingle),
		NewEvent(CycleActive),
		MoveEvent(MoveStep, -MoveStep),
		RadiusEvent(RadiusStep),
	})
	assert.InDelta(t, 0.46, single.Lenses.At(0).Position[0], 1e-6)
	assert.InDelta(t, 0.49, single.Lenses.At(0).Position[1], 1e-6)
	assert.InDelta(t, 0.065, single.Lenses.At(0).EinsteinRadius, 1e-6)
	assert.Equal(t, s.Lenses.At(1), single.Lenses.At(1))
}

func TestEditsTargetActiveLensInMultiMode(t *testing.T) {
	s := Replay(Default(), []Event{
		NewEvent(CycleActive),
		MoveEvent(0, MoveStep),
		RadiusEvent(-RadiusStep),
	})
	assert.Equal(t, Default().Lenses.At(0), s.Lenses.At(0))
	assert.InDelta(t, 0.51, s.Lenses.At(1).Position[1], 1e-6)
	assert.InDelta(t, 0.055, s.Lenses.At(1).EinsteinRadius, 1e-6)
}

func TestRadiusIsClampedAtZero(t *testing.T) {
	s := Default()
	for i := 0; i < 50; i++ {
		s = Apply(s, RadiusEvent(-RadiusStep))
	}
	assert.Equal(t, float32(0), s.Lenses.At(0).EinsteinRadius)
	assert.NoError(t, s.Params(1).Validate())
}

func TestBackgroundScale(t *testing.T) {
	s := Apply(Default(), ScaleEvent(ScaleStep))
	assert.InDelta(t, 1.1, s.BackgroundScale, 1e-6)

	s = Apply(s, ScaleEvent(1/ScaleStep))
	assert.InDelta(t, 1.0, s.BackgroundScale, 1e-6)

	// Non-positive factors would break the scale invariant.
	assert.Equal(t, s.BackgroundScale, Apply(s, ScaleEvent(0)).BackgroundScale)
	assert.Equal(t, s.BackgroundScale, Apply(s, ScaleEvent(-2)).BackgroundScale)
}

func TestApplyIsPure(t *testing.T) {
	s := Default()
	before := s

	_ = Apply(s, NewEvent(AddLens))
	_ = Apply(s, MoveEvent(0.1, 0.1))
	_ = Apply(s, NewEvent(RemoveLens))

	assert.Equal(t, before, s)
}

func TestSessionEventsLeaveSceneUntouched(t *testing.T) {
	s := Default()
	assert.Equal(t, s, Apply(s, NewEvent(Screenshot)))
	assert.Equal(t, s, Apply(s, NewEvent(Exit)))
}

func TestReplayIsDeterministic(t *testing.T) {
	events := []Event{
		NewEvent(AddLens),
		MoveEvent(-MoveStep, 0),
		NewEvent(CycleActive),
		RadiusEvent(RadiusStep),
		ScaleEvent(ScaleStep),
		NewEvent(RemoveLens),
	}
	assert.Equal(t, Replay(Default(), events), Replay(Default(), events))
}

func TestParamsSnapshot(t *testing.T) {
	s := Default()
	p := s.Params(4.0 / 3.0)
	require.NoError(t, p.Validate())
	assert.Equal(t, uint32(2), p.Count)
	assert.Equal(t, float32(1), p.BackgroundScale)
	assert.Equal(t, float32(0.06), p.Radii[1])

	// Later edits do not leak into an existing snapshot.
	s = Apply(s, RadiusEvent(RadiusStep))
	assert.Equal(t, float32(0.06), p.Radii[0])
}
