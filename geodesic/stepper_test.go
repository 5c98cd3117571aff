package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepFor(f DerivativeFunc) StepFunc {
	return func(r, h float64) float64 {
		return RK4(r, h, f)
	}
}

func TestDerivativeTurningPoint(t *testing.T) {
	// b > r_obs: the ray never reaches the observer shell.
	assert.Equal(t, 0.0, Derivative(100, 150, 1))

	d := Derivative(100, 5, 1)
	assert.Greater(t, d, 0.0)

	// r^2/L * sqrt(1 - (1 - rs/r) L^2/r^2) evaluated by hand.
	exp := 100.0 * 100.0 / 5.0 * math.Sqrt(1.0-0.99*25.0/10000.0)
	assert.InDelta(t, exp, d, 1e-9)
}

func TestRK4(t *testing.T) {
	constant := func(float64) float64 { return 1 }
	assert.InDelta(t, 1.25, RK4(1, 0.25, constant), 1e-15)
	assert.InDelta(t, 0.75, RK4(1, -0.25, constant), 1e-15)

	exponential := func(r float64) float64 { return r }
	assert.InDelta(t, math.Exp(0.1), RK4(1, 0.1, exponential), 1e-7)
}

func TestStepControllerAccepts(t *testing.T) {
	c := StepController{MinStep: 1e-3, MaxStep: 0.6, Tolerance: 1e-6, GrowFactor: 1.5, ShrinkFactor: 0.5}
	step := c.Advance(1, 0.5, stepFor(func(float64) float64 { return 1 }))

	require.True(t, step.Accepted)
	assert.False(t, step.Forced)
	assert.Equal(t, 0.5, step.DeltaPhi)
	assert.InDelta(t, 1.5, step.R, 1e-15)
	assert.Equal(t, 0.6, step.NextH, "grown step must be capped at max step")
	assert.GreaterOrEqual(t, step.NextH, 0.5)
}

func TestStepControllerGrowsBelowCap(t *testing.T) {
	c := StepController{MinStep: 1e-3, MaxStep: 10, Tolerance: 1e-6, GrowFactor: 1.3, ShrinkFactor: 0.5}
	step := c.Advance(0, 0.1, stepFor(func(float64) float64 { return 2 }))

	require.True(t, step.Accepted)
	assert.Equal(t, 0.1, step.DeltaPhi)
	assert.InDelta(t, 0.13, step.NextH, 1e-15)
}

func TestStepControllerRejects(t *testing.T) {
	c := StepController{MinStep: 1e-6, MaxStep: 1, Tolerance: 1e-12, GrowFactor: 1.5, ShrinkFactor: 0.5}
	step := c.Advance(1, 0.5, stepFor(func(r float64) float64 { return r * r }))

	require.False(t, step.Accepted)
	assert.False(t, step.Forced)
	assert.Equal(t, 0.0, step.DeltaPhi)
	assert.Equal(t, 1.0, step.R)
	assert.Equal(t, 0.25, step.NextH)
	assert.Greater(t, step.Err, c.Tolerance)
}

func TestStepControllerForcesAcceptAtFloor(t *testing.T) {
	c := StepController{MinStep: 0.5, MaxStep: 1, Tolerance: 1e-12, GrowFactor: 1.5, ShrinkFactor: 0.5}
	step := c.Advance(1, 0.5, stepFor(func(r float64) float64 { return r * r }))

	require.True(t, step.Accepted)
	assert.True(t, step.Forced)
	assert.Equal(t, 0.5, step.DeltaPhi)
	assert.Equal(t, 0.5, step.NextH)
	assert.NotEqual(t, 1.0, step.R)
}

func TestStepControllerForcedAcceptAdvancesByShrunkStep(t *testing.T) {
	c := StepController{MinStep: 0.5, MaxStep: 1, Tolerance: 1e-12, GrowFactor: 1.5, ShrinkFactor: 0.5}
	step := c.Advance(1, 0.8, stepFor(func(r float64) float64 { return r * r }))

	require.True(t, step.Forced)
	assert.Equal(t, 0.5, step.DeltaPhi)
	assert.Equal(t, 0.5, step.NextH)
}

func TestFixedStepper(t *testing.T) {
	step := FixedStepper{}.Advance(2, 0.01, stepFor(func(float64) float64 { return -1 }))

	require.True(t, step.Accepted)
	assert.Equal(t, 0.01, step.DeltaPhi)
	assert.Equal(t, 0.01, step.NextH)
	assert.InDelta(t, 1.99, step.R, 1e-15)
}
