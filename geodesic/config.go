package geodesic

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("geodesic: invalid config")

// Config describes the geometry and the integration policy for tracing
// equatorial null geodesics. Config values are passed around by value and
// never mutated after validation.
type Config struct {
	// Radius of the capture boundary (r_s).
	SchwarzschildRadius float64 `toml:"schwarzschild_radius"`

	// Radius of the observer shell where rays start (r_obs).
	ObserverRadius float64 `toml:"observer_radius"`

	// Multiplier that maps normalized screen x in [-1, 1] to an impact parameter.
	ImpactScale float64 `toml:"impact_scale"`

	// Step size policy (in radians of phi).
	InitialStep  float64 `toml:"initial_step"`
	MinStep      float64 `toml:"min_step"`
	MaxStep      float64 `toml:"max_step"`
	Tolerance    float64 `toml:"tolerance"`
	GrowFactor   float64 `toml:"grow_factor"`
	ShrinkFactor float64 `toml:"shrink_factor"`

	// Step budget per ray.
	MaxSteps int `toml:"max_steps"`

	// Floor for |b| so that L never reaches zero.
	MinImpact float64 `toml:"min_impact"`

	// A ray that climbs back above EscapeFraction * ObserverRadius after
	// sweeping more than MinEscapePhi radians is reported as escaped.
	EscapeFraction float64 `toml:"escape_fraction"`
	MinEscapePhi   float64 `toml:"min_escape_phi"`

	// Use step-doubling error control. When false every step uses InitialStep.
	Adaptive bool `toml:"adaptive"`
}

// Full returns the high quality configuration.
func Full() Config {
	return Config{
		SchwarzschildRadius: 1.0,
		ObserverRadius:      100.0,
		ImpactScale:         6.0,
		InitialStep:         0.02,
		MinStep:             1e-5,
		MaxStep:             0.1,
		Tolerance:           1e-3,
		GrowFactor:          1.5,
		ShrinkFactor:        0.5,
		MaxSteps:            200000,
		MinImpact:           1e-8,
		EscapeFraction:      0.995,
		MinEscapePhi:        0.05,
		Adaptive:            true,
	}
}

// Quick returns a preview configuration with looser tolerances and larger steps.
func Quick() Config {
	cfg := Full()
	cfg.InitialStep = 0.05
	cfg.MinStep = 1e-3
	cfg.MaxStep = 0.2
	cfg.Tolerance = 5e-3
	cfg.MaxSteps = 20000
	cfg.MinImpact = 1e-6
	return cfg
}

// Fixed returns a configuration that integrates with a constant step.
func Fixed() Config {
	cfg := Full()
	cfg.InitialStep = 0.01
	cfg.MinStep = 0.01
	cfg.MaxStep = 0.01
	cfg.MaxSteps = 20000
	cfg.MinImpact = 1e-6
	cfg.MinEscapePhi = 0.1
	cfg.Adaptive = false
	return cfg
}

// Validate checks that the config describes a usable integration setup.
func (c Config) Validate() error {
	switch {
	case c.SchwarzschildRadius <= 0:
		return fmt.Errorf("%w: schwarzschild radius must be positive", ErrInvalidConfig)
	case c.ObserverRadius <= c.SchwarzschildRadius:
		return fmt.Errorf("%w: observer radius %g must exceed schwarzschild radius %g", ErrInvalidConfig, c.ObserverRadius, c.SchwarzschildRadius)
	case c.ImpactScale <= 0:
		return fmt.Errorf("%w: impact scale must be positive", ErrInvalidConfig)
	case c.InitialStep <= 0:
		return fmt.Errorf("%w: initial step must be positive", ErrInvalidConfig)
	case c.MaxSteps <= 0:
		return fmt.Errorf("%w: step budget must be positive", ErrInvalidConfig)
	case c.MinImpact <= 0:
		return fmt.Errorf("%w: min impact must be positive", ErrInvalidConfig)
	case c.EscapeFraction <= 0 || c.EscapeFraction > 1:
		return fmt.Errorf("%w: escape fraction must be in (0, 1]", ErrInvalidConfig)
	}

	if !c.Adaptive {
		return nil
	}

	switch {
	case c.MinStep <= 0 || c.MaxStep <= 0:
		return fmt.Errorf("%w: step bounds must be positive", ErrInvalidConfig)
	case c.MinStep > c.MaxStep:
		return fmt.Errorf("%w: min step %g exceeds max step %g", ErrInvalidConfig, c.MinStep, c.MaxStep)
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidConfig)
	case c.GrowFactor < 1:
		return fmt.Errorf("%w: grow factor must be >= 1", ErrInvalidConfig)
	case c.ShrinkFactor <= 0 || c.ShrinkFactor >= 1:
		return fmt.Errorf("%w: shrink factor must be in (0, 1)", ErrInvalidConfig)
	}

	return nil
}

// Impact maps pixel column x of a frame with the given width to an impact
// parameter. Columns are sampled at their centre.
func (c Config) Impact(x, width int) float64 {
	nx := (float64(x)+0.5)/float64(width)*2.0 - 1.0
	return nx * c.ImpactScale
}
