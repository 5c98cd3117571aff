package geodesic

import "math"

// The slack used when comparing a shrunk step against the step floor.
const stepFloorEpsilon = 1e-14

// Step describes the result of a single stepper invocation.
type Step struct {
	// The new radius. Equal to the input radius for rejected steps.
	R float64

	// The advance in phi. Zero for rejected steps.
	DeltaPhi float64

	// The step size to use for the next invocation.
	NextH float64

	// The step-doubling error estimate (0 for fixed steps).
	Err float64

	Accepted bool

	// Set when the step was accepted only because the step floor was reached.
	Forced bool
}

// A Stepper advances a ray by one step of size h and proposes the size of
// the next step.
type Stepper interface {
	Advance(r, h float64, step StepFunc) Step
}

// StepController implements adaptive step size control using step-doubling:
// a full step of size h is compared against two half steps and the
// difference is used as the local error estimate.
type StepController struct {
	MinStep      float64
	MaxStep      float64
	Tolerance    float64
	GrowFactor   float64
	ShrinkFactor float64
}

// Create a step controller from a config.
func NewStepController(cfg Config) StepController {
	return StepController{
		MinStep:      cfg.MinStep,
		MaxStep:      cfg.MaxStep,
		Tolerance:    cfg.Tolerance,
		GrowFactor:   cfg.GrowFactor,
		ShrinkFactor: cfg.ShrinkFactor,
	}
}

// Advance estimates the local error for a step of size h and either accepts
// the finer estimate and grows h, or rejects it and shrinks h. When the
// shrunk step reaches the floor the finer estimate is accepted anyway so that
// the ray always makes progress; phi then advances by the shrunk step.
func (c StepController) Advance(r, h float64, step StepFunc) Step {
	rFull := step(r, h)
	rHalf2 := step(step(r, 0.5*h), 0.5*h)
	err := math.Abs(rHalf2 - rFull)

	if err <= c.Tolerance {
		return Step{
			R:        rHalf2,
			DeltaPhi: h,
			NextH:    math.Min(h*c.GrowFactor, c.MaxStep),
			Err:      err,
			Accepted: true,
		}
	}

	shrunk := math.Max(h*c.ShrinkFactor, c.MinStep)
	if shrunk <= c.MinStep+stepFloorEpsilon {
		return Step{
			R:        rHalf2,
			DeltaPhi: shrunk,
			NextH:    shrunk,
			Err:      err,
			Accepted: true,
			Forced:   true,
		}
	}

	return Step{
		R:     r,
		NextH: shrunk,
		Err:   err,
	}
}

// FixedStepper always accepts a single step of size h.
type FixedStepper struct{}

func (FixedStepper) Advance(r, h float64, step StepFunc) Step {
	return Step{
		R:        step(r, h),
		DeltaPhi: h,
		NextH:    h,
		Accepted: true,
	}
}
