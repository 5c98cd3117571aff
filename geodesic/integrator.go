package geodesic

import (
	"math"
)

type Status uint8

const (
	Escaped Status = iota
	Captured
)

func (s Status) String() string {
	if s == Captured {
		return "captured"
	}
	return "escaped"
}

// Reason records which termination condition ended a trace. It is a
// diagnostic only; callers should branch on Outcome.Status.
type Reason uint8

const (
	Horizon Reason = iota
	Invalid
	Rebound
	TurningPoint
	StepBudget
)

func (r Reason) String() string {
	switch r {
	case Horizon:
		return "horizon"
	case Invalid:
		return "invalid"
	case Rebound:
		return "rebound"
	case TurningPoint:
		return "turning point"
	case StepBudget:
		return "step budget"
	default:
		return "unknown"
	}
}

// Outcome is the result of tracing a single ray.
type Outcome struct {
	Status Status

	// Total swept angle. Only meaningful for escaped rays.
	Phi float64

	Reason   Reason
	Steps    int
	Rejected int
	Forced   int
}

// Inconclusive reports whether the ray ran out of steps before reaching a
// terminal state. Such rays are still reported as escaped.
func (o Outcome) Inconclusive() bool {
	return o.Reason == StepBudget
}

// RaySample holds the state of a ray while it is being integrated.
type RaySample struct {
	R   float64
	Phi float64
	H   float64

	// Angular momentum; always > 0.
	L float64

	Steps    int
	Rejected int
	Forced   int
}

func (rs *RaySample) finish(status Status, reason Reason) Outcome {
	return Outcome{
		Status:   status,
		Phi:      rs.Phi,
		Reason:   reason,
		Steps:    rs.Steps,
		Rejected: rs.Rejected,
		Forced:   rs.Forced,
	}
}

// Integrator traces equatorial null geodesics inwards from the observer
// shell. An Integrator is immutable and safe for concurrent use.
type Integrator struct {
	cfg     Config
	stepper Stepper
}

// Create an integrator for the given config.
func NewIntegrator(cfg Config) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var stepper Stepper = FixedStepper{}
	if cfg.Adaptive {
		stepper = NewStepController(cfg)
	}

	return &Integrator{
		cfg:     cfg,
		stepper: stepper,
	}, nil
}

// Get the integrator config.
func (in *Integrator) Config() Config {
	return in.cfg
}

// Trace integrates the ray with impact parameter b and reports whether it
// was captured or escaped. Only |b| is used; it is floored at MinImpact.
func (in *Integrator) Trace(b float64) Outcome {
	rs := in.cfg.SchwarzschildRadius
	rObs := in.cfg.ObserverRadius

	ray := RaySample{
		R: rObs,
		H: in.cfg.InitialStep,
		L: math.Max(math.Abs(b), in.cfg.MinImpact),
	}

	deriv := func(r float64) float64 {
		return Derivative(r, ray.L, rs)
	}
	// phi advances while r decreases so each step is taken with -h.
	inward := func(r, h float64) float64 {
		return RK4(r, -h, deriv)
	}

	for ray.Steps < in.cfg.MaxSteps {
		if deriv(ray.R) == 0 {
			return ray.finish(Escaped, TurningPoint)
		}

		step := in.stepper.Advance(ray.R, ray.H, inward)
		ray.Steps++
		if !step.Accepted {
			ray.Rejected++
		}
		if step.Forced {
			ray.Forced++
		}
		ray.R = step.R
		ray.Phi += step.DeltaPhi
		ray.H = step.NextH

		switch {
		case ray.R <= rs:
			return ray.finish(Captured, Horizon)
		case math.IsNaN(ray.R) || ray.R <= 0:
			return ray.finish(Captured, Invalid)
		case ray.R > in.cfg.EscapeFraction*rObs && ray.Phi > in.cfg.MinEscapePhi:
			return ray.finish(Escaped, Rebound)
		}
	}

	return ray.finish(Escaped, StepBudget)
}
