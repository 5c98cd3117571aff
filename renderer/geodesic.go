package renderer

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/achilleasa/gravlens/background"
	"github.com/achilleasa/gravlens/geodesic"
	"github.com/achilleasa/gravlens/log"
	"golang.org/x/sync/errgroup"
)

// A ColumnSolver traces one ray per frame column. Every pixel of a column
// shares the same impact parameter and therefore the same outcome.
type ColumnSolver interface {
	Solve(ctx context.Context, width int) ([]geodesic.Outcome, error)
	Close()
}

type cpuSolver struct {
	integrator *geodesic.Integrator
	workers    int
}

// Create a column solver that integrates rays on the host. Columns are
// split between workers goroutines.
func NewCPUSolver(cfg geodesic.Config, workers int) (ColumnSolver, error) {
	integrator, err := geodesic.NewIntegrator(cfg)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &cpuSolver{integrator: integrator, workers: workers}, nil
}

func (s *cpuSolver) Solve(ctx context.Context, width int) ([]geodesic.Outcome, error) {
	if width <= 0 {
		return nil, ErrInvalidFrameSize
	}

	cfg := s.integrator.Config()
	outcomes := make([]geodesic.Outcome, width)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for x := 0; x < width; x++ {
		g.Go(func() error {
			if gctx.Err() != nil {
				return ErrInterrupted
			}
			outcomes[x] = s.integrator.Trace(cfg.Impact(x, width))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *cpuSolver) Close() {}

// Geodesic renders frames of a black hole seen edge-on: every column is
// coloured by the angle its ray sweeps before escaping, or black if the ray
// is captured.
type Geodesic struct {
	logger log.Logger
	solver ColumnSolver
	opts   Options
	stats  GeodesicStats
}

// Create a geodesic renderer.
func NewGeodesic(solver ColumnSolver, opts Options) (*Geodesic, error) {
	if solver == nil {
		return nil, ErrNoSolver
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &Geodesic{
		logger: log.New("geodesic renderer"),
		solver: solver,
		opts:   opts,
	}, nil
}

// Render a frame.
func (r *Geodesic) Render(ctx context.Context) (*image.RGBA, error) {
	w, h := int(r.opts.FrameW), int(r.opts.FrameH)

	start := time.Now()
	outcomes, err := r.solver.Solve(ctx, w)
	if err != nil {
		return nil, err
	}
	solveTime := time.Since(start)

	colors := make([]color.RGBA, w)
	stats := GeodesicStats{Columns: w, SolveTime: solveTime}
	for x, out := range outcomes {
		colors[x] = ColorFor(out)

		stats.Steps += out.Steps
		stats.Rejected += out.Rejected
		stats.Forced += out.Forced
		if out.Status == geodesic.Captured {
			stats.Captured++
			continue
		}
		stats.Escaped++
		if out.Inconclusive() {
			stats.Inconclusive++
		}
	}
	if stats.Inconclusive > 0 {
		r.logger.Warningf("%d columns exhausted the step budget", stats.Inconclusive)
	}

	start = time.Now()
	img, err := Raster(ctx, w, h, r.opts.Workers, func(x, _ int) color.RGBA {
		return colors[x]
	})
	if err != nil {
		return nil, err
	}
	stats.AssembleTime = time.Since(start)
	r.stats = stats

	return img, nil
}

// Get statistics for the last rendered frame.
func (r *Geodesic) Stats() GeodesicStats {
	return r.stats
}

// Release the column solver.
func (r *Geodesic) Close() {
	r.solver.Close()
}

// ColorFor maps an outcome to a pixel colour.
func ColorFor(out geodesic.Outcome) color.RGBA {
	if out.Status == geodesic.Captured {
		return background.Captured
	}
	return background.Sample(out.Phi)
}
