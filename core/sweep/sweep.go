package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/reservation"
	"github.com/kilianp07/mccall/core/solver"
)

// Parameter names the model parameter varied by a sweep.
type Parameter string

const (
	ParamC     Parameter = "c"
	ParamBeta  Parameter = "beta"
	ParamAlpha Parameter = "alpha"
)

// ErrUnknownParameter is returned for a parameter name outside c, beta, alpha.
var ErrUnknownParameter = errors.New("unknown sweep parameter")

// Apply returns a copy of base with the parameter set to v.
func (p Parameter) Apply(base model.Params, v float64) (model.Params, error) {
	out := base
	switch p {
	case ParamC:
		out.C = v
	case ParamBeta:
		out.Beta = v
	case ParamAlpha:
		out.Alpha = v
	default:
		return out, fmt.Errorf("%w: %q", ErrUnknownParameter, string(p))
	}
	return out, nil
}

// Config describes a sweep.
type Config struct {
	Parameter Parameter `json:"parameter" yaml:"parameter"`
	Values    []float64 `json:"values" yaml:"values"`
	// Workers bounds concurrent solves; 0 uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Parameter == "" {
		c.Parameter = ParamC
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks the parameter name and worker count.
func (c Config) Validate() error {
	if _, err := c.Parameter.Apply(model.Params{}, 0); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("sweep workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Solver is the subset of *solver.Solver used by Run.
type Solver interface {
	Solve(p model.Params) (solver.Result, error)
}

// Point is the outcome at one parameter value. Err is set when the solve
// did not converge; ReservationWage is NaN in that case.
type Point struct {
	Value           float64
	Result          solver.Result
	ReservationWage float64
	Err             error
}

// Failures counts points whose solve did not converge.
func Failures(points []Point) int {
	n := 0
	for _, p := range points {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Run solves base with cfg.Parameter set to each of cfg.Values and returns
// the points in input order. Every parameter set is validated before any
// solve starts. Non-convergence is reported per point; any other error or a
// cancelled ctx aborts the sweep.
func Run(ctx context.Context, s Solver, base model.Params, cfg Config) ([]Point, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := make([]model.Params, len(cfg.Values))
	for i, v := range cfg.Values {
		p, err := cfg.Parameter.Apply(base, v)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%v: %w", cfg.Parameter, v, err)
		}
		params[i] = p
	}

	points := make([]Point, len(params))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range params {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pt := Point{Value: cfg.Values[i], ReservationWage: math.NaN()}
			res, err := s.Solve(params[i])
			pt.Result = res
			switch {
			case errors.Is(err, solver.ErrNonConvergence):
				pt.Err = err
			case err != nil:
				return fmt.Errorf("%s=%v: %w", cfg.Parameter, cfg.Values[i], err)
			default:
				wbar, err := reservation.Wage(res.V, res.U, params[i].Wages)
				if err != nil {
					return err
				}
				pt.ReservationWage = wbar
			}
			points[i] = pt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
