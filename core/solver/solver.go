package solver

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/mccall/core/logger"
	"github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/core/model"
)

// Result is a converged pair of value functions.
type Result struct {
	// V[i] is the value of accepting Wages[i].
	V []float64
	// U is the value of being unemployed.
	U float64
	// Iterations is the number of Bellman updates performed.
	Iterations int
	// Distance is the sup-norm size of the last update.
	Distance float64
}

// Solver runs value iteration on the coupled Bellman equations
//
//	V[i] = w[i] + β((1-α)V[i] + αU)
//	U    = c + β Σ_j p[j] max(U, V[j])
//
// A Solver holds no per-solve state and may be shared between goroutines.
type Solver struct {
	opts Options
	log  logger.Logger
	sink metrics.MetricsSink
}

// New returns a Solver. Zero options take the package defaults; a nil
// logger or sink disables logging or metrics respectively.
func New(opts Options, log logger.Logger, sink metrics.MetricsSink) (*Solver, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Solver{opts: opts, log: log, sink: sink}, nil
}

// Solve is a convenience wrapper around New(opts, nil, nil).Solve(p).
func Solve(p model.Params, opts Options) (Result, error) {
	s, err := New(opts, nil, nil)
	if err != nil {
		return Result{}, err
	}
	return s.Solve(p)
}

// Options returns the effective options.
func (s *Solver) Options() Options { return s.opts }

// Solve validates p and iterates until the joint update of (V, U) is below
// the tolerance. When the iteration cap is hit the last iterate is returned
// together with a *NonConvergenceError.
func (s *Solver) Solve(p model.Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	res, converged := s.iterate(p)
	s.record(p, res, converged, time.Since(start))
	if !converged {
		s.log.Warnf("no convergence after %d iterations, distance %g", res.Iterations, res.Distance)
		return res, &NonConvergenceError{
			Iterations: res.Iterations,
			Distance:   res.Distance,
			V:          res.V,
			U:          res.U,
		}
	}
	s.log.Debugf("converged after %d iterations, distance %g", res.Iterations, res.Distance)
	return res, nil
}

func (s *Solver) iterate(p model.Params) (Result, bool) {
	n := p.N()
	vOld := make([]float64, n)
	vNew := make([]float64, n)
	best := make([]float64, n)

	// Seed with the value of a job that is never lost.
	floats.ScaleTo(vOld, 1/(1-p.Beta), p.Wages)
	uOld := p.Wages[0] / (1 - p.Beta)

	// V appears on both sides of its equation, so solve it for fixed U.
	denom := 1 - p.Beta*(1-p.Alpha)

	var dist float64
	for it := 1; it <= s.opts.MaxIterations; it++ {
		shift := p.Beta * p.Alpha * uOld
		for i, w := range p.Wages {
			vNew[i] = (w + shift) / denom
		}
		// Jacobi update: U uses the previous V.
		for j, v := range vOld {
			best[j] = math.Max(uOld, v)
		}
		uNew := p.C + p.Beta*floats.Dot(p.Probs, best)

		dist = math.Max(floats.Distance(vNew, vOld, math.Inf(1)), math.Abs(uNew-uOld))
		vOld, vNew = vNew, vOld
		uOld = uNew

		if s.opts.LogEvery > 0 && it%s.opts.LogEvery == 0 {
			s.log.Debugw("value iteration", map[string]any{
				"iteration": it,
				"distance":  dist,
				"u":         uOld,
			})
		}
		if dist < s.opts.Tolerance {
			return Result{V: vOld, U: uOld, Iterations: it, Distance: dist}, true
		}
	}
	return Result{V: vOld, U: uOld, Iterations: s.opts.MaxIterations, Distance: dist}, false
}

func (s *Solver) record(p model.Params, res Result, converged bool, d time.Duration) {
	ev := metrics.SolveEvent{
		Beta:       p.Beta,
		Alpha:      p.Alpha,
		C:          p.C,
		GridSize:   p.N(),
		Iterations: res.Iterations,
		Distance:   res.Distance,
		Converged:  converged,
		Duration:   d,
		Time:       time.Now(),
	}
	if err := s.sink.RecordSolve(ev); err != nil {
		s.log.Errorf("record solve: %v", err)
	}
}
