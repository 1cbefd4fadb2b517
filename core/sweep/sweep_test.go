package sweep

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/solver"
)

func base() model.Params {
	return model.Params{
		Beta:  0.96,
		Alpha: 0.05,
		C:     6,
		Wages: []float64{10, 12.5, 15, 17.5, 20},
		Probs: []float64{0.2, 0.2, 0.2, 0.2, 0.2},
	}
}

func newSolver(t *testing.T, opts solver.Options) *solver.Solver {
	t.Helper()
	s, err := solver.New(opts, nil, nil)
	require.NoError(t, err)
	return s
}

func TestRunCompensation(t *testing.T) {
	pts, err := Run(context.Background(), newSolver(t, solver.Options{}), base(), Config{
		Parameter: ParamC,
		Values:    []float64{0, 6, 14, 600},
		Workers:   2,
	})
	require.NoError(t, err)
	require.Len(t, pts, 4)
	want := []float64{17.5, 17.5, 20, math.Inf(1)}
	for i, p := range pts {
		assert.NoError(t, p.Err)
		assert.Equal(t, want[i], p.ReservationWage, "c=%v", p.Value)
	}
	assert.Equal(t, []float64{0, 6, 14, 600}, []float64{pts[0].Value, pts[1].Value, pts[2].Value, pts[3].Value})
	assert.Zero(t, Failures(pts))
}

func TestRunMatchesSequentialSolves(t *testing.T) {
	s := newSolver(t, solver.Options{})
	values := []float64{0.5, 0.7, 0.9, 0.95, 0.96, 0.97, 0.98}
	pts, err := Run(context.Background(), s, base(), Config{Parameter: ParamBeta, Values: values, Workers: 8})
	require.NoError(t, err)
	for i, v := range values {
		p := base()
		p.Beta = v
		res, err := s.Solve(p)
		require.NoError(t, err)
		assert.Equal(t, v, pts[i].Value)
		assert.Equal(t, res, pts[i].Result)
	}
}

type countingSolver struct {
	calls atomic.Int32
	err   error
}

func (c *countingSolver) Solve(model.Params) (solver.Result, error) {
	c.calls.Add(1)
	return solver.Result{V: []float64{0, 0, 0, 0, 0}}, c.err
}

func TestRunValidatesBeforeSolving(t *testing.T) {
	s := &countingSolver{}
	_, err := Run(context.Background(), s, base(), Config{Parameter: ParamBeta, Values: []float64{0.5, 1.0}})
	assert.True(t, errors.Is(err, model.ErrInvalidParameters))
	assert.Zero(t, s.calls.Load())

	_, err = Run(context.Background(), s, base(), Config{Parameter: "gamma", Values: []float64{1}})
	assert.True(t, errors.Is(err, ErrUnknownParameter))

	_, err = Run(context.Background(), s, base(), Config{Values: []float64{1}, Workers: -1})
	assert.Error(t, err)
}

func TestRunNonConvergencePerPoint(t *testing.T) {
	pts, err := Run(context.Background(), newSolver(t, solver.Options{MaxIterations: 3}), base(), Config{
		Parameter: ParamAlpha,
		Values:    []float64{0, 0.5, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, Failures(pts))
	for _, p := range pts {
		assert.True(t, errors.Is(p.Err, solver.ErrNonConvergence))
		assert.True(t, math.IsNaN(p.ReservationWage))
		assert.Len(t, p.Result.V, 5)
	}
}

func TestRunAbortsOnSolverError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), &countingSolver{err: boom}, base(), Config{Values: []float64{1, 2}})
	assert.ErrorIs(t, err, boom)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &countingSolver{}
	_, err := Run(ctx, s, base(), Config{Values: []float64{1, 2, 3}, Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls.Load())
}

func TestApply(t *testing.T) {
	b := base()
	p, err := ParamC.Apply(b, 9)
	require.NoError(t, err)
	assert.Equal(t, 9.0, p.C)
	assert.Equal(t, 6.0, b.C)

	p, err = ParamAlpha.Apply(b, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Alpha)
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, ParamC, c.Parameter)
	assert.Positive(t, c.Workers)
	assert.NoError(t, c.Validate())
}
