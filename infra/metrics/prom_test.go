package metrics

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/solver"
)

func TestPromSink_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSolve(coremetrics.SolveEvent{Iterations: 76, Converged: true, Duration: time.Millisecond}))
	require.NoError(t, sink.RecordSolve(coremetrics.SolveEvent{Iterations: 2000, Converged: false}))

	expected := `
# HELP mccall_solves_total Total number of value iteration solves
# TYPE mccall_solves_total counter
mccall_solves_total{converged="false"} 1
mccall_solves_total{converged="true"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.solves, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.iterations))
}

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{ReservationWage: 17.5, AcceptanceProbability: 0.4, Converged: true}))
	assert.Equal(t, 17.5, testutil.ToFloat64(sink.wage))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.unbounded))
	assert.Equal(t, 0.4, testutil.ToFloat64(sink.acceptance))

	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{ReservationWage: math.Inf(1), Converged: true}))
	assert.True(t, math.IsNaN(testutil.ToFloat64(sink.wage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.unbounded))

	// failed runs leave the gauges untouched
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{ReservationWage: 3, Error: "boom"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.unbounded))
}

func TestPromSink_RecordSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordSweep(coremetrics.SweepEvent{Parameter: "c", Points: 4, Failures: 1}))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.sweeps.WithLabelValues("c")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.failures.WithLabelValues("c")))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, a.RecordSolve(coremetrics.SolveEvent{Converged: true}))
	require.NoError(t, b.RecordSolve(coremetrics.SolveEvent{Converged: true}))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.solves.WithLabelValues("true")))
}

func TestPromSink_WiredIntoSolver(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	s, err := solver.New(solver.Options{}, nil, sink)
	require.NoError(t, err)
	_, err = s.Solve(model.Default())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.solves.WithLabelValues("true")))
}
