package metrics

import (
	"time"

	"github.com/kilianp07/mccall/core/model"
)

// SolveEvent describes one run of the value iteration solver.
type SolveEvent struct {
	Beta       float64
	Alpha      float64
	C          float64
	GridSize   int
	Iterations int
	Distance   float64
	Converged  bool
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records solver activity for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// RunEvent is the full outcome of a solve followed by reservation wage
// extraction. ReservationWage is +Inf when no grid wage is acceptable.
type RunEvent struct {
	RunID                 string
	Params                model.Params
	V                     []float64
	U                     float64
	ReservationWage       float64
	AcceptanceProbability float64
	Iterations            int
	Converged             bool
	Error                 string
	Time                  time.Time
}

// RunRecorder records run outcomes.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// SweepEvent summarises a comparative statics sweep.
type SweepEvent struct {
	RunID     string
	Parameter string
	Points    int
	Failures  int
	Duration  time.Duration
	Time      time.Time
}

// SweepRecorder records sweep summaries.
type SweepRecorder interface {
	RecordSweep(ev SweepEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error { return nil }
func (NopSink) RecordRun(RunEvent) error     { return nil }
func (NopSink) RecordSweep(SweepEvent) error { return nil }
