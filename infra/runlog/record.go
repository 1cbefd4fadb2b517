package runlog

import (
	"math"
	"time"

	"github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/core/model"
)

const (
	KindRun   = "run"
	KindSweep = "sweep"
)

// Record is one line of the run log.
type Record struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	Params                *model.Params `json:"params,omitempty"`
	V                     []float64     `json:"v,omitempty"`
	U                     float64       `json:"u,omitempty"`
	ReservationWage       *float64      `json:"reservation_wage,omitempty"`
	Unbounded             bool          `json:"unbounded,omitempty"`
	AcceptanceProbability float64       `json:"acceptance_probability,omitempty"`
	Iterations            int           `json:"iterations,omitempty"`
	Converged             bool          `json:"converged"`
	Error                 string        `json:"error,omitempty"`

	Parameter  string  `json:"parameter,omitempty"`
	Points     int     `json:"points,omitempty"`
	Failures   int     `json:"failures,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// Wage returns the reservation wage with +Inf restored for unbounded runs.
// The second value is false when the record carries no wage.
func (r Record) Wage() (float64, bool) {
	if r.Unbounded {
		return math.Inf(1), true
	}
	if r.ReservationWage == nil {
		return 0, false
	}
	return *r.ReservationWage, true
}

// FromRun converts a run event. JSON has no infinity, so an unbounded wage is
// stored as a flag.
func FromRun(ev metrics.RunEvent) Record {
	p := ev.Params
	rec := Record{
		ID:                    ev.RunID,
		Kind:                  KindRun,
		Timestamp:             ev.Time,
		Params:                &p,
		V:                     ev.V,
		U:                     ev.U,
		AcceptanceProbability: ev.AcceptanceProbability,
		Iterations:            ev.Iterations,
		Converged:             ev.Converged,
		Error:                 ev.Error,
	}
	switch {
	case ev.Error != "":
	case math.IsInf(ev.ReservationWage, 1):
		rec.Unbounded = true
	default:
		w := ev.ReservationWage
		rec.ReservationWage = &w
	}
	return rec
}

// FromSweep converts a sweep summary.
func FromSweep(ev metrics.SweepEvent) Record {
	return Record{
		ID:         ev.RunID,
		Kind:       KindSweep,
		Timestamp:  ev.Time,
		Parameter:  ev.Parameter,
		Points:     ev.Points,
		Failures:   ev.Failures,
		Converged:  ev.Failures == 0,
		DurationMS: float64(ev.Duration.Microseconds()) / 1000,
	}
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start time.Time
	End   time.Time
	Kind  string
	ID    string
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.ID != "" && r.ID != q.ID {
		return false
	}
	return true
}
