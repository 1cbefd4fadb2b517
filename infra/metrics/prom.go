package metrics

import (
	"errors"
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/mccall/core/metrics"
)

// PromSink records solver activity in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
	wage       prometheus.Gauge
	unbounded  prometheus.Gauge
	acceptance prometheus.Gauge
	sweeps     *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mccall_solves_total",
			Help: "Total number of value iteration solves",
		}, []string{"converged"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mccall_solve_iterations",
			Help:    "Bellman updates performed per solve",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mccall_solve_duration_seconds",
			Help:    "Wall time of a solve",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		wage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mccall_reservation_wage",
			Help: "Reservation wage of the last run, NaN when unbounded",
		}),
		unbounded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mccall_reservation_wage_unbounded",
			Help: "1 when no grid wage was acceptable in the last run",
		}),
		acceptance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mccall_acceptance_probability",
			Help: "Probability that an offer is accepted in the last run",
		}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mccall_sweep_points_total",
			Help: "Parameter points solved by sweeps",
		}, []string{"parameter"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mccall_sweep_failures_total",
			Help: "Sweep points that did not converge",
		}, []string{"parameter"}),
	}
	var err error
	if s.solves, err = register(reg, s.solves); err != nil {
		return nil, err
	}
	if s.iterations, err = register(reg, s.iterations); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.wage, err = register(reg, s.wage); err != nil {
		return nil, err
	}
	if s.unbounded, err = register(reg, s.unbounded); err != nil {
		return nil, err
	}
	if s.acceptance, err = register(reg, s.acceptance); err != nil {
		return nil, err
	}
	if s.sweeps, err = register(reg, s.sweeps); err != nil {
		return nil, err
	}
	if s.failures, err = register(reg, s.failures); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the solve and observes its iterations and duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(strconv.FormatBool(ev.Converged)).Inc()
	s.iterations.Observe(float64(ev.Iterations))
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordRun exposes the reservation wage and acceptance probability.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	if ev.Error != "" {
		return nil
	}
	if math.IsInf(ev.ReservationWage, 1) {
		s.wage.Set(math.NaN())
		s.unbounded.Set(1)
	} else {
		s.wage.Set(ev.ReservationWage)
		s.unbounded.Set(0)
	}
	s.acceptance.Set(ev.AcceptanceProbability)
	return nil
}

// RecordSweep counts solved and failed sweep points.
func (s *PromSink) RecordSweep(ev coremetrics.SweepEvent) error {
	s.sweeps.WithLabelValues(ev.Parameter).Add(float64(ev.Points))
	s.failures.WithLabelValues(ev.Parameter).Add(float64(ev.Failures))
	return nil
}
