package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	_ "github.com/kilianp07/mccall/app/plugins"
	"github.com/kilianp07/mccall/config"
	coremetrics "github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/core/model"
	"github.com/kilianp07/mccall/core/reservation"
	"github.com/kilianp07/mccall/core/solver"
	"github.com/kilianp07/mccall/core/sweep"
	"github.com/kilianp07/mccall/infra/logger"
	"github.com/kilianp07/mccall/infra/metrics"
	"github.com/kilianp07/mccall/infra/runlog"
)

// Service wires the solver to the configured sinks and logger.
type Service struct {
	params    model.Params
	solver    *solver.Solver
	sink      coremetrics.MetricsSink
	history   *runlog.MemoryStore
	sweep     sweep.Config
	serveAddr string
	log       logger.Logger
	now       func() time.Time
}

// Run is the outcome of a single solve.
type Run struct {
	ID       string
	Params   model.Params
	Outcome  reservation.Outcome
	Summary  reservation.Summary
	Residual float64
}

// SweepRun is the outcome of a sweep.
type SweepRun struct {
	ID        string
	Parameter sweep.Parameter
	Points    []sweep.Point
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	params, err := cfg.Model.Params()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	configured, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	history := runlog.NewMemoryStore(0)
	sink := coremetrics.NewMultiSink(configured, history)
	s, err := solver.New(cfg.Solver, logger.New("solver"), sink)
	if err != nil {
		_ = closeSink(sink)
		return nil, fmt.Errorf("solver: %w", err)
	}
	return &Service{
		params:    params,
		solver:    s,
		sink:      sink,
		history:   history,
		sweep:     cfg.Sweep,
		serveAddr: cfg.Metrics.ServeAddr,
		log:       logger.New("service"),
		now:       time.Now,
	}, nil
}

// Params returns the model parameters the service solves.
func (s *Service) Params() model.Params { return s.params }

// Solve computes V, U and the reservation wage, and records the run. A
// non-converged solve is recorded and returned as an error alongside the
// partial run.
func (s *Service) Solve(ctx context.Context) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	run := &Run{ID: uuid.NewString(), Params: s.params}
	out, err := reservation.ComputeWith(s.solver, s.params)
	run.Outcome = out
	if err != nil {
		s.record(run, err)
		return run, err
	}
	if run.Summary, err = reservation.Summarize(s.params, out.V, out.U); err != nil {
		return run, err
	}
	if run.Residual, err = solver.Residual(s.params, out.V, out.U); err != nil {
		return run, err
	}
	s.log.Infof("run %s: reservation wage %g after %d iterations", run.ID, out.ReservationWage, out.Iterations)
	s.record(run, nil)
	return run, nil
}

func (s *Service) record(run *Run, err error) {
	rec, ok := s.sink.(coremetrics.RunRecorder)
	if !ok {
		return
	}
	ev := coremetrics.RunEvent{
		RunID:                 run.ID,
		Params:                run.Params,
		V:                     run.Outcome.V,
		U:                     run.Outcome.U,
		ReservationWage:       run.Outcome.ReservationWage,
		AcceptanceProbability: run.Summary.AcceptanceProbability,
		Iterations:            run.Outcome.Iterations,
		Converged:             !errors.Is(err, solver.ErrNonConvergence),
		Time:                  s.now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if rerr := rec.RecordRun(ev); rerr != nil {
		s.log.Errorf("record run: %v", rerr)
	}
}

// SweepOverrides replaces parts of the configured sweep. Zero fields keep the
// configured value.
type SweepOverrides struct {
	Parameter sweep.Parameter
	Values    []float64
	Workers   int
}

// OverrideSweep applies o to the sweep configuration.
func (s *Service) OverrideSweep(o SweepOverrides) error {
	cfg := s.sweep
	if o.Parameter != "" {
		cfg.Parameter = o.Parameter
	}
	if len(o.Values) > 0 {
		cfg.Values = append([]float64(nil), o.Values...)
	}
	if o.Workers != 0 {
		cfg.Workers = o.Workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	s.sweep = cfg
	return nil
}

// Sweep solves the model over the configured sweep values.
func (s *Service) Sweep(ctx context.Context) (*SweepRun, error) {
	if len(s.sweep.Values) == 0 {
		return nil, errors.New("sweep: no values configured")
	}
	start := s.now()
	pts, err := sweep.Run(ctx, s.solver, s.params, s.sweep)
	if err != nil {
		return nil, err
	}
	run := &SweepRun{ID: uuid.NewString(), Parameter: s.sweep.Parameter, Points: pts}
	failures := sweep.Failures(pts)
	if failures > 0 {
		s.log.Warnf("sweep %s: %d of %d points did not converge", run.ID, failures, len(pts))
	}
	if rec, ok := s.sink.(coremetrics.SweepRecorder); ok {
		ev := coremetrics.SweepEvent{
			RunID:     run.ID,
			Parameter: string(run.Parameter),
			Points:    len(pts),
			Failures:  failures,
			Duration:  s.now().Sub(start),
			Time:      s.now(),
		}
		if err := rec.RecordSweep(ev); err != nil {
			s.log.Errorf("record sweep: %v", err)
		}
	}
	return run, nil
}

// History returns the runs and sweeps recorded by this service.
func (s *Service) History(ctx context.Context, q runlog.Query) ([]runlog.Record, error) {
	return s.history.Query(ctx, q)
}

// ServeMetrics exposes Prometheus metrics until ctx is cancelled. It returns
// immediately when no serve address is configured.
func (s *Service) ServeMetrics(ctx context.Context) error {
	if s.serveAddr == "" {
		return nil
	}
	return metrics.StartPromServer(ctx, s.serveAddr, nil, s.log)
}

// Close releases resources held by the sinks.
func (s *Service) Close() error { return closeSink(s.sink) }

func closeSink(sink coremetrics.MetricsSink) error {
	var errs []error
	var visit func(coremetrics.MetricsSink)
	visit = func(ms coremetrics.MetricsSink) {
		switch v := ms.(type) {
		case *coremetrics.MultiSink:
			for _, inner := range v.Sinks {
				visit(inner)
			}
		case io.Closer:
			errs = append(errs, v.Close())
		case interface{ Close() }:
			v.Close()
		}
	}
	visit(sink)
	return errors.Join(errs...)
}
