package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/infra/logger"
)

// InfluxSink writes solver events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolve writes one solve_event point.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	p := write.NewPointWithMeasurement("solve_event").
		AddTag("converged", strconv.FormatBool(ev.Converged)).
		AddTag("grid_size", strconv.Itoa(ev.GridSize)).
		AddField("beta", ev.Beta).
		AddField("alpha", ev.Alpha).
		AddField("c", ev.C).
		AddField("iterations", ev.Iterations).
		AddField("distance", ev.Distance).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordRun writes one run_event point. Line protocol cannot carry +Inf, so
// an unbounded reservation wage is flagged by tag and the field is omitted.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	unbounded := math.IsInf(ev.ReservationWage, 1)
	p := write.NewPointWithMeasurement("run_event").
		AddTag("run_id", ev.RunID).
		AddTag("converged", strconv.FormatBool(ev.Converged)).
		AddTag("unbounded", strconv.FormatBool(unbounded)).
		AddField("beta", ev.Params.Beta).
		AddField("alpha", ev.Params.Alpha).
		AddField("c", ev.Params.C).
		AddField("u", ev.U).
		AddField("acceptance_probability", round3(ev.AcceptanceProbability)).
		AddField("iterations", ev.Iterations).
		SetTime(ev.Time)
	if !unbounded && ev.Error == "" {
		p.AddField("reservation_wage", ev.ReservationWage)
	}
	if ev.Error != "" {
		p.AddField("error", ev.Error)
	}
	return s.write(p)
}

// RecordSweep writes one sweep_event point.
func (s *InfluxSink) RecordSweep(ev coremetrics.SweepEvent) error {
	p := write.NewPointWithMeasurement("sweep_event").
		AddTag("run_id", ev.RunID).
		AddTag("parameter", ev.Parameter).
		AddField("points", ev.Points).
		AddField("failures", ev.Failures).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
