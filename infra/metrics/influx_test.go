package metrics

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/mccall/core/metrics"
	"github.com/kilianp07/mccall/core/model"
)

type lineRecorder struct {
	mu   sync.Mutex
	body string
}

func (l *lineRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		l.mu.Lock()
		l.body = string(data)
		l.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (l *lineRecorder) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.TrimSpace(l.body)
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.SolveEvent{Beta: 0.96, Alpha: 0.05, C: 6, GridSize: 5, Iterations: 76, Distance: 8e-6, Converged: true, Duration: 2 * time.Millisecond, Time: now}
	require.NoError(t, sink.RecordSolve(ev))

	p := write.NewPointWithMeasurement("solve_event").
		AddTag("converged", "true").
		AddTag("grid_size", "5").
		AddField("beta", 0.96).
		AddField("alpha", 0.05).
		AddField("c", 6.0).
		AddField("iterations", 76).
		AddField("distance", 8e-6).
		AddField("duration_ms", 2.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	assert.Equal(t, expected, rec.get())
}

func TestInfluxSink_RecordRunUnbounded(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	ev := coremetrics.RunEvent{
		RunID:           "r1",
		Params:          model.Params{Beta: 0.96, Alpha: 0.05, C: 600},
		U:               15000,
		ReservationWage: math.Inf(1),
		Converged:       true,
		Time:            time.Now(),
	}
	require.NoError(t, sink.RecordRun(ev))
	body := rec.get()
	assert.Contains(t, body, "run_event,")
	assert.Contains(t, body, "unbounded=true")
	assert.NotContains(t, body, "reservation_wage=")

	ev.ReservationWage = 17.5
	require.NoError(t, sink.RecordRun(ev))
	assert.Contains(t, rec.get(), "reservation_wage=17.5")
}

func TestInfluxSink_RecordSweep(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	require.NoError(t, sink.RecordSweep(coremetrics.SweepEvent{RunID: "s1", Parameter: "beta", Points: 3, Time: time.Now()}))
	assert.Contains(t, rec.get(), "parameter=beta")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	assert.True(t, called)
}
