package runlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/mccall/core/factory"
	"github.com/kilianp07/mccall/core/metrics"
)

// Config controls the location and rotation of the run log.
type Config struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// JSONLStore appends run records to a rotating JSONL file.
type JSONLStore struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	path string
}

// NewJSONLStore creates the parent directory and the log file if needed.
func NewJSONLStore(cfg Config) (*JSONLStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("run log path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{
		path: cfg.Path,
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		},
	}, nil
}

// Append writes rec as one JSON line.
func (s *JSONLStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.out).Encode(rec)
}

// Query returns the records of the current file matching q. Rotated backups
// are not read.
func (s *JSONLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if q.match(r) {
			res = append(res, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// RecordSolve is a no-op: bare solve events carry no outcome worth keeping.
func (s *JSONLStore) RecordSolve(metrics.SolveEvent) error { return nil }

// RecordRun appends the run outcome.
func (s *JSONLStore) RecordRun(ev metrics.RunEvent) error {
	return s.Append(context.Background(), FromRun(ev))
}

// RecordSweep appends the sweep summary.
func (s *JSONLStore) RecordSweep(ev metrics.SweepEvent) error {
	return s.Append(context.Background(), FromSweep(ev))
}

// Close flushes and closes the underlying file.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}

func init() {
	_ = metrics.RegisterMetricsSink("jsonl", func(conf map[string]any) (metrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLStore(c)
	})
}
