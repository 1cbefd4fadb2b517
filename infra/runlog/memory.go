package runlog

import (
	"context"
	"sort"
	"sync"

	"github.com/kilianp07/mccall/core/metrics"
)

// Store persists and queries run records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
}

// DefaultMemoryLimit bounds the history kept by a MemoryStore.
const DefaultMemoryLimit = 1000

// MemoryStore keeps the most recent records in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	data  []Record
}

// NewMemoryStore returns a store holding at most limit records. A
// non-positive limit selects DefaultMemoryLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryStore{limit: limit}
}

// Append stores rec, evicting the oldest record when full.
func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if len(s.data) == s.limit {
		copy(s.data, s.data[1:])
		s.data = s.data[:len(s.data)-1]
	}
	s.data = append(s.data, rec)
	s.mu.Unlock()
	return nil
}

// Query returns matching records ordered by timestamp.
func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	res := make([]Record, 0, len(s.data))
	for _, r := range s.data {
		if q.match(r) {
			res = append(res, r)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return res, nil
}

func (s *MemoryStore) RecordSolve(metrics.SolveEvent) error { return nil }

func (s *MemoryStore) RecordRun(ev metrics.RunEvent) error {
	return s.Append(context.Background(), FromRun(ev))
}

func (s *MemoryStore) RecordSweep(ev metrics.SweepEvent) error {
	return s.Append(context.Background(), FromSweep(ev))
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*JSONLStore)(nil)
)
