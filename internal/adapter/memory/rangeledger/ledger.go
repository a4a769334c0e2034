package rangeledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/domain"
)

const defaultCapacity = 1024

var _ secondary.RangeLedger = (*RangeLedger)(nil)

type rangeKey struct {
	runID      uuid.UUID
	start, end int64
}

// RangeLedger keeps the most recent range records in memory. Once capacity
// is reached the oldest record is dropped.
type RangeLedger struct {
	mu       sync.Mutex
	capacity int
	runs     map[uuid.UUID]domain.SearchRun
	records  map[rangeKey]*domain.RangeRecord
	// order holds keys from least to most recently updated
	order []rangeKey
}

func NewRangeLedger(capacity int) *RangeLedger {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &RangeLedger{
		capacity: capacity,
		runs:     make(map[uuid.UUID]domain.SearchRun),
		records:  make(map[rangeKey]*domain.RangeRecord),
	}
}

func (l *RangeLedger) SaveRun(_ context.Context, run *domain.SearchRun) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs[run.ID] = *run
	return nil
}

// GetRun returns the stored run summary, nil when unknown
func (l *RangeLedger) GetRun(runID uuid.UUID) *domain.SearchRun {
	l.mu.Lock()
	defer l.mu.Unlock()

	run, ok := l.runs[runID]
	if !ok {
		return nil
	}
	return &run
}

func (l *RangeLedger) RecordRange(_ context.Context, record *domain.RangeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rangeKey{runID: record.RunID, start: record.Start, end: record.End}
	if _, ok := l.records[key]; ok {
		l.unlink(key)
	}

	rec := *record
	l.records[key] = &rec
	l.order = append(l.order, key)

	if len(l.order) > l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.records, oldest)
	}
	return nil
}

func (l *RangeLedger) GetRecentRanges(_ context.Context, runID uuid.UUID, limit int) ([]*domain.RangeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.RangeRecord, 0)
	for i := len(l.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		key := l.order[i]
		if key.runID != runID {
			continue
		}
		rec := *l.records[key]
		out = append(out, &rec)
	}
	return out, nil
}

func (l *RangeLedger) unlink(key rangeKey) {
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
