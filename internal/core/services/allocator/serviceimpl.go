package allocator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/metrics"
	"gitlab.com/hashsearch.net/internal/static/errs"
)

var _ IRangeAllocator = (*RangeAllocator)(nil)

// RangeAllocator partitions [base, ceiling] into ranges of
// workloadPerCore*cores candidates. Fresh ranges tile the space contiguously
// from base; reclaimed ranges are reissued first, oldest first. The search is
// exhausted only once the cursor passed the ceiling and every issued range
// has been resolved.
type RangeAllocator struct {
	mu sync.Mutex

	base            int64
	ceiling         int64
	workloadPerCore int64

	// next is the start of the next fresh range
	next     int64
	assigned []domain.Range
	pending  []domain.Range
	// outstanding holds issued ranges not yet resolved or reclaimed
	outstanding []domain.Range

	outcome domain.Outcome
	done    chan struct{}
}

// NewRangeAllocator creates an allocator whose first fresh range starts at base.
// A fresh range is issued as long as its start does not exceed ceiling.
func NewRangeAllocator(base, ceiling, workloadPerCore int64) (*RangeAllocator, error) {
	if workloadPerCore <= 0 {
		return nil, fmt.Errorf("%w: workload per core must be positive", errs.ErrInvalidConfig)
	}
	if ceiling < base {
		return nil, fmt.Errorf("%w: ceiling %d is below base %d", errs.ErrInvalidConfig, ceiling, base)
	}

	metrics.SetOutcome(string(domain.SearchStatusSearching))
	return &RangeAllocator{
		base:            base,
		ceiling:         ceiling,
		workloadPerCore: workloadPerCore,
		next:            base,
		outcome:         domain.Outcome{Status: domain.SearchStatusSearching},
		done:            make(chan struct{}),
	}, nil
}

func (a *RangeAllocator) NextRange(cores int) (domain.Range, error) {
	if cores < 1 {
		return domain.Range{}, errs.ErrInvalidCores
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.pending) > 0 {
		r := a.pending[0]
		a.pending[0] = domain.Range{}
		a.pending = a.pending[1:]
		a.outstanding = append(a.outstanding, r)
		metrics.RangesIssued.WithLabelValues("reclaimed").Inc()
		return r, nil
	}

	start := a.next
	if start > a.ceiling {
		return domain.Range{}, errs.ErrExhausted
	}
	if int64(cores) > (math.MaxInt64-start)/a.workloadPerCore {
		return domain.Range{}, fmt.Errorf("%w: %d cores overflow the keyspace", errs.ErrInvalidCores, cores)
	}

	r := domain.Range{Start: start, End: start + a.workloadPerCore*int64(cores)}
	a.assigned = append(a.assigned, r)
	a.outstanding = append(a.outstanding, r)
	a.next = r.End
	metrics.RangesIssued.WithLabelValues("fresh").Inc()
	return r, nil
}

func (a *RangeAllocator) Resolve(r domain.Range) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.release(r)
}

func (a *RangeAllocator) Reclaim(r domain.Range) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.release(r)
	for _, p := range a.pending {
		if p.Overlaps(r) {
			return fmt.Errorf("%w: %s overlaps pending range %s", errs.ErrInvalidRange, r, p)
		}
	}

	a.pending = append(a.pending, r)
	metrics.RangesReclaimed.Inc()
	return nil
}

// release drops r from the outstanding set. Callers hold a.mu.
func (a *RangeAllocator) release(r domain.Range) bool {
	for i, o := range a.outstanding {
		if o == r {
			a.outstanding = append(a.outstanding[:i], a.outstanding[i+1:]...)
			return true
		}
	}
	return false
}

func (a *RangeAllocator) MarkExhausted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.next <= a.ceiling || len(a.outstanding) > 0 || len(a.pending) > 0 {
		return false
	}
	return a.conclude(domain.SearchStatusExhausted, "")
}

func (a *RangeAllocator) MarkFound(candidate string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conclude(domain.SearchStatusFound, candidate)
}

// conclude applies the single terminal transition. Callers hold a.mu.
func (a *RangeAllocator) conclude(status domain.SearchStatus, candidate string) bool {
	if a.outcome.Status.Terminal() {
		return false
	}

	now := time.Now()
	a.outcome = domain.Outcome{Status: status, Candidate: candidate, ConcludedAt: &now}
	close(a.done)
	metrics.SetOutcome(string(status))
	return true
}

func (a *RangeAllocator) Outcome() domain.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

func (a *RangeAllocator) Done() <-chan struct{} {
	return a.done
}

func (a *RangeAllocator) Stats() domain.AllocatorStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending := make([]domain.Range, len(a.pending))
	copy(pending, a.pending)

	return domain.AllocatorStats{
		Base:            a.base,
		Ceiling:         a.ceiling,
		WorkloadPerCore: a.workloadPerCore,
		NextStart:       a.next,
		Assigned:        len(a.assigned),
		Pending:         pending,
		Outstanding:     len(a.outstanding),
		Outcome:         a.outcome,
	}
}
