package allocator

import "gitlab.com/hashsearch.net/internal/domain"

// IRangeAllocator hands out disjoint ranges of the keyspace and owns the
// search outcome. All methods are safe for concurrent use.
type IRangeAllocator interface {
	// NextRange returns the oldest reclaimed range, or a fresh range sized
	// for cores. It returns errs.ErrExhausted when the fresh range would
	// start above the ceiling and nothing is pending.
	NextRange(cores int) (domain.Range, error)

	// Resolve marks an issued range as answered. It returns false when r
	// was not outstanding.
	Resolve(r domain.Range) bool

	// Reclaim queues a range whose worker went away without resolving it.
	// A range overlapping one already pending is rejected.
	Reclaim(r domain.Range) error

	// MarkFound concludes the search with candidate. Only the first
	// terminal transition returns true.
	MarkFound(candidate string) bool

	// MarkExhausted concludes the search without a match once the fresh
	// cursor passed the ceiling and no range is outstanding or pending.
	// Only the first terminal transition returns true.
	MarkExhausted() bool

	Outcome() domain.Outcome

	// Done is closed once the outcome is terminal
	Done() <-chan struct{}

	Stats() domain.AllocatorStats
}
