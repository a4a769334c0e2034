package domain

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

// Range is a half-open interval [Start, End) of integer candidates.
type Range struct {
	Start int64 `json:"start" db:"range_start"`
	End   int64 `json:"end" db:"range_end"`
}

// NewRange validates Start < End.
func NewRange(start, end int64) (Range, error) {
	if start >= end {
		return Range{}, fmt.Errorf("%w: start %d must be below end %d", errs.ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses the wire form "<start>-<end>".
func ParseRange(s string) (Range, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", errs.ErrInvalidRange, s)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad start in %q: %w", errs.ErrInvalidRange, s, err)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad end in %q: %w", errs.ErrInvalidRange, s, err)
	}
	return NewRange(start, end)
}

// String returns the wire form of the range.
func (r Range) String() string {
	return strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10)
}

// Len is the number of candidates in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int64) bool {
	return n >= r.Start && n < r.End
}

// Overlaps reports whether the two ranges share at least one candidate.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// AllocatorStats is a point-in-time view of the range allocator.
type AllocatorStats struct {
	Base            int64   `json:"base"`
	Ceiling         int64   `json:"ceiling"`
	WorkloadPerCore int64   `json:"workload_per_core"`
	NextStart       int64   `json:"next_start"`
	Assigned        int     `json:"assigned"`
	Pending         []Range `json:"pending"`
	Outstanding     int     `json:"outstanding"`
	Outcome         Outcome `json:"outcome"`
}
