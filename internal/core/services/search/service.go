package search

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/domain"
)

// ISearchService is the coordinator's view of one search run
type ISearchService interface {
	// Start persists the run summary
	Start(ctx context.Context) error

	RunID() uuid.UUID
	TargetDigest() string

	// CandidateWidth is the exact decimal width reported candidates must have
	CandidateWidth() int

	Outcome() domain.Outcome
	Done() <-chan struct{}

	// AssignRange hands the session its next range and records it as
	// outstanding. On errs.ErrExhausted the search is concluded.
	AssignRange(ctx context.Context, sess *domain.Session) (domain.Range, error)

	// ReportNotFound resolves the outstanding range without a match
	ReportNotFound(ctx context.Context, sess *domain.Session)

	// ReportFound resolves the outstanding range with a match. It returns
	// true when this report concluded the search.
	ReportFound(ctx context.Context, sess *domain.Session, candidate string) bool

	// ReportInvalid resolves the outstanding range with a rejected result
	ReportInvalid(ctx context.Context, sess *domain.Session, candidate string)

	// Abandon reclaims the outstanding range of a session that went away
	Abandon(ctx context.Context, sess *domain.Session)

	Stats() domain.AllocatorStats
	RecentRanges(ctx context.Context, limit int) ([]*domain.RangeRecord, error)
}
