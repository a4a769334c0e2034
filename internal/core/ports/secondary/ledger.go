package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/domain"
)

// RangeLedger keeps an audit trail of assignments and their resolution.
type RangeLedger interface {
	// SaveRun creates or updates the run summary
	SaveRun(ctx context.Context, run *domain.SearchRun) error

	// RecordRange upserts the record for (run, range)
	RecordRange(ctx context.Context, record *domain.RangeRecord) error

	// GetRecentRanges returns the latest records of a run, newest first
	GetRecentRanges(ctx context.Context, runID uuid.UUID, limit int) ([]*domain.RangeRecord, error)
}
