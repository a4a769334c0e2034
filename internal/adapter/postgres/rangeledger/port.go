// Package rangeledger stores the range audit trail in PostgreSQL
package rangeledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/domain"
	querybuilder "gitlab.com/hashsearch.net/internal/utils"
)

var _ secondary.RangeLedger = (*RangeLedger)(nil)

// RangeLedger implements the RangeLedger interface with PostgreSQL
type RangeLedger struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewRangeLedger creates a new PostgreSQL range ledger
func NewRangeLedger(db *sqlx.DB, logger primary.Logger, schema string) *RangeLedger {
	return &RangeLedger{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// EnsureSchema creates the ledger tables when missing
func (r *RangeLedger) EnsureSchema(ctx context.Context) error {
	runTbl := domain.GetSearchRunTable()
	rangeTbl := domain.GetRangeTable()

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			id UUID PRIMARY KEY,
			target_digest TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			base BIGINT NOT NULL,
			ceiling BIGINT NOT NULL,
			status TEXT NOT NULL,
			candidate TEXT,
			started_at TIMESTAMPTZ NOT NULL,
			concluded_at TIMESTAMPTZ
		)`, r.schema, runTbl.TableName()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			run_id UUID NOT NULL REFERENCES %s.%s (id),
			session_id UUID NOT NULL,
			range_start BIGINT NOT NULL,
			range_end BIGINT NOT NULL,
			status TEXT NOT NULL,
			candidate TEXT,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, range_start, range_end)
		)`, r.schema, rangeTbl.TableName(), r.schema, runTbl.TableName()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_updated_idx ON %s.%s (run_id, updated_at DESC)`,
			rangeTbl.TableName(), r.schema, rangeTbl.TableName()),
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			r.logger.Error("Failed to create ledger schema", "error", err)
			return fmt.Errorf("failed to create ledger schema: %w", err)
		}
	}
	return nil
}

// SaveRun upserts the run summary
func (r *RangeLedger) SaveRun(ctx context.Context, run *domain.SearchRun) error {
	tbl := domain.GetSearchRunTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.ID, tbl.TargetDigest, tbl.Algorithm, tbl.Base, tbl.Ceiling,
			tbl.Status, tbl.Candidate, tbl.StartedAt, tbl.ConcludedAt).
		Into(tbl.TableName()).
		Values(run.ID, run.TargetDigest, run.Algorithm, run.Base, run.Ceiling,
			run.Status, run.Candidate, run.StartedAt, run.ConcludedAt).
		OnConflict(tbl.ID).
		SetExclude(tbl.Status, tbl.Candidate, tbl.ConcludedAt).
		Build()

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to save search run", "runId", run.ID, "error", err)
		return fmt.Errorf("failed to save search run: %w", err)
	}
	return nil
}

// RecordRange upserts the record for (run, range)
func (r *RangeLedger) RecordRange(ctx context.Context, record *domain.RangeRecord) error {
	tbl := domain.GetRangeTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.RunID, tbl.SessionID, tbl.Start, tbl.End, tbl.Status, tbl.Candidate, tbl.UpdatedAt).
		Into(tbl.TableName()).
		Values(record.RunID, record.SessionID, record.Start, record.End, record.Status, record.Candidate, record.UpdatedAt).
		OnConflict(tbl.RunID, tbl.Start, tbl.End).
		SetExclude(tbl.SessionID, tbl.Status, tbl.Candidate, tbl.UpdatedAt).
		Build()

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to record range", "start", record.Start, "end", record.End, "error", err)
		return fmt.Errorf("failed to record range: %w", err)
	}
	return nil
}

// GetRecentRanges returns the latest records of a run, newest first
func (r *RangeLedger) GetRecentRanges(ctx context.Context, runID uuid.UUID, limit int) ([]*domain.RangeRecord, error) {
	tbl := domain.GetRangeTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.RunID, tbl.SessionID, tbl.Start, tbl.End, tbl.Status, tbl.Candidate, tbl.UpdatedAt).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.RunID), runID).
		OrderBy(tbl.UpdatedAt, false).
		Limit(limit).
		Build()

	records := make([]*domain.RangeRecord, 0)
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to get recent ranges", "runId", runID, "error", err)
		return nil, fmt.Errorf("failed to get recent ranges: %w", err)
	}
	return records, nil
}
