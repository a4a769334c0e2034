package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/core/services/allocator"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/metrics"
	"gitlab.com/hashsearch.net/internal/static/errs"
)

var _ ISearchService = (*SearchService)(nil)

// SearchService implements ISearchService over a range allocator
type SearchService struct {
	runID     uuid.UUID
	cfg       *config.SearchConfig
	allocator allocator.IRangeAllocator
	ledger    secondary.RangeLedger
	logger    primary.Logger
	startedAt time.Time

	// concludeNotifier runs once, after the winning terminal transition
	concludeNotifier func(outcome domain.Outcome)
}

// NewSearchService creates a new search service
func NewSearchService(
	cfg *config.SearchConfig,
	rangeAllocator allocator.IRangeAllocator,
	ledger secondary.RangeLedger,
	logger primary.Logger,
) *SearchService {
	return &SearchService{
		runID:     uuid.New(),
		cfg:       cfg,
		allocator: rangeAllocator,
		ledger:    ledger,
		logger:    logger,
		startedAt: time.Now(),
		// Default no-op notifier
		concludeNotifier: func(domain.Outcome) {},
	}
}

// SetConcludeNotifier sets the function to call when the search concludes
func (s *SearchService) SetConcludeNotifier(notifier func(outcome domain.Outcome)) {
	if notifier != nil {
		s.concludeNotifier = notifier
	}
}

func (s *SearchService) Start(ctx context.Context) error {
	s.logger.Info("Starting search",
		"runId", s.runID,
		"algorithm", s.cfg.Algorithm,
		"target", s.cfg.TargetDigest,
		"start", s.cfg.Start,
		"ceiling", s.cfg.Ceiling,
		"workloadPerCore", s.cfg.WorkloadPerCore)

	if err := s.ledger.SaveRun(ctx, s.run(s.allocator.Outcome())); err != nil {
		return fmt.Errorf("failed to save search run: %w", err)
	}
	return nil
}

func (s *SearchService) RunID() uuid.UUID {
	return s.runID
}

func (s *SearchService) TargetDigest() string {
	return s.cfg.TargetDigest
}

func (s *SearchService) CandidateWidth() int {
	return s.cfg.ExpectedWidth()
}

func (s *SearchService) Outcome() domain.Outcome {
	return s.allocator.Outcome()
}

func (s *SearchService) Done() <-chan struct{} {
	return s.allocator.Done()
}

func (s *SearchService) AssignRange(ctx context.Context, sess *domain.Session) (domain.Range, error) {
	r, err := s.allocator.NextRange(sess.Cores)
	if errors.Is(err, errs.ErrExhausted) {
		s.tryExhaust(ctx, sess)
		return domain.Range{}, err
	}
	if err != nil {
		return domain.Range{}, err
	}

	sess.Outstanding = &r
	s.logger.Debug("Assigned range", "sessionId", sess.ID, "range", r.String())
	s.record(ctx, sess, r, domain.RangeStatusAssigned, nil)
	return r, nil
}

func (s *SearchService) ReportNotFound(ctx context.Context, sess *domain.Session) {
	metrics.ResultsTotal.WithLabelValues(string(domain.RangeStatusNotFound)).Inc()

	r, ok := sess.Resolve()
	if !ok {
		return
	}
	s.allocator.Resolve(r)
	s.record(ctx, sess, r, domain.RangeStatusNotFound, nil)
	s.tryExhaust(ctx, sess)
}

func (s *SearchService) ReportFound(ctx context.Context, sess *domain.Session, candidate string) bool {
	metrics.ResultsTotal.WithLabelValues(string(domain.RangeStatusFound)).Inc()

	if r, ok := sess.Resolve(); ok {
		s.allocator.Resolve(r)
		s.record(ctx, sess, r, domain.RangeStatusFound, &candidate)
		if n, err := strconv.ParseInt(candidate, 10, 64); err == nil && !r.Contains(n) {
			s.logger.Warn("Reported candidate lies outside the assigned range", "sessionId", sess.ID, "candidate", candidate, "range", r.String())
		}
	}

	if !s.allocator.MarkFound(candidate) {
		s.logger.Info("Match reported after the search concluded", "sessionId", sess.ID, "candidate", candidate)
		return false
	}

	s.logger.Info("Match found", "runId", s.runID, "sessionId", sess.ID, "candidate", candidate)
	s.concluded(ctx)
	return true
}

func (s *SearchService) ReportInvalid(ctx context.Context, sess *domain.Session, candidate string) {
	metrics.ResultsTotal.WithLabelValues(string(domain.RangeStatusInvalid)).Inc()
	s.logger.Warn("Rejected result", "sessionId", sess.ID, "candidate", candidate, "width", s.CandidateWidth())

	r, ok := sess.Resolve()
	if !ok {
		return
	}
	s.allocator.Resolve(r)
	s.record(ctx, sess, r, domain.RangeStatusInvalid, &candidate)
	s.tryExhaust(ctx, sess)
}

func (s *SearchService) Abandon(ctx context.Context, sess *domain.Session) {
	r, ok := sess.Resolve()
	if !ok {
		return
	}

	if err := s.allocator.Reclaim(r); err != nil {
		s.logger.Error("Failed to reclaim range", "sessionId", sess.ID, "range", r.String(), "error", err)
		s.tryExhaust(ctx, sess)
		return
	}
	s.logger.Info("Reclaimed range", "sessionId", sess.ID, "range", r.String())
	s.record(ctx, sess, r, domain.RangeStatusReclaimed, nil)
}

// tryExhaust concludes the search once the keyspace is issued and every
// range has been answered
func (s *SearchService) tryExhaust(ctx context.Context, sess *domain.Session) {
	if !s.allocator.MarkExhausted() {
		return
	}
	s.logger.Info("Search space exhausted", "runId", s.runID, "sessionId", sess.ID)
	s.concluded(ctx)
}

func (s *SearchService) Stats() domain.AllocatorStats {
	return s.allocator.Stats()
}

func (s *SearchService) RecentRanges(ctx context.Context, limit int) ([]*domain.RangeRecord, error) {
	records, err := s.ledger.GetRecentRanges(ctx, s.runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent ranges: %w", err)
	}
	return records, nil
}

func (s *SearchService) concluded(ctx context.Context) {
	outcome := s.allocator.Outcome()
	if err := s.ledger.SaveRun(ctx, s.run(outcome)); err != nil {
		s.logger.Error("Failed to save search outcome", "runId", s.runID, "error", err)
	}
	s.concludeNotifier(outcome)
}

// record writes to the ledger. Failures are logged and never affect the search.
func (s *SearchService) record(ctx context.Context, sess *domain.Session, r domain.Range, status domain.RangeStatus, candidate *string) {
	err := s.ledger.RecordRange(ctx, &domain.RangeRecord{
		RunID:     s.runID,
		SessionID: sess.ID,
		Start:     r.Start,
		End:       r.End,
		Status:    status,
		Candidate: candidate,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("Failed to record range", "range", r.String(), "status", status, "error", err)
	}
}

func (s *SearchService) run(outcome domain.Outcome) *domain.SearchRun {
	run := &domain.SearchRun{
		ID:           s.runID,
		TargetDigest: s.cfg.TargetDigest,
		Algorithm:    s.cfg.Algorithm,
		Base:         s.cfg.Start,
		Ceiling:      s.cfg.Ceiling,
		Status:       outcome.Status,
		StartedAt:    s.startedAt,
		ConcludedAt:  outcome.ConcludedAt,
	}
	if outcome.Candidate != "" {
		candidate := outcome.Candidate
		run.Candidate = &candidate
	}
	return run
}
