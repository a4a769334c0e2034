package publishers

import (
	"context"
	"errors"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

var _ primary.MessagePublisher = (*RangeAssignPublisher)(nil)

// RangeAssignPublisher hands the session its next range, or tells it to stop
// once the search has concluded.
type RangeAssignPublisher struct {
	SearchService search.ISearchService
	WorkerSvc     worker.IWorkerRegistryService
	Logger        primary.Logger
}

func NewRangeAssignPublisher(
	searchService search.ISearchService, workerSvc worker.IWorkerRegistryService, logger primary.Logger,
) *RangeAssignPublisher {
	return &RangeAssignPublisher{
		SearchService: searchService,
		WorkerSvc:     workerSvc,
		Logger:        logger,
	}
}

func (p *RangeAssignPublisher) PublishMessage(ctx context.Context, conn primary.MessageSender, sess *domain.Session) error {
	if p.SearchService.Outcome().Status.Terminal() {
		sess.State = domain.SessionStateTerminated
		return conn.SendStop()
	}

	r, err := p.SearchService.AssignRange(ctx, sess)
	if errors.Is(err, errs.ErrExhausted) {
		sess.State = domain.SessionStateTerminated
		return conn.SendStop()
	}
	if err != nil {
		sess.State = domain.SessionStateTerminated
		return err
	}

	if err := conn.Send(defs.MsgRange, []byte(r.String())); err != nil {
		p.Logger.Error("Failed to send range", "sessionId", sess.ID, "range", r.String(), "error", err)
		return err
	}
	sess.State = domain.SessionStateAwaitResult

	if err := p.WorkerSvc.RecordAssignment(ctx, sess.ID.String(), r); err != nil {
		p.Logger.Debug("Worker registry not updated", "sessionId", sess.ID, "error", err)
	}
	return nil
}
