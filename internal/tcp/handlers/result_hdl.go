package handlers

import (
	"context"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

var _ primary.MessageHandler = (*ResultHandler)(nil)

// ResultHandler resolves the outstanding range with the worker's answer
type ResultHandler struct {
	SearchService search.ISearchService
	WorkerService worker.IWorkerRegistryService
	Logger        primary.Logger
}

func (h *ResultHandler) HandleMessage(ctx context.Context, conn primary.MessageSender, sess *domain.Session, payload []byte) error {
	result := string(payload)
	workerID := sess.ID.String()

	if result == defs.NotFoundSentinel {
		h.SearchService.ReportNotFound(ctx, sess)
		h.completed(ctx, workerID)
		sess.State = domain.SessionStateAssign
		return nil
	}

	if err := domain.ValidateCandidate(result, h.SearchService.CandidateWidth()); err != nil {
		h.SearchService.ReportInvalid(ctx, sess, result)
		h.completed(ctx, workerID)
		if err := conn.Send(defs.MsgError, []byte(defs.ErrTextInvalidResult)); err != nil {
			return err
		}
		sess.State = domain.SessionStateAssign
		return nil
	}

	won := h.SearchService.ReportFound(ctx, sess, result)
	h.completed(ctx, workerID)
	h.Logger.Info("Worker reported a match", "sessionId", sess.ID, "candidate", result, "concluded", won)

	sess.State = domain.SessionStateTerminated
	return conn.SendStop()
}

func (h *ResultHandler) completed(ctx context.Context, workerID string) {
	if err := h.WorkerService.RecordCompletion(ctx, workerID); err != nil {
		h.Logger.Debug("Worker registry not updated", "workerId", workerID, "error", err)
	}
}
