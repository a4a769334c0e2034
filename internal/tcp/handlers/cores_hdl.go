package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/connectionmanager"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

// Implementation of message handlers
// Each handler deals with one specific message type

var _ primary.MessageHandler = (*CoresHandler)(nil)

// CoresHandler handles the capacity announcement a worker sends after the digest
type CoresHandler struct {
	WorkerService worker.IWorkerRegistryService
	Logger        primary.Logger
}

// HandleMessage implements the MessageHandler interface
func (h *CoresHandler) HandleMessage(ctx context.Context, conn primary.MessageSender, sess *domain.Session, payload []byte) error {
	cores, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil || cores < 1 {
		connectionmanager.SendErrorMessage(conn, defs.ErrTextInvalidCores)
		sess.State = domain.SessionStateTerminated
		return fmt.Errorf("%w: %w: %q", errs.ErrProtocol, errs.ErrInvalidCores, payload)
	}

	sess.Cores = cores
	sess.State = domain.SessionStateAssign

	if err := h.WorkerService.RegisterWorker(ctx, sess); err != nil {
		h.Logger.Warn("Worker registry unavailable", "sessionId", sess.ID, "error", err)
	}

	h.Logger.Info("Worker announced capacity", "sessionId", sess.ID, "remote", sess.RemoteAddr, "cores", cores)
	return nil
}
