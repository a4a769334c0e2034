package publishers

import (
	"context"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

var _ primary.MessagePublisher = (*DigestPublisher)(nil)

// DigestPublisher opens a session by sending the target digest
type DigestPublisher struct {
	SearchService search.ISearchService
	Logger        primary.Logger
}

func NewDigestPublisher(searchService search.ISearchService, logger primary.Logger) *DigestPublisher {
	return &DigestPublisher{
		SearchService: searchService,
		Logger:        logger,
	}
}

func (p *DigestPublisher) PublishMessage(ctx context.Context, conn primary.MessageSender, sess *domain.Session) error {
	if err := conn.Send(defs.MsgDigest, []byte(p.SearchService.TargetDigest())); err != nil {
		p.Logger.Error("Failed to send target digest", "sessionId", sess.ID, "error", err)
		return err
	}

	sess.State = domain.SessionStateAwaitCapacity
	return nil
}
