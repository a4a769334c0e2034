package primary

import (
	"context"

	"gitlab.com/hashsearch.net/internal/domain"
)

// MessageSender writes frames to one worker connection
type MessageSender interface {
	Send(msgType string, payload []byte) error
	// SendStop sends the stop sentinel; repeated calls are no-ops.
	SendStop() error
	RemoteAddr() string
}

// MessageHandler defines an interface for handling different message types
type MessageHandler interface {
	HandleMessage(ctx context.Context, conn MessageSender, sess *domain.Session, payload []byte) error
}

type MessagePublisher interface {
	PublishMessage(ctx context.Context, conn MessageSender, sess *domain.Session) error
}
