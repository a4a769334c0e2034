package publishers

import (
	"context"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/tcp/connectionmanager"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

// StopBroadcaster sends a frame to every live session
type StopBroadcaster struct {
	ConnectionMgr *connectionmanager.ConnectionManager
	Logger        primary.Logger
}

func NewStopBroadcaster(connectionMgr *connectionmanager.ConnectionManager, logger primary.Logger) *StopBroadcaster {
	return &StopBroadcaster{
		ConnectionMgr: connectionMgr,
		Logger:        logger,
	}
}

// NotifyAll sends the frame to a snapshot of the live connections. A
// connection whose send fails is dropped from the live set; the remaining
// ones are still tried. It returns how many sends succeeded.
func (b *StopBroadcaster) NotifyAll(ctx context.Context, msgType string, payload []byte) int {
	delivered := 0
	for _, e := range b.ConnectionMgr.Snapshot() {
		if err := e.Conn.Send(msgType, payload); err != nil {
			b.Logger.Warn("Dropping unreachable session", "sessionId", e.SessionID, "error", err)
			b.ConnectionMgr.Remove(e.SessionID)
			_ = e.Conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// BroadcastStop tells every live session to stop
func (b *StopBroadcaster) BroadcastStop(ctx context.Context) int {
	n := b.NotifyAll(ctx, defs.MsgRange, []byte(defs.StopSentinel))
	b.Logger.Info("Stop broadcast", "delivered", n)
	return n
}
