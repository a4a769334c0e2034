package connectionmanager

import (
	"sync"

	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
)

// ConnectionManager tracks the live worker sessions
type ConnectionManager struct {
	Connections map[uuid.UUID]*Conn
	ConnMutex   sync.RWMutex
	Logger      primary.Logger
}

// Entry is one connection in a snapshot
type Entry struct {
	SessionID uuid.UUID
	Conn      *Conn
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger primary.Logger) *ConnectionManager {
	return &ConnectionManager{
		Connections: make(map[uuid.UUID]*Conn),
		Logger:      logger,
	}
}

// Register adds a session's connection
func (cm *ConnectionManager) Register(sessionID uuid.UUID, conn *Conn) {
	cm.ConnMutex.Lock()
	cm.Connections[sessionID] = conn
	cm.ConnMutex.Unlock()
}

// Remove forgets a session's connection. It does not close it.
func (cm *ConnectionManager) Remove(sessionID uuid.UUID) {
	cm.ConnMutex.Lock()
	delete(cm.Connections, sessionID)
	cm.ConnMutex.Unlock()
}

// GetConnection returns the connection for a specific session
func (cm *ConnectionManager) GetConnection(sessionID uuid.UUID) (*Conn, bool) {
	cm.ConnMutex.RLock()
	defer cm.ConnMutex.RUnlock()

	conn, exists := cm.Connections[sessionID]
	return conn, exists
}

func (cm *ConnectionManager) Count() int {
	cm.ConnMutex.RLock()
	defer cm.ConnMutex.RUnlock()
	return len(cm.Connections)
}

// Snapshot copies the live set so callers can do I/O without holding the lock
func (cm *ConnectionManager) Snapshot() []Entry {
	cm.ConnMutex.RLock()
	defer cm.ConnMutex.RUnlock()

	entries := make([]Entry, 0, len(cm.Connections))
	for id, conn := range cm.Connections {
		entries = append(entries, Entry{SessionID: id, Conn: conn})
	}
	return entries
}

// CloseAll closes every tracked connection
func (cm *ConnectionManager) CloseAll() {
	for _, e := range cm.Snapshot() {
		if err := e.Conn.Close(); err != nil {
			cm.Logger.Debug("Failed to close connection", "sessionId", e.SessionID, "error", err)
		}
	}
}
