package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is a step of the coordinator-side worker session.
type SessionState int

const (
	SessionStateInit SessionState = iota
	SessionStateAwaitCapacity
	SessionStateAssign
	SessionStateAwaitResult
	SessionStateTerminated
)

func (s SessionState) String() string {
	switch s {
	case SessionStateInit:
		return "INIT"
	case SessionStateAwaitCapacity:
		return "AWAIT_CAPACITY"
	case SessionStateAssign:
		return "ASSIGN"
	case SessionStateAwaitResult:
		return "AWAIT_RESULT"
	case SessionStateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Session is the coordinator's view of one worker connection.
type Session struct {
	ID          uuid.UUID
	RemoteAddr  string
	Cores       int
	State       SessionState
	ConnectedAt time.Time

	// Outstanding is the range most recently sent and not yet resolved.
	Outstanding *Range
}

func NewSession(remoteAddr string) *Session {
	return &Session{
		ID:          uuid.New(),
		RemoteAddr:  remoteAddr,
		State:       SessionStateInit,
		ConnectedAt: time.Now(),
	}
}

// Resolve clears the outstanding range and returns it.
func (s *Session) Resolve() (Range, bool) {
	if s.Outstanding == nil {
		return Range{}, false
	}
	r := *s.Outstanding
	s.Outstanding = nil
	return r, true
}
