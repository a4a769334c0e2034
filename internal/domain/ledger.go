package domain

import (
	"time"

	"github.com/google/uuid"
)

// RangeStatus is the lifecycle state of one range assignment.
type RangeStatus string

const (
	RangeStatusAssigned  RangeStatus = "assigned"
	RangeStatusNotFound  RangeStatus = "not_found"
	RangeStatusFound     RangeStatus = "found"
	RangeStatusInvalid   RangeStatus = "invalid"
	RangeStatusReclaimed RangeStatus = "reclaimed"
)

// RangeRecord is one row of the range ledger.
type RangeRecord struct {
	RunID     uuid.UUID   `db:"run_id" json:"run_id"`
	SessionID uuid.UUID   `db:"session_id" json:"session_id"`
	Start     int64       `db:"range_start" json:"start"`
	End       int64       `db:"range_end" json:"end"`
	Status    RangeStatus `db:"status" json:"status"`
	Candidate *string     `db:"candidate" json:"candidate,omitempty"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

type RangeTable struct {
	RunID     string
	SessionID string
	Start     string
	End       string
	Status    string
	Candidate string
	UpdatedAt string
}

func GetRangeTable() RangeTable {
	return RangeTable{
		RunID:     "run_id",
		SessionID: "session_id",
		Start:     "range_start",
		End:       "range_end",
		Status:    "status",
		Candidate: "candidate",
		UpdatedAt: "updated_at",
	}
}

func (RangeTable) TableName() string {
	return "search_ranges"
}

// SearchRun is the persisted summary of one coordinator run.
type SearchRun struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	TargetDigest string       `db:"target_digest" json:"target_digest"`
	Algorithm    string       `db:"algorithm" json:"algorithm"`
	Base         int64        `db:"base" json:"base"`
	Ceiling      int64        `db:"ceiling" json:"ceiling"`
	Status       SearchStatus `db:"status" json:"status"`
	Candidate    *string      `db:"candidate" json:"candidate,omitempty"`
	StartedAt    time.Time    `db:"started_at" json:"started_at"`
	ConcludedAt  *time.Time   `db:"concluded_at" json:"concluded_at,omitempty"`
}

type SearchRunTable struct {
	ID           string
	TargetDigest string
	Algorithm    string
	Base         string
	Ceiling      string
	Status       string
	Candidate    string
	StartedAt    string
	ConcludedAt  string
}

func GetSearchRunTable() SearchRunTable {
	return SearchRunTable{
		ID:           "id",
		TargetDigest: "target_digest",
		Algorithm:    "algorithm",
		Base:         "base",
		Ceiling:      "ceiling",
		Status:       "status",
		Candidate:    "candidate",
		StartedAt:    "started_at",
		ConcludedAt:  "concluded_at",
	}
}

func (SearchRunTable) TableName() string {
	return "search_runs"
}
