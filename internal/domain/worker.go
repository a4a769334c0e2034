package domain

import "time"

// WorkerInfo represents a connected worker as seen by the registry
type WorkerInfo struct {
	ID              string    `json:"id"`
	Address         string    `json:"address"`
	Cores           int       `json:"cores"`
	CurrentRange    *Range    `json:"current_range,omitempty"`
	RangesCompleted int       `json:"ranges_completed"`
	ConnectedAt     time.Time `json:"connected_at"`
	LastSeen        time.Time `json:"last_seen"`
	IsActive        bool      `json:"is_active"`
}
