package search

import (
	"github.com/google/uuid"

	"gitlab.com/hashsearch.net/internal/domain"
)

type SearchResponse struct {
	RunID          uuid.UUID             `json:"run_id"`
	TargetDigest   string                `json:"target_digest"`
	CandidateWidth int                   `json:"candidate_width"`
	Outcome        domain.Outcome        `json:"outcome"`
	Stats          domain.AllocatorStats `json:"stats"`
}

type PendingResponse struct {
	Pending []domain.Range `json:"pending"`
	Count   int            `json:"count"`
}

type RangesResponse struct {
	Ranges []*domain.RangeRecord `json:"ranges"`
}
