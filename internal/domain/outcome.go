package domain

import "time"

// SearchStatus is the process-wide state of the search.
type SearchStatus string

const (
	SearchStatusSearching SearchStatus = "searching"
	SearchStatusFound     SearchStatus = "found"
	SearchStatusExhausted SearchStatus = "exhausted"
)

// Terminal reports whether no further ranges should be handed out.
func (s SearchStatus) Terminal() bool {
	return s == SearchStatusFound || s == SearchStatusExhausted
}

// Outcome is the result of the search. It leaves SearchStatusSearching at most once.
type Outcome struct {
	Status      SearchStatus `json:"status"`
	Candidate   string       `json:"candidate,omitempty"`
	ConcludedAt *time.Time   `json:"concluded_at,omitempty"`
}
