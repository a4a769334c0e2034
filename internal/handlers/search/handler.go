package search

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	searchsvc "gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/handlers"
)

const (
	defaultRangeLimit = 50
	maxRangeLimit     = 1000
)

// SearchHandler exposes the state of the running search
type SearchHandler struct {
	searchService searchsvc.ISearchService
	logger        primary.Logger
}

func NewSearchHandler(searchService searchsvc.ISearchService, logger primary.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// RegisterRoutes registers the API routes for SearchHandler
func (h *SearchHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/search", h.GetSearch).Methods("GET")
	router.HandleFunc("/api/search/pending", h.GetPending).Methods("GET")
	router.HandleFunc("/api/ranges", h.GetRanges).Methods("GET")
}

// GetSearch returns the outcome and allocator statistics
func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	stats := h.searchService.Stats()
	handlers.ResponseWithJson(w, http.StatusOK, SearchResponse{
		RunID:          h.searchService.RunID(),
		TargetDigest:   h.searchService.TargetDigest(),
		CandidateWidth: h.searchService.CandidateWidth(),
		Outcome:        stats.Outcome,
		Stats:          stats,
	})
}

// GetPending returns the reclaimed ranges waiting to be reissued
func (h *SearchHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	pending := h.searchService.Stats().Pending
	handlers.ResponseWithJson(w, http.StatusOK, PendingResponse{Pending: pending, Count: len(pending)})
}

// GetRanges returns the latest ledger entries, newest first
func (h *SearchHandler) GetRanges(w http.ResponseWriter, r *http.Request) {
	limit := defaultRangeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRangeLimit {
			handlers.ResponseError(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.searchService.RecentRanges(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get ranges", "error", err)
		handlers.ResponseError(w, "Failed to get ranges", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, RangesResponse{Ranges: records})
}
