package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	"gitlab.com/hashsearch.net/internal/adapter/logging"
	"gitlab.com/hashsearch.net/internal/adapter/memory/rangeledger"
	"gitlab.com/hashsearch.net/internal/adapter/memory/workerport"
	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/allocator"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	searchapi "gitlab.com/hashsearch.net/internal/handlers/search"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

type fixture struct {
	handler  http.Handler
	search   *search.SearchService
	registry *worker.WorkerRegistryService
}

func newFixture(t *testing.T, jwtService primary.JWTService) *fixture {
	t.Helper()
	logger := logging.NewNopLogger()

	cfg := &config.SearchConfig{
		TargetDigest:    "827ccb0eea8a706c4c34a16891f84e7b",
		Algorithm:       "md5",
		Start:           10000,
		Ceiling:         100000,
		WorkloadPerCore: 1000,
		StopPolicy:      defs.StopPolicyBroadcast,
	}
	a, err := allocator.NewRangeAllocator(cfg.Start, cfg.Ceiling, cfg.WorkloadPerCore)
	require.NoError(t, err)
	searchSvc := search.NewSearchService(cfg, a, rangeledger.NewRangeLedger(0), logger)
	registry := worker.NewWorkerRegistryService(workerport.NewWorkerRepository(), logger)

	srv := NewServer(0, "test", *NewServiceProvider(registry, searchSvc, jwtService), logger)
	require.NoError(t, srv.Init())
	return &fixture{handler: srv.Handler(), search: searchSvc, registry: registry}
}

func (f *fixture) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	sess := domain.NewSession("127.0.0.1:1234")
	sess.Cores = 2
	require.NoError(t, f.registry.RegisterWorker(ctx, sess))
	_, err := f.search.AssignRange(ctx, sess)
	require.NoError(t, err)
	f.search.Abandon(ctx, sess)

	rec := f.get(t, "/api/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status searchapi.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, f.search.RunID(), status.RunID)
	assert.Equal(t, domain.SearchStatusSearching, status.Outcome.Status)
	assert.Equal(t, 1, status.Stats.Assigned)
	assert.Equal(t, 5, status.CandidateWidth)

	rec = f.get(t, "/api/search/pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending searchapi.PendingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, []domain.Range{{Start: 10000, End: 12000}}, pending.Pending)

	rec = f.get(t, "/api/ranges?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ranges searchapi.RangesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranges))
	require.Len(t, ranges.Ranges, 1)
	assert.Equal(t, domain.RangeStatusReclaimed, ranges.Ranges[0].Status)

	rec = f.get(t, "/api/ranges?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.get(t, "/api/workers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var workers struct {
		Workers []domain.WorkerInfo `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &workers))
	require.Len(t, workers.Workers, 1)
	assert.Equal(t, 2, workers.Workers[0].Cores)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hashsearch_search_outcome")
}

func TestAPIRequiresTokenWhenConfigured(t *testing.T) {
	jwtService := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	f := newFixture(t, jwtService)

	rec := f.get(t, "/api/search", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Contains(t, rec.Body.String(), "Authorization header missing")

	rec = f.get(t, "/api/search", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwtService.GenerateTokenHMAC(context.Background(), "HS256", map[string]interface{}{"sub": "ops"})
	require.NoError(t, err)
	rec = f.get(t, "/api/search", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// metrics stay open for scrapers
	rec = f.get(t, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
