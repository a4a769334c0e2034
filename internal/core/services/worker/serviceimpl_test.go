package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/adapter/logging"
	"gitlab.com/hashsearch.net/internal/adapter/memory/workerport"
	"gitlab.com/hashsearch.net/internal/domain"
)

func newRegistry(now *time.Time) *WorkerRegistryService {
	s := NewWorkerRegistryService(workerport.NewWorkerRepository(), logging.NewNopLogger())
	s.now = func() time.Time { return *now }
	return s
}

func TestRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newRegistry(&now)

	sess := domain.NewSession("127.0.0.1:50000")
	sess.Cores = 4
	require.NoError(t, s.RegisterWorker(ctx, sess))

	r := domain.Range{Start: 10000, End: 14000}
	require.NoError(t, s.RecordAssignment(ctx, sess.ID.String(), r))

	workers, err := s.GetAllWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, 4, workers[0].Cores)
	assert.Equal(t, "127.0.0.1:50000", workers[0].Address)
	assert.Equal(t, &r, workers[0].CurrentRange)
	assert.True(t, workers[0].IsActive)

	require.NoError(t, s.RecordCompletion(ctx, sess.ID.String()))
	workers, err = s.GetAllWorkers(ctx)
	require.NoError(t, err)
	assert.Nil(t, workers[0].CurrentRange)
	assert.Equal(t, 1, workers[0].RangesCompleted)

	require.NoError(t, s.UnregisterWorker(ctx, sess.ID.String()))
	workers, err = s.GetAllWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestRegistryUnknownWorker(t *testing.T) {
	now := time.Now()
	s := newRegistry(&now)

	err := s.RecordCompletion(context.Background(), "missing")
	assert.ErrorContains(t, err, "worker not found")
}

func TestRegistryInactiveWorkers(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newRegistry(&now)

	sess := domain.NewSession("127.0.0.1:50001")
	sess.Cores = 1
	require.NoError(t, s.RegisterWorker(ctx, sess))

	now = now.Add(3 * time.Minute)
	workers, err := s.GetAllWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.False(t, workers[0].IsActive)

	require.NoError(t, s.CleanupInactiveWorkers(ctx))
	workers, _ = s.GetAllWorkers(ctx)
	assert.Len(t, workers, 1)

	now = now.Add(3 * time.Minute)
	require.NoError(t, s.CleanupInactiveWorkers(ctx))
	workers, _ = s.GetAllWorkers(ctx)
	assert.Empty(t, workers)
}
