package workerport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/domain"
)

func TestWorkerRepository(t *testing.T) {
	ctx := context.Background()
	r := NewWorkerRepository()
	now := time.Now()

	require.NoError(t, r.SaveWorker(ctx, &domain.WorkerInfo{ID: "b", ConnectedAt: now.Add(time.Second), LastSeen: now}))
	require.NoError(t, r.SaveWorker(ctx, &domain.WorkerInfo{ID: "a", ConnectedAt: now, LastSeen: now.Add(-time.Hour)}))

	w, err := r.GetWorker(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, w)
	w.Cores = 99

	stored, _ := r.GetWorker(ctx, "a")
	assert.Zero(t, stored.Cores, "returned records must be copies")

	missing, err := r.GetWorker(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := r.GetAllWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)

	require.NoError(t, r.RemoveInactiveWorkers(ctx, now.Add(-time.Minute)))
	all, _ = r.GetAllWorkers(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)

	require.NoError(t, r.RemoveWorker(ctx, "b"))
	all, _ = r.GetAllWorkers(ctx)
	assert.Empty(t, all)
}
