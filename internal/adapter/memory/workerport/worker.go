package workerport

import (
	"context"
	"sort"
	"sync"
	"time"

	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/domain"
)

var _ secondary.WorkerRepository = (*WorkerRepository)(nil)

// WorkerRepository keeps worker records in process memory
type WorkerRepository struct {
	mu      sync.RWMutex
	workers map[string]domain.WorkerInfo
}

func NewWorkerRepository() *WorkerRepository {
	return &WorkerRepository{
		workers: make(map[string]domain.WorkerInfo),
	}
}

func (r *WorkerRepository) SaveWorker(_ context.Context, worker *domain.WorkerInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[worker.ID] = *worker
	return nil
}

func (r *WorkerRepository) GetWorker(_ context.Context, workerID string) (*domain.WorkerInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[workerID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WorkerRepository) RemoveWorker(_ context.Context, workerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workers, workerID)
	return nil
}

func (r *WorkerRepository) RemoveInactiveWorkers(_ context.Context, cutoffTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.workers {
		if w.LastSeen.Before(cutoffTime) {
			delete(r.workers, id)
		}
	}
	return nil
}

// GetAllWorkers returns the workers ordered by connection time
func (r *WorkerRepository) GetAllWorkers(_ context.Context) ([]*domain.WorkerInfo, error) {
	r.mu.RLock()
	workers := make([]*domain.WorkerInfo, 0, len(r.workers))
	for _, w := range r.workers {
		w := w
		workers = append(workers, &w)
	}
	r.mu.RUnlock()

	sort.Slice(workers, func(i, j int) bool {
		return workers[i].ConnectedAt.Before(workers[j].ConnectedAt)
	})
	return workers, nil
}
