package worker

import (
	"context"

	"gitlab.com/hashsearch.net/internal/domain"
)

// IWorkerRegistryService tracks connected workers for the status API
type IWorkerRegistryService interface {
	// RegisterWorker records a worker once it has announced its cores
	RegisterWorker(ctx context.Context, sess *domain.Session) error

	// RecordAssignment stores the range a worker is currently searching
	RecordAssignment(ctx context.Context, workerID string, r domain.Range) error

	// RecordCompletion counts a resolved range and clears the current one
	RecordCompletion(ctx context.Context, workerID string) error

	// UnregisterWorker removes a worker whose session ended
	UnregisterWorker(ctx context.Context, workerID string) error

	// GetAllWorkers gets all registered workers
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)

	// CleanupInactiveWorkers removes workers that have not been seen recently
	CleanupInactiveWorkers(ctx context.Context) error
}
