package secondary

import (
	"context"
	"time"

	"gitlab.com/hashsearch.net/internal/domain"
)

type WorkerRepository interface {
	// SaveWorker saves worker information
	SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error

	// GetWorker retrieves worker information by ID, nil when unknown
	GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error)

	// RemoveWorker deletes a worker record
	RemoveWorker(ctx context.Context, workerID string) error

	// RemoveInactiveWorkers removes workers not seen since cutoffTime
	RemoveInactiveWorkers(ctx context.Context, cutoffTime time.Time) error

	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)
}
