package worker

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/domain"
)

const (
	// Workers idle for longer than this are reported inactive
	activityThreshold = 2 * time.Minute
	// Workers idle for longer than this are removed by cleanup
	inactiveCutoff = 5 * time.Minute
)

var _ IWorkerRegistryService = &WorkerRegistryService{}

// WorkerRegistryService implements the IWorkerRegistryService interface
type WorkerRegistryService struct {
	workerRepo secondary.WorkerRepository
	logger     primary.Logger
	now        func() time.Time
}

// NewWorkerRegistryService creates a new worker registry service
func NewWorkerRegistryService(workerRepo secondary.WorkerRepository, logger primary.Logger) *WorkerRegistryService {
	return &WorkerRegistryService{
		workerRepo: workerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *WorkerRegistryService) RegisterWorker(ctx context.Context, sess *domain.Session) error {
	s.logger.Info("Registering worker", "workerId", sess.ID, "address", sess.RemoteAddr, "cores", sess.Cores)

	worker := &domain.WorkerInfo{
		ID:          sess.ID.String(),
		Address:     sess.RemoteAddr,
		Cores:       sess.Cores,
		ConnectedAt: sess.ConnectedAt,
		LastSeen:    s.now(),
	}

	if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
		s.logger.Error("Failed to save worker", "error", err)
		return fmt.Errorf("failed to register worker: %w", err)
	}

	return nil
}

func (s *WorkerRegistryService) RecordAssignment(ctx context.Context, workerID string, r domain.Range) error {
	return s.update(ctx, workerID, func(w *domain.WorkerInfo) {
		w.CurrentRange = &r
	})
}

func (s *WorkerRegistryService) RecordCompletion(ctx context.Context, workerID string) error {
	return s.update(ctx, workerID, func(w *domain.WorkerInfo) {
		w.CurrentRange = nil
		w.RangesCompleted++
	})
}

func (s *WorkerRegistryService) update(ctx context.Context, workerID string, mutate func(w *domain.WorkerInfo)) error {
	worker, err := s.workerRepo.GetWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("Failed to get worker", "workerId", workerID, "error", err)
		return fmt.Errorf("failed to get worker: %w", err)
	}

	if worker == nil {
		return fmt.Errorf("worker not found: %s", workerID)
	}

	mutate(worker)
	worker.LastSeen = s.now()

	if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
		s.logger.Error("Failed to update worker", "workerId", workerID, "error", err)
		return fmt.Errorf("failed to update worker: %w", err)
	}

	return nil
}

func (s *WorkerRegistryService) UnregisterWorker(ctx context.Context, workerID string) error {
	s.logger.Debug("Unregistering worker", "workerId", workerID)

	if err := s.workerRepo.RemoveWorker(ctx, workerID); err != nil {
		return fmt.Errorf("failed to unregister worker: %w", err)
	}
	return nil
}

func (s *WorkerRegistryService) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	s.logger.Debug("Getting all workers")

	workers, err := s.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		s.logger.Error("Failed to get all workers", "error", err)
		return nil, fmt.Errorf("failed to get all workers: %w", err)
	}

	// Annotate with active status (not persisted)
	threshold := s.now().Add(-activityThreshold)
	for _, worker := range workers {
		worker.IsActive = worker.LastSeen.After(threshold)
	}

	return workers, nil
}

func (s *WorkerRegistryService) CleanupInactiveWorkers(ctx context.Context) error {
	s.logger.Debug("Cleaning up inactive workers")

	cutoffTime := s.now().Add(-inactiveCutoff)
	if err := s.workerRepo.RemoveInactiveWorkers(ctx, cutoffTime); err != nil {
		s.logger.Error("Failed to remove inactive workers", "error", err)
		return fmt.Errorf("failed to clean up inactive workers: %w", err)
	}

	return nil
}
