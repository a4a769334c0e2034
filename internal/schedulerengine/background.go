package schedulerengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/metrics"
)

// StatsSource exposes the allocator snapshot reported by the progress task
type StatsSource interface {
	Stats() domain.AllocatorStats
}

// BackgroundEngine runs the coordinator's periodic housekeeping: pruning
// stale worker registry entries and publishing search progress.
type BackgroundEngine struct {
	cfg           *config.BackgroundConfig
	workerService worker.IWorkerRegistryService
	stats         StatsSource
	logger        primary.Logger
	wg            sync.WaitGroup
}

func NewBackgroundEngine(
	cfg *config.BackgroundConfig,
	workerService worker.IWorkerRegistryService,
	stats StatsSource,
	logger primary.Logger,
) *BackgroundEngine {
	return &BackgroundEngine{
		cfg:           cfg,
		workerService: workerService,
		stats:         stats,
		logger:        logger,
	}
}

// Start launches the periodic tasks; they run until ctx is cancelled
func (e *BackgroundEngine) Start(ctx context.Context) {
	e.every(ctx, e.cfg.WorkerCleanupInterval, e.CleanupWorkers)
	e.every(ctx, e.cfg.ProgressInterval, e.ReportProgress)
}

// Wait blocks until every task started by Start has returned
func (e *BackgroundEngine) Wait() {
	e.wg.Wait()
}

func (e *BackgroundEngine) every(ctx context.Context, interval time.Duration, task func(ctx context.Context)) {
	if interval <= 0 {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				task(ctx)
			}
		}
	}()
}

// CleanupWorkers removes registry entries that stopped updating
func (e *BackgroundEngine) CleanupWorkers(ctx context.Context) {
	if err := e.workerService.CleanupInactiveWorkers(ctx); err != nil {
		e.logger.Error("Failed to clean up inactive workers", "error", err)
	}
}

// ReportProgress logs the allocator snapshot and refreshes the progress gauges
func (e *BackgroundEngine) ReportProgress(_ context.Context) {
	stats := e.stats.Stats()
	ratio := progress(stats)

	metrics.PendingRanges.Set(float64(len(stats.Pending)))
	metrics.KeyspaceProgress.Set(ratio)

	e.logger.Info("Search progress",
		"status", stats.Outcome.Status,
		"nextStart", stats.NextStart,
		"assigned", stats.Assigned,
		"pending", len(stats.Pending),
		"outstanding", stats.Outstanding,
		"progress", ratio)
}

// progress is the fraction of [base, ceiling] already issued as fresh ranges
func progress(stats domain.AllocatorStats) float64 {
	total := stats.Ceiling - stats.Base + 1
	if total <= 0 {
		return 1
	}

	issued := stats.NextStart - stats.Base
	switch {
	case issued <= 0:
		return 0
	case issued >= total:
		return 1
	}
	return float64(issued) / float64(total)
}
