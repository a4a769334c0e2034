package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	"gitlab.com/hashsearch.net/internal/adapter/logging"
	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/services/bruteforce"
	"gitlab.com/hashsearch.net/internal/tcp/client"
)

func main() {
	if err := config.InitReader(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.NewWorkerConfig()
	logger := logging.NewZapLoggerWithLevel(cfg.DebugMode)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.WorkerConfig, logger *logging.ZapLogger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	digester, err := crypto.NewDigester(cfg.Algorithm)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forcer := bruteforce.NewBruteForcer(digester, crypto.DecimalEnumerator{}, cfg.Cores, logger)
	w := client.NewWorker(cfg.CoordinatorAddr, cfg.Cores, forcer, logger)

	logger.Info("Starting worker", "coordinator", cfg.CoordinatorAddr, "cores", cfg.Cores, "algorithm", digester.Name())
	report, err := w.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Worker finished", "target", report.Target, "ranges", report.Ranges, "found", report.Found)
	if report.Found {
		fmt.Println(report.Candidate)
	}
	return nil
}
