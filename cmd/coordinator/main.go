package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	memledger "gitlab.com/hashsearch.net/internal/adapter/memory/rangeledger"
	memworker "gitlab.com/hashsearch.net/internal/adapter/memory/workerport"
	pgledger "gitlab.com/hashsearch.net/internal/adapter/postgres/rangeledger"
	redisworker "gitlab.com/hashsearch.net/internal/adapter/redis/workerport"
	"gitlab.com/hashsearch.net/internal/config"
	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/core/services/allocator"
	"gitlab.com/hashsearch.net/internal/core/services/search"
	"gitlab.com/hashsearch.net/internal/core/services/worker"
	logger2 "gitlab.com/hashsearch.net/internal/global/logger"
	http2 "gitlab.com/hashsearch.net/internal/http"
	"gitlab.com/hashsearch.net/internal/metrics"
	"gitlab.com/hashsearch.net/internal/schedulerengine"
	"gitlab.com/hashsearch.net/internal/tcp"
)

const (
	drainTimeout    = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		logger2.Error("Coordinator failed", "error", err)
		logger2.Sync()
		os.Exit(1)
	}
	logger2.Sync()
}

func run() error {
	if err := config.InitReader(os.Args[1:]); err != nil {
		return err
	}

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger := logger2.Logger
	sysCfg := config.NewSystemConfig()

	digester, err := crypto.NewDigester(sysCfg.SearchConfig.Algorithm)
	if err != nil {
		return err
	}
	if err := sysCfg.SearchConfig.Validate(digester.Size()); err != nil {
		return err
	}
	if err := sysCfg.TCPConfig.Validate(); err != nil {
		return err
	}

	ctxBg, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SECONDARY PORTS
	workerPort, closeWorkerPort, err := setupWorkerRepository(ctxBg, sysCfg.RedisConfig, logger)
	if err != nil {
		return err
	}
	defer closeWorkerPort()

	ledger, closeLedger, err := setupLedger(ctxBg, sysCfg.PostgresConfig, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	//services
	searchCfg := sysCfg.SearchConfig
	rangeAllocator, err := allocator.NewRangeAllocator(searchCfg.Start, searchCfg.Ceiling, searchCfg.WorkloadPerCore)
	if err != nil {
		return err
	}
	searchSvc := search.NewSearchService(searchCfg, rangeAllocator, ledger, logger)
	workerService := worker.NewWorkerRegistryService(workerPort, logger)
	metrics.InitInfo(digester.Name(), string(searchCfg.StopPolicy))

	if err := searchSvc.Start(ctxBg); err != nil {
		logger.Error("Failed to record search start", "error", err)
	}

	//server
	tcpServer := tcp.NewTCPServer(searchSvc, workerService, logger,
		tcp.WithAddress(sysCfg.TCPConfig.ListenAddr),
		tcp.WithBacklog(sysCfg.TCPConfig.Backlog),
		tcp.WithStopPolicy(searchCfg.StopPolicy))
	searchSvc.SetConcludeNotifier(tcpServer.NotifyConcluded)

	if err := tcpServer.Start(); err != nil {
		return err
	}

	var httpServer *http2.Server
	if sysCfg.HTTPConfig.Enabled {
		// a nil interface disables the bearer middleware
		var jwtService primary.JWTService
		if sysCfg.JwtConfig.Enabled() {
			jwtService = crypto.NewJWTService(sysCfg.JwtConfig)
		}
		serviceProvider := http2.NewServiceProvider(workerService, searchSvc, jwtService)
		httpServer = http2.NewServer(sysCfg.HTTPConfig.Port, sysCfg.HTTPConfig.ServiceName, *serviceProvider, logger)
		if err := httpServer.Init(); err != nil {
			return err
		}
		httpServer.Start(ctxBg)
	}

	engine := schedulerengine.NewBackgroundEngine(sysCfg.BackgroundCfg, workerService, searchSvc, logger)
	engine.Start(ctxBg)

	concluded := searchSvc.Done()
	if !searchCfg.ExitOnConclude {
		concluded = nil
	}

	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", "signal", sig.String())
	case <-concluded:
		outcome := searchSvc.Outcome()
		logger.Info("Search finished, draining sessions", "status", outcome.Status, "candidate", outcome.Candidate)
		ctx, cancelDrain := context.WithTimeout(ctxBg, drainTimeout)
		if err := tcpServer.Drain(ctx); err != nil {
			logger.Warn("Sessions did not drain in time", "error", err)
		}
		cancelDrain()
	}

	ctx, cancelShutdown := context.WithTimeout(ctxBg, shutdownTimeout)
	defer cancelShutdown()
	if err := tcpServer.Stop(ctx); err != nil {
		logger.Error("Failed to stop tcp server", "error", err)
	}
	if httpServer != nil {
		httpServer.Stop(ctx)
	}

	outcome := searchSvc.Outcome()
	if outcome.Candidate != "" {
		fmt.Println(outcome.Candidate)
	}
	cancel()
	engine.Wait()

	logger.Info("successfully shutdown server", "status", outcome.Status)
	return nil
}

func setupWorkerRepository(ctx context.Context, cfg *config.RedisConfig, logger primary.Logger) (secondary.WorkerRepository, func(), error) {
	if !cfg.Enabled {
		return memworker.NewWorkerRepository(), func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Url, err)
	}

	logger.Info("Worker registry backed by redis", "addr", cfg.Url)
	return redisworker.NewWorkerRepository(redisClient, logger), func() { _ = redisClient.Close() }, nil
}

func setupLedger(ctx context.Context, cfg *config.PostgresConfig, logger primary.Logger) (secondary.RangeLedger, func(), error) {
	if !cfg.Enabled {
		return memledger.NewRangeLedger(0), func() {}, nil
	}

	db, err := setupDatabase(ctx, cfg.Url)
	if err != nil {
		return nil, nil, err
	}

	ledger := pgledger.NewRangeLedger(db, logger, cfg.Schema)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	logger.Info("Range ledger backed by postgres", "schema", cfg.Schema)
	return ledger, func() { _ = db.Close() }, nil
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(ctx context.Context, connStr string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}
