package config

import (
	"fmt"
	"runtime"
	"strings"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

type WorkerConfig struct {
	CoordinatorAddr string
	Cores           int
	Algorithm       string
	DebugMode       bool
}

func NewWorkerConfig() *WorkerConfig {
	cores := getIntEnv("WORKER_CORES", 0)
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	return &WorkerConfig{
		CoordinatorAddr: getEnv("WORKER_COORDINATOR_ADDR", "localhost:12345"),
		Cores:           cores,
		Algorithm:       strings.ToLower(getEnv("WORKER_DIGEST_ALGORITHM", "md5")),
		DebugMode:       getBoolEnv("DEBUG_MODE", false),
	}
}

func (c *WorkerConfig) Validate() error {
	if c.Cores <= 0 {
		return fmt.Errorf("%w: worker cores must be positive", errs.ErrInvalidConfig)
	}
	return validateAddr(c.CoordinatorAddr)
}
