package config

import "time"

type BackgroundConfig struct {
	WorkerCleanupInterval time.Duration
	ProgressInterval      time.Duration
}

func NewBackgroundConfig() *BackgroundConfig {
	return &BackgroundConfig{
		WorkerCleanupInterval: time.Duration(getIntEnv("WORKER_CLEANUP_INTERVAL_SECONDS", 60)) * time.Second,
		ProgressInterval:      time.Duration(getIntEnv("PROGRESS_INTERVAL_SECONDS", 10)) * time.Second,
	}
}
