package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

func TestNewSearchConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SEARCH_TARGET_DIGEST", "SEARCH_DIGEST_ALGORITHM", "SEARCH_START", "SEARCH_CEILING",
		"SEARCH_WORKLOAD_PER_CORE", "SEARCH_CANDIDATE_WIDTH", "SEARCH_STOP_POLICY", "SEARCH_EXIT_ON_CONCLUDE",
	} {
		t.Setenv(key, "")
	}

	cfg := NewSearchConfig()
	assert.Equal(t, defaultTargetDigest, cfg.TargetDigest)
	assert.Equal(t, "md5", cfg.Algorithm)
	assert.Equal(t, int64(10000), cfg.Start)
	assert.Equal(t, int64(100000), cfg.Ceiling)
	assert.Equal(t, int64(1000), cfg.WorkloadPerCore)
	assert.Equal(t, defs.StopPolicyBroadcast, cfg.StopPolicy)
	assert.Equal(t, 5, cfg.ExpectedWidth())
	assert.True(t, cfg.ExitOnConclude)
	assert.NoError(t, cfg.Validate(32))
}

func TestNewSearchConfigFromEnv(t *testing.T) {
	t.Setenv("SEARCH_TARGET_DIGEST", "E10ADC3949BA59ABBE56E057F20F883E")
	t.Setenv("SEARCH_START", "100000")
	t.Setenv("SEARCH_CEILING", "")
	t.Setenv("SEARCH_WORKLOAD_PER_CORE", "250")
	t.Setenv("SEARCH_CANDIDATE_WIDTH", "7")
	t.Setenv("SEARCH_STOP_POLICY", "reporter")

	cfg := NewSearchConfig()
	assert.Equal(t, "e10adc3949ba59abbe56e057f20f883e", cfg.TargetDigest)
	assert.Equal(t, int64(1000000), cfg.Ceiling)
	assert.Equal(t, int64(250), cfg.WorkloadPerCore)
	assert.Equal(t, 7, cfg.ExpectedWidth())
	assert.Equal(t, defs.StopPolicyReporter, cfg.StopPolicy)
	require.NoError(t, cfg.Validate(32))
}

func TestSearchConfigValidate(t *testing.T) {
	valid := func() *SearchConfig {
		return &SearchConfig{
			TargetDigest:    defaultTargetDigest,
			Algorithm:       "md5",
			Start:           10000,
			Ceiling:         100000,
			WorkloadPerCore: 1000,
			StopPolicy:      defs.StopPolicyBroadcast,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *SearchConfig)
	}{
		{"zero workload", func(c *SearchConfig) { c.WorkloadPerCore = 0 }},
		{"zero start", func(c *SearchConfig) { c.Start = 0 }},
		{"ceiling below start", func(c *SearchConfig) { c.Ceiling = 10 }},
		{"short digest", func(c *SearchConfig) { c.TargetDigest = "abc" }},
		{"non hex digest", func(c *SearchConfig) { c.TargetDigest = "zz7ccb0eea8a706c4c34a16891f84e7b" }},
		{"unknown policy", func(c *SearchConfig) { c.StopPolicy = "sometimes" }},
	}

	require.NoError(t, valid().Validate(32))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(32), errs.ErrInvalidConfig)
		})
	}
}

func TestValidateAddr(t *testing.T) {
	assert.NoError(t, (&TCPConfig{ListenAddr: "localhost:12345", Backlog: 5}).Validate())
	assert.ErrorIs(t, (&TCPConfig{ListenAddr: "localhost:80", Backlog: 5}).Validate(), errs.ErrInvalidConfig)
	assert.ErrorIs(t, (&TCPConfig{ListenAddr: "localhost", Backlog: 5}).Validate(), errs.ErrInvalidConfig)
	assert.ErrorIs(t, (&TCPConfig{ListenAddr: "localhost:12345", Backlog: 0}).Validate(), errs.ErrInvalidConfig)
	assert.ErrorIs(t, (&WorkerConfig{CoordinatorAddr: "localhost:12345", Cores: 0}).Validate(), errs.ErrInvalidConfig)
}

func TestInitReaderLoadsNamedEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.env"), []byte("SEARCH_START=5000\n"), 0o600))
	t.Setenv("SEARCH_START", "")
	require.NoError(t, os.Unsetenv("SEARCH_START"))

	require.NoError(t, InitReader([]string{filepath.Join(dir, "staging")}))
	assert.Equal(t, int64(5000), NewSearchConfig().Start)
}

func TestInitReaderMissingNamedEnvironment(t *testing.T) {
	err := InitReader([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
