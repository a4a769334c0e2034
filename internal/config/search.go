package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"gitlab.com/hashsearch.net/internal/domain"
	"gitlab.com/hashsearch.net/internal/static/errs"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

const (
	defaultTargetDigest = "827ccb0eea8a706c4c34a16891f84e7b"
	defaultStart        = 10000
)

type SearchConfig struct {
	TargetDigest    string
	Algorithm       string
	Start           int64
	Ceiling         int64
	WorkloadPerCore int64
	// CandidateWidth overrides the width derived from Start when positive.
	CandidateWidth int
	StopPolicy     defs.StopPolicy
	ExitOnConclude bool
}

func NewSearchConfig() *SearchConfig {
	start := getInt64Env("SEARCH_START", defaultStart)
	return &SearchConfig{
		TargetDigest:    strings.ToLower(getEnv("SEARCH_TARGET_DIGEST", defaultTargetDigest)),
		Algorithm:       strings.ToLower(getEnv("SEARCH_DIGEST_ALGORITHM", "md5")),
		Start:           start,
		Ceiling:         getInt64Env("SEARCH_CEILING", start*10),
		WorkloadPerCore: getInt64Env("SEARCH_WORKLOAD_PER_CORE", 1000),
		CandidateWidth:  getIntEnv("SEARCH_CANDIDATE_WIDTH", 0),
		StopPolicy:      defs.StopPolicy(getEnv("SEARCH_STOP_POLICY", string(defs.StopPolicyBroadcast))),
		ExitOnConclude:  getBoolEnv("SEARCH_EXIT_ON_CONCLUDE", true),
	}
}

// ExpectedWidth is the decimal width reported candidates must have.
func (c *SearchConfig) ExpectedWidth() int {
	if c.CandidateWidth > 0 {
		return c.CandidateWidth
	}
	return domain.CandidateWidth(c.Start)
}

// Validate checks the search parameters. digestSize is the hex length of the
// configured algorithm's digests.
func (c *SearchConfig) Validate(digestSize int) error {
	if c.WorkloadPerCore <= 0 {
		return fmt.Errorf("%w: workload per core must be positive", errs.ErrInvalidConfig)
	}
	if c.Start <= 0 {
		return fmt.Errorf("%w: search start must be positive", errs.ErrInvalidConfig)
	}
	if c.Ceiling < c.Start {
		return fmt.Errorf("%w: ceiling %d is below start %d", errs.ErrInvalidConfig, c.Ceiling, c.Start)
	}
	if len(c.TargetDigest) != digestSize {
		return fmt.Errorf("%w: target digest must be %d hex characters", errs.ErrInvalidConfig, digestSize)
	}
	if _, err := hex.DecodeString(c.TargetDigest); err != nil {
		return fmt.Errorf("%w: target digest is not hex: %w", errs.ErrInvalidConfig, err)
	}
	if !c.StopPolicy.Valid() {
		return fmt.Errorf("%w: unknown stop policy %q", errs.ErrInvalidConfig, c.StopPolicy)
	}
	return nil
}
