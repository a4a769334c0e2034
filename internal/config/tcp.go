package config

import (
	"fmt"
	"net"
	"strconv"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

type TCPConfig struct {
	ListenAddr string
	// Backlog is kept for parity with deployments that tune it; Go listeners
	// use the kernel default (somaxconn).
	Backlog int
}

func NewTCPConfig() *TCPConfig {
	return &TCPConfig{
		ListenAddr: getEnv("TCP_LISTEN_ADDR", "localhost:12345"),
		Backlog:    getIntEnv("TCP_LISTEN_BACKLOG", 5),
	}
}

func (c *TCPConfig) Validate() error {
	if c.Backlog <= 0 {
		return fmt.Errorf("%w: listen backlog must be positive", errs.ErrInvalidConfig)
	}
	return validateAddr(c.ListenAddr)
}

func validateAddr(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: address %q: %w", errs.ErrInvalidConfig, addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1024 || port > 65535 {
		return fmt.Errorf("%w: port in %q must be between 1024 and 65535", errs.ErrInvalidConfig, addr)
	}
	return nil
}
