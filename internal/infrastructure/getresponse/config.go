// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package getresponse

import (
	"os"
	"time"
)

// Config holds the configuration for the GetResponse client
type Config struct {
	// BaseURL is the GetResponse JSON-RPC endpoint
	BaseURL string

	// Timeout bounds every request, there are no retries
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://api2.getresponse.com",
		Timeout: 15 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("GETRESPONSE_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if timeoutStr := os.Getenv("GETRESPONSE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}
