// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import "time"

// Config holds the configuration for Client
type Config struct {
	// Timeout bounds every request, including reading the body.
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64

	// UserAgent is sent with every request when set.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      15 * time.Second,
		MaxBodyBytes: 1 << 20,
		UserAgent:    "lfx-v2-getresponse-optin-service",
	}
}
