// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package license

import (
	"os"
	"time"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

// Config holds the configuration for the vendor license client
type Config struct {
	// BaseURL is the vendor license store endpoint
	BaseURL string

	// ItemName is the product name registered with the vendor
	ItemName string

	// SiteURL identifies this installation to the vendor
	SiteURL string

	// Timeout bounds every request, there are no retries
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://exchangewp.com",
		ItemName: constants.ProductItemName,
		SiteURL:  "http://localhost:8080",
		Timeout:  15 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("LICENSE_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if itemName := os.Getenv("LICENSE_ITEM_NAME"); itemName != "" {
		config.ItemName = itemName
	}

	if siteURL := os.Getenv("SITE_URL"); siteURL != "" {
		config.SiteURL = siteURL
	}

	if timeoutStr := os.Getenv("LICENSE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}
