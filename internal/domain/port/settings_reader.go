// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// SettingsReader defines the interface for settings read operations
type SettingsReader interface {
	// GetConfiguration returns the stored record and its revision.
	// Returns a NotFound error when nothing has been stored yet.
	GetConfiguration(ctx context.Context) (*model.Configuration, uint64, error)

	// GetLicenseStatus returns LicenseStatusUnset when no status is stored
	GetLicenseStatus(ctx context.Context) (model.LicenseStatus, error)
}
