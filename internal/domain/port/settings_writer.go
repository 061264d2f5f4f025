// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// SettingsWriter defines the interface for settings write operations
type SettingsWriter interface {
	// CreateConfiguration stores the record only if none exists.
	// Returns a Conflict error when a record is already present.
	CreateConfiguration(ctx context.Context, cfg *model.Configuration) (uint64, error)

	// UpdateConfiguration replaces the whole record if it is still at
	// expectedRevision; 0 means nothing is stored yet. Returns a Conflict
	// error when another write got there first.
	UpdateConfiguration(ctx context.Context, cfg *model.Configuration, expectedRevision uint64) (uint64, error)

	// DeleteConfiguration removes the record, absent records are not an error
	DeleteConfiguration(ctx context.Context) error

	// PutLicenseStatus stores the license status value
	PutLicenseStatus(ctx context.Context, status model.LicenseStatus) error

	// DeleteLicenseStatus removes the license status, absent values are not an error
	DeleteLicenseStatus(ctx context.Context) error
}
