// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// SettingsReaderWriter combines reader and writer operations for the settings store
type SettingsReaderWriter interface {
	SettingsReader
	SettingsWriter

	// IsReady checks if the storage is ready by verifying the connection
	IsReady(ctx context.Context) error
}
