// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"log/slog"
)

// Authenticator validates admin bearer tokens
type Authenticator interface {
	// ParsePrincipal validates token and returns the principal it was issued to
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}
