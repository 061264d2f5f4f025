// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides mock implementations for testing purposes.
package mock

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// mockPrincipalEnv names the store administrator every admin request is
// attributed to when AUTH_SOURCE=mock.
const mockPrincipalEnv = "JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"

// MockAuthService accepts any non-empty bearer token and attributes the
// request to the principal configured in the environment.
type MockAuthService struct{}

// ParsePrincipal only checks that a token was sent; the principal is read on
// every call so tests can toggle it.
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if strings.TrimSpace(strings.TrimPrefix(token, "Bearer ")) == "" {
		return "", errors.NewUnauthorized("bearer token is required")
	}

	principal := os.Getenv(mockPrincipalEnv)
	if principal == "" {
		return "", errors.NewValidation(mockPrincipalEnv + " environment variable not set")
	}

	logger.DebugContext(ctx, "mock principal accepted",
		"principal", principal,
	)
	return principal, nil
}

// NewMockAuthService creates the authenticator used with AUTH_SOURCE=mock
func NewMockAuthService() port.Authenticator {
	return &MockAuthService{}
}
