// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/token"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// MockFormTokens issues predictable tokens of the form "mock-<action>"
type MockFormTokens struct{}

var _ port.FormTokens = (*MockFormTokens)(nil)

// NewMockFormTokens creates a new mock form token issuer
func NewMockFormTokens() *MockFormTokens {
	return &MockFormTokens{}
}

// MockFormToken returns the token MockFormTokens issues for action
func MockFormToken(action string) string {
	return "mock-" + action
}

// Issue returns the predictable token for action
func (m *MockFormTokens) Issue(_ context.Context, action string) (string, error) {
	return MockFormToken(action), nil
}

// Verify accepts only the predictable token for action
func (m *MockFormTokens) Verify(_ context.Context, action, value string) error {
	if value != MockFormToken(action) {
		return errors.NewValidation(token.MismatchMessage)
	}
	return nil
}
