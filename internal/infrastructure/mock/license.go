// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
)

// LicenseCall records one Call invocation
type LicenseCall struct {
	Action     model.LicenseAction
	LicenseKey string
}

// MockLicenseClient answers license calls from configured results
type MockLicenseClient struct {
	Results map[model.LicenseAction]*model.LicenseResult
	Err     error

	mu    sync.Mutex
	calls []LicenseCall
}

var _ port.LicenseClient = (*MockLicenseClient)(nil)

// NewMockLicenseClient activates and deactivates every license successfully
func NewMockLicenseClient() *MockLicenseClient {
	return &MockLicenseClient{
		Results: map[model.LicenseAction]*model.LicenseResult{
			model.LicenseActionActivate:   {Success: true, License: string(model.LicenseStatusValid)},
			model.LicenseActionDeactivate: {Success: true, License: model.LicenseDeactivated},
		},
	}
}

// Call records the call and returns the configured result
func (m *MockLicenseClient) Call(_ context.Context, action model.LicenseAction, licenseKey string) (*model.LicenseResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, LicenseCall{Action: action, LicenseKey: licenseKey})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	result, ok := m.Results[action]
	if !ok {
		return &model.LicenseResult{}, nil
	}
	copied := *result
	return &copied, nil
}

// Calls returns a copy of the recorded calls
func (m *MockLicenseClient) Calls() []LicenseCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LicenseCall, len(m.calls))
	copy(out, m.calls)
	return out
}
