// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// MockSettingsStore provides an in-memory settings store for tests and local development.
// Records are stored JSON encoded, the same bytes the NATS bucket would hold.
type MockSettingsStore struct {
	record        []byte
	revision      uint64
	licenseStatus *model.LicenseStatus
	errors        map[string]error // operation -> error
	mu            sync.RWMutex
}

var _ port.SettingsReaderWriter = (*MockSettingsStore)(nil)

// NewMockSettingsStore creates an empty in-memory settings store
func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{
		errors: make(map[string]error),
	}
}

// SetErrorForOperation makes the named operation fail with err until cleared
func (m *MockSettingsStore) SetErrorForOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[operation] = err
}

// ClearErrors removes all simulated errors
func (m *MockSettingsStore) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = make(map[string]error)
}

// RawRecord returns the stored bytes, nil when nothing is stored
func (m *MockSettingsStore) RawRecord() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return nil
	}
	out := make([]byte, len(m.record))
	copy(out, m.record)
	return out
}

// Revision returns the number of writes applied to the record
func (m *MockSettingsStore) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

func (m *MockSettingsStore) simulated(operation string) error {
	if err, ok := m.errors[operation]; ok {
		return err
	}
	return nil
}

// GetConfiguration returns the stored record
func (m *MockSettingsStore) GetConfiguration(ctx context.Context) (*model.Configuration, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulated("GetConfiguration"); err != nil {
		return nil, 0, err
	}
	if m.record == nil {
		return nil, 0, errors.NewNotFound("configuration not found")
	}

	cfg := &model.Configuration{}
	if err := json.Unmarshal(m.record, cfg); err != nil {
		return nil, 0, errors.NewUnexpected("failed to unmarshal configuration", err)
	}

	slog.DebugContext(ctx, "mock settings store: configuration retrieved", "revision", m.revision)

	return cfg, m.revision, nil
}

// GetLicenseStatus returns the stored license status
func (m *MockSettingsStore) GetLicenseStatus(_ context.Context) (model.LicenseStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulated("GetLicenseStatus"); err != nil {
		return model.LicenseStatusUnset, err
	}
	if m.licenseStatus == nil {
		return model.LicenseStatusUnset, nil
	}
	return *m.licenseStatus, nil
}

// CreateConfiguration stores cfg unless a record exists
func (m *MockSettingsStore) CreateConfiguration(ctx context.Context, cfg *model.Configuration) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated("CreateConfiguration"); err != nil {
		return 0, err
	}
	if m.record != nil {
		return 0, errors.NewConflict("configuration already exists")
	}
	return m.store(ctx, cfg)
}

// UpdateConfiguration replaces the stored record if it is still at
// expectedRevision, 0 meaning no record
func (m *MockSettingsStore) UpdateConfiguration(ctx context.Context, cfg *model.Configuration, expectedRevision uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated("UpdateConfiguration"); err != nil {
		return 0, err
	}

	current := m.revision
	if m.record == nil {
		current = 0
	}
	if current != expectedRevision {
		return 0, errors.NewConflict("configuration was modified concurrently, please reload and try again")
	}
	return m.store(ctx, cfg)
}

func (m *MockSettingsStore) store(ctx context.Context, cfg *model.Configuration) (uint64, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return 0, errors.NewUnexpected("failed to marshal configuration", err)
	}
	m.record = data
	m.revision++

	slog.DebugContext(ctx, "mock settings store: configuration stored", "revision", m.revision)

	return m.revision, nil
}

// DeleteConfiguration removes the record
func (m *MockSettingsStore) DeleteConfiguration(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated("DeleteConfiguration"); err != nil {
		return err
	}
	m.record = nil
	return nil
}

// PutLicenseStatus stores the license status
func (m *MockSettingsStore) PutLicenseStatus(_ context.Context, status model.LicenseStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated("PutLicenseStatus"); err != nil {
		return err
	}
	m.licenseStatus = &status
	return nil
}

// DeleteLicenseStatus removes the license status
func (m *MockSettingsStore) DeleteLicenseStatus(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated("DeleteLicenseStatus"); err != nil {
		return err
	}
	m.licenseStatus = nil
	return nil
}

// HasLicenseStatus reports whether a license status value is stored
func (m *MockSettingsStore) HasLicenseStatus() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.licenseStatus != nil
}

// IsReady always succeeds unless an error is simulated
func (m *MockSettingsStore) IsReady(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.simulated("IsReady")
}

// Name identifies the store in health reports
func (m *MockSettingsStore) Name() string {
	return "settings-store"
}

// Ping is the health check form of IsReady
func (m *MockSettingsStore) Ping(ctx context.Context) error {
	return m.IsReady(ctx)
}
