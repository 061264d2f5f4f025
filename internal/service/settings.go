// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the use cases of the GetResponse opt-in service.
package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// SettingsReader defines the settings read use case
type SettingsReader interface {
	// Load returns the stored configuration, or the install defaults when nothing is stored
	Load(ctx context.Context) (*model.Configuration, error)
}

// SettingsWriter defines the settings write use cases
type SettingsWriter interface {
	// Save verifies token, merges update over the stored record and persists it
	Save(ctx context.Context, token string, update model.ConfigurationUpdate) (*model.Configuration, error)
	// Install writes the install defaults unless a record exists
	Install(ctx context.Context) error
	// Uninstall removes the record and the license status
	Uninstall(ctx context.Context) error
}

// SettingsReaderWriter combines the settings use cases
type SettingsReaderWriter interface {
	SettingsReader
	SettingsWriter
}

// settingsOrchestratorOption defines a function type for setting options on the settings orchestrator
type settingsOrchestratorOption func(*settingsOrchestrator)

// WithSettingsStore sets the settings store
func WithSettingsStore(store port.SettingsReaderWriter) settingsOrchestratorOption {
	return func(s *settingsOrchestrator) {
		s.store = store
	}
}

// WithFormTokens sets the anti-forgery token verifier
func WithFormTokens(tokens port.FormTokens) settingsOrchestratorOption {
	return func(s *settingsOrchestrator) {
		s.tokens = tokens
	}
}

// WithInstallDefaults overrides the record written on install
func WithInstallDefaults(cfg model.Configuration) settingsOrchestratorOption {
	return func(s *settingsOrchestrator) {
		s.defaults = cfg
	}
}

// settingsOrchestrator implements the settings use cases on top of the store
type settingsOrchestrator struct {
	store    port.SettingsReaderWriter
	tokens   port.FormTokens
	defaults model.Configuration
}

// NewSettingsOrchestrator creates the settings orchestrator using the option pattern
func NewSettingsOrchestrator(opts ...settingsOrchestratorOption) SettingsReaderWriter {
	s := &settingsOrchestrator{
		defaults: model.DefaultConfiguration(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored configuration together with the license status
func (s *settingsOrchestrator) Load(ctx context.Context) (*model.Configuration, error) {
	cfg, _, err := s.stored(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.store.GetLicenseStatus(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get license status", "error", err)
		return nil, err
	}
	cfg.LicenseStatus = status

	return cfg, nil
}

// stored returns the stored record and its revision, falling back to the
// install defaults at revision 0
func (s *settingsOrchestrator) stored(ctx context.Context) (*model.Configuration, uint64, error) {
	cfg, rev, err := s.store.GetConfiguration(ctx)
	if err != nil {
		var notFound errors.NotFound
		if stderrors.As(err, &notFound) {
			slog.DebugContext(ctx, "no configuration stored, using defaults")
			defaults := s.defaults
			return &defaults, 0, nil
		}
		slog.ErrorContext(ctx, "failed to get configuration", "error", err)
		return nil, 0, err
	}
	return cfg, rev, nil
}

// Save verifies the settings form token before touching the store. A rejected
// token leaves the stored record untouched.
func (s *settingsOrchestrator) Save(ctx context.Context, token string, update model.ConfigurationUpdate) (*model.Configuration, error) {
	slog.DebugContext(ctx, "executing save settings use case")

	if s.tokens == nil {
		return nil, errors.NewUnexpected("form token verifier is not configured")
	}
	if err := s.tokens.Verify(ctx, constants.TokenActionSettings, token); err != nil {
		slog.WarnContext(ctx, "settings form token rejected", "error", err)
		return nil, err
	}

	current, revision, err := s.stored(ctx)
	if err != nil {
		return nil, err
	}

	merged := update.ApplyTo(*current)
	if current.ListID != "" && merged.ListID == "" && merged.APIKey != current.APIKey {
		slog.InfoContext(ctx, "api key changed, clearing the selected list",
			"previous_list_id", current.ListID,
		)
	}

	if _, err := s.store.UpdateConfiguration(ctx, &merged, revision); err != nil {
		slog.ErrorContext(ctx, "failed to save configuration", "error", err)
		return nil, err
	}

	status, err := s.store.GetLicenseStatus(ctx)
	if err != nil {
		return nil, err
	}
	merged.LicenseStatus = status

	slog.InfoContext(ctx, "settings saved",
		"api_key", redaction.RedactSecret(merged.APIKey),
		"list_id", merged.ListID,
		"checked_by_default", merged.CheckedByDefault,
	)

	return &merged, nil
}

// Install stores the install defaults. An existing record is kept as is.
func (s *settingsOrchestrator) Install(ctx context.Context) error {
	defaults := s.defaults
	_, err := s.store.CreateConfiguration(ctx, &defaults)
	if err != nil {
		var conflict errors.Conflict
		if stderrors.As(err, &conflict) {
			slog.DebugContext(ctx, "configuration already installed")
			return nil
		}
		slog.ErrorContext(ctx, "failed to install configuration", "error", err)
		return err
	}

	slog.InfoContext(ctx, "configuration installed with defaults")
	return nil
}

// Uninstall removes the record and the license status
func (s *settingsOrchestrator) Uninstall(ctx context.Context) error {
	if err := s.store.DeleteConfiguration(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to delete configuration", "error", err)
		return err
	}
	if err := s.store.DeleteLicenseStatus(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to delete license status", "error", err)
		return err
	}

	slog.InfoContext(ctx, "configuration uninstalled")
	return nil
}
