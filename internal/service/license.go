// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// expiresLayouts are the formats the license store uses for expiry dates
var expiresLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.DateOnly,
}

// LicenseErrorMessage maps a vendor error code to the message shown to the administrator
func LicenseErrorMessage(code, expires string) string {
	switch code {
	case "expired":
		return fmt.Sprintf("Your license key expired on %s.", formatExpires(expires))
	case "revoked":
		return "Your license key has been disabled."
	case "missing":
		return "Invalid license."
	case "invalid", "site_inactive":
		return "Your license is not active for this URL."
	case "item_name_mismatch":
		return "This appears to be an invalid license key for getresponse."
	case "no_activations_left":
		return "Your license key has reached its activation limit."
	default:
		return model.LicenseGenericErrorMessage
	}
}

func formatExpires(expires string) string {
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, expires); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return expires
}

// LicenseManager defines the license activation use cases
type LicenseManager interface {
	// Activate verifies token and activates the stored license key
	Activate(ctx context.Context, token string) error
	// Deactivate verifies token and deactivates the stored license key
	Deactivate(ctx context.Context, token string) error
}

// licenseOrchestratorOption defines a function type for setting options on the license orchestrator
type licenseOrchestratorOption func(*licenseOrchestrator)

// WithLicenseClient sets the vendor license client
func WithLicenseClient(client port.LicenseClient) licenseOrchestratorOption {
	return func(l *licenseOrchestrator) {
		l.client = client
	}
}

// WithLicenseStore sets the store holding the license key and status
func WithLicenseStore(store port.SettingsReaderWriter) licenseOrchestratorOption {
	return func(l *licenseOrchestrator) {
		l.store = store
	}
}

// WithLicenseTokens sets the anti-forgery token verifier
func WithLicenseTokens(tokens port.FormTokens) licenseOrchestratorOption {
	return func(l *licenseOrchestrator) {
		l.tokens = tokens
	}
}

type licenseOrchestrator struct {
	client port.LicenseClient
	store  port.SettingsReaderWriter
	tokens port.FormTokens
}

// NewLicenseOrchestrator creates the license orchestrator using the option pattern
func NewLicenseOrchestrator(opts ...licenseOrchestratorOption) LicenseManager {
	l := &licenseOrchestrator{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Activate stores the status the vendor answers. A refused activation
// returns a License error and leaves the status untouched.
func (l *licenseOrchestrator) Activate(ctx context.Context, token string) error {
	key, err := l.prepare(ctx, token)
	if err != nil {
		return err
	}

	result, err := l.client.Call(ctx, model.LicenseActionActivate, key)
	if err != nil {
		slog.WarnContext(ctx, "license activation request failed", "error", err)
		return err
	}

	if !result.Success {
		slog.WarnContext(ctx, "license activation refused",
			"license_key", redaction.RedactSecret(key),
			"code", result.Error,
		)
		return errors.NewLicense(result.Error, LicenseErrorMessage(result.Error, result.Expires))
	}

	status := model.LicenseStatus(result.License)
	if err := l.store.PutLicenseStatus(ctx, status); err != nil {
		slog.ErrorContext(ctx, "failed to store license status", "error", err)
		return err
	}

	slog.InfoContext(ctx, "license activated",
		"license_key", redaction.RedactSecret(key),
		"status", status,
	)
	return nil
}

// Deactivate clears the status once the vendor confirms the deactivation.
// Any other answer leaves the status in place.
func (l *licenseOrchestrator) Deactivate(ctx context.Context, token string) error {
	key, err := l.prepare(ctx, token)
	if err != nil {
		return err
	}

	result, err := l.client.Call(ctx, model.LicenseActionDeactivate, key)
	if err != nil {
		slog.WarnContext(ctx, "license deactivation request failed", "error", err)
		return err
	}

	if result.License != model.LicenseDeactivated {
		slog.WarnContext(ctx, "license not deactivated by the vendor",
			"license_key", redaction.RedactSecret(key),
			"license", result.License,
		)
		return nil
	}

	if err := l.store.DeleteLicenseStatus(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to delete license status", "error", err)
		return err
	}

	slog.InfoContext(ctx, "license deactivated", "license_key", redaction.RedactSecret(key))
	return nil
}

// prepare verifies the license form token and returns the stored license key
func (l *licenseOrchestrator) prepare(ctx context.Context, token string) (string, error) {
	if l.tokens == nil {
		return "", errors.NewUnexpected("form token verifier is not configured")
	}
	if err := l.tokens.Verify(ctx, constants.TokenActionLicense, token); err != nil {
		slog.WarnContext(ctx, "license form token rejected", "error", err)
		return "", err
	}

	cfg, _, err := l.store.GetConfiguration(ctx)
	if err != nil {
		var notFound errors.NotFound
		if stderrors.As(err, &notFound) {
			return "", nil
		}
		slog.ErrorContext(ctx, "failed to get configuration", "error", err)
		return "", err
	}

	return strings.TrimSpace(cfg.LicenseKey), nil
}
