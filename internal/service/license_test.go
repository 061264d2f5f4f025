// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

func TestLicenseErrorMessage(t *testing.T) {
	tests := []struct {
		code     string
		expires  string
		expected string
	}{
		{"expired", "2024-01-31 23:59:59", "Your license key expired on January 31, 2024."},
		{"expired", "2023-06-05", "Your license key expired on June 5, 2023."},
		{"expired", "lifetime", "Your license key expired on lifetime."},
		{"revoked", "", "Your license key has been disabled."},
		{"missing", "", "Invalid license."},
		{"invalid", "", "Your license is not active for this URL."},
		{"site_inactive", "", "Your license is not active for this URL."},
		{"item_name_mismatch", "", "This appears to be an invalid license key for getresponse."},
		{"no_activations_left", "", "Your license key has reached its activation limit."},
		{"something_new", "", "An error occurred, please try again."},
		{"", "", "An error occurred, please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.expires, func(t *testing.T) {
			assert.Equal(t, tt.expected, LicenseErrorMessage(tt.code, tt.expires))
		})
	}
}

func newLicenseFixture(t *testing.T) (*mock.MockSettingsStore, *mock.MockLicenseClient, LicenseManager) {
	t.Helper()

	store := mock.NewMockSettingsStore()
	_, err := store.CreateConfiguration(context.Background(), &model.Configuration{APIKey: "abc", LicenseKey: " LK-1 "})
	require.NoError(t, err)

	client := mock.NewMockLicenseClient()
	manager := NewLicenseOrchestrator(
		WithLicenseClient(client),
		WithLicenseStore(store),
		WithLicenseTokens(mock.NewMockFormTokens()),
	)
	return store, client, manager
}

func TestLicenseOrchestrator_Activate(t *testing.T) {
	ctx := context.Background()
	token := mock.MockFormToken(constants.TokenActionLicense)

	t.Run("success stores the status", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)

		require.NoError(t, manager.Activate(ctx, token))

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, model.LicenseActionActivate, calls[0].Action)
		assert.Equal(t, "LK-1", calls[0].LicenseKey)

		status, err := store.GetLicenseStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.LicenseStatusValid, status)
	})

	t.Run("refusal maps the vendor code", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)
		client.Results[model.LicenseActionActivate] = &model.LicenseResult{
			Success: false, License: "invalid", Error: "expired", Expires: "2024-01-31 23:59:59",
		}

		err := manager.Activate(ctx, token)
		var license errors.License
		require.True(t, stderrors.As(err, &license))
		assert.Equal(t, "expired", license.Code)
		assert.Equal(t, "Your license key expired on January 31, 2024.", license.Message())
		assert.False(t, store.HasLicenseStatus())
	})

	t.Run("transport failure is returned as is", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)
		client.Err = errors.NewLicense("", "connection refused")

		err := manager.Activate(ctx, token)
		var license errors.License
		require.True(t, stderrors.As(err, &license))
		assert.Equal(t, "connection refused", license.Message())
		assert.False(t, store.HasLicenseStatus())
	})

	t.Run("bad token never reaches the vendor", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)

		err := manager.Activate(ctx, "forged")
		var validation errors.Validation
		require.True(t, stderrors.As(err, &validation))
		assert.Empty(t, client.Calls())
		assert.False(t, store.HasLicenseStatus())
	})

	t.Run("settings token is not a license token", func(t *testing.T) {
		_, client, manager := newLicenseFixture(t)

		err := manager.Activate(ctx, mock.MockFormToken(constants.TokenActionSettings))
		assert.Error(t, err)
		assert.Empty(t, client.Calls())
	})
}

func TestLicenseOrchestrator_Deactivate(t *testing.T) {
	ctx := context.Background()
	token := mock.MockFormToken(constants.TokenActionLicense)

	t.Run("deactivated clears the status", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)
		require.NoError(t, store.PutLicenseStatus(ctx, model.LicenseStatusValid))

		require.NoError(t, manager.Deactivate(ctx, token))

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, model.LicenseActionDeactivate, calls[0].Action)
		assert.False(t, store.HasLicenseStatus())
	})

	t.Run("other answers keep the status", func(t *testing.T) {
		store, client, manager := newLicenseFixture(t)
		require.NoError(t, store.PutLicenseStatus(ctx, model.LicenseStatusValid))
		client.Results[model.LicenseActionDeactivate] = &model.LicenseResult{Success: false, License: "failed"}

		require.NoError(t, manager.Deactivate(ctx, token))

		status, err := store.GetLicenseStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.LicenseStatusValid, status)
	})

	t.Run("store failure", func(t *testing.T) {
		store, _, manager := newLicenseFixture(t)
		store.SetErrorForOperation("DeleteLicenseStatus", errors.NewServiceUnavailable("down"))

		assert.Error(t, manager.Deactivate(ctx, token))
	})
}
