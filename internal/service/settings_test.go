// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func newTestSettings(store *mock.MockSettingsStore) SettingsReaderWriter {
	return NewSettingsOrchestrator(
		WithSettingsStore(store),
		WithFormTokens(mock.NewMockFormTokens()),
	)
}

func TestSettingsOrchestrator_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		cfg, err := newTestSettings(mock.NewMockSettingsStore()).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultConfiguration(), *cfg)
	})

	t.Run("stored record with license status", func(t *testing.T) {
		store := mock.NewMockSettingsStore()
		_, err := store.CreateConfiguration(ctx, &model.Configuration{APIKey: "k", ListID: "7"})
		require.NoError(t, err)
		require.NoError(t, store.PutLicenseStatus(ctx, model.LicenseStatusValid))

		cfg, err := newTestSettings(store).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "k", cfg.APIKey)
		assert.Equal(t, "7", cfg.ListID)
		assert.True(t, cfg.LicenseStatus.IsValid())
	})

	t.Run("store failure", func(t *testing.T) {
		store := mock.NewMockSettingsStore()
		store.SetErrorForOperation("GetConfiguration", errors.NewServiceUnavailable("down"))

		_, err := newTestSettings(store).Load(ctx)
		var unavailable errors.ServiceUnavailable
		assert.True(t, stderrors.As(err, &unavailable))
	})
}

func TestSettingsOrchestrator_Save(t *testing.T) {
	ctx := context.Background()
	validToken := mock.MockFormToken(constants.TokenActionSettings)

	tests := []struct {
		name     string
		stored   *model.Configuration
		token    string
		update   model.ConfigurationUpdate
		expected model.Configuration
		wantErr  bool
	}{
		{
			name:  "first save over defaults",
			token: validToken,
			update: model.ConfigurationUpdate{
				APIKey:        strPtr(" abc "),
				ListID:        strPtr("7"),
				CheckboxLabel: strPtr("Join us"),
			},
			expected: model.Configuration{APIKey: "abc", ListID: "7", CheckboxLabel: "Join us", CheckedByDefault: true},
		},
		{
			name:   "absent fields keep stored values",
			stored: &model.Configuration{APIKey: "abc", ListID: "7", CheckboxLabel: "Join", LicenseKey: "LK"},
			token:  validToken,
			update: model.ConfigurationUpdate{CheckedByDefault: boolPtr(false)},
			expected: model.Configuration{
				APIKey: "abc", ListID: "7", CheckboxLabel: "Join", LicenseKey: "LK",
			},
		},
		{
			name:     "api key change clears the list",
			stored:   &model.Configuration{APIKey: "abc", ListID: "7"},
			token:    validToken,
			update:   model.ConfigurationUpdate{APIKey: strPtr("xyz")},
			expected: model.Configuration{APIKey: "xyz"},
		},
		{
			name:    "bad token",
			stored:  &model.Configuration{APIKey: "abc", ListID: "7"},
			token:   "forged",
			update:  model.ConfigurationUpdate{APIKey: strPtr("xyz")},
			wantErr: true,
		},
		{
			name:    "missing token",
			update:  model.ConfigurationUpdate{APIKey: strPtr("xyz")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewMockSettingsStore()
			if tt.stored != nil {
				_, err := store.CreateConfiguration(ctx, tt.stored)
				require.NoError(t, err)
			}
			before := store.RawRecord()

			cfg, err := newTestSettings(store).Save(ctx, tt.token, tt.update)
			if tt.wantErr {
				var validation errors.Validation
				require.True(t, stderrors.As(err, &validation))
				assert.Nil(t, cfg)
				assert.Equal(t, before, store.RawRecord())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *cfg)

			stored, _, err := store.GetConfiguration(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *stored)
		})
	}
}

// racingSettingsStore lets another admin save land between the read and the
// write of the first Save
type racingSettingsStore struct {
	*mock.MockSettingsStore
	raced bool
}

func (r *racingSettingsStore) GetConfiguration(ctx context.Context) (*model.Configuration, uint64, error) {
	cfg, rev, err := r.MockSettingsStore.GetConfiguration(ctx)
	if err == nil && !r.raced {
		r.raced = true
		other := *cfg
		other.CheckboxLabel = "Saved by someone else"
		if _, errUpdate := r.MockSettingsStore.UpdateConfiguration(ctx, &other, rev); errUpdate != nil {
			return nil, 0, errUpdate
		}
	}
	return cfg, rev, err
}

func TestSettingsOrchestrator_SaveConcurrentWrite(t *testing.T) {
	ctx := context.Background()

	store := mock.NewMockSettingsStore()
	_, err := store.CreateConfiguration(ctx, &model.Configuration{APIKey: "k", CheckboxLabel: "Original"})
	require.NoError(t, err)

	s := NewSettingsOrchestrator(
		WithSettingsStore(&racingSettingsStore{MockSettingsStore: store}),
		WithFormTokens(mock.NewMockFormTokens()),
	)

	_, err = s.Save(ctx, mock.MockFormToken(constants.TokenActionSettings), model.ConfigurationUpdate{
		CheckboxLabel: strPtr("Mine"),
	})
	var conflict errors.Conflict
	require.True(t, stderrors.As(err, &conflict), "got %v", err)

	cfg, rev, err := store.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Saved by someone else", cfg.CheckboxLabel)
	assert.Equal(t, uint64(2), rev)
}

func TestSettingsOrchestrator_SaveWithoutTokens(t *testing.T) {
	s := NewSettingsOrchestrator(WithSettingsStore(mock.NewMockSettingsStore()))
	_, err := s.Save(context.Background(), "x", model.ConfigurationUpdate{})
	var unexpected errors.Unexpected
	assert.True(t, stderrors.As(err, &unexpected))
}

func TestSettingsOrchestrator_InstallUninstall(t *testing.T) {
	ctx := context.Background()
	store := mock.NewMockSettingsStore()
	s := newTestSettings(store)

	require.NoError(t, s.Install(ctx))
	cfg, _, err := store.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCheckboxLabel, cfg.CheckboxLabel)
	assert.True(t, cfg.CheckedByDefault)

	// a second install keeps the record
	_, err = s.Save(ctx, mock.MockFormToken(constants.TokenActionSettings), model.ConfigurationUpdate{APIKey: strPtr("abc")})
	require.NoError(t, err)
	require.NoError(t, s.Install(ctx))
	cfg, _, err = store.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.APIKey)

	require.NoError(t, store.PutLicenseStatus(ctx, model.LicenseStatusValid))
	require.NoError(t, s.Uninstall(ctx))
	assert.Nil(t, store.RawRecord())
	assert.False(t, store.HasLicenseStatus())
}

func TestSettingsOrchestrator_InstallCustomDefaults(t *testing.T) {
	ctx := context.Background()
	store := mock.NewMockSettingsStore()
	s := NewSettingsOrchestrator(
		WithSettingsStore(store),
		WithInstallDefaults(model.Configuration{CheckboxLabel: "Stay in touch"}),
	)

	require.NoError(t, s.Install(ctx))
	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Stay in touch", cfg.CheckboxLabel)
	assert.False(t, cfg.CheckedByDefault)
}
