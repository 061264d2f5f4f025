// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

func TestConvertFormToConfigurationUpdate(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		form := url.Values{
			"_tgm_exchange_getresponse[getresponse-api-key]":     {"abc"},
			"_tgm_exchange_getresponse[getresponse-list]":        {"7"},
			"_tgm_exchange_getresponse[getresponse-label]":       {"Join"},
			"_tgm_exchange_getresponse[getresponse-checked]":     {"1"},
			"_tgm_exchange_getresponse[getresponse-license-key]": {"LK"},
		}

		update := convertFormToConfigurationUpdate(form)
		require.NotNil(t, update.APIKey)
		require.NotNil(t, update.ListID)
		require.NotNil(t, update.CheckboxLabel)
		require.NotNil(t, update.LicenseKey)
		require.NotNil(t, update.CheckedByDefault)
		assert.Equal(t, "abc", *update.APIKey)
		assert.Equal(t, "7", *update.ListID)
		assert.Equal(t, "Join", *update.CheckboxLabel)
		assert.Equal(t, "LK", *update.LicenseKey)
		assert.True(t, *update.CheckedByDefault)
	})

	t.Run("absent fields stay nil and the checkbox is false", func(t *testing.T) {
		update := convertFormToConfigurationUpdate(url.Values{
			"_tgm_exchange_getresponse[getresponse-api-key]": {""},
		})
		require.NotNil(t, update.APIKey)
		assert.Equal(t, "", *update.APIKey)
		assert.Nil(t, update.ListID)
		assert.Nil(t, update.CheckboxLabel)
		assert.Nil(t, update.LicenseKey)
		require.NotNil(t, update.CheckedByDefault)
		assert.False(t, *update.CheckedByDefault)
	})
}

func TestConvertFormToOptInSubmission(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		expected model.OptInSubmission
	}{
		{
			name: "checked",
			form: url.Values{
				"email":                                 {"a@b.com"},
				"first_name":                            {"A"},
				"last_name":                             {"B"},
				"tgm-exchange-getresponse-signup-field": {"1"},
			},
			expected: model.OptInSubmission{Email: "a@b.com", FirstName: "A", LastName: "B", Checked: true},
		},
		{
			name:     "presence alone counts as checked",
			form:     url.Values{"email": {"a@b.com"}, "tgm-exchange-getresponse-signup-field": {"0"}},
			expected: model.OptInSubmission{Email: "a@b.com", Checked: true},
		},
		{
			name:     "not checked",
			form:     url.Values{"email": {"a@b.com"}},
			expected: model.OptInSubmission{Email: "a@b.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertFormToOptInSubmission(tt.form))
		})
	}
}

func TestLicenseActionFromForm(t *testing.T) {
	action, ok := licenseActionFromForm(url.Values{"exchange_getresponse_license_activate": {"Activate License"}})
	assert.True(t, ok)
	assert.Equal(t, model.LicenseActionActivate, action)

	action, ok = licenseActionFromForm(url.Values{"exchange_getresponse_license_deactivate": {"Deactivate License"}})
	assert.True(t, ok)
	assert.Equal(t, model.LicenseActionDeactivate, action)

	_, ok = licenseActionFromForm(url.Values{})
	assert.False(t, ok)
}
