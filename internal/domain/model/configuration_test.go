// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestDefaultConfiguration(t *testing.T) {
	cfg := DefaultConfiguration()

	assert.Equal(t, "Sign up to receive updates via email!", cfg.CheckboxLabel)
	assert.True(t, cfg.CheckedByDefault)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.ListID)
	assert.Empty(t, cfg.LicenseKey)
	assert.Equal(t, LicenseStatusUnset, cfg.LicenseStatus)
	assert.False(t, cfg.HasAPIKey())
}

func TestConfiguration_HasAPIKey(t *testing.T) {
	assert.False(t, Configuration{APIKey: "   "}.HasAPIKey())
	assert.True(t, Configuration{APIKey: "k"}.HasAPIKey())
}

func TestConfigurationUpdate_ApplyTo(t *testing.T) {
	stored := Configuration{
		APIKey:           "old-key",
		ListID:           "7",
		CheckboxLabel:    "Join us",
		CheckedByDefault: true,
		LicenseKey:       "lic",
		LicenseStatus:    LicenseStatusValid,
	}

	tests := []struct {
		name   string
		update ConfigurationUpdate
		want   Configuration
	}{
		{
			name:   "empty update keeps everything",
			update: ConfigurationUpdate{},
			want:   stored,
		},
		{
			name: "strings are trimmed",
			update: ConfigurationUpdate{
				CheckboxLabel: strPtr("  Subscribe  "),
				LicenseKey:    strPtr(" lic-2 \n"),
			},
			want: func() Configuration {
				c := stored
				c.CheckboxLabel = "Subscribe"
				c.LicenseKey = "lic-2"
				return c
			}(),
		},
		{
			name:   "checkbox can be turned off",
			update: ConfigurationUpdate{CheckedByDefault: boolPtr(false)},
			want: func() Configuration {
				c := stored
				c.CheckedByDefault = false
				return c
			}(),
		},
		{
			name:   "api key change without list clears list id",
			update: ConfigurationUpdate{APIKey: strPtr("new-key")},
			want: func() Configuration {
				c := stored
				c.APIKey = "new-key"
				c.ListID = ""
				return c
			}(),
		},
		{
			name:   "api key change with list keeps submitted list",
			update: ConfigurationUpdate{APIKey: strPtr("new-key"), ListID: strPtr("9")},
			want: func() Configuration {
				c := stored
				c.APIKey = "new-key"
				c.ListID = "9"
				return c
			}(),
		},
		{
			name:   "same api key with whitespace keeps list id",
			update: ConfigurationUpdate{APIKey: strPtr(" old-key ")},
			want:   stored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.update.ApplyTo(stored))
		})
	}
}

func TestLicenseStatus_IsValid(t *testing.T) {
	assert.True(t, LicenseStatusValid.IsValid())
	assert.False(t, LicenseStatusInvalid.IsValid())
	assert.False(t, LicenseStatusUnset.IsValid())
}
