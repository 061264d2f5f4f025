// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model contains the domain types of the GetResponse opt-in service.
package model

import "strings"

// DefaultCheckboxLabel is the label shown next to the opt-in checkbox after install.
const DefaultCheckboxLabel = "Sign up to receive updates via email!"

// LicenseStatus is the activation state reported by the vendor license store.
type LicenseStatus string

const (
	// LicenseStatusValid means the license is active for this site
	LicenseStatusValid LicenseStatus = "valid"
	// LicenseStatusInvalid means the vendor rejected the license
	LicenseStatusInvalid LicenseStatus = "invalid"
	// LicenseStatusUnset means no activation has been recorded
	LicenseStatusUnset LicenseStatus = ""
)

// IsValid reports whether the license is active.
func (s LicenseStatus) IsValid() bool {
	return s == LicenseStatusValid
}

// Configuration is the singleton settings record of the add-on.
// The license status is stored under its own key and is not part of the JSON record.
type Configuration struct {
	APIKey           string        `json:"getresponse-api-key" yaml:"api_key"`
	ListID           string        `json:"getresponse-list" yaml:"list_id"`
	CheckboxLabel    string        `json:"getresponse-label" yaml:"checkbox_label"`
	CheckedByDefault bool          `json:"getresponse-checked" yaml:"checked_by_default"`
	LicenseKey       string        `json:"getresponse-license-key" yaml:"license_key"`
	LicenseStatus    LicenseStatus `json:"-" yaml:"-"`
}

// DefaultConfiguration returns the record written on install.
func DefaultConfiguration() Configuration {
	return Configuration{
		CheckboxLabel:    DefaultCheckboxLabel,
		CheckedByDefault: true,
	}
}

// HasAPIKey reports whether an API key is configured. Opt-in output and
// processing are disabled without one.
func (c Configuration) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ConfigurationUpdate carries the fields of a settings submission.
// A nil field was absent from the submission and leaves the stored value unchanged.
type ConfigurationUpdate struct {
	APIKey           *string
	ListID           *string
	CheckboxLabel    *string
	CheckedByDefault *bool
	LicenseKey       *string
}

// ApplyTo merges the update over cfg and returns the result. Strings are trimmed.
// When the API key changes and no list id is submitted alongside it, the stored
// list id is cleared because it belongs to the previous account.
func (u ConfigurationUpdate) ApplyTo(cfg Configuration) Configuration {
	merged := cfg

	if u.LicenseKey != nil {
		merged.LicenseKey = strings.TrimSpace(*u.LicenseKey)
	}
	if u.APIKey != nil {
		merged.APIKey = strings.TrimSpace(*u.APIKey)
	}
	if u.ListID != nil {
		merged.ListID = strings.TrimSpace(*u.ListID)
	} else if merged.APIKey != cfg.APIKey {
		merged.ListID = ""
	}
	if u.CheckboxLabel != nil {
		merged.CheckboxLabel = strings.TrimSpace(*u.CheckboxLabel)
	}
	if u.CheckedByDefault != nil {
		merged.CheckedByDefault = *u.CheckedByDefault
	}

	return merged
}
