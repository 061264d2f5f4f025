// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// LicenseAction is the edd_action sent to the vendor license store.
type LicenseAction string

const (
	LicenseActionActivate   LicenseAction = "activate_license"
	LicenseActionDeactivate LicenseAction = "deactivate_license"
)

// LicenseDeactivated is the license value the vendor answers after a successful deactivation.
const LicenseDeactivated = "deactivated"

// LicenseResult is the vendor license store response.
type LicenseResult struct {
	Success bool   `json:"success"`
	License string `json:"license"`
	Error   string `json:"error,omitempty"`
	Expires string `json:"expires,omitempty"`
}

// LicenseGenericErrorMessage is shown whenever the vendor gives nothing more specific
const LicenseGenericErrorMessage = "An error occurred, please try again."
