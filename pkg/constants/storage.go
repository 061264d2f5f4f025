// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameSettings is the name of the KV bucket holding the add-on options.
	KVBucketNameSettings = "getresponse-settings"

	// KVKeySettings stores the configuration record
	KVKeySettings = "tgm_exchange_getresponse"

	// KVKeyLicenseStatus stores the license status value
	KVKeyLicenseStatus = "exchange_getresponse_license_status"
)
