// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the GetResponse opt-in service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "getresponse-optin"

	// ProductItemName identifies the add-on in the vendor license store
	ProductItemName = "get-response"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"
)

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvRepositorySource selects the settings store implementation
	EnvRepositorySource = "REPOSITORY_SOURCE"
	// EnvGetResponseSource selects the GetResponse client implementation
	EnvGetResponseSource = "GETRESPONSE_SOURCE"
	// EnvAuthSource selects the admin authenticator implementation
	EnvAuthSource = "AUTH_SOURCE"
	// EnvSettingsDefaultsFile points to a YAML file overriding install defaults
	EnvSettingsDefaultsFile = "SETTINGS_DEFAULTS_FILE"
)
