// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// AuthorizationHeader is the header name for the admin bearer token
const AuthorizationHeader string = "Authorization"

// Form field names shared by the renderer and the form decoders. They match the
// markup the storefront and admin screens already post.
const (
	// FormSettingsPrefix wraps every settings field, e.g. _tgm_exchange_getresponse[getresponse-api-key]
	FormSettingsPrefix = "_tgm_exchange_getresponse"

	FieldAPIKey     = "getresponse-api-key"
	FieldList       = "getresponse-list"
	FieldLabel      = "getresponse-label"
	FieldChecked    = "getresponse-checked"
	FieldLicenseKey = "getresponse-license-key"

	// FieldSettingsToken carries the settings form anti-forgery token
	FieldSettingsToken = "_wpnonce"
	// FieldLicenseToken carries the license form anti-forgery token
	FieldLicenseToken = "exchange_getresponse_nonce"
	// FieldLicenseActivate is present when the activate button was pressed
	FieldLicenseActivate = "exchange_getresponse_license_activate"
	// FieldLicenseDeactivate is present when the deactivate button was pressed
	FieldLicenseDeactivate = "exchange_getresponse_license_deactivate"

	// FieldOptIn is the storefront checkbox name
	FieldOptIn = "tgm-exchange-getresponse-signup-field"
	FieldEmail = "email"
	// FieldFirstName and FieldLastName are the registration name fields
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"

	// FieldAPIKeyAjax is the update_lists request parameter
	FieldAPIKeyAjax = "api_key"
)

// Anti-forgery token actions
const (
	TokenActionSettings = "tgm-exchange-getresponse-form"
	TokenActionLicense  = "exchange_getresponse_nonce"
)
