// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/url"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

// settingsFormKey returns the posted name of a settings field
func settingsFormKey(field string) string {
	return constants.FormSettingsPrefix + "[" + field + "]"
}

// formValue returns a pointer to the posted value, nil when the field is absent
func formValue(form url.Values, key string) *string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// convertFormToConfigurationUpdate builds the settings update from the admin form.
// Browsers omit unchecked checkboxes, so the default-checked flag is always set.
func convertFormToConfigurationUpdate(form url.Values) model.ConfigurationUpdate {
	_, checked := form[settingsFormKey(constants.FieldChecked)]

	return model.ConfigurationUpdate{
		APIKey:           formValue(form, settingsFormKey(constants.FieldAPIKey)),
		ListID:           formValue(form, settingsFormKey(constants.FieldList)),
		CheckboxLabel:    formValue(form, settingsFormKey(constants.FieldLabel)),
		CheckedByDefault: &checked,
		LicenseKey:       formValue(form, settingsFormKey(constants.FieldLicenseKey)),
	}
}

// convertFormToOptInSubmission builds the opt-in submission from a storefront form
func convertFormToOptInSubmission(form url.Values) model.OptInSubmission {
	_, checked := form[constants.FieldOptIn]

	return model.OptInSubmission{
		Email:     form.Get(constants.FieldEmail),
		FirstName: form.Get(constants.FieldFirstName),
		LastName:  form.Get(constants.FieldLastName),
		Checked:   checked,
	}
}

// licenseActionFromForm returns the license button pressed, if any
func licenseActionFromForm(form url.Values) (model.LicenseAction, bool) {
	if _, ok := form[constants.FieldLicenseActivate]; ok {
		return model.LicenseActionActivate, true
	}
	if _, ok := form[constants.FieldLicenseDeactivate]; ok {
		return model.LicenseActionDeactivate, true
	}
	return "", false
}
