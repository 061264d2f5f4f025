// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// CheckoutEvent is the payload the e-commerce platform publishes when a user
// registers or a guest checkout starts. Guest events only carry the email.
type CheckoutEvent struct {
	Email     string `json:"email" msgpack:"email"`
	FirstName string `json:"first_name,omitempty" msgpack:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" msgpack:"last_name,omitempty"`
	// OptIn mirrors the presence of the opt-in checkbox on the registration form.
	OptIn bool `json:"optin" msgpack:"optin"`
}

// Submission converts the event into an opt-in submission.
func (e CheckoutEvent) Submission() OptInSubmission {
	return OptInSubmission{
		Email:     e.Email,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Checked:   e.OptIn,
	}
}
