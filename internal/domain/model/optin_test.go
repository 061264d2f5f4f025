// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{" a@b.com ", true},
		{"jane.doe+news@example.co.uk", true},
		{"", false},
		{"   ", false},
		{"not-an-email", false},
		{"a@", false},
		{"@b.com", false},
		{"Jane <jane@example.com>", false},
		{"a@localhost", false},
		{"a@[1.2.3.4]", false},
		{"a@1.2.3.4", true},
		{"a@-example.com", false},
		{"a@example-.com", false},
		{"a@exa_mple.com", false},
		{"a@sub.example-shop.com", true},
		{`"a b"@example.com`, false},
		{"o'brien@example.ie", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email))
		})
	}
}

func TestOptInSubmission_Normalize(t *testing.T) {
	s := OptInSubmission{Email: " a@b.com ", FirstName: " A", LastName: "B ", Checked: true}.Normalize()

	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "A B", s.FullName())
	assert.True(t, s.Checked)
}

func TestOptInSubmission_FullName(t *testing.T) {
	assert.Equal(t, "A ", OptInSubmission{FirstName: "A"}.FullName())
	assert.Equal(t, " ", OptInSubmission{}.FullName())
}

func TestCheckoutEvent_Submission(t *testing.T) {
	s := CheckoutEvent{Email: "a@b.com", FirstName: "A", LastName: "B", OptIn: true}.Submission()

	assert.Equal(t, OptInSubmission{Email: "a@b.com", FirstName: "A", LastName: "B", Checked: true}, s)
}
