// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"net/mail"
	"strings"
	"time"
)

// OptInSubmission is the customer input relevant to an opt-in, built from the
// registration form or a checkout event.
type OptInSubmission struct {
	Email     string
	FirstName string
	LastName  string
	// Checked is true when the opt-in checkbox field was present in the submission.
	Checked bool
}

// Normalize returns a copy with surrounding whitespace removed.
func (s OptInSubmission) Normalize() OptInSubmission {
	return OptInSubmission{
		Email:     strings.TrimSpace(s.Email),
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
		Checked:   s.Checked,
	}
}

// FullName joins first and last name with a single space, the same way the
// storefront always did, so "A" and "" produce "A ".
func (s OptInSubmission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// IsValidEmail reports whether email is a bare, syntactically valid address
// on a dotted host name. Display-name forms such as "Jane <jane@example.com>",
// single-label hosts and address literals are rejected.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	return validLocalPart(email[:at]) && validDomain(email[at+1:])
}

const localPartSymbols = "!#$%&'*+/=?^_`{|}~.-"

func validLocalPart(local string) bool {
	for _, r := range local {
		if !isASCIIAlnum(r) && !strings.ContainsRune(localPartSymbols, r) {
			return false
		}
	}
	return local != ""
}

// validDomain wants at least two labels of letters, digits and inner hyphens
func validDomain(domain string) bool {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if !isASCIIAlnum(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Contact is the payload of the GetResponse add_contact call.
type Contact struct {
	Campaign string `json:"campaign"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
}

// OptInSource tells which trigger point produced an opt-in.
type OptInSource string

const (
	// OptInSourceRegistration is a full account registration
	OptInSourceRegistration OptInSource = "registration"
	// OptInSourceGuest is a guest checkout carrying only an email
	OptInSourceGuest OptInSource = "guest"
)

// OptInOutcome classifies a processed opt-in for metrics and logs.
type OptInOutcome string

const (
	OptInOutcomeSubscribed OptInOutcome = "subscribed"
	OptInOutcomeSkipped    OptInOutcome = "skipped"
	OptInOutcomeVetoed     OptInOutcome = "vetoed"
	OptInOutcomeFailed     OptInOutcome = "failed"
)

// OptInSubscribedEvent is published after GetResponse accepted a contact.
// It never carries the API key.
type OptInSubscribedEvent struct {
	EventID    string      `json:"event_id"`
	Campaign   string      `json:"campaign"`
	Email      string      `json:"email"`
	Source     OptInSource `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
}
