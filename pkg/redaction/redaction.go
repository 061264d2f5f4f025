// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data and credentials before they reach the logs.
package redaction

import (
	"strings"
)

const mask = "***"

// RedactEmail keeps the first character of the local part and the full domain,
// e.g. "jane.doe@example.com" becomes "j***@example.com".
// Values that do not look like an address are fully masked.
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return mask
	}
	return email[:1] + mask + email[at:]
}

// RedactSecret reveals only the last four characters of API keys and
// license keys. Short values are fully masked.
func RedactSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if len(secret) <= 8 {
		return mask
	}
	return mask + secret[len(secret)-4:]
}
