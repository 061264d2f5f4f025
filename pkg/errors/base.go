// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides custom error types for the GetResponse opt-in service.
package errors

import "fmt"

// base carries the message and the cause shared by every error type
type base struct {
	message string
	err     error
}

// error renders "message: cause", or the bare message when nothing is wrapped
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the underlying error to support errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}
