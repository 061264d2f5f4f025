// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// FormTokens issues and verifies anti-forgery tokens embedded in admin forms.
type FormTokens interface {
	// Issue returns a token bound to action
	Issue(ctx context.Context, action string) (string, error)

	// Verify returns a Validation error unless token was issued for action and has not expired
	Verify(ctx context.Context, action, token string) error
}
