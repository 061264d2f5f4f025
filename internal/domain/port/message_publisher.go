// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MessagePublisher defines the interface for publishing opt-in events
// This interface is implemented by the NATS messaging infrastructure so other
// services can follow subscriptions without polling GetResponse
type MessagePublisher interface {
	// Event publishes message as JSON on subject
	Event(ctx context.Context, subject string, message any) error
}
