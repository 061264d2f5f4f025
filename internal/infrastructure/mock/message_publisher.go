// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
)

// PublishedMessage records one published event
type PublishedMessage struct {
	Subject string
	Message any
}

// MockMessagePublisher is a mock implementation of the MessagePublisher interface
type MockMessagePublisher struct {
	Err error

	mu        sync.Mutex
	published []PublishedMessage
}

// Ensure MockMessagePublisher implements the MessagePublisher interface
var _ port.MessagePublisher = (*MockMessagePublisher)(nil)

// NewMockMessagePublisher creates a new mock publisher for testing
func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{}
}

// Event records the message (mock implementation - logs only)
func (m *MockMessagePublisher) Event(ctx context.Context, subject string, message any) error {
	slog.InfoContext(ctx, "mock event message published", "subject", subject)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.published = append(m.published, PublishedMessage{Subject: subject, Message: message})
	return nil
}

// Published returns a copy of the recorded messages
func (m *MockMessagePublisher) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.published))
	copy(out, m.published)
	return out
}
