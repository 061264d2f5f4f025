// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// AddContactCall records one AddContact invocation
type AddContactCall struct {
	APIKey  string
	Contact model.Contact
}

// MockCampaignClient is an in-memory GetResponse client that counts calls.
type MockCampaignClient struct {
	Campaigns       []model.MailingList
	GetCampaignsErr error
	AddContactErr   error
	// RejectedKeys answer every call with an Unauthorized error
	RejectedKeys map[string]bool
	// Gate, when set, blocks GetCampaigns until it is closed or ctx ends
	Gate chan struct{}
	// Started, when set, receives a value each time GetCampaigns begins
	Started chan struct{}

	mu                sync.Mutex
	getCampaignsCalls int
	addContactCalls   []AddContactCall
}

var _ port.CampaignClient = (*MockCampaignClient)(nil)

// NewMockCampaignClient returns a client serving two sample campaigns
func NewMockCampaignClient() *MockCampaignClient {
	return &MockCampaignClient{
		Campaigns: []model.MailingList{
			{ID: "7", Name: "Newsletter"},
			{ID: "9", Name: "VIP"},
		},
		RejectedKeys: map[string]bool{"bad-key": true},
	}
}

// GetCampaigns returns the configured campaigns
func (m *MockCampaignClient) GetCampaigns(ctx context.Context, apiKey string) ([]model.MailingList, error) {
	m.mu.Lock()
	m.getCampaignsCalls++
	gate, started := m.Gate, m.Started
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, errors.NewServiceUnavailable("GetResponse unreachable", ctx.Err())
		}
	}

	if m.RejectedKeys[apiKey] {
		return nil, errors.NewUnauthorized("GetResponse API key verification failed")
	}
	if m.GetCampaignsErr != nil {
		return nil, m.GetCampaignsErr
	}

	slog.DebugContext(ctx, "mock GetResponse campaigns returned", "count", len(m.Campaigns))

	out := make([]model.MailingList, len(m.Campaigns))
	copy(out, m.Campaigns)
	return out, nil
}

// AddContact records the call and returns the configured error
func (m *MockCampaignClient) AddContact(ctx context.Context, apiKey string, contact model.Contact) error {
	m.mu.Lock()
	m.addContactCalls = append(m.addContactCalls, AddContactCall{APIKey: apiKey, Contact: contact})
	m.mu.Unlock()

	if m.RejectedKeys[apiKey] {
		return errors.NewUnauthorized("GetResponse API key verification failed")
	}

	slog.InfoContext(ctx, "mock GetResponse contact added",
		"campaign", contact.Campaign,
		"email", redaction.RedactEmail(contact.Email),
	)

	return m.AddContactErr
}

// GetCampaignsCalls returns how many times GetCampaigns was called
func (m *MockCampaignClient) GetCampaignsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCampaignsCalls
}

// AddContactCalls returns a copy of the recorded AddContact calls
func (m *MockCampaignClient) AddContactCalls() []AddContactCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AddContactCall, len(m.addContactCalls))
	copy(out, m.addContactCalls)
	return out
}
