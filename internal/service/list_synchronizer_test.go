// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSynchronizer_FetchLists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		apiKey     string
		selectedID string
		setup      func(*mock.MockCampaignClient)
		wantState  model.ListState
		wantCalls  int
		wantIDs    []string
		selected   string
	}{
		{
			name:      "blank key is disabled without a remote call",
			apiKey:    "   ",
			wantState: model.ListStateDisabled,
		},
		{
			name:       "ready with selection",
			apiKey:     "abc",
			selectedID: "9",
			wantState:  model.ListStateReady,
			wantCalls:  1,
			wantIDs:    []string{"7", "9"},
			selected:   "9",
		},
		{
			name:       "unknown selection selects nothing",
			apiKey:     "abc",
			selectedID: "42",
			wantState:  model.ListStateReady,
			wantCalls:  1,
			wantIDs:    []string{"7", "9"},
		},
		{
			name:      "rejected key",
			apiKey:    "bad-key",
			wantState: model.ListStateError,
			wantCalls: 1,
		},
		{
			name:   "unreachable",
			apiKey: "abc",
			setup: func(c *mock.MockCampaignClient) {
				c.GetCampaignsErr = errors.NewServiceUnavailable("GetResponse unreachable")
			},
			wantState: model.ListStateError,
			wantCalls: 1,
		},
		{
			name:   "empty account",
			apiKey: "abc",
			setup: func(c *mock.MockCampaignClient) {
				c.Campaigns = nil
			},
			wantState: model.ListStateReady,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mock.NewMockCampaignClient()
			if tt.setup != nil {
				tt.setup(client)
			}

			result := NewListSynchronizer(client).FetchLists(ctx, tt.apiKey, tt.selectedID)

			assert.Equal(t, tt.wantState, result.State)
			assert.Equal(t, tt.wantCalls, client.GetCampaignsCalls())
			if tt.wantState == model.ListStateError {
				assert.Error(t, result.Err)
			}

			var ids []string
			for _, o := range result.Options {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)

			selected, ok := result.Selected()
			if tt.selected == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.selected, selected.ID)
			}
		})
	}
}

func TestRefresher_DropsConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	client := mock.NewMockCampaignClient()
	client.Gate = make(chan struct{})
	client.Started = make(chan struct{}, 1)

	refresher := NewRefresher(NewListSynchronizer(client))

	var (
		wg       sync.WaitGroup
		first    model.ListResult
		accepted bool
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, accepted = refresher.Refresh(ctx, "abc", "")
	}()

	select {
	case <-client.Started:
	case <-time.After(2 * time.Second):
		t.Fatal("first refresh never reached GetResponse")
	}

	_, ok := refresher.Refresh(ctx, "abc", "")
	assert.False(t, ok)

	close(client.Gate)
	wg.Wait()

	assert.True(t, accepted)
	assert.Equal(t, model.ListStateReady, first.State)
	assert.Equal(t, 1, client.GetCampaignsCalls())

	// the latch is released once the first refresh completes
	client.Gate = nil
	client.Started = nil
	result, ok := refresher.Refresh(ctx, "abc", "7")
	assert.True(t, ok)
	assert.Equal(t, model.ListStateReady, result.State)
	assert.Equal(t, 2, client.GetCampaignsCalls())
}
