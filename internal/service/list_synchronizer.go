// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// ListSynchronizer fetches the GetResponse campaigns shown in the list selector
type ListSynchronizer struct {
	client port.CampaignClient
}

// NewListSynchronizer creates a new list synchronizer
func NewListSynchronizer(client port.CampaignClient) *ListSynchronizer {
	return &ListSynchronizer{client: client}
}

// FetchLists returns the campaigns for apiKey with selectedID marked.
// A blank key never reaches GetResponse. Failures are reported through the
// error state of the result, never as an error.
func (s *ListSynchronizer) FetchLists(ctx context.Context, apiKey, selectedID string) model.ListResult {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return model.ListResult{State: model.ListStateDisabled}
	}

	lists, err := s.client.GetCampaigns(ctx, apiKey)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch GetResponse campaigns",
			"api_key", redaction.RedactSecret(apiKey),
			"error", err,
		)
		return model.ListResult{State: model.ListStateError, Err: err}
	}

	slog.DebugContext(ctx, "GetResponse campaigns fetched", "count", len(lists))

	return model.NewListResult(lists, selectedID)
}

// Refresher runs at most one list refresh at a time. Requests arriving while
// a refresh is in flight are dropped.
type Refresher struct {
	lists    *ListSynchronizer
	inFlight atomic.Bool
}

// NewRefresher creates a new refresher on top of lists
func NewRefresher(lists *ListSynchronizer) *Refresher {
	return &Refresher{lists: lists}
}

// Refresh fetches the lists for apiKey. The boolean is false when the
// request was dropped because another refresh is running.
func (r *Refresher) Refresh(ctx context.Context, apiKey, selectedID string) (model.ListResult, bool) {
	if !r.inFlight.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "list refresh already in flight, dropping request")
		return model.ListResult{}, false
	}
	defer r.inFlight.Store(false)

	return r.lists.FetchLists(ctx, apiKey, selectedID), true
}
