// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// CampaignClient is the subset of the GetResponse API used by the service.
// Each call is a single request, implementations must not retry.
type CampaignClient interface {
	// GetCampaigns returns the campaigns of the account in the order the server sent them
	GetCampaigns(ctx context.Context, apiKey string) ([]model.MailingList, error)

	// AddContact subscribes a contact to the campaign named in the payload
	AddContact(ctx context.Context, apiKey string, contact model.Contact) error
}
