// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package getresponse implements the GetResponse JSON-RPC client.
package getresponse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

const (
	methodGetCampaigns = "get_campaigns"
	methodAddContact   = "add_contact"
)

// Client calls the GetResponse JSON-RPC API. Every call is a single request.
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

var _ port.CampaignClient = (*Client)(nil)

// NewClient creates a new GetResponse client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for GetResponse client")
	}

	httpConfig := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpConfig.Timeout = cfg.Timeout
	}

	return &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpConfig),
	}, nil
}

// GetCampaigns lists the campaigns of the account owning apiKey
func (c *Client) GetCampaigns(ctx context.Context, apiKey string) ([]model.MailingList, error) {
	slog.DebugContext(ctx, "getting campaigns from GetResponse")

	var raw json.RawMessage
	if err := c.call(ctx, methodGetCampaigns, []any{apiKey}, &raw); err != nil {
		return nil, err
	}

	lists, err := decodeCampaigns(raw)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode GetResponse campaigns", "error", err)
		return nil, errs.NewUnexpected("failed to decode campaigns", err)
	}

	slog.DebugContext(ctx, "campaigns retrieved from GetResponse", "count", len(lists))

	return lists, nil
}

// AddContact subscribes contact to its campaign
func (c *Client) AddContact(ctx context.Context, apiKey string, contact model.Contact) error {
	slog.InfoContext(ctx, "adding contact to GetResponse",
		"campaign", contact.Campaign,
		"email", redaction.RedactEmail(contact.Email),
	)

	if err := c.call(ctx, methodAddContact, []any{apiKey, contact}, nil); err != nil {
		return err
	}

	slog.InfoContext(ctx, "contact added to GetResponse", "campaign", contact.Campaign)

	return nil
}

// call performs one JSON-RPC round trip and unmarshals the result member into result
func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	id := uuid.NewString()
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	})
	if err != nil {
		return errs.NewUnexpected("failed to encode request", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := c.httpClient.Request(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body), headers)
	if err != nil {
		if resp != nil {
			// some servers answer JSON-RPC errors with a 5xx status
			if rpcErr := rpcErrorFromBody(resp.Body); rpcErr != nil {
				return WrapRPCError(ctx, method, rpcErr)
			}
		}
		return MapHTTPError(ctx, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(resp.Body, &rpcResp); err != nil {
		slog.ErrorContext(ctx, "failed to parse GetResponse response", "method", method, "error", err)
		return errs.NewUnexpected("failed to parse response", err)
	}

	if rpcResp.Error != nil {
		return WrapRPCError(ctx, method, rpcResp.Error)
	}

	if respID := fmt.Sprint(rpcResp.ID); rpcResp.ID != nil && respID != id {
		slog.WarnContext(ctx, "GetResponse response id mismatch", "method", method, "expected", id, "got", respID)
		return errs.NewUnexpected("response id mismatch")
	}

	if result != nil {
		if err := json.Unmarshal(bytes.TrimSpace(orNull(rpcResp.Result)), result); err != nil {
			return errs.NewUnexpected("failed to parse result", err)
		}
	}

	return nil
}

func rpcErrorFromBody(body []byte) *ErrorObject {
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		return nil
	}
	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil
	}
	return rpcResp.Error
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
