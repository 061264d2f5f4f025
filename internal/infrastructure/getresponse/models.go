// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package getresponse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// rpcRequest is a JSON-RPC request. Params are positional, the API key first.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      string `json:"id"`
}

// rpcResponse is a JSON-RPC response. Error is null on success.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *ErrorObject    `json:"error"`
	ID     any             `json:"id"`
}

// ErrorObject is the error member of a JSON-RPC response
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// campaignObject is the value side of the get_campaigns result.
// Only the name is used, other members are ignored.
type campaignObject struct {
	Name string `json:"name"`
}

// decodeCampaigns walks the get_campaigns result token by token so the
// campaigns keep the order the server sent them in. An empty account is
// sometimes encoded as [] or null instead of {}.
func decodeCampaigns(raw json.RawMessage) ([]model.MailingList, error) {
	lists := []model.MailingList{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return lists, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns: %w", err)
	}

	switch tok {
	case nil:
		return lists, nil
	case json.Delim('['):
		if dec.More() {
			return nil, fmt.Errorf("unexpected non-empty campaign array")
		}
		return lists, nil
	case json.Delim('{'):
	default:
		return nil, fmt.Errorf("unexpected campaigns token %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read campaign id: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected campaign id token %v", keyTok)
		}

		var campaign campaignObject
		if err := dec.Decode(&campaign); err != nil {
			return nil, fmt.Errorf("failed to decode campaign %s: %w", id, err)
		}
		lists = append(lists, model.MailingList{ID: id, Name: campaign.Name})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read end of campaigns: %w", err)
	}

	return lists, nil
}
