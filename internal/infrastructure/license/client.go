// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package license implements the vendor license store client.
package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// GenericErrorMessage is shown whenever the vendor gives nothing more specific
const GenericErrorMessage = model.LicenseGenericErrorMessage

// requestForm is the form body posted to the vendor
type requestForm struct {
	Action   model.LicenseAction `url:"edd_action"`
	License  string              `url:"license"`
	ItemName string              `url:"item_name"`
	URL      string              `url:"url"`
}

// Client posts license actions to the vendor license store
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

var _ port.LicenseClient = (*Client)(nil)

// NewClient creates a new license client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for license client")
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

// Call performs action for licenseKey. Anything but a 200 with a JSON body
// becomes a License error carrying the message to show to the administrator.
func (c *Client) Call(ctx context.Context, action model.LicenseAction, licenseKey string) (*model.LicenseResult, error) {
	slog.InfoContext(ctx, "calling vendor license store",
		"action", action,
		"license", redaction.RedactSecret(licenseKey),
	)

	data, err := query.Values(requestForm{
		Action:   action,
		License:  strings.TrimSpace(licenseKey),
		ItemName: c.config.ItemName,
		URL:      c.config.SiteURL,
	})
	if err != nil {
		return nil, errs.NewUnexpected("failed to encode license request", err)
	}

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}

	resp, err := c.httpClient.Request(ctx, http.MethodPost, c.config.BaseURL, strings.NewReader(data.Encode()), headers)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			slog.WarnContext(ctx, "vendor license store answered with an error status",
				"action", action,
				"status_code", statusErr.StatusCode,
			)
			return nil, errs.NewLicense("", GenericErrorMessage, err)
		}
		slog.WarnContext(ctx, "vendor license store unreachable", "action", action, "error", err)
		return nil, errs.NewLicense("", transportMessage(err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewLicense("", GenericErrorMessage, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result model.LicenseResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		slog.WarnContext(ctx, "failed to parse vendor license response", "action", action, "error", err)
		return nil, errs.NewLicense("", GenericErrorMessage, err)
	}

	slog.InfoContext(ctx, "vendor license store answered",
		"action", action,
		"success", result.Success,
		"license_status", result.License,
		"error_code", result.Error,
	)

	return &result, nil
}

// transportMessage returns the innermost error text, the way the vendor
// integration always surfaced connection failures.
func transportMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
