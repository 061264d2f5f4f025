// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package getresponse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/httpclient"
)

// JSON-RPC 2.0 reserved error codes
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
)

// MapHTTPError maps httpclient errors to domain errors with proper context logging
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		slog.WarnContext(ctx, "GetResponse HTTP error occurred",
			"status_code", statusErr.StatusCode,
		)

		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errs.NewUnauthorized("GetResponse authentication failed", err)
		case http.StatusNotFound:
			return errs.NewNotFound("GetResponse endpoint not found", err)
		case http.StatusBadRequest:
			return errs.NewValidation("GetResponse rejected the request", err)
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errs.NewServiceUnavailable("GetResponse service unavailable", err)
		default:
			slog.ErrorContext(ctx, "unexpected GetResponse HTTP status code",
				"status_code", statusErr.StatusCode,
			)
			return errs.NewUnexpected("GetResponse API error", err)
		}
	}

	// network failures and timeouts
	slog.WarnContext(ctx, "GetResponse request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errs.NewServiceUnavailable("GetResponse unreachable", err)
}

// WrapRPCError wraps a JSON-RPC error member with proper context logging
func WrapRPCError(ctx context.Context, method string, errObj *ErrorObject) error {
	if errObj == nil {
		return nil
	}

	slog.WarnContext(ctx, "GetResponse API error response",
		"method", method,
		"code", errObj.Code,
		"message", errObj.Message,
	)

	cause := fmt.Errorf("%s: code %d: %s", method, errObj.Code, errObj.Message)
	message := strings.ToLower(errObj.Message)

	switch {
	case strings.Contains(message, "api key"):
		return errs.NewUnauthorized("GetResponse API key verification failed", cause)
	case strings.Contains(message, "already"):
		return errs.NewConflict("contact already subscribed", cause)
	case errObj.Code == rpcInvalidParams:
		return errs.NewValidation("GetResponse rejected the parameters", cause)
	case errObj.Code == rpcParseError, errObj.Code == rpcInvalidRequest, errObj.Code == rpcMethodNotFound:
		return errs.NewUnexpected("GetResponse protocol error", cause)
	default:
		return errs.NewServiceUnavailable("GetResponse request failed", cause)
	}
}
