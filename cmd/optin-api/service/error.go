// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	lfxerrors "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// errorBody is the JSON body of every error response
type errorBody struct {
	Message string `json:"message"`
}

// statusFromError maps the domain error taxonomy onto HTTP status codes.
// The outermost domain error wins, so an Unauthorized wrapping a Validation is a 401.
func statusFromError(err error) int {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case lfxerrors.Validation, lfxerrors.License:
			return http.StatusBadRequest
		case lfxerrors.Unauthorized:
			return http.StatusUnauthorized
		case lfxerrors.NotFound:
			return http.StatusNotFound
		case lfxerrors.Conflict:
			return http.StatusConflict
		case lfxerrors.ServiceUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

// wrapError logs err and writes it as a JSON error response
func wrapError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "request failed", "error", err)

	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if encErr := enc.Encode(&errorBody{Message: message}); encErr != nil {
		slog.ErrorContext(ctx, "failed to encode error response", "error", encErr)
	}
}
