// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/cmd/optin-api/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

const shutdownTimeout = 30 * time.Second

// newHTTPHandler mounts the service routes and wraps them with the middleware chain
func newHTTPHandler(svc *service.OptInService) http.Handler {
	mux := goahttp.NewMuxer()
	svc.Mount(mux)

	var handler http.Handler = mux
	handler = middleware.RequestIDMiddleware()(handler)
	handler = otelhttp.NewHandler(handler, constants.ServiceName)
	return handler
}

// runHTTPServer serves handler on addr until ctx is done, then shuts down gracefully
func runHTTPServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", "error", err)
		return err
	}
	return nil
}
