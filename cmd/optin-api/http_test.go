// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/cmd/optin-api/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/render"
	internalService "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

func newTestOptInService(t *testing.T) *service.OptInService {
	t.Helper()

	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	store := mock.NewMockSettingsStore()
	lists := internalService.NewListSynchronizer(mock.NewMockCampaignClient())
	return service.NewOptInService(service.Dependencies{
		Auth:      mock.NewMockAuthService(),
		Settings:  internalService.NewSettingsOrchestrator(internalService.WithSettingsStore(store)),
		Lists:     lists,
		Refresher: internalService.NewRefresher(lists),
		Processor: internalService.NewOptInProcessor(internalService.WithCampaignClient(mock.NewMockCampaignClient())),
		Tokens:    mock.NewMockFormTokens(),
		Renderer:  renderer,
	})
}

func TestNewHTTPHandler(t *testing.T) {
	handler := newHTTPHandler(newTestOptInService(t))

	req := httptest.NewRequest(http.MethodGet, service.LivezPath, nil)
	req.Header.Set(constants.RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(constants.RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunHTTPServer_GracefulShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runHTTPServer(ctx, addr, newHTTPHandler(newTestOptInService(t)))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + service.LivezPath)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
