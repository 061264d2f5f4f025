// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"crypto/rand"
	"log"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/defaults"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/getresponse"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/license"
	infrastructure "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/token"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

var (
	natsClient    *nats.NATSClient
	natsStorage   port.SettingsReaderWriter
	natsPublisher port.MessagePublisher

	natsDoOnce sync.Once

	mockStorage   *infrastructure.MockSettingsStore
	mockPublisher *infrastructure.MockMessagePublisher

	mockDoOnce sync.Once
)

func natsInit(ctx context.Context) {
	natsDoOnce.Do(func() {
		natsURL := os.Getenv(constants.EnvNATSURL)
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}

		natsTimeout := os.Getenv("NATS_TIMEOUT")
		if natsTimeout == "" {
			natsTimeout = "10s"
		}
		natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
		if err != nil {
			log.Fatalf("invalid NATS timeout duration: %v", err)
		}

		natsMaxReconnect := os.Getenv("NATS_MAX_RECONNECT")
		if natsMaxReconnect == "" {
			natsMaxReconnect = "3"
		}
		natsMaxReconnectInt, err := strconv.Atoi(natsMaxReconnect)
		if err != nil {
			log.Fatalf("invalid NATS max reconnect value %s: %v", natsMaxReconnect, err)
		}

		natsReconnectWait := os.Getenv("NATS_RECONNECT_WAIT")
		if natsReconnectWait == "" {
			natsReconnectWait = "2s"
		}
		natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
		if err != nil {
			log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
		}

		config := nats.Config{
			URL:           natsURL,
			Timeout:       natsTimeoutDuration,
			MaxReconnect:  natsMaxReconnectInt,
			ReconnectWait: natsReconnectWaitDuration,
		}

		client, errNewClient := nats.NewClient(ctx, config)
		if errNewClient != nil {
			log.Fatalf("failed to create NATS client: %v", errNewClient)
		}
		natsClient = client
		natsStorage = nats.NewStorage(client)
		natsPublisher = nats.NewMessagePublisher(client)
	})
}

func mockInit() {
	mockDoOnce.Do(func() {
		mockStorage = infrastructure.NewMockSettingsStore()
		mockPublisher = infrastructure.NewMockMessagePublisher()
	})
}

// source reads an implementation selector, falling back to def
func source(ctx context.Context, env, def string, allowed ...string) string {
	value := os.Getenv(env)
	if value == "" {
		value = def
	}
	if err := constants.ValidateSource(value, allowed...); err != nil {
		log.Fatalf("invalid %s: %v", env, err)
	}
	slog.DebugContext(ctx, "implementation selected",
		"env", env,
		"source", value,
		"description", constants.SourceDescription(value),
	)
	return value
}

// RepositorySource returns the selected settings store implementation
func RepositorySource(ctx context.Context) string {
	return source(ctx, constants.EnvRepositorySource, constants.SourceNATS, constants.SourceNATS, constants.SourceMock)
}

// GetNATSClient returns the shared NATS client, nil when settings are not kept in NATS
func GetNATSClient(ctx context.Context) *nats.NATSClient {
	if RepositorySource(ctx) != constants.SourceNATS {
		return nil
	}
	natsInit(ctx)
	return natsClient
}

// SettingsStore initializes the settings store implementation based on the repository source
func SettingsStore(ctx context.Context) port.SettingsReaderWriter {
	switch RepositorySource(ctx) {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock settings store")
		mockInit()
		return mockStorage
	default:
		slog.InfoContext(ctx, "initializing NATS settings store")
		natsInit(ctx)
		return natsStorage
	}
}

// SettingsPinger returns the readiness dependency backing the settings store
func SettingsPinger(ctx context.Context) health.Pinger {
	switch RepositorySource(ctx) {
	case constants.SourceMock:
		mockInit()
		return mockStorage
	default:
		natsInit(ctx)
		return natsClient
	}
}

// MessagePublisher initializes the publisher for opt-in subscribed events
func MessagePublisher(ctx context.Context) port.MessagePublisher {
	switch RepositorySource(ctx) {
	case constants.SourceMock:
		mockInit()
		return mockPublisher
	default:
		natsInit(ctx)
		return natsPublisher
	}
}

// CampaignClient initializes the GetResponse client implementation
func CampaignClient(ctx context.Context) port.CampaignClient {
	switch source(ctx, constants.EnvGetResponseSource, constants.SourceAPI, constants.SourceAPI, constants.SourceMock) {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock GetResponse client")
		return infrastructure.NewMockCampaignClient()
	default:
		slog.InfoContext(ctx, "initializing GetResponse client")
		client, err := getresponse.NewClient(getresponse.NewConfigFromEnv())
		if err != nil {
			log.Fatalf("failed to initialize GetResponse client: %v", err)
		}
		return client
	}
}

// LicenseClient initializes the vendor license client. It follows
// GETRESPONSE_SOURCE so local development never reaches a remote service.
func LicenseClient(ctx context.Context) port.LicenseClient {
	switch source(ctx, constants.EnvGetResponseSource, constants.SourceAPI, constants.SourceAPI, constants.SourceMock) {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock license client")
		return infrastructure.NewMockLicenseClient()
	default:
		slog.InfoContext(ctx, "initializing license client")
		client, err := license.NewClient(license.NewConfigFromEnv())
		if err != nil {
			log.Fatalf("failed to initialize license client: %v", err)
		}
		return client
	}
}

// AuthService initializes the authentication service implementation
func AuthService(ctx context.Context) port.Authenticator {
	var authService port.Authenticator

	switch source(ctx, constants.EnvAuthSource, constants.SourceJWT, constants.SourceJWT, constants.SourceMock) {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock authentication service")
		authService = infrastructure.NewMockAuthService()
	default:
		slog.InfoContext(ctx, "initializing JWT authentication service")
		jwtConfig := auth.JWTAuthConfig{
			JWKSURL:  os.Getenv("JWKS_URL"),
			Audience: os.Getenv("JWT_AUDIENCE"),
		}
		jwtAuth, err := auth.NewJWTAuth(jwtConfig)
		if err != nil {
			log.Fatalf("failed to initialize JWT authentication service: %v", err)
		}
		authService = jwtAuth
	}

	return authService
}

// FormTokens initializes the anti-forgery token issuer. A random secret is
// generated when none is configured and settings are kept in memory.
func FormTokens(ctx context.Context) port.FormTokens {
	config := token.NewConfigFromEnv()
	if len(config.Secret) == 0 && RepositorySource(ctx) == constants.SourceMock {
		slog.WarnContext(ctx, "FORM_TOKEN_SECRET not set, using a per-process secret")
		config.Secret = make([]byte, 32)
		if _, err := rand.Read(config.Secret); err != nil {
			log.Fatalf("failed to generate form token secret: %v", err)
		}
	}

	tokens, err := token.NewFormTokens(config)
	if err != nil {
		log.Fatalf("failed to initialize form tokens: %v", err)
	}
	return tokens
}

// InstallDefaults returns the record written on install
func InstallDefaults(ctx context.Context) model.Configuration {
	path := os.Getenv(constants.EnvSettingsDefaultsFile)
	cfg, err := defaults.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to load settings defaults from %s: %v", path, err)
	}
	if path != "" {
		slog.InfoContext(ctx, "install defaults loaded", "path", path)
	}
	return cfg
}
