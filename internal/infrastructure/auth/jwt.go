// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates the bearer tokens presented on admin routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

const (
	// PS256 is the signing algorithm used by the platform gateway
	PS256 = validator.PS256

	defaultIssuer   = "heimdall"
	defaultAudience = "lfx-v2-getresponse-optin-service"
	defaultJWKSURL  = "http://lfx-platform-heimdall.lfx.svc.cluster.local:4457/.well-known/jwks"

	jwksCacheTTL = 5 * time.Minute
)

// HeimdallClaims are the custom claims set by the gateway
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate requires a principal
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig holds the JWT validation settings
type JWTAuthConfig struct {
	// JWKSURL is where the signing keys are published
	JWKSURL string
	// Audience is the expected aud claim
	Audience string
	// Issuer is the expected iss claim
	Issuer string
	// SignatureAlgorithm defaults to PS256
	SignatureAlgorithm validator.SignatureAlgorithm
}

// JWTAuth validates admin bearer tokens against a JWKS
type JWTAuth struct {
	validator *validator.Validator
}

var _ port.Authenticator = (*JWTAuth)(nil)

// NewJWTAuth creates the JWT authenticator, filling in defaults for empty settings
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}
	if config.SignatureAlgorithm == "" {
		config.SignatureAlgorithm = PS256
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	issuerURL, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		config.SignatureAlgorithm,
		config.Issuer,
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &HeimdallClaims{}
		}),
		validator.WithAllowedClockSkew(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	return &JWTAuth{validator: jwtValidator}, nil
}

// ParsePrincipal validates token and returns the principal claim
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", errs.NewUnauthorized("bearer token is required")
	}

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "JWT validation failed", "error", err)
		return "", errs.NewUnauthorized("invalid bearer token", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errs.NewUnexpected("unexpected claims type")
	}

	custom, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok || custom.Principal == "" {
		return "", errs.NewUnauthorized("principal claim is missing")
	}

	logger.DebugContext(ctx, "parsed principal",
		"principal", custom.Principal,
		"subject", claims.RegisteredClaims.Subject,
	)

	return custom.Principal, nil
}
