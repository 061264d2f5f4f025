// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package token issues the anti-forgery tokens embedded in the admin forms.
package token

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/akamensky/base58"
	"github.com/golang-jwt/jwt/v5"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// MismatchMessage is shown when a form token does not verify
const MismatchMessage = "Are you sure you want to do this? The form nonces do not match. Please try again."

// Config holds the form token settings
type Config struct {
	// Secret signs the tokens, it must be shared by all replicas
	Secret []byte

	// TTL is how long an issued form stays submittable
	TTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults and no secret
func DefaultConfig() Config {
	return Config{
		TTL: 12 * time.Hour,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if secret := os.Getenv("FORM_TOKEN_SECRET"); secret != "" {
		config.Secret = []byte(secret)
	}

	if ttlStr := os.Getenv("FORM_TOKEN_TTL"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil && ttl > 0 {
			config.TTL = ttl
		}
	}

	return config
}

// formClaims binds a token to the form action it was issued for
type formClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// FormTokens signs HS256 tokens naming the form action
type FormTokens struct {
	config Config
	now    func() time.Time
}

var _ port.FormTokens = (*FormTokens)(nil)

// NewFormTokens creates the form token issuer
func NewFormTokens(cfg Config) (*FormTokens, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("form token secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &FormTokens{config: cfg, now: time.Now}, nil
}

// Issue returns a signed token for action
func (f *FormTokens) Issue(ctx context.Context, action string) (string, error) {
	jti, err := newTokenID()
	if err != nil {
		return "", errs.NewUnexpected("failed to generate token id", err)
	}

	now := f.now()
	claims := formClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    constants.ServiceName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(f.config.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.config.Secret)
	if err != nil {
		return "", errs.NewUnexpected("failed to sign form token", err)
	}

	slog.DebugContext(ctx, "form token issued", "action", action, "jti", jti)

	return signed, nil
}

// Verify checks the signature, expiry and action of token
func (f *FormTokens) Verify(ctx context.Context, action, token string) error {
	if token == "" {
		slog.WarnContext(ctx, "form token missing", "action", action)
		return errs.NewValidation(MismatchMessage)
	}

	claims := &formClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return f.config.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.ServiceName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		slog.WarnContext(ctx, "form token rejected", "action", action, "error", err)
		return errs.NewValidation(MismatchMessage, err)
	}

	if claims.Action != action {
		slog.WarnContext(ctx, "form token issued for another form",
			"action", action,
			"token_action", claims.Action,
		)
		return errs.NewValidation(MismatchMessage)
	}

	return nil
}

func newTokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}
