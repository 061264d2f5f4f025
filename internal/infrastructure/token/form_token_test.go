// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package token

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokens(t *testing.T) *FormTokens {
	t.Helper()
	f, err := NewFormTokens(Config{Secret: testSecret, TTL: time.Hour})
	require.NoError(t, err)
	return f
}

func TestNewFormTokens_ShortSecret(t *testing.T) {
	_, err := NewFormTokens(Config{Secret: []byte("short")})
	assert.Error(t, err)
}

func TestFormTokens_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newTestTokens(t)

	tok, err := f.Issue(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	assert.NoError(t, f.Verify(ctx, "settings", tok))
}

func TestFormTokens_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newTestTokens(t)

	tok, err := f.Issue(ctx, "settings")
	require.NoError(t, err)

	other, err := NewFormTokens(Config{Secret: []byte("fedcba9876543210fedcba9876543210"), TTL: time.Hour})
	require.NoError(t, err)
	foreign, err := other.Issue(ctx, "settings")
	require.NoError(t, err)

	expired := newTestTokens(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(ctx, "settings")
	require.NoError(t, err)

	tests := []struct {
		name   string
		action string
		token  string
	}{
		{"empty", "settings", ""},
		{"garbage", "settings", "not-a-token"},
		{"other action", "license", tok},
		{"other secret", "settings", foreign},
		{"expired", "settings", stale},
		{"tampered", "settings", tok[:strings.LastIndex(tok, ".")] + foreign[strings.LastIndex(foreign, "."):]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Verify(ctx, tt.action, tt.token)
			require.Error(t, err)
			assert.IsType(t, errs.Validation{}, err)
			assert.Contains(t, err.Error(), MismatchMessage)
		})
	}
}

func TestFormTokens_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	f := newTestTokens(t)

	a, err := f.Issue(ctx, "settings")
	require.NoError(t, err)
	b, err := f.Issue(ctx, "settings")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("FORM_TOKEN_SECRET", string(testSecret))
	t.Setenv("FORM_TOKEN_TTL", "30m")

	cfg := NewConfigFromEnv()
	assert.Equal(t, testSecret, cfg.Secret)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
}
