// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

// Source constants select the implementation behind a port
const (
	// SourceNATS stores settings in NATS JetStream KV
	SourceNATS = "nats"

	// SourceAPI talks to the real remote API
	SourceAPI = "api"

	// SourceJWT validates admin bearer tokens against JWKS
	SourceJWT = "jwt"

	// SourceMock uses in-memory implementations (local development and tests)
	SourceMock = "mock"
)

// ValidateSource validates that the source is one of the allowed values
func ValidateSource(source string, allowed ...string) error {
	if source == "" {
		return errors.NewValidation("source is required")
	}
	for _, a := range allowed {
		if source == a {
			return nil
		}
	}
	return errors.NewValidation(fmt.Sprintf("unsupported source: %s (must be one of %v)", source, allowed))
}

// SourceDescription returns human-readable description of source behavior
func SourceDescription(source string) string {
	switch source {
	case SourceNATS:
		return "Persists settings in the NATS JetStream key-value bucket"
	case SourceAPI:
		return "Calls the GetResponse JSON-RPC API"
	case SourceJWT:
		return "Validates admin bearer tokens against the configured JWKS"
	case SourceMock:
		return "Uses in-memory implementations, nothing leaves the process"
	default:
		return "Unknown source"
	}
}
