// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

func TestValidateSource(t *testing.T) {
	assert.NoError(t, ValidateSource(SourceNATS, SourceNATS, SourceMock))
	assert.NoError(t, ValidateSource(SourceMock, SourceNATS, SourceMock))

	err := ValidateSource("", SourceNATS)
	assert.IsType(t, errors.Validation{}, err)

	err = ValidateSource("redis", SourceNATS, SourceMock)
	assert.IsType(t, errors.Validation{}, err)
	assert.Contains(t, err.Error(), "unsupported source: redis")
}

func TestSourceDescription(t *testing.T) {
	assert.Contains(t, SourceDescription(SourceMock), "in-memory")
	assert.Equal(t, "Unknown source", SourceDescription("other"))
}
