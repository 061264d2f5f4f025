// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// LicenseClient talks to the vendor license store
type LicenseClient interface {
	// Call performs the given action for licenseKey on behalf of this site.
	// Transport failures and non-200 answers are returned as License errors.
	Call(ctx context.Context, action model.LicenseAction, licenseKey string) (*model.LicenseResult, error)
}
