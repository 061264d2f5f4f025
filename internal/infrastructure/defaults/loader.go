// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package defaults loads the settings record written on install.
package defaults

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
)

// LoadFile returns the install defaults, overridden by the YAML file at path
// when path is not empty. Keys missing from the file keep their built-in value.
//
//	checkbox_label: "Keep me posted"
//	checked_by_default: false
func LoadFile(path string) (model.Configuration, error) {
	cfg := model.DefaultConfiguration()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read settings defaults file: %w", err)
	}

	return Parse(data)
}

// Parse applies YAML overrides on top of the built-in defaults. Unknown keys are rejected.
func Parse(data []byte) (model.Configuration, error) {
	cfg := model.DefaultConfiguration()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return model.DefaultConfiguration(), fmt.Errorf("invalid settings defaults: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.ListID = strings.TrimSpace(cfg.ListID)
	cfg.CheckboxLabel = strings.TrimSpace(cfg.CheckboxLabel)
	cfg.LicenseKey = strings.TrimSpace(cfg.LicenseKey)
	cfg.LicenseStatus = model.LicenseStatusUnset

	return cfg, nil
}
