// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"

	"github.com/nats-io/nats.go/jetstream"
)

type storage struct {
	client *NATSClient
}

// GetConfiguration retrieves the settings record and its revision
func (s *storage) GetConfiguration(ctx context.Context) (*model.Configuration, uint64, error) {
	slog.DebugContext(ctx, "nats storage: getting configuration")

	cfg := &model.Configuration{}
	rev, err := s.get(ctx, constants.KVBucketNameSettings, constants.KVKeySettings, cfg)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "configuration not found")
			return nil, 0, errs.NewNotFound("configuration not found")
		}
		slog.ErrorContext(ctx, "failed to get configuration", "error", err)
		var unexpected errs.Unexpected
		if errors.As(err, &unexpected) {
			return nil, 0, err
		}
		return nil, 0, errs.NewServiceUnavailable("failed to get configuration", err)
	}

	slog.DebugContext(ctx, "nats storage: configuration retrieved", "revision", rev)

	return cfg, rev, nil
}

// GetLicenseStatus retrieves the license status, unset when absent
func (s *storage) GetLicenseStatus(ctx context.Context) (model.LicenseStatus, error) {
	kv, err := s.bucket(constants.KVBucketNameSettings)
	if err != nil {
		return model.LicenseStatusUnset, err
	}

	entry, err := kv.Get(ctx, constants.KVKeyLicenseStatus)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return model.LicenseStatusUnset, nil
		}
		slog.ErrorContext(ctx, "failed to get license status", "error", err)
		return model.LicenseStatusUnset, errs.NewServiceUnavailable("failed to get license status", err)
	}

	return model.LicenseStatus(strings.TrimSpace(string(entry.Value()))), nil
}

// CreateConfiguration stores cfg unless a record already exists
func (s *storage) CreateConfiguration(ctx context.Context, cfg *model.Configuration) (uint64, error) {
	slog.DebugContext(ctx, "nats storage: creating configuration")

	kv, err := s.bucket(constants.KVBucketNameSettings)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return 0, errs.NewUnexpected("failed to marshal configuration", err)
	}

	rev, err := kv.Create(ctx, constants.KVKeySettings, data)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return 0, errs.NewConflict("configuration already exists")
		}
		slog.ErrorContext(ctx, "failed to create configuration", "error", err)
		return 0, errs.NewServiceUnavailable("failed to create configuration", err)
	}

	slog.DebugContext(ctx, "nats storage: configuration created", "revision", rev)

	return rev, nil
}

// UpdateConfiguration replaces the settings record with revision checking
func (s *storage) UpdateConfiguration(ctx context.Context, cfg *model.Configuration, expectedRevision uint64) (uint64, error) {
	slog.DebugContext(ctx, "nats storage: updating configuration",
		"expected_revision", expectedRevision)

	if expectedRevision == 0 {
		return s.CreateConfiguration(ctx, cfg)
	}

	rev, err := s.putWithRevision(ctx, constants.KVBucketNameSettings, constants.KVKeySettings, cfg, expectedRevision)
	if err != nil {
		if isWrongLastSequence(err) {
			slog.WarnContext(ctx, "configuration changed since it was read",
				"expected_revision", expectedRevision)
			return 0, errs.NewConflict("configuration was modified concurrently, please reload and try again")
		}
		var unexpected errs.Unexpected
		if errors.As(err, &unexpected) {
			return 0, err
		}
		slog.ErrorContext(ctx, "failed to update configuration", "error", err)
		return 0, errs.NewServiceUnavailable("failed to update configuration", err)
	}

	slog.DebugContext(ctx, "nats storage: configuration updated", "revision", rev)

	return rev, nil
}

// DeleteConfiguration removes the settings record
func (s *storage) DeleteConfiguration(ctx context.Context) error {
	if err := s.delete(ctx, constants.KVBucketNameSettings, constants.KVKeySettings); err != nil {
		slog.ErrorContext(ctx, "failed to delete configuration", "error", err)
		return errs.NewServiceUnavailable("failed to delete configuration", err)
	}
	slog.DebugContext(ctx, "nats storage: configuration deleted")
	return nil
}

// PutLicenseStatus stores the license status as a plain string value
func (s *storage) PutLicenseStatus(ctx context.Context, status model.LicenseStatus) error {
	kv, err := s.bucket(constants.KVBucketNameSettings)
	if err != nil {
		return err
	}

	if _, err := kv.PutString(ctx, constants.KVKeyLicenseStatus, string(status)); err != nil {
		slog.ErrorContext(ctx, "failed to put license status", "error", err)
		return errs.NewServiceUnavailable("failed to put license status", err)
	}
	return nil
}

// DeleteLicenseStatus removes the license status
func (s *storage) DeleteLicenseStatus(ctx context.Context) error {
	if err := s.delete(ctx, constants.KVBucketNameSettings, constants.KVKeyLicenseStatus); err != nil {
		slog.ErrorContext(ctx, "failed to delete license status", "error", err)
		return errs.NewServiceUnavailable("failed to delete license status", err)
	}
	return nil
}

// IsReady checks if the storage is ready by verifying the connection
func (s *storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

func (s *storage) bucket(name string) (jetstream.KeyValue, error) {
	kv, exists := s.client.kvStore[name]
	if !exists || kv == nil {
		return nil, errs.NewServiceUnavailable("KV bucket not available")
	}
	return kv, nil
}

// get retrieves a model from the NATS KV store by bucket and key.
// It unmarshals the data into the provided model and returns the revision.
func (s *storage) get(ctx context.Context, bucket, key string, model any) (uint64, error) {
	kv, err := s.bucket(bucket)
	if err != nil {
		return 0, err
	}

	data, errGet := kv.Get(ctx, key)
	if errGet != nil {
		return 0, errGet
	}

	if errUnmarshal := json.Unmarshal(data.Value(), model); errUnmarshal != nil {
		return 0, errs.NewUnexpected("failed to decode "+key, errUnmarshal)
	}

	return data.Revision(), nil
}

// putWithRevision stores a model in the NATS KV store with expected revision checking.
// It marshals the model into JSON and returns the new revision.
func (s *storage) putWithRevision(ctx context.Context, bucket, key string, model any, expectedRevision uint64) (uint64, error) {
	kv, err := s.bucket(bucket)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(model)
	if err != nil {
		return 0, errs.NewUnexpected("failed to encode "+key, err)
	}

	return kv.Update(ctx, key, data, expectedRevision)
}

// isWrongLastSequence reports whether a revision checked write lost the race
func isWrongLastSequence(err error) bool {
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

// delete removes a key from the NATS KV store. Missing keys are not an error.
func (s *storage) delete(ctx context.Context, bucket, key string) error {
	kv, err := s.bucket(bucket)
	if err != nil {
		return err
	}

	if err := kv.Delete(ctx, key); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return err
	}
	return nil
}

// NewStorage creates the settings store backed by the NATS key-value bucket
func NewStorage(client *NATSClient) port.SettingsReaderWriter {
	return &storage{
		client: client,
	}
}
