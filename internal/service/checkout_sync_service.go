// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

// CheckoutSyncService turns storefront events into opt-ins
type CheckoutSyncService struct {
	settings  SettingsReader
	processor *OptInProcessor
}

// NewCheckoutSyncService creates a new checkout sync service
func NewCheckoutSyncService(settings SettingsReader, processor *OptInProcessor) *CheckoutSyncService {
	return &CheckoutSyncService{
		settings:  settings,
		processor: processor,
	}
}

// HandleMessage routes storefront events by subject. The returned error is
// for logging only; opt-ins are best effort and the event must not be retried.
func (s *CheckoutSyncService) HandleMessage(ctx context.Context, msg *nats.Msg) error {
	subject := msg.Subject
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(msg.Header))

	slog.DebugContext(ctx, "received checkout event", "subject", subject)

	var handle func(context.Context, model.Configuration, model.CheckoutEvent) error
	switch subject {
	case constants.UserRegisteredSubject:
		handle = s.handleRegistered
	case constants.GuestCheckoutSubject:
		handle = s.handleGuest
	default:
		slog.WarnContext(ctx, "unknown checkout event subject", "subject", subject)
		return fmt.Errorf("unknown checkout event subject: %s", subject)
	}

	event, err := decodeCheckoutEvent(msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode checkout event",
			"error", err,
			"subject", subject,
		)
		return err
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load settings for checkout event", "error", err)
		return err
	}

	if err := handle(ctx, *cfg, event); err != nil {
		slog.ErrorContext(ctx, "error processing checkout event",
			"error", err,
			"subject", subject,
			"email", redaction.RedactEmail(event.Email),
		)
		return err
	}

	return nil
}

func (s *CheckoutSyncService) handleRegistered(ctx context.Context, cfg model.Configuration, event model.CheckoutEvent) error {
	return s.processor.ProcessOptIn(ctx, cfg, event.Submission())
}

func (s *CheckoutSyncService) handleGuest(ctx context.Context, cfg model.Configuration, event model.CheckoutEvent) error {
	return s.processor.ProcessGuestOptIn(ctx, cfg, event.Email)
}

// decodeCheckoutEvent reads msgpack when the Content-Type header says so and JSON otherwise
func decodeCheckoutEvent(msg *nats.Msg) (model.CheckoutEvent, error) {
	var event model.CheckoutEvent

	contentType := strings.TrimSpace(msg.Header.Get("Content-Type"))
	if contentType == constants.MsgpackContentType {
		if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
			return event, errors.NewValidation("failed to unmarshal msgpack checkout event", err)
		}
		return event, nil
	}

	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return event, errors.NewValidation("failed to unmarshal checkout event", err)
	}
	return event, nil
}
