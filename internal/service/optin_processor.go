// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/redaction"
)

const meterName = "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/service"

// ContactFilter may rewrite a contact before it is sent to GetResponse.
// Returning nil vetoes the subscription.
type ContactFilter func(ctx context.Context, contact model.Contact) *model.Contact

// optInProcessorOption defines a function type for setting options on the opt-in processor
type optInProcessorOption func(*OptInProcessor)

// WithCampaignClient sets the GetResponse client
func WithCampaignClient(client port.CampaignClient) optInProcessorOption {
	return func(p *OptInProcessor) {
		p.client = client
	}
}

// WithMessagePublisher sets the publisher used for subscribed events
func WithMessagePublisher(publisher port.MessagePublisher) optInProcessorOption {
	return func(p *OptInProcessor) {
		p.publisher = publisher
	}
}

// WithContactFilters appends contact filters, applied in order
func WithContactFilters(filters ...ContactFilter) optInProcessorOption {
	return func(p *OptInProcessor) {
		p.filters = append(p.filters, filters...)
	}
}

// WithMeterProvider sets the meter provider used for the processed counter
func WithMeterProvider(provider metric.MeterProvider) optInProcessorOption {
	return func(p *OptInProcessor) {
		p.meterProvider = provider
	}
}

// OptInProcessor subscribes customers who opted in to the configured list
type OptInProcessor struct {
	client        port.CampaignClient
	publisher     port.MessagePublisher
	filters       []ContactFilter
	meterProvider metric.MeterProvider
	processed     metric.Int64Counter
	now           func() time.Time
}

// NewOptInProcessor creates the opt-in processor using the option pattern
func NewOptInProcessor(opts ...optInProcessorOption) *OptInProcessor {
	p := &OptInProcessor{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.meterProvider == nil {
		p.meterProvider = otel.GetMeterProvider()
	}

	counter, err := p.meterProvider.Meter(meterName).Int64Counter(
		"optin.processed",
		metric.WithDescription("Opt-in submissions by outcome"),
	)
	if err != nil {
		slog.Warn("failed to create opt-in counter", "error", err)
	}
	p.processed = counter

	return p
}

// ProcessOptIn subscribes a registering customer. Missing settings, an
// unchecked box or an invalid email are silent skips returning nil.
func (p *OptInProcessor) ProcessOptIn(ctx context.Context, cfg model.Configuration, submission model.OptInSubmission) error {
	submission = submission.Normalize()

	switch {
	case !cfg.HasAPIKey():
		return p.skip(ctx, model.OptInSourceRegistration, "no api key configured")
	case !submission.Checked:
		return p.skip(ctx, model.OptInSourceRegistration, "opt-in box not checked")
	case !model.IsValidEmail(submission.Email):
		return p.skip(ctx, model.OptInSourceRegistration, "invalid email")
	}

	contact := model.Contact{
		Campaign: cfg.ListID,
		Name:     submission.FullName(),
		Email:    submission.Email,
	}
	return p.subscribe(ctx, cfg, contact, model.OptInSourceRegistration)
}

// ProcessGuestOptIn subscribes a guest checkout announced by the platform.
// Guests only provide an email, so no name is sent.
func (p *OptInProcessor) ProcessGuestOptIn(ctx context.Context, cfg model.Configuration, email string) error {
	email = strings.TrimSpace(email)

	switch {
	case !cfg.HasAPIKey():
		return p.skip(ctx, model.OptInSourceGuest, "no api key configured")
	case !model.IsValidEmail(email):
		return p.skip(ctx, model.OptInSourceGuest, "invalid email")
	}

	contact := model.Contact{
		Campaign: cfg.ListID,
		Email:    email,
	}
	return p.subscribe(ctx, cfg, contact, model.OptInSourceGuest)
}

// ProcessGuestSubmission subscribes a guest who ticked the opt-in box on the
// storefront guest form. Only the email is sent.
func (p *OptInProcessor) ProcessGuestSubmission(ctx context.Context, cfg model.Configuration, submission model.OptInSubmission) error {
	submission = submission.Normalize()

	switch {
	case !cfg.HasAPIKey():
		return p.skip(ctx, model.OptInSourceGuest, "no api key configured")
	case !submission.Checked:
		return p.skip(ctx, model.OptInSourceGuest, "opt-in box not checked")
	}
	return p.ProcessGuestOptIn(ctx, cfg, submission.Email)
}

func (p *OptInProcessor) skip(ctx context.Context, source model.OptInSource, reason string) error {
	slog.DebugContext(ctx, "opt-in skipped", "source", source, "reason", reason)
	p.record(ctx, source, model.OptInOutcomeSkipped)
	return nil
}

func (p *OptInProcessor) subscribe(ctx context.Context, cfg model.Configuration, contact model.Contact, source model.OptInSource) error {
	for _, filter := range p.filters {
		next := filter(ctx, contact)
		if next == nil {
			slog.InfoContext(ctx, "opt-in vetoed by contact filter",
				"source", source,
				"email", redaction.RedactEmail(contact.Email),
			)
			p.record(ctx, source, model.OptInOutcomeVetoed)
			return nil
		}
		contact = *next
	}

	if err := p.client.AddContact(ctx, strings.TrimSpace(cfg.APIKey), contact); err != nil {
		slog.ErrorContext(ctx, "failed to add GetResponse contact",
			"source", source,
			"campaign", contact.Campaign,
			"email", redaction.RedactEmail(contact.Email),
			"error", err,
		)
		p.record(ctx, source, model.OptInOutcomeFailed)
		return err
	}

	slog.InfoContext(ctx, "GetResponse contact added",
		"source", source,
		"campaign", contact.Campaign,
		"email", redaction.RedactEmail(contact.Email),
	)
	p.record(ctx, source, model.OptInOutcomeSubscribed)
	p.publish(ctx, contact, source)

	return nil
}

// publish emits the subscribed event. Failures are logged only since the
// contact is already stored upstream.
func (p *OptInProcessor) publish(ctx context.Context, contact model.Contact, source model.OptInSource) {
	if p.publisher == nil {
		return
	}

	event := model.OptInSubscribedEvent{
		EventID:    uuid.NewString(),
		Campaign:   contact.Campaign,
		Email:      contact.Email,
		Source:     source,
		OccurredAt: p.now().UTC(),
	}
	if err := p.publisher.Event(ctx, constants.OptInSubscribedSubject, event); err != nil {
		slog.WarnContext(ctx, "failed to publish opt-in subscribed event",
			"event_id", event.EventID,
			"error", err,
		)
	}
}

func (p *OptInProcessor) record(ctx context.Context, source model.OptInSource, outcome model.OptInOutcome) {
	if p.processed == nil {
		return
	}
	p.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", string(source)),
		attribute.String("outcome", string(outcome)),
	))
}
