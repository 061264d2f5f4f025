// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	internalService "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
)

// messageTimeout bounds the handling of a single checkout event
const messageTimeout = 30 * time.Second

// subscriber is the part of the NATS client the checkout sync needs
type subscriber interface {
	QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error)
}

// handleCheckoutSync subscribes the opt-in processor to the storefront events
func handleCheckoutSync(ctx context.Context, client subscriber, syncService *internalService.CheckoutSyncService) error {
	slog.InfoContext(ctx, "starting checkout sync")

	subjects := []string{
		constants.UserRegisteredSubject,
		constants.GuestCheckoutSubject,
	}

	for _, subject := range subjects {
		_, subErr := client.QueueSubscribe(subject, constants.OptInQueue, checkoutMessageHandler(ctx, syncService))
		if subErr != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, subErr)
		}
		slog.InfoContext(ctx, "subscribed to checkout event",
			"subject", subject,
			"queue", constants.OptInQueue,
		)
	}

	slog.InfoContext(ctx, "checkout sync started successfully")
	return nil
}

// checkoutMessageHandler processes one event. Opt-ins are best effort, so
// every processed message is acked; only shutdown naks for redelivery.
func checkoutMessageHandler(ctx context.Context, syncService *internalService.CheckoutSyncService) nats.MsgHandler {
	return func(msg *nats.Msg) {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "rejecting message - service shutting down",
				"subject", msg.Subject)
			if nakErr := msg.Nak(); nakErr != nil && !unboundReply(nakErr) {
				slog.ErrorContext(ctx, "failed to nak message during shutdown", "error", nakErr)
			}
			return
		default:
		}

		// Fresh context so a shutdown does not cancel an event already in progress
		msgCtx, cancel := context.WithTimeout(context.Background(), messageTimeout)
		defer cancel()

		if handleErr := syncService.HandleMessage(msgCtx, msg); handleErr != nil {
			slog.WarnContext(msgCtx, "checkout event not processed, dropping",
				"error", handleErr,
				"subject", msg.Subject)
		}

		if ackErr := msg.Ack(); ackErr != nil && !unboundReply(ackErr) {
			slog.ErrorContext(msgCtx, "failed to ack message", "error", ackErr)
		}
	}
}

// unboundReply reports acks on plain core NATS messages, which carry no reply to answer
func unboundReply(err error) bool {
	return errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound)
}
