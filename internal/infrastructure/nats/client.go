// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package nats connects the opt-in service to NATS: the settings bucket, the
// checkout event subscriptions and the subscribed event publisher.
package nats

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSClient wraps the NATS connection and the settings key-value bucket
type NATSClient struct {
	conn    *nats.Conn
	kvStore map[string]jetstream.KeyValue
}

// Close drains the connection so checkout events already delivered to the
// queue subscriptions are handled before the connection goes away
func (c *NATSClient) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}

// Name identifies the dependency in health reports
func (c *NATSClient) Name() string {
	return "NATS"
}

// Ping reports whether the connection is usable, for health checks
func (c *NATSClient) Ping(ctx context.Context) error {
	return c.IsReady(ctx)
}

// IsReady fails while the connection is down or draining
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil {
		slog.ErrorContext(ctx, "NATS client is not connected")
		return errors.NewServiceUnavailable("NATS client is not connected")
	}
	if !c.conn.IsConnected() || c.conn.IsDraining() {
		slog.ErrorContext(ctx, "NATS client is not ready",
			"connected", c.conn.IsConnected(),
			"draining", c.conn.IsDraining(),
		)
		return errors.NewServiceUnavailable("NATS connection is not established or is draining")
	}
	slog.DebugContext(ctx, "NATS client is ready", "url", c.conn.ConnectedUrl())
	return nil
}

// QueueSubscribe joins queue on subject so checkout events are shared
// between replicas
func (c *NATSClient) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if c.conn == nil || !c.conn.IsConnected() {
		return nil, errors.NewServiceUnavailable("NATS connection not ready")
	}
	return c.conn.QueueSubscribe(subject, queue, handler)
}

// bindBucket looks up an existing key-value bucket; the service never creates it
func (c *NATSClient) bindBucket(ctx context.Context, bucketName string) error {
	js, err := jetstream.New(c.conn)
	if err != nil {
		return err
	}
	kv, err := js.KeyValue(ctx, bucketName)
	if err != nil {
		slog.ErrorContext(ctx, "settings bucket not found",
			"error", err,
			"bucket", bucketName,
			"nats_url", c.conn.ConnectedUrl(),
		)
		return err
	}

	if c.kvStore == nil {
		c.kvStore = make(map[string]jetstream.KeyValue)
	}
	c.kvStore[bucketName] = kv
	return nil
}

// NewClient connects to NATS and binds the settings bucket
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	if config.URL == "" {
		return nil, errors.NewUnexpected("NATS URL is required")
	}

	conn, err := nats.Connect(config.URL,
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err, "status", nc.Status())
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			if sub == nil {
				slog.ErrorContext(ctx, "async NATS error", "error", err)
				return
			}
			slog.ErrorContext(ctx, "async NATS error on checkout subscription",
				"error", err,
				"subject", sub.Subject,
				"queue", sub.Queue,
			)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed", "status", nc.Status())
		}),
	)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to connect to NATS", err)
	}

	client := &NATSClient{conn: conn}
	if err := client.bindBucket(ctx, constants.KVBucketNameSettings); err != nil {
		conn.Close()
		return nil, errors.NewServiceUnavailable("failed to bind the settings bucket", err)
	}

	slog.InfoContext(ctx, "NATS client created",
		"connected_url", conn.ConnectedUrl(),
		"bucket", constants.KVBucketNameSettings,
	)
	return client, nil
}
