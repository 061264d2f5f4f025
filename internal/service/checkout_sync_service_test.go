// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/errors"
)

func newCheckoutFixture(t *testing.T) (*mock.MockSettingsStore, *mock.MockCampaignClient, *CheckoutSyncService) {
	t.Helper()

	store := mock.NewMockSettingsStore()
	_, err := store.CreateConfiguration(context.Background(), &model.Configuration{APIKey: "abc", ListID: "7"})
	require.NoError(t, err)

	client := mock.NewMockCampaignClient()
	svc := NewCheckoutSyncService(
		NewSettingsOrchestrator(WithSettingsStore(store)),
		NewOptInProcessor(WithCampaignClient(client)),
	)
	return store, client, svc
}

func jsonMsg(t *testing.T, subject string, event any) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &nats.Msg{Subject: subject, Data: data}
}

func TestCheckoutSyncService_HandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("registration with opt-in", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)

		msg := jsonMsg(t, constants.UserRegisteredSubject, model.CheckoutEvent{
			Email: "a@b.com", FirstName: "A", LastName: "B", OptIn: true,
		})
		require.NoError(t, svc.HandleMessage(ctx, msg))

		calls := client.AddContactCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, model.Contact{Campaign: "7", Name: "A B", Email: "a@b.com"}, calls[0].Contact)
	})

	t.Run("registration without opt-in", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)

		msg := jsonMsg(t, constants.UserRegisteredSubject, model.CheckoutEvent{Email: "a@b.com"})
		require.NoError(t, svc.HandleMessage(ctx, msg))
		assert.Empty(t, client.AddContactCalls())
	})

	t.Run("guest checkout in msgpack", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)

		data, err := msgpack.Marshal(model.CheckoutEvent{Email: "guest@example.com"})
		require.NoError(t, err)
		msg := nats.NewMsg(constants.GuestCheckoutSubject)
		msg.Data = data
		msg.Header.Set("Content-Type", constants.MsgpackContentType)

		require.NoError(t, svc.HandleMessage(ctx, msg))

		calls := client.AddContactCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, model.Contact{Campaign: "7", Email: "guest@example.com"}, calls[0].Contact)
	})

	t.Run("no api key stored", func(t *testing.T) {
		store, client, svc := newCheckoutFixture(t)
		_, err := store.UpdateConfiguration(ctx, &model.Configuration{ListID: "7"}, 0)
		require.NoError(t, err)

		msg := jsonMsg(t, constants.GuestCheckoutSubject, model.CheckoutEvent{Email: "guest@example.com"})
		require.NoError(t, svc.HandleMessage(ctx, msg))
		assert.Empty(t, client.AddContactCalls())
	})

	t.Run("remote failure is reported", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)
		client.AddContactErr = errors.NewServiceUnavailable("GetResponse unreachable")

		msg := jsonMsg(t, constants.GuestCheckoutSubject, model.CheckoutEvent{Email: "guest@example.com"})
		assert.Error(t, svc.HandleMessage(ctx, msg))
		assert.Len(t, client.AddContactCalls(), 1)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)

		err := svc.HandleMessage(ctx, &nats.Msg{Subject: constants.UserRegisteredSubject, Data: []byte("{not json")})
		var validation errors.Validation
		assert.True(t, stderrors.As(err, &validation))
		assert.Empty(t, client.AddContactCalls())
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, client, svc := newCheckoutFixture(t)

		msg := jsonMsg(t, "exchange.unknown", model.CheckoutEvent{Email: "a@b.com", OptIn: true})
		assert.Error(t, svc.HandleMessage(ctx, msg))
		assert.Empty(t, client.AddContactCalls())
	})

	t.Run("settings unavailable", func(t *testing.T) {
		store, client, svc := newCheckoutFixture(t)
		store.SetErrorForOperation("GetConfiguration", errors.NewServiceUnavailable("down"))

		msg := jsonMsg(t, constants.GuestCheckoutSubject, model.CheckoutEvent{Email: "guest@example.com"})
		assert.Error(t, svc.HandleMessage(ctx, msg))
		assert.Empty(t, client.AddContactCalls())
	})
}
