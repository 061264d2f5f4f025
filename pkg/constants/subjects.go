// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subjects consumed from the e-commerce platform
const (
	// UserRegisteredSubject carries full registrations
	UserRegisteredSubject = "exchange.user.registered"
	// GuestCheckoutSubject carries guest checkout initialisation with an email only
	GuestCheckoutSubject = "exchange.checkout.guest.init"
)

// NATS subjects published by this service
const (
	// OptInSubscribedSubject is published after GetResponse accepted a contact
	OptInSubscribedSubject = "getresponse.optin.subscribed"
)

// OptInQueue is the NATS queue group for checkout event subscriptions
const OptInQueue = "lfx-v2-getresponse-optin"

// MsgpackContentType marks MessagePack encoded checkout events
const MsgpackContentType = "application/msgpack"
