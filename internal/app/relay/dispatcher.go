/*
Package relay contains the core logic of the direct-messaging relay.

This file defines the Dispatcher: validation, sender-identity enforcement,
persistence, and fan-out for every send request arriving on an authenticated
connection.
*/
package relay

import (
	"context"

	"github.com/rs/zerolog"

	"imchat/internal/app/message"
	"imchat/internal/pkg/logx"
)

// Dispatcher carries a send request from an authenticated connection through
// validation, persistence, and fan-out.
type Dispatcher struct {
	// hub resolves recipient connections for delivery.
	hub *Hub

	// store persists messages and hydrates the profile projections.
	store message.Store

	// structured logger with dispatcher context.
	logger zerolog.Logger
}

// NewDispatcher wires a Dispatcher to the hub and the message store.
func NewDispatcher(hub *Hub, store message.Store) *Dispatcher {
	return &Dispatcher{
		hub:    hub,
		store:  store,
		logger: logx.Logger().With().Str("component", "Dispatcher").Logger(),
	}
}

// validate checks the request fields. An empty message type defaults to text.
func validate(payload *SendMessagePayload) bool {
	if payload.MessageType == "" {
		payload.MessageType = message.TypeText
	}

	if !payload.MessageType.Valid() {
		return false
	}

	if payload.Sender == "" || payload.Recipient == "" {
		return false
	}

	switch payload.MessageType {
	case message.TypeText:
		return payload.Content != ""
	case message.TypeFile:
		return payload.FileURL != ""
	}

	return false
}

// Dispatch processes one send request from origin. Every failure is reported
// only to the originating connection and leaves it open; the recipient never
// learns of a failed send to them.
func (d *Dispatcher) Dispatch(ctx context.Context, origin Conn, payload SendMessagePayload) {
	if !validate(&payload) {
		origin.SendEvent(EventError, ErrorPayload{Message: ErrMissingFields})
		return
	}

	// A connection may only send as the identity it authenticated with.
	if payload.Sender != origin.UserID() {
		d.logger.Warn().
			Str("authenticated_user", origin.UserID()).
			Str("claimed_sender", payload.Sender).
			Msg("Rejected send with forged sender identity.")

		origin.SendEvent(EventError, ErrorPayload{Message: ErrUnauthorizedSender})
		return
	}

	persisted, err := d.store.CreateMessage(ctx, message.CreateParams{
		SenderID:    payload.Sender,
		RecipientID: payload.Recipient,
		MessageType: payload.MessageType,
		Content:     payload.Content,
		FileURL:     payload.FileURL,
	})
	if err != nil {
		d.logger.Error().
			Err(err).
			Str("sender", payload.Sender).
			Str("recipient", payload.Recipient).
			Msg("Failed to persist message.")

		origin.SendEvent(EventError, ErrorPayload{Message: ErrSendFailed})
		return
	}

	// Fan-out: recipient first if online, then the sender's confirmation.
	// Both carry the identical canonical record.
	delivered := d.hub.DeliverToUser(payload.Recipient, EventReceiveMessage, persisted)

	if err := origin.SendEvent(EventReceiveMessage, persisted); err != nil {
		d.logger.Warn().
			Err(err).
			Str("sender", payload.Sender).
			Msg("Failed to queue send confirmation.")
	}

	d.logger.Info().
		Str("message_id", persisted.ID).
		Str("sender", payload.Sender).
		Str("recipient", payload.Recipient).
		Bool("recipient_online", delivered).
		Msg("Message dispatched.")
}
