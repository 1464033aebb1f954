/*
Package relay contains the core logic of the direct-messaging relay: the
authenticated websocket connections, the online-presence directory, and the
message dispatch path.

This file defines the wire protocol: a JSON envelope carrying a named event
and its payload, in both directions.
*/
package relay

import (
	"encoding/json"

	"imchat/internal/app/message"
)

// Event names exchanged over the channel.
const (
	// EventSendMessage is the client-to-server send request.
	EventSendMessage = "sendMessage"

	// EventReceiveMessage is the server-to-client message delivery, sent to
	// the recipient and echoed to the sender as confirmation.
	EventReceiveMessage = "receiveMessage"

	// EventError is the server-to-client error notification.
	EventError = "error"
)

// Error messages delivered in EventError payloads. These are the only
// diagnostics an authenticated client ever sees on the channel.
const (
	ErrMissingFields      = "Missing required fields"
	ErrUnauthorizedSender = "Unauthorized"
	ErrSendFailed         = "Failed to send message"
)

// Envelope is the framing for every event on the channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the EventSendMessage request body.
type SendMessagePayload struct {
	Sender      string       `json:"sender"`
	Recipient   string       `json:"recipient"`
	Content     string       `json:"content"`
	FileURL     string       `json:"fileUrl"`
	MessageType message.Type `json:"messageType"`
}

// ErrorPayload is the EventError body.
type ErrorPayload struct {
	Message string `json:"message"`
}

// EncodeEvent marshals an event payload into its framed wire form.
func EncodeEvent(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Event: event,
		Data:  payload,
	})
}
