/*
Package message defines the direct-message domain types and the persistence
contract the relay depends on.

The relay never talks to the database directly: it hands a CreateParams to a
Store and gets back the canonical persisted record, id and timestamp
generated and both profiles hydrated. That keeps the dispatcher testable with
an in-memory fake and leaves schema concerns to the store implementation.
*/
package message

import (
	"context"
	"time"

	"imchat/internal/app/user"
)

// Type discriminates the two kinds of direct messages.
type Type string

const (
	// TypeText is a plain text message; Content is required.
	TypeText Type = "text"

	// TypeFile is a file message; FileURL is required.
	TypeFile Type = "file"
)

// Valid reports whether t is a known message type.
func (t Type) Valid() bool {
	return t == TypeText || t == TypeFile
}

// Message is the canonical persisted direct message, immutable once created.
type Message struct {
	// ID is the store-generated message identifier.
	ID string `json:"id"`

	// Sender is the profile projection of the sending user.
	Sender user.Profile `json:"sender"`

	// Recipient is the profile projection of the receiving user.
	Recipient user.Profile `json:"recipient"`

	// MessageType is "text" or "file".
	MessageType Type `json:"messageType"`

	// Content is the text body; set only for text messages.
	Content string `json:"content,omitempty"`

	// FileURL points at the stored attachment; set only for file messages.
	FileURL string `json:"fileUrl,omitempty"`

	// Timestamp is the store-assigned creation time.
	Timestamp time.Time `json:"timestamp"`
}

// CreateParams carries a validated send request into the store.
type CreateParams struct {
	SenderID    string
	RecipientID string
	MessageType Type
	Content     string
	FileURL     string
}

// Store is the narrow persistence interface the relay consumes.
type Store interface {
	// CreateMessage persists the record and returns it with the generated id,
	// timestamp, and resolved sender/recipient profiles. The store owns the
	// profile join.
	CreateMessage(ctx context.Context, params CreateParams) (Message, error)
}
