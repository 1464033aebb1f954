/*
Package relay contains the core logic of the direct-messaging relay.

This file defines the Hub, which tracks every live connection by connection
id and owns the Presence directory. Registration and removal of a connection
update both in one place, so presence can never point at a connection the hub
no longer knows.
*/
package relay

import (
	"sync"

	"github.com/rs/zerolog"

	"imchat/internal/pkg/logx"
)

// Conn is one authenticated relay connection as the hub and dispatcher see
// it. *Client implements it; tests substitute fakes.
type Conn interface {
	// ConnID returns the opaque connection identifier.
	ConnID() string

	// UserID returns the authenticated user bound to this connection.
	UserID() string

	// SendEvent queues a framed event for delivery. Best effort: an error
	// means the event was not queued, and no retry happens.
	SendEvent(event string, data any) error

	// Close terminates the underlying connection.
	Close()
}

// Hub is the registry of live connections plus the presence directory.
type Hub struct {
	// mu protects the conns map.
	mu sync.RWMutex

	// conns maps connID to the live connection.
	conns map[string]Conn

	// presence is the userID to connID directory.
	presence *Presence

	// structured logger with hub context.
	logger zerolog.Logger
}

// NewHub returns an empty Hub with its own Presence directory.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]Conn),
		presence: NewPresence(),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Presence exposes the hub's presence directory.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Register adds an authenticated connection and binds its user in the
// presence directory. A previous connection of the same user keeps running
// but loses its presence entry (last connection wins).
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.conns[c.ConnID()] = c
	total := len(h.conns)
	h.mu.Unlock()

	if prev, ok := h.presence.Lookup(c.UserID()); ok && prev != c.ConnID() {
		h.logger.Warn().
			Str("user_id", c.UserID()).
			Str("replaced_conn_id", prev).
			Msg("User reconnected. Presence entry replaced; previous connection left open.")
	}

	h.presence.Register(c.UserID(), c.ConnID())

	h.logger.Info().
		Str("user_id", c.UserID()).
		Str("conn_id", c.ConnID()).
		Int("total_conns", total).
		Msg("Connection registered.")
}

// Unregister removes a connection. The presence entry is removed only if it
// still points at this connection; a newer registration for the same user
// survives this connection's late disconnect.
func (h *Hub) Unregister(c Conn) {
	removed := h.presence.Remove(c.UserID(), c.ConnID())

	h.mu.Lock()
	delete(h.conns, c.ConnID())
	total := len(h.conns)
	h.mu.Unlock()

	if !removed {
		h.logger.Info().
			Str("user_id", c.UserID()).
			Str("stale_conn_id", c.ConnID()).
			Msg("Disconnect of superseded connection. Live presence entry kept.")
	}

	h.logger.Info().
		Str("user_id", c.UserID()).
		Str("conn_id", c.ConnID()).
		Int("total_conns", total).
		Msg("Connection unregistered.")
}

// DeliverToUser sends an event to the user's active connection, if any.
// Reports whether delivery was attempted; queueing failures are swallowed,
// delivery is fire and forget.
func (h *Hub) DeliverToUser(userID, event string, data any) bool {
	connID, ok := h.presence.Lookup(userID)
	if !ok {
		return false
	}

	h.mu.RLock()
	conn, ok := h.conns[connID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	if err := conn.SendEvent(event, data); err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Str("conn_id", connID).
			Msg("Failed to queue event for recipient connection.")
	}

	return true
}

// Shutdown closes every live connection. Each close unwinds through the
// normal disconnect path, so presence ends up empty.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	h.logger.Info().Int("total_conns", len(conns)).Msg("Shutting down hub connections...")

	for _, c := range conns {
		c.Close()
	}
}
