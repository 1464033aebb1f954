/*
Package relay contains the core logic of the direct-messaging relay.

This file defines the Presence directory: the shared mapping from user id to
the single active connection for that user. It is the only state shared
between connection handlers, so every read and write goes through it.
*/
package relay

import "sync"

// Presence maps each online user to their active connection id. At most one
// entry exists per user; a newer connection for the same user replaces the
// older entry (last connection wins) without closing the older connection.
type Presence struct {
	// mu protects the entries map.
	mu sync.RWMutex

	// entries maps userID to connID.
	entries map[string]string
}

// NewPresence returns an empty Presence directory. Each server (and each
// test) constructs its own; there is no package-level instance.
func NewPresence() *Presence {
	return &Presence{
		entries: make(map[string]string),
	}
}

// Register binds userID to connID, unconditionally replacing any existing
// entry for that user.
func (p *Presence) Register(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries[userID] = connID
}

// Lookup returns the connection id currently bound to userID, if any.
func (p *Presence) Lookup(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	connID, ok := p.entries[userID]
	return connID, ok
}

// Remove deletes the entry for userID only if it is still bound to connID,
// and reports whether an entry was removed. The compare keeps a superseded
// connection's late disconnect from evicting the entry of the connection
// that replaced it.
func (p *Presence) Remove(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := p.entries[userID]
	if !ok || current != connID {
		return false
	}

	delete(p.entries, userID)
	return true
}

// OnlineCount returns the number of users currently registered.
func (p *Presence) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.entries)
}
