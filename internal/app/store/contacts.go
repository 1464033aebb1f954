package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"imchat/internal/app/user"
)

// ContactEntry is one row of the DM contact list: the peer's profile plus
// when the last message between the two users was exchanged.
type ContactEntry struct {
	user.Profile

	// Color is the contact's profile accent color.
	Color string `json:"color"`

	// LastMessageTime is the creation time of the newest message exchanged
	// with this contact.
	LastMessageTime time.Time `json:"lastMessageTime"`
}

// escapeLike neutralizes LIKE wildcards in user-supplied search input.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

// SearchContacts finds users whose first name, last name, or email contains
// the search term (case-insensitive), excluding the caller.
func (s *Store) SearchContacts(ctx context.Context, userID, searchTerm string) ([]user.Profile, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	pattern := "%" + escapeLike(searchTerm) + "%"

	rows, err := s.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, image
		FROM users
		WHERE id <> $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY first_name, last_name`,
		id, pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ListContacts returns the profile of every user except the caller.
func (s *Store) ListContacts(ctx context.Context, userID string) ([]user.Profile, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, image
		FROM users
		WHERE id <> $1
		ORDER BY first_name, last_name`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ListContactsByLastMessage returns every user the caller has exchanged
// messages with, most recent conversation first.
func (s *Store) ListContactsByLastMessage(ctx context.Context, userID string) ([]ContactEntry, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, u.image, u.color,
		       MAX(m.created_at) AS last_message_time
		FROM messages m
		JOIN users u
		  ON u.id = CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		GROUP BY u.id, u.email, u.first_name, u.last_name, u.image, u.color
		ORDER BY last_message_time DESC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []ContactEntry{}

	for rows.Next() {
		var (
			entry    ContactEntry
			rowID    pgtype.UUID
			lastTime pgtype.Timestamptz
		)

		err := rows.Scan(&rowID, &entry.Email, &entry.FirstName, &entry.LastName, &entry.Image, &entry.Color, &lastTime)
		if err != nil {
			return nil, err
		}

		entry.ID = rowID.String()
		entry.LastMessageTime = lastTime.Time

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanProfiles(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]user.Profile, error) {
	profiles := []user.Profile{}

	for rows.Next() {
		var (
			profile user.Profile
			rowID   pgtype.UUID
		)

		if err := rows.Scan(&rowID, &profile.Email, &profile.FirstName, &profile.LastName, &profile.Image); err != nil {
			return nil, err
		}

		profile.ID = rowID.String()
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}
