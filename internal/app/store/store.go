/*
Package store implements persistence for user accounts and direct messages on
PostgreSQL via pgx.

It is the concrete implementation behind the message.Store contract: message
creation returns the canonical record with both profile projections resolved,
so callers never join against the users table themselves.
*/
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"imchat/internal/app/message"
	"imchat/internal/app/user"
)

// Store executes all database queries for the application.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Credentials couples an account with its password hash for login checks.
// It never leaves the handler performing the check.
type Credentials struct {
	Account      user.Account
	PasswordHash string
}

func parseUUID(id string) (pgtype.UUID, error) {
	var u pgtype.UUID
	if err := u.Scan(id); err != nil {
		return u, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	return u, nil
}

const accountColumns = "id, email, first_name, last_name, image, color, profile_setup"

func scanAccount(row interface{ Scan(dest ...any) error }) (user.Account, error) {
	var (
		acct user.Account
		id   pgtype.UUID
	)

	err := row.Scan(&id, &acct.Email, &acct.FirstName, &acct.LastName, &acct.Image, &acct.Color, &acct.ProfileSetup)
	if err != nil {
		return user.Account{}, err
	}

	acct.ID = id.String()
	return acct, nil
}

// CreateUser inserts a new account with the given email and password hash.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (user.Account, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+accountColumns,
		email, passwordHash,
	)

	return scanAccount(row)
}

// GetCredentialsByEmail fetches an account and its password hash for login.
func (s *Store) GetCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`, password_hash
		FROM users
		WHERE email = $1`,
		email,
	)

	var (
		creds Credentials
		id    pgtype.UUID
	)

	err := row.Scan(
		&id,
		&creds.Account.Email,
		&creds.Account.FirstName,
		&creds.Account.LastName,
		&creds.Account.Image,
		&creds.Account.Color,
		&creds.Account.ProfileSetup,
		&creds.PasswordHash,
	)
	if err != nil {
		return Credentials{}, err
	}

	creds.Account.ID = id.String()
	return creds, nil
}

// GetAccountByID fetches one account by its id.
func (s *Store) GetAccountByID(ctx context.Context, userID string) (user.Account, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return user.Account{}, err
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE id = $1`,
		id,
	)

	return scanAccount(row)
}

// UpdateProfile sets the user's name and color and marks profile setup done.
func (s *Store) UpdateProfile(ctx context.Context, userID, firstName, lastName, color string) (user.Account, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return user.Account{}, err
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, color = $4, profile_setup = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns,
		id, firstName, lastName, color,
	)

	return scanAccount(row)
}

// getProfile resolves one user id to its public projection.
func (s *Store) getProfile(ctx context.Context, id pgtype.UUID) (user.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, image
		FROM users
		WHERE id = $1`,
		id,
	)

	var (
		profile user.Profile
		rowID   pgtype.UUID
	)

	err := row.Scan(&rowID, &profile.Email, &profile.FirstName, &profile.LastName, &profile.Image)
	if err != nil {
		return user.Profile{}, err
	}

	profile.ID = rowID.String()
	return profile, nil
}

// CreateMessage persists a direct message and returns the canonical record
// with the generated id, timestamp, and hydrated profiles. Implements
// message.Store.
func (s *Store) CreateMessage(ctx context.Context, params message.CreateParams) (message.Message, error) {
	senderID, err := parseUUID(params.SenderID)
	if err != nil {
		return message.Message{}, err
	}

	recipientID, err := parseUUID(params.RecipientID)
	if err != nil {
		return message.Message{}, err
	}

	content := pgtype.Text{String: params.Content, Valid: params.MessageType == message.TypeText}
	fileURL := pgtype.Text{String: params.FileURL, Valid: params.MessageType == message.TypeFile}

	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	err = s.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, recipient_id, message_type, content, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		senderID, recipientID, string(params.MessageType), content, fileURL,
	).Scan(&id, &createdAt)
	if err != nil {
		return message.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}

	sender, err := s.getProfile(ctx, senderID)
	if err != nil {
		return message.Message{}, fmt.Errorf("failed to resolve sender profile: %w", err)
	}

	recipient, err := s.getProfile(ctx, recipientID)
	if err != nil {
		return message.Message{}, fmt.Errorf("failed to resolve recipient profile: %w", err)
	}

	return message.Message{
		ID:          id.String(),
		Sender:      sender,
		Recipient:   recipient,
		MessageType: params.MessageType,
		Content:     params.Content,
		FileURL:     params.FileURL,
		Timestamp:   createdAt.Time,
	}, nil
}

// ListMessagesBetween returns the full history between two users in
// chronological order, profiles hydrated.
func (s *Store) ListMessagesBetween(ctx context.Context, userID, peerID string) ([]message.Message, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	pid, err := parseUUID(peerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.message_type, m.content, m.file_url, m.created_at,
		       s.id, s.email, s.first_name, s.last_name, s.image,
		       r.id, r.email, r.first_name, r.last_name, r.image
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.recipient_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC`,
		uid, pid,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []message.Message{}

	for rows.Next() {
		var (
			msg              message.Message
			msgID, sID, rID  pgtype.UUID
			msgType          string
			content, fileURL pgtype.Text
			createdAt        pgtype.Timestamptz
		)

		err := rows.Scan(
			&msgID, &msgType, &content, &fileURL, &createdAt,
			&sID, &msg.Sender.Email, &msg.Sender.FirstName, &msg.Sender.LastName, &msg.Sender.Image,
			&rID, &msg.Recipient.Email, &msg.Recipient.FirstName, &msg.Recipient.LastName, &msg.Recipient.Image,
		)
		if err != nil {
			return nil, err
		}

		msg.ID = msgID.String()
		msg.Sender.ID = sID.String()
		msg.Recipient.ID = rID.String()
		msg.MessageType = message.Type(msgType)
		msg.Content = content.String
		msg.FileURL = fileURL.String
		msg.Timestamp = createdAt.Time

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// DeleteMessagesBetween removes the entire history between two users.
func (s *Store) DeleteMessagesBetween(ctx context.Context, userID, peerID string) error {
	uid, err := parseUUID(userID)
	if err != nil {
		return err
	}

	pid, err := parseUUID(peerID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		DELETE FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)`,
		uid, pid,
	)

	return err
}
