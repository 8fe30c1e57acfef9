package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/dbx"
	"github.com/rentalconnect/rentalconnect/internal/domain"
)

const messageColumns = `id, sender_id, receiver_id, property_id, content, read, created_at`

// PostgresMessageRepository implements domain.MessageRepository using PostgreSQL
type PostgresMessageRepository struct {
	db     dbx.DBTX
	logger *slog.Logger
}

// NewPostgresMessageRepository creates a new message repository
func NewPostgresMessageRepository(db dbx.DBTX, logger *slog.Logger) *PostgresMessageRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMessageRepository{db: db, logger: logger}
}

// Create stores a message; created_at is assigned by the database.
// A receiver or property id that is not a UUID cannot exist and is NotFound.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	if !isUUID(m.ReceiverID) {
		return domain.NotFound("receiver")
	}
	if m.PropertyID != "" && !isUUID(m.PropertyID) {
		return domain.NotFound("property")
	}
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, property_id, content, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		nullString(m.PropertyID),
		m.Content,
		m.Read,
	).Scan(&m.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create message",
			slog.String("sender_id", m.SenderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListForAccount returns messages sent or received by accountID, newest first
func (r *PostgresMessageRepository) ListForAccount(ctx context.Context, accountID string) ([]*domain.Message, error) {
	if !isUUID(accountID) {
		return []*domain.Message{}, nil
	}
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flips the read flag in one statement scoped to the receiver.
// A missing message and one addressed to someone else are both NotFound.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, id, receiverID string) (*domain.Message, error) {
	if !isUUID(id) || !isUUID(receiverID) {
		return nil, domain.NotFound("message")
	}
	query := `UPDATE messages SET read = TRUE
		WHERE id = $1 AND receiver_id = $2
		RETURNING ` + messageColumns

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id, receiverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("message")
		}
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return m, nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	m := &domain.Message{}
	var propertyID sql.NullString
	err := row.Scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&propertyID,
		&m.Content,
		&m.Read,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.PropertyID = propertyID.String
	return m, nil
}
