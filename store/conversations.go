package store

import (
	"context"
	"database/sql"
	"fmt"

	"konsultabot/models"
)

// ConversationStore manages the immutable conversation ledger.
type ConversationStore struct {
	db *sql.DB
}

// Insert appends one ledger entry. Entries are never updated or deleted.
func (s *ConversationStore) Insert(ctx context.Context, conv *models.Conversation) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO conversations (user_id, message, response, language, mode, confidence, response_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, conv.UserID, conv.Message, conv.Response, conv.Language,
		conv.Mode, conv.Confidence, conv.ResponseTime,
	).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// ListByUser returns the caller's 50 most recent turns, newest first.
func (s *ConversationStore) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, response, language, mode, confidence, response_time, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	defer rows.Close()

	var history []models.Conversation
	for rows.Next() {
		var c models.Conversation
		err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Response,
			&c.Language, &c.Mode, &c.Confidence, &c.ResponseTime, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		history = append(history, c)
	}

	return history, rows.Err()
}
