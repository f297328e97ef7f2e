package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"konsultabot/models"
)

// SessionStore manages chat session rows.
type SessionStore struct {
	db *sql.DB
}

// FindActive returns the active session for (session_id, user_id), or nil
// when none exists. Absence is not an error.
func (s *SessionStore) FindActive(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	var sess models.ChatSession
	var endedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, user_id, message_count, is_active, started_at, ended_at
		FROM chat_sessions
		WHERE session_id = $1 AND user_id = $2 AND is_active = TRUE
		ORDER BY started_at DESC
		LIMIT 1
	`, sessionID, userID).Scan(
		&sess.ID, &sess.SessionID, &sess.UserID,
		&sess.MessageCount, &sess.IsActive, &sess.StartedAt, &endedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return &sess, nil
}

// Create starts a new active session under the given id.
func (s *SessionStore) Create(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	sess := models.ChatSession{
		SessionID: sessionID,
		UserID:    userID,
		IsActive:  true,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (session_id, user_id)
		VALUES ($1, $2)
		RETURNING id, started_at
	`, sessionID, userID).Scan(&sess.ID, &sess.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &sess, nil
}

// IncrementMessageCount adds one to the session's message counter.
func (s *SessionStore) IncrementMessageCount(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE chat_sessions SET message_count = message_count + 1 WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to update message count: %w", err)
	}
	return nil
}

// End marks the caller's session inactive and stamps the end time.
// Returns ErrNotFound when no session matches.
func (s *SessionStore) End(ctx context.Context, sessionID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE chat_sessions
		SET is_active = FALSE, ended_at = $3
		WHERE session_id = $1 AND user_id = $2 AND is_active = TRUE
	`, sessionID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the caller's 20 most recent sessions, newest first.
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, user_id, message_count, is_active, started_at, ended_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT 20
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var sess models.ChatSession
		var endedAt sql.NullTime

		err := rows.Scan(&sess.ID, &sess.SessionID, &sess.UserID,
			&sess.MessageCount, &sess.IsActive, &sess.StartedAt, &endedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}
