package models

import "time"

// ChatSession represents a bounded conversation under one session id
type ChatSession struct {
	ID           int        `json:"id"`
	SessionID    string     `json:"session_id"`
	UserID       string     `json:"user_id"`
	MessageCount int        `json:"message_count"`
	IsActive     bool       `json:"is_active"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}
