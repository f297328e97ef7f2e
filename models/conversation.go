package models

import "time"

// Conversation is one immutable request/response turn in the ledger
type Conversation struct {
	ID           int       `json:"id"`
	UserID       string    `json:"user_id"`
	Message      string    `json:"message"`
	Response     string    `json:"response"`
	Language     string    `json:"language"`
	Mode         string    `json:"mode"`
	Confidence   float64   `json:"confidence"`
	ResponseTime float64   `json:"response_time"` // seconds
	CreatedAt    time.Time `json:"created_at"`
}
