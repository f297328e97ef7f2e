// Package store implements PostgreSQL persistence for sessions, the
// conversation ledger, and the knowledge-base serving surface.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup matches no row for the caller.
var ErrNotFound = errors.New("not found")

// Store bundles the per-table repositories over one connection pool.
type Store struct {
	Sessions      *SessionStore
	Conversations *ConversationStore
	Knowledge     *KnowledgeStore
}

// New creates a Store over the given database handle.
func New(db *sql.DB) *Store {
	return &Store{
		Sessions:      &SessionStore{db: db},
		Conversations: &ConversationStore{db: db},
		Knowledge:     &KnowledgeStore{db: db},
	}
}
