package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"konsultabot/models"
)

// KnowledgeStore serves the knowledge_base and campus_info tables.
type KnowledgeStore struct {
	db *sql.DB
}

// ListKnowledge returns up to 20 active entries for a language, optionally
// filtered by category, highest confidence first.
func (s *KnowledgeStore) ListKnowledge(ctx context.Context, language, category string) ([]models.KnowledgeEntry, error) {
	query := `
		SELECT id, question, answer, keywords, category, language, confidence_score, created_at
		FROM knowledge_base
		WHERE language = $1 AND is_active = TRUE
	`
	args := []interface{}{language}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY confidence_score DESC LIMIT 20`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge base: %w", err)
	}
	defer rows.Close()

	return scanKnowledge(rows)
}

// ListCampusInfo returns up to 20 active articles for a language, optionally
// filtered by category, newest first.
func (s *KnowledgeStore) ListCampusInfo(ctx context.Context, language, category string) ([]models.CampusInfo, error) {
	query := `
		SELECT id, title, content, category, tags, language, created_at
		FROM campus_info
		WHERE language = $1 AND is_active = TRUE
	`
	args := []interface{}{language}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC LIMIT 20`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campus info: %w", err)
	}
	defer rows.Close()

	return scanCampusInfo(rows)
}

// Search runs a substring search across both sources, capped at 10 each.
func (s *KnowledgeStore) Search(ctx context.Context, query, language string) (*models.SearchResults, error) {
	pattern := "%" + query + "%"

	kbRows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, keywords, category, language, confidence_score, created_at
		FROM knowledge_base
		WHERE language = $1 AND is_active = TRUE
		  AND (question ILIKE $2 OR keywords ILIKE $2)
		ORDER BY confidence_score DESC
		LIMIT 10
	`, language, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	defer kbRows.Close()

	kb, err := scanKnowledge(kbRows)
	if err != nil {
		return nil, err
	}

	ciRows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, category, tags, language, created_at
		FROM campus_info
		WHERE language = $1 AND is_active = TRUE
		  AND (title ILIKE $2 OR content ILIKE $2 OR tags ILIKE $2)
		ORDER BY created_at DESC
		LIMIT 10
	`, language, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search campus info: %w", err)
	}
	defer ciRows.Close()

	ci, err := scanCampusInfo(ciRows)
	if err != nil {
		return nil, err
	}

	return &models.SearchResults{KnowledgeBase: kb, CampusInfo: ci}, nil
}

// BestAnswer returns the highest-confidence knowledge-base entry whose
// keywords or question appear in the message, or nil when nothing matches.
func (s *KnowledgeStore) BestAnswer(ctx context.Context, message, language string) (*models.KnowledgeEntry, error) {
	entries, err := s.ListKnowledge(ctx, language, "")
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(message)
	for i := range entries {
		for _, kw := range strings.Split(entries[i].Keywords, ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" && strings.Contains(lower, kw) {
				return &entries[i], nil
			}
		}
	}
	return nil, nil
}

func scanKnowledge(rows *sql.Rows) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	for rows.Next() {
		var e models.KnowledgeEntry
		err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Keywords,
			&e.Category, &e.Language, &e.Confidence, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanCampusInfo(rows *sql.Rows) ([]models.CampusInfo, error) {
	var infos []models.CampusInfo
	for rows.Next() {
		var i models.CampusInfo
		err := rows.Scan(&i.ID, &i.Title, &i.Content, &i.Category,
			&i.Tags, &i.Language, &i.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campus info: %w", err)
		}
		infos = append(infos, i)
	}
	return infos, rows.Err()
}
