package models

import "time"

// TechnicalSolution is a catalogued fix for a known technical problem
type TechnicalSolution struct {
	Problem    string  `json:"problem"`
	Solution   string  `json:"solution"`
	Prevention string  `json:"prevention"`
	Confidence float64 `json:"confidence"`
}

// KnowledgeEntry is a question/answer row served from the knowledge base
type KnowledgeEntry struct {
	ID         int       `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Keywords   string    `json:"keywords"`
	Category   string    `json:"category"`
	Language   string    `json:"language"`
	Confidence float64   `json:"confidence_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampusInfo is a campus information article
type CampusInfo struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      string    `json:"tags"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResults groups free-text search hits across both sources
type SearchResults struct {
	KnowledgeBase []KnowledgeEntry `json:"knowledge_base"`
	CampusInfo    []CampusInfo     `json:"campus_info"`
}
