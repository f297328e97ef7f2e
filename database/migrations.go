package database

import (
	"database/sql"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id            SERIAL PRIMARY KEY,
		session_id    VARCHAR(64) NOT NULL,
		user_id       VARCHAR(128) NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ended_at      TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_sessions_lookup
		ON chat_sessions (session_id, user_id, is_active)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id            SERIAL PRIMARY KEY,
		user_id       VARCHAR(128) NOT NULL,
		message       TEXT NOT NULL,
		response      TEXT NOT NULL,
		language      VARCHAR(32) NOT NULL DEFAULT 'english',
		mode          VARCHAR(64) NOT NULL,
		confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
		response_time DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user
		ON conversations (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS knowledge_base (
		id               SERIAL PRIMARY KEY,
		question         TEXT NOT NULL,
		answer           TEXT NOT NULL,
		keywords         TEXT NOT NULL DEFAULT '',
		category         VARCHAR(64) NOT NULL DEFAULT 'general',
		language         VARCHAR(32) NOT NULL DEFAULT 'english',
		confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0.9,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (question, language)
	)`,
	`CREATE TABLE IF NOT EXISTS campus_info (
		id         SERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		category   VARCHAR(64) NOT NULL DEFAULT 'general',
		tags       TEXT NOT NULL DEFAULT '',
		language   VARCHAR(32) NOT NULL DEFAULT 'english',
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (title, language)
	)`,
}

type seedKnowledge struct {
	question, answer, keywords, category string
	confidence                           float64
}

var knowledgeSeeds = []seedKnowledge{
	{
		question:   "Where is the registrar's office?",
		answer:     "The Registrar's office is on the ground floor of the Administration Building, open Monday to Friday, 8:00 AM to 5:00 PM.",
		keywords:   "registrar,office,records,transcript",
		category:   "offices",
		confidence: 0.95,
	},
	{
		question:   "How do I enroll?",
		answer:     "Bring your Form 138, birth certificate, Good Moral Certificate, and 2x2 photos to the Registrar's office during the enrollment period.",
		keywords:   "enroll,enrollment,register,requirements,admission",
		category:   "enrollment",
		confidence: 0.95,
	},
	{
		question:   "What are the library hours?",
		answer:     "The campus library is open Monday to Friday from 7:30 AM to 6:00 PM, and Saturday mornings during the semester.",
		keywords:   "library,hours,books,study",
		category:   "facilities",
		confidence: 0.9,
	},
	{
		question:   "What courses are offered?",
		answer:     "The campus offers undergraduate programs in Education, Business Administration, Information Technology, and Computer Science. Visit Academic Affairs for the full catalogue.",
		keywords:   "courses,programs,degree,offerings",
		category:   "academics",
		confidence: 0.9,
	},
}

type seedCampusInfo struct {
	title, content, tags, category string
}

var campusInfoSeeds = []seedCampusInfo{
	{
		title:    "Campus Location",
		content:  "EVSU Dulag Campus is located along the national highway in Dulag, Leyte, about 40 km south of Tacloban City.",
		tags:     "location,address,directions",
		category: "general",
	},
	{
		title:    "Student Services",
		content:  "The Office of Student Affairs handles scholarships, organizations, and student concerns. It is located beside the gymnasium.",
		tags:     "students,scholarship,organizations",
		category: "services",
	},
	{
		title:    "Computer Laboratory",
		content:  "The computer laboratory is open to enrolled students during class hours and for free use from 4:00 PM to 6:00 PM on weekdays.",
		tags:     "computer,laboratory,facilities",
		category: "facilities",
	},
}

// RunMigrations ensures all required tables exist and seed data is loaded.
// Statements are idempotent, safe to run on every startup.
func RunMigrations(db *sql.DB) error {
	log.Println("Checking database schema...")

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	for _, s := range knowledgeSeeds {
		_, err := db.Exec(`
			INSERT INTO knowledge_base (question, answer, keywords, category, language, confidence_score)
			VALUES ($1, $2, $3, $4, 'english', $5)
			ON CONFLICT (question, language) DO NOTHING
		`, s.question, s.answer, s.keywords, s.category, s.confidence)
		if err != nil {
			return fmt.Errorf("knowledge seed failed: %w", err)
		}
	}

	for _, s := range campusInfoSeeds {
		_, err := db.Exec(`
			INSERT INTO campus_info (title, content, tags, category, language)
			VALUES ($1, $2, $3, $4, 'english')
			ON CONFLICT (title, language) DO NOTHING
		`, s.title, s.content, s.tags, s.category)
		if err != nil {
			return fmt.Errorf("campus info seed failed: %w", err)
		}
	}

	log.Println("Database schema ready")
	return nil
}
