// Package responder implements the local language processor: a pattern and
// knowledge-base driven answerer for general (non-technical) messages.
package responder

import (
	"context"
	"log"
	"strings"
	"time"

	"konsultabot/models"
)

// KnowledgeSearcher finds the best stored answer for a message.
type KnowledgeSearcher interface {
	BestAnswer(ctx context.Context, message, language string) (*models.KnowledgeEntry, error)
}

// Processor answers general queries from local patterns and the knowledge base.
type Processor struct {
	knowledge KnowledgeSearcher
}

// New creates a Processor backed by the given knowledge searcher.
func New(knowledge KnowledgeSearcher) *Processor {
	return &Processor{knowledge: knowledge}
}

type intentRule struct {
	intent   string
	mode     string
	keywords []string
	response string
	conf     float64
}

var intentRules = []intentRule{
	{
		intent:   "greeting",
		mode:     "greeting",
		keywords: []string{"hello", "hi ", "hey", "good morning", "good afternoon", "good evening", "kumusta", "maupay"},
		response: "Hello! I'm Konsultabot, your AI assistant for EVSU Dulag campus. How can I help you today?",
		conf:     0.95,
	},
	{
		intent:   "goodbye",
		mode:     "greeting",
		keywords: []string{"bye", "goodbye", "see you", "thank you", "thanks", "salamat"},
		response: "You're welcome! Feel free to come back any time you have questions about the campus. Have a great day!",
		conf:     0.9,
	},
	{
		intent:   "enrollment",
		mode:     "campus_info",
		keywords: []string{"enrollment", "enroll", "register", "admission"},
		response: "For enrollment, please visit the Registrar's office with your Form 138, NSO Birth Certificate, Good Moral Certificate, and 2x2 photos. You can also contact the campus directly for specific enrollment procedures.",
		conf:     0.85,
	},
	{
		intent:   "courses",
		mode:     "campus_info",
		keywords: []string{"courses", "programs", "degree", "curriculum"},
		response: "EVSU Dulag offers various undergraduate programs including Education, Business, and Computer Science. For detailed course information, please contact the Academic Affairs office.",
		conf:     0.85,
	},
	{
		intent:   "library",
		mode:     "campus_info",
		keywords: []string{"library", "books", "study area"},
		response: "The campus library provides study areas, computer access, and research materials. Library hours and services may vary, so please check with the librarian for current schedules.",
		conf:     0.85,
	},
	{
		intent:   "contact",
		mode:     "campus_info",
		keywords: []string{"contact", "phone", "address", "location", "where is the campus"},
		response: "EVSU Dulag Campus is located in Dulag, Leyte. For specific contact information and office hours, please visit the campus or check the official EVSU website.",
		conf:     0.85,
	},
}

// ProcessMessage resolves a general response for the message. It consults
// the knowledge base first, then fixed intent patterns, then falls back to
// a generic prompt. The error return exists for contract symmetry; the
// local processor itself always produces a result.
func (p *Processor) ProcessMessage(ctx context.Context, message, language string, online bool, userID string) (*models.ProcessorResult, error) {
	start := time.Now()
	lower := strings.ToLower(message)

	// Knowledge base beats canned patterns: stored answers are curated
	// per campus and carry their own confidence.
	if p.knowledge != nil {
		entry, err := p.knowledge.BestAnswer(ctx, message, language)
		if err != nil {
			log.Printf("Knowledge base search failed: %v", err)
		} else if entry != nil {
			return &models.ProcessorResult{
				Response:     entry.Answer,
				Language:     language,
				Intent:       "knowledge_query",
				Mode:         "knowledge_base",
				Confidence:   entry.Confidence,
				ResponseTime: time.Since(start).Seconds(),
			}, nil
		}
	}

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return &models.ProcessorResult{
					Response:     rule.response,
					Language:     language,
					Intent:       rule.intent,
					Mode:         rule.mode,
					Confidence:   rule.conf,
					ResponseTime: time.Since(start).Seconds(),
				}, nil
			}
		}
	}

	if strings.Contains(lower, "time") || strings.Contains(lower, "date") || strings.Contains(lower, "today") {
		now := time.Now()
		return &models.ProcessorResult{
			Response:     "It is " + now.Format("3:04 PM") + " on " + now.Format("Monday, January 2, 2006") + ".",
			Language:     language,
			Intent:       "time_query",
			Mode:         "time_info",
			Confidence:   0.9,
			ResponseTime: time.Since(start).Seconds(),
		}, nil
	}

	fallback := "I'm sorry, I don't have specific information about that. Please contact the appropriate campus office for detailed assistance, or try rephrasing your question."
	mode := "fallback"
	confidence := 0.4
	if !online {
		fallback = "I'm currently offline and my knowledge is limited. " + fallback
		mode = "basic_response"
		confidence = 0.3
	}

	return &models.ProcessorResult{
		Response:     fallback,
		Language:     language,
		Intent:       "unknown",
		Mode:         mode,
		Confidence:   confidence,
		ResponseTime: time.Since(start).Seconds(),
	}, nil
}
