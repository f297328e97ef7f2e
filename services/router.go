// Package services contains the response router: the ordered pipeline that
// decides which responder answers an incoming message, records the turn,
// and produces the final chat response.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"konsultabot/models"
)

// Response modes produced by the router's own paths. The general
// responder reports its own modes (greeting, campus_info, fallback, ...).
const (
	ModeComplexTechnicalAI = "complex_technical_ai"
	ModeTechnicalKnowledge = "technical_knowledge"
	ModeTechnicalSupport   = "technical_support_request"
	ModeWebSearchFallback  = "web_search_fallback"
)

// Fixed confidence constants for the templated paths.
const (
	complexDefaultConfidence   = 0.9
	supportRequestConfidence   = 0.8
	webSearchDefaultConfidence = 0.8
	escalationThreshold        = 0.7
)

// SessionStore persists chat session rows.
type SessionStore interface {
	FindActive(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	Create(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	IncrementMessageCount(ctx context.Context, id int) error
}

// ConversationStore appends immutable ledger entries.
type ConversationStore interface {
	Insert(ctx context.Context, conv *models.Conversation) error
}

// ComplexityPolicy decides whether a message is a complex technical problem.
type ComplexityPolicy interface {
	IsComplex(message string) bool
}

// KeywordPolicy detects generic technical-complaint phrasing.
type KeywordPolicy interface {
	Matches(message string) bool
}

// Catalog looks up catalogued fixes for known technical problems.
type Catalog interface {
	Solution(message, language string) (*models.TechnicalSolution, bool)
}

// GeneralResponder is the opaque language processor.
type GeneralResponder interface {
	ProcessMessage(ctx context.Context, message, language string, online bool, userID string) (*models.ProcessorResult, error)
}

// WebSearcher is the best-effort external search service.
type WebSearcher interface {
	Search(ctx context.Context, message, language string) (*models.WebAnswer, bool)
}

// Connectivity reports whether an internet connection is available.
type Connectivity interface {
	Online() bool
}

// Router composes the classifiers, catalog, responder, and web search into
// the message-resolution pipeline.
type Router struct {
	sessions      SessionStore
	conversations ConversationStore
	complexity    ComplexityPolicy
	keywords      KeywordPolicy
	catalog       Catalog
	responder     GeneralResponder
	search        WebSearcher
	connectivity  Connectivity
}

// NewRouter wires the router from its collaborators.
func NewRouter(
	sessions SessionStore,
	conversations ConversationStore,
	complexity ComplexityPolicy,
	keywords KeywordPolicy,
	catalog Catalog,
	responder GeneralResponder,
	search WebSearcher,
	connectivity Connectivity,
) *Router {
	return &Router{
		sessions:      sessions,
		conversations: conversations,
		complexity:    complexity,
		keywords:      keywords,
		catalog:       catalog,
		responder:     responder,
		search:        search,
		connectivity:  connectivity,
	}
}

// Generic phrases that mark a general response as not actually answering
// the question, regardless of its reported confidence.
var genericPhrases = []string{
	"how can i help",
	"i'm here to help",
	"welcome to konsultabot",
	"what would you like to know",
}

// Modes from the general responder that always trigger the web retry.
var escalationModes = map[string]bool{
	"basic_response": true,
	"fallback":       true,
	"greeting":       true,
}

// ProcessMessage runs the full routing pipeline for one message and
// returns the finalized result. Exactly one ledger entry is written and
// the session's message count is incremented exactly once per call.
func (r *Router) ProcessMessage(ctx context.Context, userID, message, language, sessionID string) (*models.ChatResponse, error) {
	start := time.Now()

	// Step 1: session resolution. A supplied id that matches no active
	// session silently starts a new one under the same id.
	session, err := r.resolveSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	sessionID = session.SessionID

	// Step 2: complex technical problems go straight to web search.
	if r.complexity.IsComplex(message) {
		log.Printf("Complex technical problem detected, trying web search")
		if answer, ok := r.search.Search(ctx, message, language); ok {
			confidence := answer.Confidence
			if confidence == 0 {
				confidence = complexDefaultConfidence
			}
			result := &models.ChatResponse{
				Response:     frameComplexAnswer(answer.Answer),
				Language:     language,
				Intent:       "complex_technical",
				Mode:         ModeComplexTechnicalAI,
				Confidence:   confidence,
				ResponseTime: time.Since(start).Seconds(),
				SessionID:    sessionID,
			}
			return result, r.finalize(ctx, session, userID, message, result)
		}
		// No answer from the search service: fall through.
	}

	// Step 3: catalogued fix for a known technical problem.
	if solution, ok := r.catalog.Solution(message, language); ok {
		result := &models.ChatResponse{
			Response:     frameSolution(solution),
			Language:     language,
			Mode:         ModeTechnicalKnowledge,
			Confidence:   solution.Confidence,
			ResponseTime: time.Since(start).Seconds(),
			SessionID:    sessionID,
		}
		return result, r.finalize(ctx, session, userID, message, result)
	}

	// Step 4: generic technical phrasing gets the templated help message.
	if r.keywords.Matches(message) {
		result := &models.ChatResponse{
			Response:     technicalHelpResponse,
			Language:     language,
			Mode:         ModeTechnicalSupport,
			Confidence:   supportRequestConfidence,
			ResponseTime: time.Since(start).Seconds(),
			SessionID:    sessionID,
		}
		return result, r.finalize(ctx, session, userID, message, result)
	}

	// Step 5: general responder. Failure is absorbed so the web retry and
	// the last-resort template below still get their turn.
	general, err := r.responder.ProcessMessage(ctx, message, language, r.online(), userID)
	if err != nil {
		log.Printf("General responder failed: %v", err)
		general = nil
	}

	// Step 6: low-confidence or generic results retry via web search.
	if general == nil || shouldEscalate(general) {
		if general != nil {
			log.Printf("Low confidence response (%.2f, mode %s), trying web search", general.Confidence, general.Mode)
		}
		if answer, ok := r.search.Search(ctx, message, language); ok {
			confidence := answer.Confidence
			if confidence == 0 {
				confidence = webSearchDefaultConfidence
			}
			result := &models.ChatResponse{
				Response:     frameBetterAnswer(answer.Answer),
				Language:     language,
				Intent:       "web_search",
				Mode:         ModeWebSearchFallback,
				Confidence:   confidence,
				ResponseTime: time.Since(start).Seconds(),
				SessionID:    sessionID,
			}
			return result, r.finalize(ctx, session, userID, message, result)
		}
	}

	if general == nil {
		// Both the responder and the web retry produced nothing.
		result := &models.ChatResponse{
			Response:     "I'm sorry, I'm having trouble answering right now. Please try again in a moment.",
			Language:     language,
			Mode:         "fallback",
			Confidence:   0.3,
			ResponseTime: time.Since(start).Seconds(),
			SessionID:    sessionID,
		}
		return result, r.finalize(ctx, session, userID, message, result)
	}

	// Step 7: use the general responder's result verbatim.
	result := &models.ChatResponse{
		Response:     general.Response,
		Language:     general.Language,
		Intent:       general.Intent,
		Mode:         general.Mode,
		Confidence:   general.Confidence,
		ResponseTime: general.ResponseTime,
		SessionID:    sessionID,
	}
	return result, r.finalize(ctx, session, userID, message, result)
}

// resolveSession finds the caller's active session or starts a new one.
func (r *Router) resolveSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	if sessionID == "" {
		session, err := r.sessions.Create(ctx, uuid.NewString(), userID)
		if err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
		return session, nil
	}

	session, err := r.sessions.FindActive(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session != nil {
		return session, nil
	}

	session, err = r.sessions.Create(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// finalize writes the ledger entry and bumps the session counter. Runs on
// every finalized path, exactly once per processed message.
func (r *Router) finalize(ctx context.Context, session *models.ChatSession, userID, message string, result *models.ChatResponse) error {
	conv := &models.Conversation{
		UserID:       userID,
		Message:      message,
		Response:     result.Response,
		Language:     result.Language,
		Mode:         result.Mode,
		Confidence:   result.Confidence,
		ResponseTime: result.ResponseTime,
	}
	if err := r.conversations.Insert(ctx, conv); err != nil {
		return fmt.Errorf("failed to record conversation: %w", err)
	}

	if err := r.sessions.IncrementMessageCount(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (r *Router) online() bool {
	if r.connectivity == nil {
		return true
	}
	return r.connectivity.Online()
}

// shouldEscalate reports whether a general result is weak enough to retry
// via web search.
func shouldEscalate(result *models.ProcessorResult) bool {
	if result.Confidence < escalationThreshold {
		return true
	}
	if escalationModes[result.Mode] {
		return true
	}
	lower := strings.ToLower(result.Response)
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func frameComplexAnswer(answer string) string {
	return "🤖 **Let me help you with this complex issue:**\n\n" + answer +
		"\n\n*I used my advanced AI capabilities to give you the most comprehensive guidance possible. Did this help clarify things for you?*"
}

func frameBetterAnswer(answer string) string {
	return "🌐 **Let me search for a better answer:**\n\n" + answer +
		"\n\n*I wanted to make sure I gave you the most helpful response possible! Does this answer your question, or would you like me to explain anything further?*"
}

func frameSolution(s *models.TechnicalSolution) string {
	return fmt.Sprintf("**%s**\n\n%s\n\n**Prevention:** %s", s.Problem, s.Solution, s.Prevention)
}

const technicalHelpResponse = `Hey! I can definitely help you with that technical issue! 😊 I know tech problems can be really frustrating, but don't worry - we'll figure this out together.

To give you the best help possible, could you tell me a bit more about what's happening?

🔧 **I'd love to know:**
• What device or software is giving you trouble?
• What exactly is it doing (or not doing)?
• When did you first notice this problem?
• Have you tried anything to fix it yet?

**I'm really good at solving these common issues:**
🖨️ **Printer troubles:** Won't turn on, paper jams, printing quality issues, showing offline
💻 **Computer problems:** Won't start, running super slow, freezing up, overheating
🌐 **Internet/WiFi:** Can't connect, slow speeds, keeps dropping connection
📱 **Mobile devices:** Sluggish performance, battery draining fast, app crashes
💾 **Software issues:** Programs won't open, update problems, virus concerns

The more details you can share, the better I can help you get this sorted out! Don't worry if you're not sure about technical terms - just describe what you're experiencing in your own words. 👍`
