package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"konsultabot/classifier"
	"konsultabot/knowledge"
	"konsultabot/models"
)

type fakeSessions struct {
	rows       []*models.ChatSession
	nextID     int
	findErr    error
	createErr  error
	incrErr    error
	increments map[int]int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{increments: map[int]int{}}
}

func (f *fakeSessions) FindActive(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, s := range f.rows {
		if s.SessionID == sessionID && s.UserID == userID && s.IsActive {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) Create(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	s := &models.ChatSession{ID: f.nextID, SessionID: sessionID, UserID: userID, IsActive: true}
	f.rows = append(f.rows, s)
	return s, nil
}

func (f *fakeSessions) IncrementMessageCount(ctx context.Context, id int) error {
	if f.incrErr != nil {
		return f.incrErr
	}
	f.increments[id]++
	for _, s := range f.rows {
		if s.ID == id {
			s.MessageCount++
		}
	}
	return nil
}

type fakeConversations struct {
	entries   []models.Conversation
	insertErr error
}

func (f *fakeConversations) Insert(ctx context.Context, conv *models.Conversation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	conv.ID = len(f.entries) + 1
	f.entries = append(f.entries, *conv)
	return nil
}

type stubResponder struct {
	result *models.ProcessorResult
	err    error
	calls  int
}

func (s *stubResponder) ProcessMessage(ctx context.Context, message, language string, online bool, userID string) (*models.ProcessorResult, error) {
	s.calls++
	return s.result, s.err
}

type stubSearcher struct {
	answer *models.WebAnswer
	calls  int
}

func (s *stubSearcher) Search(ctx context.Context, message, language string) (*models.WebAnswer, bool) {
	s.calls++
	if s.answer == nil {
		return nil, false
	}
	return s.answer, true
}

type alwaysOnline struct{}

func (alwaysOnline) Online() bool { return true }

type fixture struct {
	sessions      *fakeSessions
	conversations *fakeConversations
	responder     *stubResponder
	searcher      *stubSearcher
	router        *Router
}

func newFixture(responder *stubResponder, searcher *stubSearcher) *fixture {
	f := &fixture{
		sessions:      newFakeSessions(),
		conversations: &fakeConversations{},
		responder:     responder,
		searcher:      searcher,
	}
	f.router = NewRouter(
		f.sessions,
		f.conversations,
		classifier.NewComplexProblemPolicy(),
		classifier.NewTechnicalKeywordPolicy(),
		knowledge.NewCatalog(),
		responder,
		searcher,
		alwaysOnline{},
	)
	return f
}

func normalResponder() *stubResponder {
	return &stubResponder{result: &models.ProcessorResult{
		Response:   "The canteen opens at 7 AM.",
		Language:   "english",
		Intent:     "campus_query",
		Mode:       "campus_info",
		Confidence: 0.85,
	}}
}

const complexMessage = "how do I configure a distributed cache with replica consistency across 3 data centers under network partition"

func TestComplexTechnicalPath(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{answer: &models.WebAnswer{Answer: "Use quorum writes.", Confidence: 0.9}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", complexMessage, "english", "")
	require.NoError(t, err)

	assert.Equal(t, ModeComplexTechnicalAI, res.Mode)
	assert.Equal(t, "complex_technical", res.Intent)
	assert.Equal(t, 0.9, res.Confidence)
	assert.Contains(t, res.Response, "Use quorum writes.")
	assert.Contains(t, res.Response, "complex issue")
	assert.Equal(t, 1, f.searcher.calls)
	assert.Equal(t, 0, f.responder.calls)
}

func TestComplexDefaultConfidence(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{answer: &models.WebAnswer{Answer: "Use quorum writes."}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", complexMessage, "english", "")
	require.NoError(t, err)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestKnownIssuePath(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "my printer is not working", "english", "")
	require.NoError(t, err)

	assert.Equal(t, ModeTechnicalKnowledge, res.Mode)
	assert.Equal(t, 0.95, res.Confidence)
	assert.Contains(t, res.Response, "Printer Not Working")
	assert.Contains(t, res.Response, "Prevention")
	assert.Equal(t, 0, f.responder.calls)
}

func TestComplexBeatsCatalogWhenSearchAnswers(t *testing.T) {
	// Matches both the complex classifier and the printer catalog entry.
	message := "my printer keeps crashing with error code 0x50 after a driver update on the print server"
	f := newFixture(normalResponder(), &stubSearcher{answer: &models.WebAnswer{Answer: "Roll back the driver.", Confidence: 0.9}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", message, "english", "")
	require.NoError(t, err)
	assert.Equal(t, ModeComplexTechnicalAI, res.Mode)
}

func TestComplexFallsThroughToCatalogOnEmptySearch(t *testing.T) {
	message := "my printer keeps crashing with error code 0x50 after a driver update on the print server"
	f := newFixture(normalResponder(), &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", message, "english", "")
	require.NoError(t, err)
	assert.Equal(t, ModeTechnicalKnowledge, res.Mode)
	assert.Equal(t, 1, f.searcher.calls)
}

func TestTechnicalKeywordTemplate(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})

	// Generic complaint: keyword match but no catalog entry.
	res, err := f.router.ProcessMessage(context.Background(), "u1", "I have an issue with my account", "english", "")
	require.NoError(t, err)

	assert.Equal(t, ModeTechnicalSupport, res.Mode)
	assert.Equal(t, 0.8, res.Confidence)
	assert.Contains(t, res.Response, "tell me a bit more")
	assert.Equal(t, 0, f.responder.calls)
}

func TestGeneralResponderVerbatim(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{answer: &models.WebAnswer{Answer: "should not be used"}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "when does the canteen open", "english", "")
	require.NoError(t, err)

	assert.Equal(t, "campus_info", res.Mode)
	assert.Equal(t, "The canteen opens at 7 AM.", res.Response)
	assert.Equal(t, "campus_query", res.Intent)
	assert.Equal(t, 0.85, res.Confidence)
	assert.Equal(t, 0, f.searcher.calls)
}

func TestEscalationAtLowConfidence(t *testing.T) {
	// Confidence exactly 0.69 with an escalation mode must retry.
	responder := &stubResponder{result: &models.ProcessorResult{
		Response: "something", Language: "english", Mode: "basic_response", Confidence: 0.69,
	}}
	f := newFixture(responder, &stubSearcher{answer: &models.WebAnswer{Answer: "A better answer.", Confidence: 0.8}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about the moon", "english", "")
	require.NoError(t, err)

	assert.Equal(t, ModeWebSearchFallback, res.Mode)
	assert.Equal(t, "web_search", res.Intent)
	assert.Equal(t, 0.8, res.Confidence)
	assert.Contains(t, res.Response, "A better answer.")
}

func TestNoEscalationAboveThreshold(t *testing.T) {
	// Confidence 0.70 with a non-escalation mode must not retry.
	responder := &stubResponder{result: &models.ProcessorResult{
		Response: "something", Language: "english", Mode: "normal", Confidence: 0.70,
	}}
	f := newFixture(responder, &stubSearcher{answer: &models.WebAnswer{Answer: "unused"}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about the moon", "english", "")
	require.NoError(t, err)

	assert.Equal(t, "normal", res.Mode)
	assert.Equal(t, 0, f.searcher.calls)
}

func TestGreetingModeEscalatesDespiteHighConfidence(t *testing.T) {
	responder := &stubResponder{result: &models.ProcessorResult{
		Response: "Hi!", Language: "english", Mode: "greeting", Confidence: 0.95,
	}}
	f := newFixture(responder, &stubSearcher{answer: &models.WebAnswer{Answer: "Detailed greeting context.", Confidence: 0.8}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about mars", "english", "")
	require.NoError(t, err)
	assert.Equal(t, ModeWebSearchFallback, res.Mode)
}

func TestGenericPhraseEscalates(t *testing.T) {
	responder := &stubResponder{result: &models.ProcessorResult{
		Response: "Welcome to Konsultabot! How can I help?", Language: "english", Mode: "normal", Confidence: 0.9,
	}}
	f := newFixture(responder, &stubSearcher{answer: &models.WebAnswer{Answer: "Real answer.", Confidence: 0.8}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about mars", "english", "")
	require.NoError(t, err)
	assert.Equal(t, ModeWebSearchFallback, res.Mode)
}

func TestEscalationFallsThroughToVerbatimOnEmptySearch(t *testing.T) {
	responder := &stubResponder{result: &models.ProcessorResult{
		Response: "weak answer", Language: "english", Mode: "fallback", Confidence: 0.4,
	}}
	f := newFixture(responder, &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about mars", "english", "")
	require.NoError(t, err)

	assert.Equal(t, "fallback", res.Mode)
	assert.Equal(t, "weak answer", res.Response)
	assert.Equal(t, 1, f.searcher.calls)
}

func TestResponderFailureAbsorbed(t *testing.T) {
	responder := &stubResponder{err: errors.New("processor down")}
	f := newFixture(responder, &stubSearcher{answer: &models.WebAnswer{Answer: "Rescued by search.", Confidence: 0.8}})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about mars", "english", "")
	require.NoError(t, err)
	assert.Equal(t, ModeWebSearchFallback, res.Mode)
}

func TestResponderFailureAndEmptySearch(t *testing.T) {
	responder := &stubResponder{err: errors.New("processor down")}
	f := newFixture(responder, &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "tell me about mars", "english", "")
	require.NoError(t, err)

	assert.Equal(t, "fallback", res.Mode)
	assert.NotEmpty(t, res.Response)
	// Still exactly one ledger entry.
	assert.Len(t, f.conversations.entries, 1)
}

func TestExactlyOneLedgerEntryAndIncrementPerMessage(t *testing.T) {
	paths := []struct {
		name      string
		message   string
		responder *stubResponder
		searcher  *stubSearcher
	}{
		{"complex", complexMessage, normalResponder(), &stubSearcher{answer: &models.WebAnswer{Answer: "x", Confidence: 0.9}}},
		{"catalog", "my printer is not working", normalResponder(), &stubSearcher{}},
		{"keyword", "I have an issue with something", normalResponder(), &stubSearcher{}},
		{"general", "when does the canteen open", normalResponder(), &stubSearcher{}},
		{"web retry", "tell me about mars", &stubResponder{result: &models.ProcessorResult{Response: "?", Mode: "fallback", Confidence: 0.2, Language: "english"}}, &stubSearcher{answer: &models.WebAnswer{Answer: "y", Confidence: 0.8}}},
	}

	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.responder, tt.searcher)

			res, err := f.router.ProcessMessage(context.Background(), "u1", tt.message, "english", "")
			require.NoError(t, err)
			require.NotNil(t, res)

			assert.Len(t, f.conversations.entries, 1)
			require.Len(t, f.sessions.rows, 1)
			assert.Equal(t, 1, f.sessions.increments[f.sessions.rows[0].ID])

			entry := f.conversations.entries[0]
			assert.Equal(t, tt.message, entry.Message)
			assert.Equal(t, res.Response, entry.Response)
			assert.Equal(t, res.Mode, entry.Mode)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
			assert.GreaterOrEqual(t, res.ResponseTime, 0.0)
		})
	}
}

func TestSessionGeneratedWhenAbsent(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "when does the canteen open", "english", "")
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	require.Len(t, f.sessions.rows, 1)
	assert.Equal(t, res.SessionID, f.sessions.rows[0].SessionID)
}

func TestSessionResume(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})
	ctx := context.Background()

	first, err := f.router.ProcessMessage(ctx, "u1", "when does the canteen open", "english", "sess-1")
	require.NoError(t, err)
	second, err := f.router.ProcessMessage(ctx, "u1", "and on weekends?", "english", "sess-1")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	require.Len(t, f.sessions.rows, 1, "resume must reuse the session row")
	assert.Equal(t, 2, f.sessions.rows[0].MessageCount)
}

func TestStaleSessionIDStartsNewSessionSilently(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})

	res, err := f.router.ProcessMessage(context.Background(), "u1", "when does the canteen open", "english", "never-seen")
	require.NoError(t, err)

	assert.Equal(t, "never-seen", res.SessionID)
	require.Len(t, f.sessions.rows, 1)
}

func TestEndedSessionNotResumed(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})
	ctx := context.Background()

	_, err := f.router.ProcessMessage(ctx, "u1", "when does the canteen open", "english", "sess-1")
	require.NoError(t, err)

	// End it out of band.
	f.sessions.rows[0].IsActive = false

	_, err = f.router.ProcessMessage(ctx, "u1", "hello again", "english", "sess-1")
	require.NoError(t, err)

	require.Len(t, f.sessions.rows, 2, "a fresh session must be created")
	assert.True(t, f.sessions.rows[1].IsActive)
}

func TestForeignSessionNotShared(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})
	ctx := context.Background()

	_, err := f.router.ProcessMessage(ctx, "u1", "when does the canteen open", "english", "sess-1")
	require.NoError(t, err)
	_, err = f.router.ProcessMessage(ctx, "u2", "when does the canteen open", "english", "sess-1")
	require.NoError(t, err)

	require.Len(t, f.sessions.rows, 2)
	assert.NotEqual(t, f.sessions.rows[0].UserID, f.sessions.rows[1].UserID)
}

func TestPersistenceFailurePropagates(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})
	f.conversations.insertErr = fmt.Errorf("disk full")

	_, err := f.router.ProcessMessage(context.Background(), "u1", "when does the canteen open", "english", "")
	assert.Error(t, err)
}

func TestSessionLookupFailurePropagates(t *testing.T) {
	f := newFixture(normalResponder(), &stubSearcher{})
	f.sessions.findErr = fmt.Errorf("db down")

	_, err := f.router.ProcessMessage(context.Background(), "u1", "hello", "english", "sess-1")
	assert.Error(t, err)
	assert.Empty(t, f.conversations.entries, "no ledger write on failed session resolution")
}
