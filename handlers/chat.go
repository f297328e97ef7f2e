package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"konsultabot/models"
	"konsultabot/store"
)

// MessageRouter resolves one chat message into a finalized response.
type MessageRouter interface {
	ProcessMessage(ctx context.Context, userID, message, language, sessionID string) (*models.ChatResponse, error)
}

// HistoryStore reads the caller's conversation ledger.
type HistoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
}

// SessionDirectory lists and ends the caller's sessions.
type SessionDirectory interface {
	ListByUser(ctx context.Context, userID string) ([]models.ChatSession, error)
	End(ctx context.Context, sessionID, userID string) error
}

// Handler serves the chat endpoints.
type Handler struct {
	router   MessageRouter
	history  HistoryStore
	sessions SessionDirectory
}

// NewHandler creates the chat handler.
func NewHandler(router MessageRouter, history HistoryStore, sessions SessionDirectory) *Handler {
	return &Handler{router: router, history: history, sessions: sessions}
}

// SendMessage processes a chat message and returns the routed response
func (h *Handler) SendMessage(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}

	language := req.Language
	if language == "" {
		language = "english"
	}

	userID := callerID(c)
	log.Printf("Chat request - user: %s, session: %s", userID, req.SessionID)

	response, err := h.router.ProcessMessage(c.Request.Context(), userID, req.Message, language, req.SessionID)
	if err != nil {
		log.Printf("Error processing message: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to process message",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ConversationHistory returns the caller's 50 most recent turns
func (h *Handler) ConversationHistory(c *gin.Context) {
	history, err := h.history.ListByUser(c.Request.Context(), callerID(c))
	if err != nil {
		log.Printf("Error loading history: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load history"})
		return
	}
	if history == nil {
		history = []models.Conversation{}
	}
	c.JSON(http.StatusOK, history)
}

// ChatSessions returns the caller's 20 most recent sessions
func (h *Handler) ChatSessions(c *gin.Context) {
	sessions, err := h.sessions.ListByUser(c.Request.Context(), callerID(c))
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list sessions"})
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// EndSession marks a session inactive
func (h *Handler) EndSession(c *gin.Context) {
	var req models.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "session_id is required"})
		return
	}

	err := h.sessions.End(c.Request.Context(), req.SessionID, callerID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}
	if err != nil {
		log.Printf("Error ending session: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to end session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session ended successfully"})
}
