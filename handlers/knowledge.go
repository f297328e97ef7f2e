package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"konsultabot/models"
)

// KnowledgeReader serves the knowledge-base and campus-info surface.
type KnowledgeReader interface {
	ListKnowledge(ctx context.Context, language, category string) ([]models.KnowledgeEntry, error)
	ListCampusInfo(ctx context.Context, language, category string) ([]models.CampusInfo, error)
	Search(ctx context.Context, query, language string) (*models.SearchResults, error)
}

// KnowledgeHandler serves the catalog read endpoints.
type KnowledgeHandler struct {
	knowledge KnowledgeReader
}

// NewKnowledgeHandler creates the knowledge endpoints handler.
func NewKnowledgeHandler(knowledge KnowledgeReader) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

// KnowledgeBase lists knowledge base entries for a language
func (h *KnowledgeHandler) KnowledgeBase(c *gin.Context) {
	language := c.DefaultQuery("language", "english")
	category := c.Query("category")

	entries, err := h.knowledge.ListKnowledge(c.Request.Context(), language, category)
	if err != nil {
		log.Printf("Error listing knowledge base: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load knowledge base"})
		return
	}
	if entries == nil {
		entries = []models.KnowledgeEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// CampusInfo lists campus information articles for a language
func (h *KnowledgeHandler) CampusInfo(c *gin.Context) {
	language := c.DefaultQuery("language", "english")
	category := c.Query("category")

	infos, err := h.knowledge.ListCampusInfo(c.Request.Context(), language, category)
	if err != nil {
		log.Printf("Error listing campus info: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load campus info"})
		return
	}
	if infos == nil {
		infos = []models.CampusInfo{}
	}
	c.JSON(http.StatusOK, infos)
}

// SearchKnowledge runs a free-text search across both sources
func (h *KnowledgeHandler) SearchKnowledge(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Query parameter required"})
		return
	}
	language := c.DefaultQuery("language", "english")

	results, err := h.knowledge.Search(c.Request.Context(), query, language)
	if err != nil {
		log.Printf("Error searching knowledge: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Search failed"})
		return
	}
	if results.KnowledgeBase == nil {
		results.KnowledgeBase = []models.KnowledgeEntry{}
	}
	if results.CampusInfo == nil {
		results.CampusInfo = []models.CampusInfo{}
	}
	c.JSON(http.StatusOK, results)
}
