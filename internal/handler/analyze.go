package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/rag"
	"github.com/karanmanglani/RiskSentinel/internal/service"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

type AnalyzeHandler struct {
	svc *service.ChatService
}

func NewAnalyzeHandler(svc *service.ChatService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

type AnalyzeRequest struct {
	Question string `json:"question"`
}

// Analyze answers a risk question against the ingested filings. Empty
// questions are rejected here; the engine is never called with one.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question must not be empty"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	answer, err := h.svc.Analyze(c.Request.Context(), userID, req.Question)
	if err != nil {
		c.JSON(statusForAnswerError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *AnalyzeHandler) History(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func statusForAnswerError(err error) int {
	var embErr *embedding.EmbeddingError
	var genErr *rag.GenerationError
	var queryErr *vectorstore.QueryError
	switch {
	case errors.As(err, &embErr), errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.As(err, &queryErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
