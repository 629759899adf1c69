package handler

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karanmanglani/RiskSentinel/internal/edgar"
	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/loader"
	"github.com/karanmanglani/RiskSentinel/internal/rag"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

var tickerPattern = regexp.MustCompile(`^[A-Za-z.\-]{1,10}$`)

type IngestHandler struct {
	ingestor *rag.Ingestor
	store    vectorstore.Store
}

func NewIngestHandler(ingestor *rag.Ingestor, store vectorstore.Store) *IngestHandler {
	return &IngestHandler{ingestor: ingestor, store: store}
}

type IngestRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

func (h *IngestHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !tickerPattern.MatchString(req.Ticker) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticker"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	log.Printf("user %s requested ingestion of %s", userID, req.Ticker)

	result, err := h.ingestor.Ingest(c.Request.Context(), req.Ticker)
	if err != nil {
		c.JSON(statusForIngestError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteFiling removes every indexed chunk of one ticker's filings, so a
// filing can be re-ingested without piling up duplicates.
func (h *IngestHandler) DeleteFiling(c *gin.Context) {
	ticker := c.Param("ticker")
	if !tickerPattern.MatchString(ticker) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticker"})
		return
	}
	filingType := c.DefaultQuery("filing_type", "10-K")

	removed, err := h.store.DeleteByFiling(c.Request.Context(), ticker, filingType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "filing_type": filingType, "chunks_removed": removed})
}

func statusForIngestError(err error) int {
	var fetchErr *edgar.FetchError
	var loadErr *loader.LoadError
	var embErr *embedding.EmbeddingError
	var writeErr *vectorstore.WriteError
	switch {
	case errors.As(err, &fetchErr), errors.As(err, &loadErr), errors.As(err, &embErr):
		return http.StatusBadGateway
	case errors.As(err, &writeErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
