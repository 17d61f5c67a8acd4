package handler

import (
	"errors"
	"net/http"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	engine *service.Engine
}

func NewQueryHandler(engine *service.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// AnalyzeRequest narrows a collection analysis. An empty body analyzes every
// document.
type AnalyzeRequest struct {
	DocumentIDs []string `json:"document_ids"`
	Question    string   `json:"question"`
}

// Query answers a natural language question over the collection
func (h *QueryHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	logger.Info(c.Request.Context(), "processing query", "question", req.Question)
	c.JSON(http.StatusOK, h.engine.Query(c.Request.Context(), req))
}

// AnalyzeDocuments runs the collection analysis
func (h *QueryHandler) AnalyzeDocuments(c *gin.Context) {
	var req AnalyzeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	analysis, err := h.engine.AnalyzeCollection(req.DocumentIDs, req.Question)
	if errors.Is(err, service.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No documents to analyze"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
