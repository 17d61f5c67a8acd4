package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/export"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

const csvContentType = "text/csv; charset=utf-8"

type ExportHandler struct {
	engine *service.Engine
	now    func() time.Time
}

func NewExportHandler(engine *service.Engine) *ExportHandler {
	return &ExportHandler{engine: engine, now: time.Now}
}

// Health reports that the export routes are mounted
func (h *ExportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "export",
		"message": "Export routes are working",
	})
}

// Dashboard exports the dashboard report in the requested format
func (h *ExportHandler) Dashboard(c *gin.Context) {
	format := c.Param("format")
	if format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported export format: %s", format)})
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.DashboardCSV(&buf, h.engine.Dashboard(), now); err != nil {
		logger.Error(c.Request.Context(), "dashboard export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	h.attach(c, "legal_dashboard", now, buf.Bytes())
}

// Query runs a query and exports its results
func (h *ExportHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.QueryCSV(&buf, h.engine.Query(c.Request.Context(), req), now); err != nil {
		logger.Error(c.Request.Context(), "query export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	h.attach(c, "query_results", now, buf.Bytes())
}

// Documents exports the document listing
func (h *ExportHandler) Documents(c *gin.Context) {
	now := h.now()
	var buf bytes.Buffer
	if err := export.DocumentsCSV(&buf, h.engine.List(), now); err != nil {
		logger.Error(c.Request.Context(), "documents export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	h.attach(c, "legal_documents", now, buf.Bytes())
}

func (h *ExportHandler) attach(c *gin.Context, prefix string, now time.Time, data []byte) {
	filename := fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, csvContentType, data)
}
