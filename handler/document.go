package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/middleware"
	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

// maxArchiveFactor bounds a folder upload relative to the per-file limit.
const maxArchiveFactor = 10

type DocumentHandler struct {
	engine      *service.Engine
	maxFileSize int64
	workers     int
}

func NewDocumentHandler(engine *service.Engine, maxFileSize int64, workers int) *DocumentHandler {
	return &DocumentHandler{engine: engine, maxFileSize: maxFileSize, workers: workers}
}

// DocumentSummary is one row of the document listing.
type DocumentSummary struct {
	ID              string                 `json:"id"`
	Filename        string                 `json:"filename"`
	FileSize        int64                  `json:"file_size"`
	FileType        string                 `json:"file_type"`
	UploadDate      string                 `json:"upload_date"`
	AgreementType   *string                `json:"agreement_type"`
	Jurisdiction    *string                `json:"jurisdiction"`
	Industry        *string                `json:"industry"`
	Geography       *string                `json:"geography"`
	Status          model.ProcessingStatus `json:"processing_status"`
	ConfidenceScore *float64               `json:"confidence_score"`
	AIInsights      *model.Insights        `json:"ai_insights"`
}

func summarize(doc *model.Document) DocumentSummary {
	s := DocumentSummary{
		ID:            doc.ID,
		Filename:      doc.Metadata.Filename,
		FileSize:      doc.Metadata.FileSize,
		FileType:      doc.Metadata.FileType,
		UploadDate:    doc.Metadata.UploadDate.Format(time.RFC3339),
		AgreementType: label(string(doc.Metadata.AgreementType)),
		Jurisdiction:  label(string(doc.Metadata.Jurisdiction)),
		Industry:      label(string(doc.Metadata.Industry)),
		Geography:     label(string(doc.Metadata.Geography)),
		Status:        doc.Status,
		AIInsights:    doc.Insights,
	}
	if c, ok := doc.Confidence(); ok {
		s.ConfidenceScore = &c
	}
	return s
}

func label(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Upload ingests every file of the multipart field "files"
func (h *DocumentHandler) Upload(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	headers := form.File["files"]
	uploads := make([]service.Upload, len(headers))
	for i, fh := range headers {
		uploads[i] = service.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		}
	}
	logger.Info(ctx, "processing uploaded files", "count", len(uploads))

	outcomes := h.engine.IngestBatch(ctx, uploads, middleware.GetEmail(c), h.workers)
	report := service.NewUploadReport("Upload", outcomes, time.Since(start))

	logger.Info(ctx, "upload completed",
		"processed", report.TotalProcessed,
		"failed", len(report.FailedFiles),
		"seconds", report.ProcessingTime,
	)
	c.JSON(http.StatusOK, report)
}

// UploadFolder ingests the supported files of a ZIP archive in field "file"
func (h *DocumentHandler) UploadFolder(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".zip" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a ZIP file containing documents"})
		return
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize*maxArchiveFactor {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Archive too large"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	outcomes, err := h.engine.IngestArchive(ctx, data, middleware.GetEmail(c), h.workers)
	if errors.Is(err, service.ErrInvalidArchive) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ZIP archive"})
		return
	}
	if err != nil {
		logger.Error(ctx, "folder upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Folder upload failed"})
		return
	}

	report := service.NewUploadReport("Folder upload", outcomes, time.Since(start))
	logger.Info(ctx, "folder upload completed",
		"archive", header.Filename,
		"processed", report.TotalProcessed,
		"failed", len(report.FailedFiles),
	)
	c.JSON(http.StatusOK, report)
}

// List returns all documents in upload order
func (h *DocumentHandler) List(c *gin.Context) {
	docs := h.engine.List()
	out := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = summarize(d)
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": out,
		"total":     len(out),
	})
}

// Analysis returns the per-document analysis view
func (h *DocumentHandler) Analysis(c *gin.Context) {
	analysis, err := h.engine.DocumentAnalysis(c.Param("id"))
	if errors.Is(err, service.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "document analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze document"})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Download streams the original file
func (h *DocumentHandler) Download(c *gin.Context) {
	rc, doc, err := h.engine.Content(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, service.ErrBlobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	case err != nil:
		logger.Error(c.Request.Context(), "failed to open document content", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read document"})
		return
	}
	defer rc.Close()

	contentType := service.AllowedExtensions[doc.Metadata.FileType]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, doc.Metadata.FileSize, contentType, rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + doc.Metadata.Filename + `"`,
	})
}

// DownloadURL returns a presigned link to the original file
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	url, err := h.engine.DownloadURL(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	case errors.Is(err, service.ErrPresignUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Direct download links are not available for this storage backend"})
		return
	case err != nil:
		logger.Error(c.Request.Context(), "failed to presign document", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Delete removes a document and its stored file
func (h *DocumentHandler) Delete(c *gin.Context) {
	err := h.engine.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "delete failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// Regenerate rescores a document and returns the fresh insights
func (h *DocumentHandler) Regenerate(c *gin.Context) {
	id := c.Param("id")
	doc, breakdown, err := h.engine.Regenerate(c.Request.Context(), id)
	if errors.Is(err, service.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to regenerate insights", "document_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate AI insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Fresh AI insights generated for document " + id,
		"ai_insights":       doc.Insights,
		"risk_breakdown":    breakdown,
		"processing_status": doc.Status,
	})
}
