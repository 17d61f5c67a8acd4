package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

const (
	ndaText = "This Non-Disclosure Agreement is entered into in Dubai, UAE between Alpha Ltd and Beta Inc for the protection of confidential information."
	msaText = "This Master Services Agreement is made between Acme Corp and Globex LLC. It is governed by the laws of England."
)

var fixedNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *service.Engine {
	t.Helper()
	blobs, err := service.NewDiskBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}
	return service.NewEngine(service.NewDocumentStore(0), blobs, nil,
		service.WithMaxFileSize(1<<20),
		service.WithClock(func() time.Time { return fixedNow }),
	)
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>")
		xml.EscapeText(&body, []byte(p))
		body.WriteString("</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")
	return zipOf(t, map[string][]byte{"word/document.xml": []byte(body.String())}, "word/document.xml")
}

func zipOf(t *testing.T, files map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry: %v", err)
		}
		w.Write(files[name])
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		w.Write(f.data)
	}
	mw.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newDocumentRouter(h *DocumentHandler) *gin.Engine {
	router := gin.New()
	router.POST("/api/upload", h.Upload)
	router.POST("/api/upload-folder", h.UploadFolder)
	router.GET("/api/documents", h.List)
	router.GET("/api/documents/:id/analysis", h.Analysis)
	router.GET("/api/documents/:id/content", h.Download)
	router.GET("/api/documents/:id/url", h.DownloadURL)
	router.DELETE("/api/documents/:id", h.Delete)
	router.POST("/api/documents/:id/regenerate-ai", h.Regenerate)
	return router
}

func TestDocumentHandlerUpload(t *testing.T) {
	engine := newTestEngine(t)
	router := newDocumentRouter(NewDocumentHandler(engine, 1<<20, 2))

	req := multipartRequest(t, "/api/upload",
		formFile{"files", "nda.docx", docxBytes(t, ndaText)},
		formFile{"files", "notes.txt", []byte("plain text")},
		formFile{"files", "msa.docx", docxBytes(t, msaText)},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var report service.UploadReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if report.TotalProcessed != 2 {
		t.Errorf("Expected 2 processed, got %d", report.TotalProcessed)
	}
	if len(report.UploadedFiles) != 2 || report.UploadedFiles[0] != "nda.docx" || report.UploadedFiles[1] != "msa.docx" {
		t.Errorf("Expected [nda.docx msa.docx], got %v", report.UploadedFiles)
	}
	if len(report.FailedFiles) != 1 || report.FailedFiles[0] != "notes.txt (unsupported file type)" {
		t.Errorf("Expected notes.txt failure, got %v", report.FailedFiles)
	}
	if !strings.HasPrefix(report.Message, "Upload completed.") {
		t.Errorf("Expected upload message, got '%s'", report.Message)
	}
	if len(engine.List()) != 2 {
		t.Errorf("Expected 2 stored documents, got %d", len(engine.List()))
	}
}

func TestDocumentHandlerUploadNoFiles(t *testing.T) {
	router := newDocumentRouter(NewDocumentHandler(newTestEngine(t), 1<<20, 2))

	req := multipartRequest(t, "/api/upload", formFile{"other", "nda.docx", []byte("x")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDocumentHandlerUploadFolder(t *testing.T) {
	tests := []struct {
		name           string
		file           formFile
		expectedStatus int
		expectedStored int
	}{
		{
			name: "zip with documents",
			file: formFile{"file", "contracts.zip", zipOf(t, map[string][]byte{
				"contracts/nda.docx":  docxBytes(t, ndaText),
				"contracts/readme.md": []byte("ignored"),
				"contracts/msa.docx":  docxBytes(t, msaText),
			}, "contracts/nda.docx", "contracts/readme.md", "contracts/msa.docx")},
			expectedStatus: http.StatusOK,
			expectedStored: 2,
		},
		{
			name:           "not a zip name",
			file:           formFile{"file", "contracts.tar", []byte("x")},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "corrupt zip",
			file:           formFile{"file", "contracts.zip", []byte("not a zip")},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t)
			router := newDocumentRouter(NewDocumentHandler(engine, 1<<20, 2))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, "/api/upload-folder", tt.file))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if got := len(engine.List()); got != tt.expectedStored {
				t.Errorf("Expected %d stored documents, got %d", tt.expectedStored, got)
			}
			if tt.expectedStatus == http.StatusOK {
				var report service.UploadReport
				if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if !strings.HasPrefix(report.Message, "Folder upload completed.") {
					t.Errorf("Expected folder upload message, got '%s'", report.Message)
				}
			}
		})
	}
}

func TestDocumentHandlerList(t *testing.T) {
	engine := newTestEngine(t)
	router := newDocumentRouter(NewDocumentHandler(engine, 1<<20, 2))

	if _, err := engine.Ingest(context.Background(), "nda.docx", docxBytes(t, ndaText), "user@legal.com"); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/documents", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Documents []DocumentSummary `json:"documents"`
		Total     int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Total != 1 || len(response.Documents) != 1 {
		t.Fatalf("Expected 1 document, got %d", response.Total)
	}

	doc := response.Documents[0]
	if doc.Filename != "nda.docx" || doc.FileType != ".docx" {
		t.Errorf("Expected nda.docx/.docx, got %s/%s", doc.Filename, doc.FileType)
	}
	if doc.AgreementType == nil || *doc.AgreementType != string(model.AgreementNDA) {
		t.Errorf("Expected NDA agreement type, got %v", doc.AgreementType)
	}
	if doc.Status != model.StatusCompleted {
		t.Errorf("Expected status completed, got %s", doc.Status)
	}
	if doc.ConfidenceScore == nil {
		t.Error("Expected confidence score")
	}
	if doc.UploadDate != fixedNow.Format(time.RFC3339) {
		t.Errorf("Expected upload date %s, got %s", fixedNow.Format(time.RFC3339), doc.UploadDate)
	}
}

func TestDocumentHandlerLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	router := newDocumentRouter(NewDocumentHandler(engine, 1<<20, 2))

	data := docxBytes(t, ndaText)
	doc, err := engine.Ingest(context.Background(), "nda.docx", data, "user@legal.com")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	t.Run("analysis", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/analysis", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var analysis model.DocumentAnalysis
		if err := json.Unmarshal(w.Body.Bytes(), &analysis); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if analysis.DocumentID != doc.ID {
			t.Errorf("Expected document id %s, got %s", doc.ID, analysis.DocumentID)
		}
	})

	t.Run("download", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/content", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !bytes.Equal(w.Body.Bytes(), data) {
			t.Error("Expected downloaded bytes to match the upload")
		}
		if !strings.Contains(w.Header().Get("Content-Disposition"), "nda.docx") {
			t.Errorf("Expected filename in Content-Disposition, got '%s'", w.Header().Get("Content-Disposition"))
		}
	})

	t.Run("download url on disk storage", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/url", nil))

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Expected status 501, got %d", w.Code)
		}
	})

	t.Run("regenerate", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/documents/"+doc.ID+"/regenerate-ai", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var response map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		var message string
		json.Unmarshal(response["message"], &message)
		if message != "Fresh AI insights generated for document "+doc.ID {
			t.Errorf("Unexpected message '%s'", message)
		}
		for _, key := range []string{"ai_insights", "risk_breakdown"} {
			if _, ok := response[key]; !ok {
				t.Errorf("Expected '%s' in response", key)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/documents/"+doc.ID, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if len(engine.List()) != 0 {
			t.Error("Expected empty store after delete")
		}
	})

	t.Run("deleted document is gone", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{"GET", "/api/documents/" + doc.ID + "/analysis"},
			{"GET", "/api/documents/" + doc.ID + "/content"},
			{"GET", "/api/documents/" + doc.ID + "/url"},
			{"POST", "/api/documents/" + doc.ID + "/regenerate-ai"},
			{"DELETE", "/api/documents/" + doc.ID},
		} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != http.StatusNotFound {
				t.Errorf("%s %s: expected status 404, got %d", tc.method, tc.path, w.Code)
			}
		}
	})
}

func TestDocumentHandlerDownloadWithoutBlob(t *testing.T) {
	engine := service.NewEngine(service.NewDocumentStore(0), nil, nil)
	router := newDocumentRouter(NewDocumentHandler(engine, 0, 1))

	doc, err := engine.Ingest(context.Background(), "nda.docx", docxBytes(t, ndaText), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/content", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "Document not found") {
		t.Errorf("Expected not found message, got %s", body)
	}
}
