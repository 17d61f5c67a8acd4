package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnTengye/legalintel/model"
	"github.com/gin-gonic/gin"
)

func TestQueryHandlerQuery(t *testing.T) {
	engine := newTestEngine(t)
	h := NewQueryHandler(engine)
	router := gin.New()
	router.POST("/api/query", h.Query)

	ctx := context.Background()
	nda, err := engine.Ingest(ctx, "nda.docx", docxBytes(t, ndaText), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := engine.Ingest(ctx, "msa.docx", docxBytes(t, msaText), ""); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	t.Run("agreement type question", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/query", map[string]any{"question": "show NDA agreements"}, ""))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp model.QueryResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if resp.QueryAnalysis.Intent != model.IntentAgreementType {
			t.Errorf("Expected agreement_type intent, got %s", resp.QueryAnalysis.Intent)
		}
		if resp.TotalResults != 1 || resp.Results[0].ID != nda.ID {
			t.Errorf("Expected only the NDA, got %+v", resp.Results)
		}
		if resp.DocumentAnalysis != nil {
			t.Error("Expected no document analysis for a plain question")
		}
	})

	t.Run("missing question", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/query", map[string]any{"filters": map[string]string{}}, ""))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestQueryHandlerNoDocuments(t *testing.T) {
	router := gin.New()
	router.POST("/api/query", NewQueryHandler(newTestEngine(t)).Query)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/query", map[string]any{"question": "anything"}, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	// Empty collections still return arrays, not null
	body := w.Body.String()
	if !strings.Contains(body, `"results":[]`) || !strings.Contains(body, `"structured_comparisons":[]`) {
		t.Errorf("Expected empty arrays, got %s", body)
	}
	if !strings.Contains(body, `"intent":"no_documents"`) {
		t.Errorf("Expected no_documents intent, got %s", body)
	}
}

func TestQueryHandlerAnalyzeDocuments(t *testing.T) {
	engine := newTestEngine(t)
	router := gin.New()
	router.POST("/api/analyze-documents", NewQueryHandler(engine).AnalyzeDocuments)

	t.Run("empty collection", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/analyze-documents", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "No documents to analyze") {
			t.Errorf("Expected error message, got %s", w.Body.String())
		}
	})

	nda, err := engine.Ingest(context.Background(), "nda.docx", docxBytes(t, ndaText), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"all documents", nil, http.StatusOK},
		{"selected documents", map[string]any{"document_ids": []string{nda.ID}, "question": "what are the risks?"}, http.StatusOK},
		{"unknown ids", map[string]any{"document_ids": []string{"missing"}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/analyze-documents", nil)
			if tt.body != nil {
				req = jsonRequest("POST", "/api/analyze-documents", tt.body, "")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK {
				var analysis model.CollectionAnalysis
				if err := json.Unmarshal(w.Body.Bytes(), &analysis); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if analysis.AnalysisSummary == "" {
					t.Error("Expected analysis summary")
				}
			}
		})
	}
}
