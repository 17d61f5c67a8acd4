package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/classifier"
	"github.com/AnTengye/legalintel/pkg/dashboard"
	"github.com/AnTengye/legalintel/pkg/extract"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/pkg/metrics"
	"github.com/AnTengye/legalintel/pkg/pattern"
	"github.com/AnTengye/legalintel/pkg/query"
	"github.com/AnTengye/legalintel/pkg/scorer"
	"github.com/google/uuid"
)

// ErrNoDocuments is returned when an analysis has nothing to work on.
var ErrNoDocuments = errors.New("no documents to analyze")

// AllowedExtensions maps accepted upload extensions to their content type.
var AllowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
}

var analysisKeywords = []string{"analyze", "analysis", "insight", "trend", "pattern"}

// Engine wires the analysis core to storage. Every exported method is safe
// for concurrent use.
type Engine struct {
	store       *DocumentStore
	blobs       BlobStore
	classifier  *classifier.Classifier
	scorer      *scorer.Scorer
	analyzer    *query.Analyzer
	metrics     *metrics.Metrics
	maxFileSize int64
	now         func() time.Time
}

type Option func(*Engine)

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxFileSize sets the upload limit in bytes; 0 disables the check.
func WithMaxFileSize(n int64) Option {
	return func(e *Engine) { e.maxFileSize = n }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine over store. blobs may be nil, in which case raw
// bytes are not kept. A nil lib selects the built-in pattern tables.
func NewEngine(store *DocumentStore, blobs BlobStore, lib *pattern.Library, opts ...Option) *Engine {
	if lib == nil {
		lib = pattern.Default()
	}
	e := &Engine{
		store:      store,
		blobs:      blobs,
		classifier: classifier.New(lib),
		scorer:     scorer.New(lib),
		analyzer:   query.NewAnalyzer(lib),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckUpload validates the name and size of an upload before it is read.
func (e *Engine) CheckUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%s: %w", filename, ErrUnsupportedFileType)
	}
	if e.maxFileSize > 0 && size > e.maxFileSize {
		return fmt.Errorf("%s: %w", filename, ErrFileTooLarge)
	}
	return nil
}

// Ingest stores the raw bytes, extracts text, classifies and scores it, and
// saves the resulting document. Extraction and scoring faults are recorded
// on the document; only validation and blob storage errors are returned.
func (e *Engine) Ingest(ctx context.Context, filename string, data []byte, uploadedBy string) (*model.Document, error) {
	if err := e.CheckUpload(filename, int64(len(data))); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	now := e.now()
	id := uuid.New().String()

	doc := &model.Document{
		ID:               id,
		Status:           model.StatusProcessing,
		ProcessingErrors: []string{},
		UploadedBy:       uploadedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if e.blobs != nil {
		doc.BlobKey = id + ext
		if err := e.blobs.Put(ctx, doc.BlobKey, bytes.NewReader(data), int64(len(data)), AllowedExtensions[ext]); err != nil {
			return nil, fmt.Errorf("store %s: %w", filename, err)
		}
	}

	res := extract.Extract(data)
	if res.Err != nil {
		logger.Warn(ctx, "text extraction failed", "filename", filename, "format", res.Format, "error", res.Err)
		doc.ProcessingErrors = append(doc.ProcessingErrors, "Text extraction failed: "+res.Err.Error())
		e.metrics.ObserveFallback("extraction_failed")
	}
	doc.ExtractedText = res.Text
	doc.Metadata = e.classifier.BuildMetadata(filepath.Base(filename), int64(len(data)), ext, now, res.Text)

	e.applyInsights(ctx, doc, e.scorer.Analyze(doc))

	for _, old := range e.store.Save(doc) {
		e.deleteBlob(ctx, old)
	}
	e.metrics.ObserveIngest(string(res.Format), string(doc.Status))
	e.metrics.SetDocuments(e.store.Count())

	logger.Info(ctx, "document ingested",
		"document_id", doc.ID,
		"filename", doc.Metadata.Filename,
		"agreement_type", doc.Metadata.AgreementType,
		"risk", doc.Risk(),
		"status", doc.Status,
	)
	return doc, nil
}

// applyInsights attaches a scorer result to doc and settles its status.
func (e *Engine) applyInsights(ctx context.Context, doc *model.Document, res scorer.Result) {
	doc.Insights = res.Insights
	doc.Status = model.StatusCompleted
	if res.OK() {
		return
	}
	doc.ProcessingErrors = append(doc.ProcessingErrors, res.ProcessingError())
	e.metrics.ObserveFallback(string(res.Failure.Reason))
	if res.Failure.Reason == scorer.ReasonInternalError {
		doc.Status = model.StatusError
		logger.Error(ctx, "insight generation failed", "document_id", doc.ID, "error", res.Failure)
	}
}

// Query answers a free-text question over the whole collection.
func (e *Engine) Query(ctx context.Context, req model.QueryRequest) model.QueryResponse {
	docs := e.store.GetAll()
	resp := model.QueryResponse{
		Question:              req.Question,
		Results:               []model.QueryResult{},
		StructuredComparisons: []model.StructuredComparison{},
	}
	if len(docs) == 0 {
		resp.QueryAnalysis = model.QueryAnalysis{
			Intent:     model.IntentNoDocuments,
			Entities:   []string{},
			Complexity: model.ComplexityLow,
		}
		e.metrics.ObserveQuery(string(model.IntentNoDocuments), 0)
		return resp
	}

	analysis := e.analyzer.Analyze(req.Question)
	ranked := query.Rank(req.Question, docs, analysis, req.Filters)

	resp.QueryAnalysis = analysis
	resp.Results = query.ToResults(ranked)
	resp.TotalResults = len(resp.Results)

	if req.ComparisonType != "" || analysis.Intent == model.IntentComparison {
		if cmp := query.Compare(ranked); len(cmp) > 0 {
			resp.StructuredComparisons = cmp
		}
	}
	if wantsAnalysis(req, analysis) {
		resp.DocumentAnalysis = query.AnalyzeCollection(ranked, req.Question, e.now())
	}

	e.metrics.ObserveQuery(string(analysis.Intent), resp.TotalResults)
	logger.Debug(ctx, "query answered",
		"intent", analysis.Intent,
		"entities", analysis.Entities,
		"results", resp.TotalResults,
		"comparisons", len(resp.StructuredComparisons),
	)
	return resp
}

func wantsAnalysis(req model.QueryRequest, analysis model.QueryAnalysis) bool {
	if req.IncludeAnalysis || analysis.AnalysisRequested {
		return true
	}
	q := strings.ToLower(req.Question)
	for _, kw := range analysisKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Dashboard aggregates the current collection.
func (e *Engine) Dashboard() model.DashboardData {
	return dashboard.AggregateAt(e.store.GetAll(), e.now())
}

// Summary renders the portfolio report for dashboard data supplied by a
// client.
func (e *Engine) Summary(data model.DashboardData) string {
	return dashboard.PortfolioSummary(data, e.now())
}

func (e *Engine) List() []*model.Document {
	return e.store.GetAll()
}

func (e *Engine) Get(id string) (*model.Document, error) {
	doc := e.store.Get(id)
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Content opens the raw bytes of a stored document.
func (e *Engine) Content(ctx context.Context, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := e.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if e.blobs == nil || doc.BlobKey == "" {
		return nil, doc, ErrBlobNotFound
	}
	rc, err := e.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		return nil, doc, err
	}
	return rc, doc, nil
}

// DownloadURL returns a direct link to the raw bytes when the blob store can
// presign one.
func (e *Engine) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := e.Get(id)
	if err != nil {
		return "", err
	}
	p, ok := e.blobs.(Presigner)
	if !ok || doc.BlobKey == "" {
		return "", ErrPresignUnsupported
	}
	return p.PresignedURL(ctx, doc.BlobKey)
}

// Delete removes the document and its raw bytes.
func (e *Engine) Delete(ctx context.Context, id string) error {
	doc := e.store.Get(id)
	if doc == nil || !e.store.Delete(id) {
		return ErrDocumentNotFound
	}
	e.deleteBlob(ctx, doc)
	e.metrics.SetDocuments(e.store.Count())
	logger.Info(ctx, "document deleted", "document_id", id)
	return nil
}

// deleteBlob removes the raw bytes behind doc. A blob that cannot be
// removed is logged and left behind.
func (e *Engine) deleteBlob(ctx context.Context, doc *model.Document) {
	if e.blobs == nil || doc.BlobKey == "" {
		return
	}
	if err := e.blobs.Delete(ctx, doc.BlobKey); err != nil {
		logger.Warn(ctx, "failed to delete blob", "document_id", doc.ID, "key", doc.BlobKey, "error", err)
	}
}

// Regenerate rescores a document and swaps the new snapshot into the store.
func (e *Engine) Regenerate(ctx context.Context, id string) (*model.Document, model.RiskBreakdown, error) {
	doc := e.store.Get(id)
	if doc == nil {
		return nil, model.RiskBreakdown{}, ErrDocumentNotFound
	}

	next := doc.WithInsights(nil)
	next.ProcessingErrors = dropAnalysisErrors(next.ProcessingErrors)
	e.applyInsights(ctx, next, e.scorer.Analyze(doc))
	if err := e.store.Replace(next); err != nil {
		return nil, model.RiskBreakdown{}, err
	}

	logger.Info(ctx, "insights regenerated", "document_id", id, "risk", next.Risk())
	return next, e.scorer.RiskBreakdown(doc.ExtractedText), nil
}

// dropAnalysisErrors keeps extraction errors and discards entries left by
// earlier scoring runs.
func dropAnalysisErrors(errs []string) []string {
	kept := make([]string, 0, len(errs))
	for _, msg := range errs {
		if !strings.HasPrefix(msg, scorer.FailurePrefix) {
			kept = append(kept, msg)
		}
	}
	return kept
}

// DocumentAnalysis returns the per-document analysis view.
func (e *Engine) DocumentAnalysis(id string) (model.DocumentAnalysis, error) {
	doc, err := e.Get(id)
	if err != nil {
		return model.DocumentAnalysis{}, err
	}
	return e.scorer.DocumentAnalysis(doc, e.now()), nil
}

// AnalyzeCollection analyzes the given documents, or every document when ids
// is empty.
func (e *Engine) AnalyzeCollection(ids []string, question string) (*model.CollectionAnalysis, error) {
	var docs []*model.Document
	if len(ids) == 0 {
		docs = e.store.GetAll()
	} else {
		docs = e.store.GetMany(ids)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return query.AnalyzeCollection(docs, question, e.now()), nil
}
