package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultIngestWorkers bounds concurrent ingestion when no limit is given.
const DefaultIngestWorkers = 4

// Upload is one file waiting to be ingested.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadOutcome is the result for one Upload, in submission order.
type UploadOutcome struct {
	Filename string
	Document *model.Document
	Err      error
}

// IngestBatch ingests uploads with at most workers running at once. A
// failing file never stops the others; outcomes keep the input order.
func (e *Engine) IngestBatch(ctx context.Context, uploads []Upload, uploadedBy string, workers int) []UploadOutcome {
	if workers <= 0 {
		workers = DefaultIngestWorkers
	}
	outcomes := make([]UploadOutcome, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, up := range uploads {
		i, up := i, up
		outcomes[i].Filename = up.Filename
		g.Go(func() error {
			doc, err := e.ingestUpload(gctx, up, uploadedBy)
			if err != nil {
				logger.Warn(gctx, "failed to process upload", "filename", up.Filename, "error", err)
			}
			outcomes[i].Document = doc
			outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (e *Engine) ingestUpload(ctx context.Context, up Upload, uploadedBy string) (*model.Document, error) {
	if err := e.CheckUpload(up.Filename, up.Size); err != nil {
		return nil, err
	}
	rc, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", up.Filename, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if e.maxFileSize > 0 {
		r = io.LimitReader(rc, e.maxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", up.Filename, err)
	}
	return e.Ingest(ctx, up.Filename, data, uploadedBy)
}

// ArchiveUploads lists the supported files of a ZIP archive in archive
// order. Directories, macOS resource forks, hidden files and unsupported
// extensions are skipped.
func ArchiveUploads(data []byte) ([]Upload, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var uploads []Upload
	for _, f := range zr.File {
		name := f.Name
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			continue
		}
		if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), ".") {
			continue
		}
		if _, ok := AllowedExtensions[strings.ToLower(path.Ext(name))]; !ok {
			continue
		}
		uploads = append(uploads, Upload{
			Filename: name,
			Size:     int64(f.UncompressedSize64),
			Open:     f.Open,
		})
	}
	return uploads, nil
}

// IngestArchive ingests every supported file of a ZIP archive.
func (e *Engine) IngestArchive(ctx context.Context, data []byte, uploadedBy string, workers int) ([]UploadOutcome, error) {
	uploads, err := ArchiveUploads(data)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "found supported files in archive", "count", len(uploads))
	return e.IngestBatch(ctx, uploads, uploadedBy, workers), nil
}

// UploadReport is the response body of the upload endpoints.
type UploadReport struct {
	Message        string   `json:"message"`
	UploadedFiles  []string `json:"uploaded_files"`
	FailedFiles    []string `json:"failed_files"`
	DocumentIDs    []string `json:"document_ids"`
	TotalProcessed int      `json:"total_processed"`
	ProcessingTime float64  `json:"processing_time"`
}

// NewUploadReport summarizes outcomes. prefix starts the message, for
// example "Upload" or "Folder upload".
func NewUploadReport(prefix string, outcomes []UploadOutcome, elapsed time.Duration) UploadReport {
	r := UploadReport{
		UploadedFiles:  []string{},
		FailedFiles:    []string{},
		DocumentIDs:    []string{},
		ProcessingTime: elapsed.Seconds(),
	}
	for _, o := range outcomes {
		if o.Err != nil {
			r.FailedFiles = append(r.FailedFiles, fmt.Sprintf("%s (%s)", o.Filename, failureLabel(o.Err)))
			continue
		}
		r.UploadedFiles = append(r.UploadedFiles, o.Filename)
		r.DocumentIDs = append(r.DocumentIDs, o.Document.ID)
	}
	r.TotalProcessed = len(r.UploadedFiles)
	r.Message = fmt.Sprintf("%s completed. %d files processed successfully.", prefix, r.TotalProcessed)
	return r
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return "unsupported file type"
	case errors.Is(err, ErrFileTooLarge):
		return "file too large"
	default:
		return "processing error"
	}
}
