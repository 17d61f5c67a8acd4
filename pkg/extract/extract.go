// Package extract turns uploaded file bytes into plain text.
//
// Extraction is best effort: Extract never panics and always returns a
// Result; a failure leaves Text empty and is reported in Err so the caller
// can record it and carry on with the ingestion pipeline.
package extract

import (
	"bytes"
	"errors"
	"fmt"
)

// Format is the sniffed container format of an upload.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
)

// ErrLegacyDoc is reported for OLE2 Word files, which are stored but not read.
var ErrLegacyDoc = errors.New("legacy .doc text extraction is not supported")

var (
	magicPDF = []byte("%PDF")
	magicZIP = []byte("PK")
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Detect sniffs the format from the leading bytes. Unknown content is
// treated as PDF.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return FormatPDF
	case bytes.HasPrefix(data, magicZIP):
		return FormatDOCX
	case bytes.HasPrefix(data, magicOLE):
		return FormatDOC
	default:
		return FormatPDF
	}
}

// Result is the outcome of one extraction.
type Result struct {
	Format Format
	Text   string
	Err    error
}

// Extract detects the format of data and pulls out its text.
func Extract(data []byte) (res Result) {
	res.Format = Detect(data)
	defer func() {
		if r := recover(); r != nil {
			res.Text = ""
			res.Err = fmt.Errorf("%s extraction panicked: %v", res.Format, r)
		}
	}()

	var err error
	switch res.Format {
	case FormatDOCX:
		res.Text, err = docxText(data)
	case FormatDOC:
		err = ErrLegacyDoc
	default:
		res.Text, err = pdfText(data)
	}
	if err != nil {
		res.Text = ""
		res.Err = fmt.Errorf("extract %s: %w", res.Format, err)
	}
	return res
}
