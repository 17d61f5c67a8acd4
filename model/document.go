package model

import (
	"time"
)

// ProcessingStatus tracks how far a document got through ingestion
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

// Classification holds the text-derived metadata fields. The zero value of
// every field means no pattern matched.
type Classification struct {
	AgreementType  AgreementType `json:"agreement_type,omitempty"`
	Jurisdiction   Jurisdiction  `json:"jurisdiction,omitempty"`
	Industry       Industry      `json:"industry,omitempty"`
	Geography      Geography     `json:"geography,omitempty"`
	GoverningLaw   string        `json:"governing_law,omitempty"`
	Parties        []string      `json:"parties"`
	EffectiveDate  *time.Time    `json:"effective_date,omitempty"`
	ExpirationDate *time.Time    `json:"expiration_date,omitempty"`
	Value          *float64      `json:"value,omitempty"`
	Currency       string        `json:"currency,omitempty"`
}

// Metadata combines the structural upload fields with the classification.
type Metadata struct {
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `json:"upload_date"`
	Classification
}

// HasCoreLabel reports whether any of agreement type, jurisdiction or
// industry is set.
func (m Metadata) HasCoreLabel() bool {
	return m.AgreementType != "" || m.Jurisdiction != "" || m.Industry != ""
}

// HasAllCoreLabels reports whether agreement type, jurisdiction and industry
// are all set.
func (m Metadata) HasAllCoreLabels() bool {
	return m.AgreementType != "" && m.Jurisdiction != "" && m.Industry != ""
}

// Insights is the heuristic scorecard attached to a document.
type Insights struct {
	Summary           string              `json:"summary"`
	KeyTerms          []string            `json:"key_terms"`
	RiskAssessment    RiskLevel           `json:"risk_assessment,omitempty"`
	ComplianceStatus  ComplianceStatus    `json:"compliance_status,omitempty"`
	BusinessImpact    string              `json:"business_impact"`
	Recommendations   []string            `json:"recommendations"`
	ConfidenceScore   float64             `json:"confidence_score"`
	ExtractedEntities map[string][]string `json:"extracted_entities"`
	SentimentAnalysis string              `json:"sentiment_analysis"`
	ComplexityScore   float64             `json:"complexity_score"`
}

// Document is one ingested legal document. Stored documents are treated as
// immutable snapshots; use WithInsights to derive an updated copy.
type Document struct {
	ID               string           `json:"id"`
	Metadata         Metadata         `json:"metadata"`
	ExtractedText    string           `json:"extracted_text"`
	Insights         *Insights        `json:"ai_insights,omitempty"`
	Status           ProcessingStatus `json:"processing_status"`
	ProcessingErrors []string         `json:"processing_errors"`
	BlobKey          string           `json:"-"`
	UploadedBy       string           `json:"uploaded_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Confidence returns the insight confidence score when insights exist.
func (d *Document) Confidence() (float64, bool) {
	if d.Insights == nil {
		return 0, false
	}
	return d.Insights.ConfidenceScore, true
}

// Risk returns the risk tier, or "" when the document has no insights.
func (d *Document) Risk() RiskLevel {
	if d.Insights == nil {
		return ""
	}
	return d.Insights.RiskAssessment
}

// Compliance returns the compliance tier, or "" when the document has no insights.
func (d *Document) Compliance() ComplianceStatus {
	if d.Insights == nil {
		return ""
	}
	return d.Insights.ComplianceStatus
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Metadata.Parties = append(make([]string, 0, len(d.Metadata.Parties)), d.Metadata.Parties...)
	c.ProcessingErrors = append([]string(nil), d.ProcessingErrors...)
	if d.Metadata.Value != nil {
		v := *d.Metadata.Value
		c.Metadata.Value = &v
	}
	if d.Metadata.EffectiveDate != nil {
		t := *d.Metadata.EffectiveDate
		c.Metadata.EffectiveDate = &t
	}
	if d.Metadata.ExpirationDate != nil {
		t := *d.Metadata.ExpirationDate
		c.Metadata.ExpirationDate = &t
	}
	if d.Insights != nil {
		c.Insights = d.Insights.Clone()
	}
	return &c
}

// WithInsights returns a new snapshot carrying ins. Any processing errors
// are appended to the copy's error log; the receiver is left untouched.
func (d *Document) WithInsights(ins *Insights, processingErrors ...string) *Document {
	c := d.Clone()
	c.Insights = ins
	c.ProcessingErrors = append(c.ProcessingErrors, processingErrors...)
	c.UpdatedAt = time.Now()
	return c
}

// Clone returns a deep copy of the insights.
func (i *Insights) Clone() *Insights {
	c := *i
	c.KeyTerms = append([]string(nil), i.KeyTerms...)
	c.Recommendations = append([]string(nil), i.Recommendations...)
	if i.ExtractedEntities != nil {
		c.ExtractedEntities = make(map[string][]string, len(i.ExtractedEntities))
		for k, v := range i.ExtractedEntities {
			c.ExtractedEntities[k] = append([]string(nil), v...)
		}
	}
	return &c
}
