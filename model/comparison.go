package model

import "time"

// StructuredComparison is a similarity/difference report for one group of
// documents sharing a categorical attribute.
type StructuredComparison struct {
	ComparisonType     string             `json:"comparison_type"`
	DocumentsInvolved  []string           `json:"documents_involved"`
	Similarities       []string           `json:"similarities"`
	Differences        []string           `json:"differences"`
	Insights           string             `json:"insights"`
	ConfidenceScore    float64            `json:"confidence_score"`
	MetadataComparison MetadataComparison `json:"metadata_comparison"`
}

type MetadataComparison struct {
	AgreementTypes         map[string]int           `json:"agreement_types"`
	Jurisdictions          map[string]int           `json:"jurisdictions"`
	Industries             map[string]int           `json:"industries"`
	TotalDocuments         int                      `json:"total_documents"`
	ValueRange             *ValueRange              `json:"value_range,omitempty"`
	RiskDistribution       map[RiskLevel]int        `json:"risk_distribution"`
	ComplianceDistribution map[ComplianceStatus]int `json:"compliance_distribution"`
}

type ValueRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Assessment is a verdict with the evidence behind it.
type Assessment struct {
	Level   string   `json:"level,omitempty"`
	Status  string   `json:"status,omitempty"`
	Factors []string `json:"factors"`
	Score   float64  `json:"score"`
}

// CollectionAnalysis summarizes a set of documents in the context of a question.
type CollectionAnalysis struct {
	AnalysisSummary      string     `json:"analysis_summary"`
	KeyFindings          []string   `json:"key_findings"`
	RiskAssessment       Assessment `json:"risk_assessment"`
	ComplianceCheck      Assessment `json:"compliance_check"`
	BusinessImplications []string   `json:"business_implications"`
	Recommendations      []string   `json:"recommendations"`
	ConfidenceScore      float64    `json:"confidence_score"`
	AnalysisTimestamp    time.Time  `json:"analysis_timestamp"`
}

// DocumentAnalysis is the per-document analysis view.
type DocumentAnalysis struct {
	DocumentID           string     `json:"document_id"`
	Filename             string     `json:"filename"`
	AnalysisSummary      string     `json:"analysis_summary"`
	KeyFindings          []string   `json:"key_findings"`
	RiskAssessment       Assessment `json:"risk_assessment"`
	ComplianceCheck      Assessment `json:"compliance_check"`
	BusinessImplications []string   `json:"business_implications"`
	Recommendations      []string   `json:"recommendations"`
	ConfidenceScore      float64    `json:"confidence_score"`
	AnalysisTimestamp    time.Time  `json:"analysis_timestamp"`
}

// RiskBreakdown exposes the raw material behind a risk tier.
type RiskBreakdown struct {
	RawScores        map[string]int                 `json:"raw_scores"`
	NormalizedScores map[string]float64             `json:"normalized_scores"`
	TextLength       int                            `json:"text_length"`
	PatternMatches   map[string]map[string][]string `json:"pattern_matches"`
	RiskFactors      []string                       `json:"risk_factors"`
}
