package model

// Intent is the kind of answer a free-text question asks for.
type Intent string

const (
	IntentAgreementType   Intent = "agreement_type"
	IntentJurisdiction    Intent = "jurisdiction"
	IntentIndustry        Intent = "industry"
	IntentValueRange      Intent = "value_range"
	IntentDateRange       Intent = "date_range"
	IntentComparison      Intent = "comparison"
	IntentRiskAnalysis    Intent = "risk_analysis"
	IntentComplianceCheck Intent = "compliance_check"
	IntentTrendAnalysis   Intent = "trend_analysis"
	IntentSummaryRequest  Intent = "summary_request"
	IntentGeneralSearch   Intent = "general_search"
	IntentNoDocuments     Intent = "no_documents"
)

type QueryComplexity string

const (
	ComplexityLow    QueryComplexity = "low"
	ComplexityMedium QueryComplexity = "medium"
	ComplexityHigh   QueryComplexity = "high"
)

// QueryFilters are optional structured constraints. Empty fields are ignored.
type QueryFilters struct {
	AgreementType string `json:"agreement_type,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Geography     string `json:"geography,omitempty"`
	FileType      string `json:"file_type,omitempty"`
	DateFrom      string `json:"date_from,omitempty"`
	DateTo        string `json:"date_to,omitempty"`
}

type QueryRequest struct {
	Question        string        `json:"question" binding:"required"`
	Filters         *QueryFilters `json:"filters,omitempty"`
	ComparisonType  string        `json:"comparison_type,omitempty"`
	IncludeAnalysis bool          `json:"include_analysis,omitempty"`
}

type QueryAnalysis struct {
	Intent              Intent          `json:"intent"`
	Entities            []string        `json:"entities"`
	Confidence          float64         `json:"confidence"`
	ComparisonRequested bool            `json:"comparison_requested"`
	AnalysisRequested   bool            `json:"analysis_requested"`
	SummaryRequested    bool            `json:"summary_requested"`
	Complexity          QueryComplexity `json:"complexity"`
}

// ResultInsights is the slice of Insights returned with query results.
type ResultInsights struct {
	RiskLevel        string  `json:"risk_level"`
	ComplianceStatus string  `json:"compliance_status"`
	ConfidenceScore  float64 `json:"confidence_score"`
	Summary          string  `json:"summary"`
}

type QueryResult struct {
	ID             string          `json:"id"`
	Filename       string          `json:"filename"`
	AgreementType  string          `json:"agreement_type"`
	Jurisdiction   string          `json:"jurisdiction"`
	Industry       string          `json:"industry"`
	Geography      string          `json:"geography"`
	GoverningLaw   string          `json:"governing_law,omitempty"`
	Parties        []string        `json:"parties"`
	EffectiveDate  string          `json:"effective_date,omitempty"`
	ExpirationDate string          `json:"expiration_date,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	UploadDate     string          `json:"upload_date"`
	AIInsights     *ResultInsights `json:"ai_insights,omitempty"`
}

type QueryResponse struct {
	Question              string                 `json:"question"`
	Results               []QueryResult          `json:"results"`
	TotalResults          int                    `json:"total_results"`
	StructuredComparisons []StructuredComparison `json:"structured_comparisons"`
	DocumentAnalysis      *CollectionAnalysis    `json:"document_analysis,omitempty"`
	QueryAnalysis         QueryAnalysis          `json:"query_analysis"`
}
