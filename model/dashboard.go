package model

// DashboardData is the aggregate view over the whole collection. Field names
// and nesting are consumed verbatim by the export renderers.
type DashboardData struct {
	AgreementTypes    map[string]int    `json:"agreement_types"`
	Jurisdictions     map[string]int    `json:"jurisdictions"`
	Industries        map[string]int    `json:"industries"`
	Geographies       map[string]int    `json:"geographies"`
	TotalDocuments    int               `json:"total_documents"`
	TotalValue        *float64          `json:"total_value"`
	DateRange         DateRange         `json:"date_range"`
	RecentUploads     []RecentUpload    `json:"recent_uploads"`
	TrendsOverTime    Trends            `json:"trends_over_time"`
	RiskAnalysis      RiskAnalysis      `json:"risk_analysis"`
	ComplianceMetrics ComplianceMetrics `json:"compliance_metrics"`
	DocumentHealth    DocumentHealth    `json:"document_health"`
	AIInsightsSummary string            `json:"ai_insights_summary"`
}

// DateRange bounds are RFC 3339 strings, nil when no dates exist.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type RecentUpload struct {
	Filename      string  `json:"filename"`
	AgreementType *string `json:"agreement_type"`
	Jurisdiction  *string `json:"jurisdiction"`
	Industry      *string `json:"industry"`
	UploadDate    string  `json:"upload_date"`
}

type Trends struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type RiskBreakdownEntry struct {
	Filename   string  `json:"filename"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// RiskAnalysis keys are the upper-case tier names LOW, MEDIUM, HIGH, CRITICAL.
type RiskAnalysis struct {
	Distribution  map[string]int                  `json:"distribution"`
	Breakdown     map[string][]RiskBreakdownEntry `json:"breakdown"`
	Percentages   map[string]float64              `json:"percentages"`
	TotalAssessed int                             `json:"total_assessed"`
}

type ComplianceMetrics struct {
	Distribution   map[string]int `json:"distribution"`
	ComplianceRate float64        `json:"compliance_rate"`
	TotalAssessed  int            `json:"total_assessed"`
}

type DocumentHealth struct {
	AverageConfidence     float64             `json:"average_confidence"`
	ProcessingSuccessRate float64             `json:"processing_success_rate"`
	MetadataCompleteness  float64             `json:"metadata_completeness"`
	TotalDocuments        int                 `json:"total_documents"`
	LowConfidence         int                 `json:"low_confidence"`
	MediumConfidence      int                 `json:"medium_confidence"`
	HighConfidence        int                 `json:"high_confidence"`
	ConfidenceBreakdown   map[string][]string `json:"confidence_breakdown"`
}
