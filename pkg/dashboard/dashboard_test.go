package dashboard

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAggregateEmpty(t *testing.T) {
	data := AggregateAt(nil, now)

	assert.Equal(t, 0, data.TotalDocuments)
	assert.Empty(t, data.AgreementTypes)
	assert.Empty(t, data.Jurisdictions)
	assert.Empty(t, data.Industries)
	assert.Empty(t, data.Geographies)
	assert.Nil(t, data.TotalValue)
	assert.Nil(t, data.DateRange.Start)
	assert.Nil(t, data.DateRange.End)
	assert.Empty(t, data.RecentUploads)
	assert.Equal(t, 100.0, data.DocumentHealth.ProcessingSuccessRate)
	assert.Equal(t, 0.0, data.DocumentHealth.MetadataCompleteness)
	assert.Equal(t, 0, data.RiskAnalysis.TotalAssessed)
	assert.Equal(t, map[string]int{"LOW": 0, "MEDIUM": 0, "HIGH": 0, "CRITICAL": 0}, data.RiskAnalysis.Distribution)
	assert.Equal(t, EmptyPortfolioSummary, data.AIInsightsSummary)
}

func TestAggregateSameClassification(t *testing.T) {
	docs := []*model.Document{
		{Metadata: model.Metadata{Filename: "a.pdf", UploadDate: now.Add(-time.Hour), Classification: model.Classification{AgreementType: model.AgreementNDA, Jurisdiction: model.JurisdictionUAE}}},
		{Metadata: model.Metadata{Filename: "b.pdf", UploadDate: now, Classification: model.Classification{AgreementType: model.AgreementNDA, Jurisdiction: model.JurisdictionUAE}}},
	}

	data := AggregateAt(docs, now)

	assert.Equal(t, map[string]int{"NDA": 2}, data.AgreementTypes)
	assert.Equal(t, map[string]int{"UAE": 2}, data.Jurisdictions)
	assert.Empty(t, data.Industries)
	assert.Equal(t, 100.0, data.DocumentHealth.MetadataCompleteness)
	require.NotNil(t, data.DateRange.Start)
	assert.Equal(t, now.Add(-time.Hour).Format(time.RFC3339), *data.DateRange.Start)
	assert.Equal(t, now.Format(time.RFC3339), *data.DateRange.End)
	require.Len(t, data.RecentUploads, 2)
	assert.Equal(t, "b.pdf", data.RecentUploads[0].Filename)
	require.NotNil(t, data.RecentUploads[0].AgreementType)
	assert.Equal(t, "NDA", *data.RecentUploads[0].AgreementType)
	assert.Nil(t, data.RecentUploads[0].Industry)
}

func TestAggregateTotalValue(t *testing.T) {
	v1, v2, zero := 1000.0, 2500.5, 0.0
	data := AggregateAt([]*model.Document{
		{Metadata: model.Metadata{Classification: model.Classification{Value: &v1}}},
		{Metadata: model.Metadata{Classification: model.Classification{Value: &v2}}},
		{},
	}, now)
	require.NotNil(t, data.TotalValue)
	assert.Equal(t, 3500.5, *data.TotalValue)

	data = AggregateAt([]*model.Document{{Metadata: model.Metadata{Classification: model.Classification{Value: &zero}}}}, now)
	assert.Nil(t, data.TotalValue)
}

func TestRecentUploadsBounded(t *testing.T) {
	docs := make([]*model.Document, 15)
	for i := range docs {
		docs[i] = &model.Document{Metadata: model.Metadata{
			Filename:   fmt.Sprintf("doc%02d.pdf", i),
			UploadDate: now.Add(time.Duration(i) * time.Minute),
		}}
	}

	data := AggregateAt(docs, now)

	require.Len(t, data.RecentUploads, RecentLimit)
	assert.Equal(t, "doc14.pdf", data.RecentUploads[0].Filename)
	assert.Equal(t, "doc05.pdf", data.RecentUploads[9].Filename)
}

func TestTrendsOverTime(t *testing.T) {
	docs := []*model.Document{
		{Metadata: model.Metadata{UploadDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)}},
		{Metadata: model.Metadata{UploadDate: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)}},
		{Metadata: model.Metadata{UploadDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)}},
	}

	data := AggregateAt(docs, now)

	assert.Equal(t, []string{"2024-01", "2024-03"}, data.TrendsOverTime.Labels)
	assert.Equal(t, []int{1, 2}, data.TrendsOverTime.Values)
}

func TestRiskComplianceAndHealth(t *testing.T) {
	long := strings.Repeat("x", 150)
	docs := []*model.Document{
		{
			Metadata: model.Metadata{Filename: "high.pdf"},
			Insights: &model.Insights{RiskAssessment: model.RiskHigh, ComplianceStatus: model.ComplianceRequiresAction, ConfidenceScore: 0.9, Summary: long},
			Status:   model.StatusCompleted,
		},
		{
			Metadata: model.Metadata{Filename: "low.pdf"},
			Insights: &model.Insights{RiskAssessment: model.RiskLow, ComplianceStatus: model.ComplianceCompliant, ConfidenceScore: 0.5, Summary: "short"},
			Status:   model.StatusCompleted,
		},
		{
			Metadata: model.Metadata{Filename: "weak.pdf"},
			Insights: &model.Insights{RiskAssessment: model.RiskLow, ComplianceStatus: model.ComplianceCompliant, ConfidenceScore: 0.4},
			Status:   model.StatusCompleted,
		},
		{
			Metadata: model.Metadata{Filename: "broken.pdf"},
			Status:   model.StatusError,
		},
	}

	data := AggregateAt(docs, now)

	ra := data.RiskAnalysis
	assert.Equal(t, 3, ra.TotalAssessed)
	assert.Equal(t, 1, ra.Distribution["HIGH"])
	assert.Equal(t, 2, ra.Distribution["LOW"])
	assert.Equal(t, 66.7, ra.Percentages["LOW"])
	assert.Equal(t, 33.3, ra.Percentages["HIGH"])
	assert.Equal(t, 0.0, ra.Percentages["CRITICAL"])
	require.Len(t, ra.Breakdown["HIGH"], 1)
	assert.Equal(t, strings.Repeat("x", 100)+"...", ra.Breakdown["HIGH"][0].Summary)
	assert.Equal(t, "short", ra.Breakdown["LOW"][0].Summary)

	cm := data.ComplianceMetrics
	assert.Equal(t, 3, cm.TotalAssessed)
	assert.Equal(t, 2, cm.Distribution["Compliant"])
	assert.Equal(t, 66.7, cm.ComplianceRate)

	h := data.DocumentHealth
	assert.Equal(t, 75.0, h.ProcessingSuccessRate)
	assert.InDelta(t, 0.6, h.AverageConfidence, 1e-9)
	assert.Equal(t, 1, h.LowConfidence)
	assert.Equal(t, 1, h.MediumConfidence)
	assert.Equal(t, 1, h.HighConfidence)
	assert.Equal(t, []string{"weak.pdf"}, h.ConfidenceBreakdown["low"])
	assert.Equal(t, []string{"high.pdf"}, h.ConfidenceBreakdown["high"])
}

func TestPortfolioConfidence(t *testing.T) {
	tests := []struct {
		name string
		data model.DashboardData
		want float64
	}{
		{"empty", model.DashboardData{}, 0},
		{"single bare", model.DashboardData{TotalDocuments: 1}, 0.15},
		{"pair with types", model.DashboardData{TotalDocuments: 2, AgreementTypes: map[string]int{"NDA": 2}}, 0.4},
		{"full coverage", model.DashboardData{
			TotalDocuments: 12,
			AgreementTypes: map[string]int{"NDA": 1},
			Jurisdictions:  map[string]int{"UK": 1},
			Industries:     map[string]int{"Finance": 1},
		}, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PortfolioConfidence(tt.data), 1e-9)
		})
	}
}

func TestPortfolioSummary(t *testing.T) {
	data := model.DashboardData{
		TotalDocuments: 3,
		AgreementTypes: map[string]int{"NDA": 2, "MSA": 1},
		Jurisdictions:  map[string]int{"UK": 1, "UAE": 1},
	}

	got := PortfolioSummary(data, now)

	assert.Contains(t, got, "Total Documents Analyzed: 3")
	assert.Contains(t, got, "Primary Agreement Type: NDA")
	assert.Contains(t, got, "Primary Jurisdiction: UAE")
	assert.Contains(t, got, "Primary Industry: General Business")
	assert.Contains(t, got, "Report Generated: 2024-06-01 12:00:00")
	assert.Contains(t, got, "Analysis Confidence: 55.0%")
}
