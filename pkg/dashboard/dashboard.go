// Package dashboard reduces the document collection into the aggregate view
// served by the dashboard and export endpoints.
package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
)

// RecentLimit bounds the recent uploads list.
const RecentLimit = 10

const summaryPreview = 100

// Aggregate builds the dashboard over docs using the current time for the
// portfolio report.
func Aggregate(docs []*model.Document) model.DashboardData {
	return AggregateAt(docs, time.Now())
}

// AggregateAt is Aggregate with an explicit report time.
func AggregateAt(docs []*model.Document, now time.Time) model.DashboardData {
	data := model.DashboardData{
		AgreementTypes: map[string]int{},
		Jurisdictions:  map[string]int{},
		Industries:     map[string]int{},
		Geographies:    map[string]int{},
		TotalDocuments: len(docs),
		RecentUploads:  []model.RecentUpload{},
		TrendsOverTime: model.Trends{Labels: []string{}, Values: []int{}},
	}

	total := 0.0
	var first, last time.Time
	for _, d := range docs {
		m := d.Metadata
		count(data.AgreementTypes, string(m.AgreementType))
		count(data.Jurisdictions, string(m.Jurisdiction))
		count(data.Industries, string(m.Industry))
		count(data.Geographies, string(m.Geography))
		if m.Value != nil {
			total += *m.Value
		}
		if m.UploadDate.IsZero() {
			continue
		}
		if first.IsZero() || m.UploadDate.Before(first) {
			first = m.UploadDate
		}
		if last.IsZero() || m.UploadDate.After(last) {
			last = m.UploadDate
		}
	}
	if total != 0 {
		data.TotalValue = &total
	}
	if !first.IsZero() {
		start, end := first.Format(time.RFC3339), last.Format(time.RFC3339)
		data.DateRange = model.DateRange{Start: &start, End: &end}
	}

	data.RecentUploads = recentUploads(docs)
	data.TrendsOverTime = monthlyTrends(docs)
	data.RiskAnalysis = riskAnalysis(docs)
	data.ComplianceMetrics = complianceMetrics(docs)
	data.DocumentHealth = documentHealth(docs)
	data.AIInsightsSummary = PortfolioSummary(data, now)
	return data
}

func count(m map[string]int, label string) {
	if label != "" {
		m[label]++
	}
}

func recentUploads(docs []*model.Document) []model.RecentUpload {
	sorted := make([]*model.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metadata.UploadDate.After(sorted[j].Metadata.UploadDate)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}

	out := make([]model.RecentUpload, 0, len(sorted))
	for _, d := range sorted {
		m := d.Metadata
		out = append(out, model.RecentUpload{
			Filename:      m.Filename,
			AgreementType: optional(string(m.AgreementType)),
			Jurisdiction:  optional(string(m.Jurisdiction)),
			Industry:      optional(string(m.Industry)),
			UploadDate:    m.UploadDate.Format(time.RFC3339),
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// monthlyTrends counts uploads per calendar month, oldest first.
func monthlyTrends(docs []*model.Document) model.Trends {
	counts := make(map[string]int)
	for _, d := range docs {
		if d.Metadata.UploadDate.IsZero() {
			continue
		}
		counts[d.Metadata.UploadDate.UTC().Format("2006-01")]++
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	values := make([]int, len(labels))
	for i, l := range labels {
		values[i] = counts[l]
	}
	return model.Trends{Labels: labels, Values: values}
}

func riskAnalysis(docs []*model.Document) model.RiskAnalysis {
	ra := model.RiskAnalysis{
		Distribution: map[string]int{},
		Breakdown:    map[string][]model.RiskBreakdownEntry{},
		Percentages:  map[string]float64{},
	}
	for _, l := range model.RiskLevels {
		key := strings.ToUpper(string(l))
		ra.Distribution[key] = 0
		ra.Breakdown[key] = []model.RiskBreakdownEntry{}
	}

	for _, d := range docs {
		r := d.Risk()
		if r == "" {
			continue
		}
		key := strings.ToUpper(string(r))
		ra.Distribution[key]++
		ra.Breakdown[key] = append(ra.Breakdown[key], model.RiskBreakdownEntry{
			Filename:   d.Metadata.Filename,
			Confidence: d.Insights.ConfidenceScore,
			Summary:    preview(d.Insights.Summary),
		})
		ra.TotalAssessed++
	}

	for key, n := range ra.Distribution {
		ra.Percentages[key] = percent(n, ra.TotalAssessed)
	}
	return ra
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= summaryPreview {
		return s
	}
	return string(r[:summaryPreview]) + "..."
}

func complianceMetrics(docs []*model.Document) model.ComplianceMetrics {
	cm := model.ComplianceMetrics{Distribution: map[string]int{}}
	for _, s := range model.ComplianceStatuses {
		cm.Distribution[string(s)] = 0
	}
	for _, d := range docs {
		if c := d.Compliance(); c != "" {
			cm.Distribution[string(c)]++
			cm.TotalAssessed++
		}
	}
	cm.ComplianceRate = percent(cm.Distribution[string(model.ComplianceCompliant)], cm.TotalAssessed)
	return cm
}

func documentHealth(docs []*model.Document) model.DocumentHealth {
	h := model.DocumentHealth{
		TotalDocuments: len(docs),
		ConfidenceBreakdown: map[string][]string{
			"low":    {},
			"medium": {},
			"high":   {},
		},
	}

	sum, scored, ok, complete := 0.0, 0, 0, 0
	for _, d := range docs {
		if d.Status != model.StatusError {
			ok++
		}
		if d.Metadata.HasCoreLabel() {
			complete++
		}
		c, has := d.Confidence()
		if !has {
			continue
		}
		sum += c
		scored++
		name := d.Metadata.Filename
		switch {
		case c <= 0.4:
			h.LowConfidence++
			h.ConfidenceBreakdown["low"] = append(h.ConfidenceBreakdown["low"], name)
		case c <= 0.7:
			h.MediumConfidence++
			h.ConfidenceBreakdown["medium"] = append(h.ConfidenceBreakdown["medium"], name)
		default:
			h.HighConfidence++
			h.ConfidenceBreakdown["high"] = append(h.ConfidenceBreakdown["high"], name)
		}
	}

	if scored > 0 {
		h.AverageConfidence = sum / float64(scored)
	}
	h.ProcessingSuccessRate = 100
	if len(docs) > 0 {
		h.ProcessingSuccessRate = float64(ok) / float64(len(docs)) * 100
		h.MetadataCompleteness = float64(complete) / float64(len(docs)) * 100
	}
	return h
}

// percent is n/total as a percentage rounded to one decimal, 0 when total is 0.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
