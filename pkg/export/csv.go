// Package export renders dashboard data, query responses and document
// listings as CSV reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
)

// bom lets spreadsheet tools detect UTF-8.
const bom = "\ufeff"

const stamp = "2006-01-02 15:04:05"

// DashboardCSV writes the dashboard report to w.
func DashboardCSV(w io.Writer, data model.DashboardData, now time.Time) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Legal Dashboard Report"},
		{"Generated on: " + now.Format(stamp)},
		{},
		{"Document Summary"},
		{"Total Documents", strconv.Itoa(data.TotalDocuments)},
	}
	if data.TotalValue != nil {
		rows = append(rows, []string{"Total Value", strconv.FormatFloat(*data.TotalValue, 'f', 2, 64)})
	}
	rows = append(rows, []string{})

	rows = appendCounts(rows, "Agreement Types", "Type", data.AgreementTypes)
	rows = appendCounts(rows, "Jurisdictions", "Jurisdiction", data.Jurisdictions)
	rows = appendCounts(rows, "Industries", "Industry", data.Industries)
	rows = appendCounts(rows, "Geographies", "Geography", data.Geographies)

	if data.RiskAnalysis.TotalAssessed > 0 {
		rows = append(rows, []string{"Risk Analysis"}, []string{"Risk Level", "Count", "Percentage"})
		for _, l := range model.RiskLevels {
			key := strings.ToUpper(string(l))
			rows = append(rows, []string{
				string(l),
				strconv.Itoa(data.RiskAnalysis.Distribution[key]),
				fmt.Sprintf("%.1f%%", data.RiskAnalysis.Percentages[key]),
			})
		}
		rows = append(rows, []string{})
	}

	if data.ComplianceMetrics.TotalAssessed > 0 {
		rows = append(rows, []string{"Compliance"}, []string{"Status", "Count"})
		for _, s := range model.ComplianceStatuses {
			rows = append(rows, []string{string(s), strconv.Itoa(data.ComplianceMetrics.Distribution[string(s)])})
		}
		rows = append(rows, []string{"Compliance Rate", fmt.Sprintf("%.1f%%", data.ComplianceMetrics.ComplianceRate)}, []string{})
	}

	h := data.DocumentHealth
	rows = append(rows,
		[]string{"Document Health"},
		[]string{"Metric", "Value"},
		[]string{"Average Confidence", fmt.Sprintf("%.2f", h.AverageConfidence)},
		[]string{"Processing Success Rate", fmt.Sprintf("%.1f%%", h.ProcessingSuccessRate)},
		[]string{"Metadata Completeness", fmt.Sprintf("%.1f%%", h.MetadataCompleteness)},
		[]string{},
	)

	if len(data.RecentUploads) > 0 {
		rows = append(rows, []string{"Recent Uploads"}, []string{"Filename", "Type", "Jurisdiction", "Industry", "Upload Date"})
		for _, u := range data.RecentUploads {
			rows = append(rows, []string{u.Filename, deref(u.AgreementType), deref(u.Jurisdiction), deref(u.Industry), day(u.UploadDate)})
		}
	}

	return flush(cw, rows)
}

// QueryCSV writes one row per query result.
func QueryCSV(w io.Writer, resp model.QueryResponse, now time.Time) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Query Results Report"},
		{"Query: " + resp.Question},
		{"Generated on: " + now.Format(stamp)},
		{"Total Results: " + strconv.Itoa(resp.TotalResults)},
		{},
	}
	if len(resp.Results) > 0 {
		rows = append(rows, []string{
			"Filename", "Type", "Jurisdiction", "Industry", "Geography",
			"Risk Level", "Compliance Status", "Confidence", "Upload Date",
		})
		for _, r := range resp.Results {
			risk, compliance, confidence := "", "", 0.0
			if r.AIInsights != nil {
				risk, compliance, confidence = r.AIInsights.RiskLevel, r.AIInsights.ComplianceStatus, r.AIInsights.ConfidenceScore
			}
			rows = append(rows, []string{
				r.Filename, r.AgreementType, r.Jurisdiction, r.Industry, r.Geography,
				risk, compliance, fmt.Sprintf("%.2f", confidence), r.UploadDate,
			})
		}
	}
	return flush(cw, rows)
}

// DocumentsCSV writes one row per stored document.
func DocumentsCSV(w io.Writer, docs []*model.Document, now time.Time) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Legal Documents Report"},
		{"Generated on: " + now.Format(stamp)},
		{"Total Documents: " + strconv.Itoa(len(docs))},
		{},
		{
			"Filename", "Type", "Jurisdiction", "Industry", "Geography",
			"File Size", "Upload Date", "Risk Level", "Compliance Status", "Confidence",
		},
	}
	for _, d := range docs {
		m := d.Metadata
		confidence := ""
		if c, ok := d.Confidence(); ok {
			confidence = fmt.Sprintf("%.2f", c)
		}
		rows = append(rows, []string{
			m.Filename,
			string(m.AgreementType),
			string(m.Jurisdiction),
			string(m.Industry),
			string(m.Geography),
			strconv.FormatInt(m.FileSize, 10),
			m.UploadDate.Format(time.RFC3339),
			string(d.Risk()),
			string(d.Compliance()),
			confidence,
		})
	}
	return flush(cw, rows)
}

// appendCounts adds a titled label/count table, largest count first, and
// nothing when counts is empty.
func appendCounts(rows [][]string, title, column string, counts map[string]int) [][]string {
	if len(counts) == 0 {
		return rows
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	rows = append(rows, []string{title}, []string{column, "Count"})
	for _, l := range labels {
		rows = append(rows, []string{l, strconv.Itoa(counts[l])})
	}
	return append(rows, []string{})
}

func flush(cw *csv.Writer, rows [][]string) error {
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// day shortens an RFC 3339 timestamp to its date, leaving other strings as is.
func day(s string) string {
	if s == "" {
		return "Unknown"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
