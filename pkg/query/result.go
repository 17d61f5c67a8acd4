package query

import (
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
)

const unknown = "Unknown"

// ToResult flattens a document into the query result row.
func ToResult(doc *model.Document) model.QueryResult {
	m := doc.Metadata
	parties := m.Parties
	if parties == nil {
		parties = []string{}
	}
	r := model.QueryResult{
		ID:            doc.ID,
		Filename:      m.Filename,
		AgreementType: orUnknown(string(m.AgreementType)),
		Jurisdiction:  orUnknown(string(m.Jurisdiction)),
		Industry:      orUnknown(string(m.Industry)),
		Geography:     orUnknown(string(m.Geography)),
		GoverningLaw:  m.GoverningLaw,
		Parties:       parties,
		Value:         m.Value,
		Currency:      m.Currency,
		UploadDate:    m.UploadDate.Format(time.RFC3339),
	}
	if m.EffectiveDate != nil {
		r.EffectiveDate = m.EffectiveDate.Format(time.RFC3339)
	}
	if m.ExpirationDate != nil {
		r.ExpirationDate = m.ExpirationDate.Format(time.RFC3339)
	}
	if ins := doc.Insights; ins != nil {
		r.AIInsights = &model.ResultInsights{
			RiskLevel:        orUnknown(strings.ToUpper(string(ins.RiskAssessment))),
			ComplianceStatus: orUnknown(string(ins.ComplianceStatus)),
			ConfidenceScore:  ins.ConfidenceScore,
			Summary:          ins.Summary,
		}
	}
	return r
}

// ToResults converts docs in order.
func ToResults(docs []*model.Document) []model.QueryResult {
	out := make([]model.QueryResult, len(docs))
	for i, d := range docs {
		out[i] = ToResult(d)
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
