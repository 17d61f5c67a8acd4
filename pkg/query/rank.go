package query

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnTengye/legalintel/model"
)

const (
	// FastPathLimit bounds the unscored prefix returned for general searches.
	FastPathLimit = 20
	// MaxResults bounds the scored result set.
	MaxResults = 30
)

var (
	agreementCommonTerms    = []string{"contract", "agreement", "nda", "msa"}
	jurisdictionCommonTerms = []string{"uk", "usa", "uae", "singapore"}

	riskWords = []struct {
		word  string
		level model.RiskLevel
	}{
		{"high", model.RiskHigh},
		{"low", model.RiskLow},
		{"medium", model.RiskMedium},
		{"critical", model.RiskCritical},
	}

	filterDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
)

// Rank returns the documents relevant to question. Without entities and
// with the general_search intent it returns a filtered prefix of docs in
// input order; otherwise every filtered document is scored, zero scores are
// dropped and the rest are stably sorted by descending score.
func Rank(question string, docs []*model.Document, analysis model.QueryAnalysis, filters *model.QueryFilters) []*model.Document {
	docs = ApplyFilters(docs, filters)

	if len(analysis.Entities) == 0 && analysis.Intent == model.IntentGeneralSearch {
		if len(docs) > FastPathLimit {
			docs = docs[:FastPathLimit]
		}
		return docs
	}

	type scored struct {
		doc   *model.Document
		score float64
	}
	var kept []scored
	for _, doc := range docs {
		if s := Score(question, doc, analysis); s > 0 {
			kept = append(kept, scored{doc, s})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	if len(kept) > MaxResults {
		kept = kept[:MaxResults]
	}
	out := make([]*model.Document, len(kept))
	for i, k := range kept {
		out[i] = k.doc
	}
	return out
}

// Score is the additive relevance of one document to question. Missing
// metadata or insights contribute nothing.
func Score(question string, doc *model.Document, analysis model.QueryAnalysis) float64 {
	q := strings.ToLower(question)
	words := questionWords(question)
	meta := doc.Metadata
	score := 0.0

	score += labelScore(string(meta.AgreementType), q, words, 8, 5, agreementCommonTerms)
	score += labelScore(string(meta.Jurisdiction), q, words, 8, 5, jurisdictionCommonTerms)
	score += labelScore(string(meta.Industry), q, words, 6, 4, nil)
	score += labelScore(string(meta.Geography), q, words, 6, 4, nil)

	if meta.GoverningLaw != "" && strings.Contains(q, strings.ToLower(meta.GoverningLaw)) {
		score += 4
	}
	for _, party := range meta.Parties {
		if party != "" && strings.Contains(q, strings.ToLower(party)) {
			score += 3
		}
	}

	if ins := doc.Insights; ins != nil {
		if analysis.AnalysisRequested {
			score += 3
		}
		if riskAligned(q, ins.RiskAssessment) {
			score += 4
		}
		if complianceAligned(q, ins.ComplianceStatus) {
			score += 4
		}
	}

	if doc.ExtractedText != "" {
		text := strings.ToLower(doc.ExtractedText)
		for _, entity := range analysis.Entities {
			if strings.Contains(text, strings.ToLower(entity)) {
				score += 2
			}
		}
		if len(words) > 3 {
			textWords := make(map[string]bool)
			for _, w := range strings.Fields(text) {
				textWords[w] = true
			}
			for w := range words {
				if textWords[w] {
					score += 0.5
				}
			}
		}
		switch n := utf8.RuneCountInString(text); {
		case n > 1000:
			score += 1
		case n > 500:
			score += 0.5
		}
	}

	switch analysis.Intent {
	case model.IntentSummaryRequest:
		if doc.Insights != nil && doc.Insights.Summary != "" {
			score += 2
		}
	case model.IntentTrendAnalysis:
		if !meta.UploadDate.IsZero() {
			score += 1
		}
	}

	return score
}

// questionWords is the set of lower-cased whitespace tokens longer than two
// characters.
func questionWords(question string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(w) > 2 {
			words[w] = true
		}
	}
	return words
}

// labelScore awards exact containment of the label in the question, else a
// question token found inside the label, else a common term shared by both.
func labelScore(label, q string, words map[string]bool, exact, partial float64, common []string) float64 {
	if label == "" {
		return 0
	}
	l := strings.ToLower(label)
	if strings.Contains(q, l) {
		return exact
	}
	for w := range words {
		if strings.Contains(l, w) {
			return partial
		}
	}
	for _, term := range common {
		if strings.Contains(l, term) && strings.Contains(q, term) {
			return 2
		}
	}
	return 0
}

func riskAligned(q string, level model.RiskLevel) bool {
	if level == "" || !strings.Contains(q, "risk") {
		return false
	}
	for _, rw := range riskWords {
		if strings.Contains(q, rw.word) && level == rw.level {
			return true
		}
	}
	return false
}

func complianceAligned(q string, status model.ComplianceStatus) bool {
	if status == "" || !strings.Contains(q, "compliance") {
		return false
	}
	switch status {
	case model.ComplianceCompliant:
		return strings.Contains(q, "compliant") && !strings.Contains(q, "non")
	case model.ComplianceNonCompliant:
		return strings.Contains(q, "non") && strings.Contains(q, "compliant")
	case model.CompliancePendingReview:
		return strings.Contains(q, "pending")
	case model.ComplianceRequiresAction:
		return strings.Contains(q, "action")
	}
	return false
}

// ApplyFilters drops documents whose field is set and differs from a set
// filter field. A document missing the field is never dropped by it.
// Unparseable dates are ignored.
func ApplyFilters(docs []*model.Document, f *model.QueryFilters) []*model.Document {
	if f == nil || *f == (model.QueryFilters{}) {
		return docs
	}
	from, hasFrom := parseFilterDate(f.DateFrom)
	to, hasTo := parseFilterDate(f.DateTo)

	out := make([]*model.Document, 0, len(docs))
	for _, doc := range docs {
		m := doc.Metadata
		switch {
		case mismatch(f.AgreementType, string(m.AgreementType)),
			mismatch(f.Jurisdiction, string(m.Jurisdiction)),
			mismatch(f.Industry, string(m.Industry)),
			mismatch(f.Geography, string(m.Geography)),
			f.FileType != "" && m.FileType != "" && !strings.EqualFold(f.FileType, m.FileType),
			hasFrom && !m.UploadDate.IsZero() && m.UploadDate.Before(from),
			hasTo && !m.UploadDate.IsZero() && m.UploadDate.After(to):
			continue
		}
		out = append(out, doc)
	}
	return out
}

func mismatch(want, have string) bool {
	return want != "" && have != "" && want != have
}

func parseFilterDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
