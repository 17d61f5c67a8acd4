package scorer

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func padded(prefix string, total int) string {
	words := strings.Fields(prefix)
	return prefix + " " + strings.Repeat("word ", total-len(words))
}

func TestScoreRiskTiers(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name     string
		text     string
		wantRate float64
		want     model.RiskLevel
	}{
		{"four breaches in 100 words", padded("breach breach breach breach", 100), 4.0, model.RiskHigh},
		{"four breaches in 200 words", padded("breach breach breach breach", 200), 2.0, model.RiskMedium},
		{"one breach in 100 words", padded("breach", 100), 1.0, model.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := s.Score(tt.text)
			assert.InDelta(t, tt.wantRate, sc.RiskRates.High, 1e-9)
			assert.Equal(t, tt.want, sc.Risk)
		})
	}
}

func TestRateMonotonic(t *testing.T) {
	assert.Equal(t, 0.0, Rate(5, 0))
	prev := Rate(4, 50)
	for _, words := range []int{100, 200, 400, 800} {
		r := Rate(4, words)
		assert.Less(t, r, prev)
		prev = r
	}
}

func TestScoreEmptyText(t *testing.T) {
	sc := New(nil).Score("")

	assert.Equal(t, 0, sc.WordCount)
	assert.Equal(t, Rates{}, sc.RiskRates)
	assert.Equal(t, Rates{}, sc.ComplianceRates)
	assert.Equal(t, model.RiskLow, sc.Risk)
	assert.Equal(t, model.ComplianceCompliant, sc.Compliance)
	assert.Equal(t, "Standard business operations", sc.BusinessImpact)
	assert.Equal(t, []string{"Legal Document", "Agreement"}, sc.KeyTerms)
	assert.Equal(t, []string{"Standard review process", "Maintain current compliance standards"}, sc.Recommendations)
	assert.InDelta(t, 0.5, sc.Confidence, 1e-9)
	assert.InDelta(t, 0.5, sc.Complexity, 1e-9)
}

func TestScoreCompliance(t *testing.T) {
	s := New(nil)

	sc := s.Score(padded("audit audit audit", 100))
	assert.Equal(t, model.ComplianceRequiresAction, sc.Compliance)

	sc = s.Score(padded("privacy privacy", 100))
	assert.Equal(t, model.CompliancePendingReview, sc.Compliance)
}

func TestBusinessImpact(t *testing.T) {
	s := New(nil)

	assert.Equal(t, "Financial - Significant financial implications",
		s.Score("payment fee price amount").BusinessImpact)
	assert.Equal(t, "Limited - Standard business impact",
		s.Score(padded("payment", 100)).BusinessImpact)
	assert.Equal(t, "Moderate - Moderate business impact",
		s.Score(padded("payment fee", 80)).BusinessImpact)
}

func TestKeyTerms(t *testing.T) {
	assert.Equal(t, []string{"Contract", "Payment", "Fee"},
		KeyTerms("The contract requires payment of the fee"))

	capped := KeyTerms("contract agreement terms conditions clause section party parties obligation")
	assert.Len(t, capped, 8)
	assert.Equal(t, "Contract", capped[0])
	assert.Equal(t, "Parties", capped[7])

	assert.Contains(t, KeyTerms("Governing law applies"), "Governing Law")
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations(model.RiskHigh, model.ComplianceRequiresAction, "Financial, Strategic - Significant financial implications")
	assert.Equal(t, []string{
		"Immediate legal review required",
		"Implement risk mitigation strategies",
		"Monitor for potential breaches",
		"Urgent compliance review needed",
		"Implement compliance monitoring",
		"Financial impact assessment required",
	}, recs)

	assert.Equal(t, []string{"Standard review process", "Monitor for changes"}, Recommendations("", "", ""))
}

func TestConfidenceBounds(t *testing.T) {
	assert.InDelta(t, 0.45, Confidence("", nil), 1e-9)

	var b strings.Builder
	b.WriteString("contract agreement terms conditions clause section\n")
	b.WriteString("party parties obligation liability payment delivery\n")
	for i := 0; i < 2100; i++ {
		b.WriteString("word. ")
		if i%100 == 0 {
			b.WriteString("\n")
		}
	}
	text := b.String()
	assert.Equal(t, 0.95, Confidence(text, KeyTerms(text)))

	for _, text := range []string{"", "short", padded("breach", 300), text} {
		c := New(nil).Score(text).Confidence
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 0.95)
	}
}

func TestComplexity(t *testing.T) {
	assert.InDelta(t, 0.5, Complexity(""), 1e-9)

	long := strings.Repeat("x", 2100) + " indemnification jurisdiction arbitration mediation"
	assert.InDelta(t, 1.0, Complexity(long), 1e-9)

	medium := strings.Repeat("x", 1100) + " arbitration mediation"
	assert.InDelta(t, 0.8, Complexity(medium), 1e-9)
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, "Positive - Favorable terms and conditions", Sentiment("favorable and beneficial terms"))
	assert.Equal(t, "Negative - Contains risk factors and penalties", Sentiment("any breach incurs a penalty"))
	assert.Equal(t, "Neutral - Standard legal language", Sentiment(""))
}

func TestEntities(t *testing.T) {
	e := Entities("Acme Corp will pay $5,000 in London on 01/02/2024 subject to arbitration")

	assert.Equal(t, []string{"Acme Corp"}, e["organizations"])
	assert.Equal(t, []string{"London"}, e["locations"])
	assert.Equal(t, []string{"01/02/2024"}, e["dates"])
	assert.Equal(t, []string{"$5,000"}, e["amounts"])
	assert.Equal(t, []string{"arbitration"}, e["legal_terms"])
}

func TestAnalyze(t *testing.T) {
	doc := &model.Document{
		ID:            "doc-1",
		Metadata:      model.Metadata{Filename: "supplier_nda.pdf"},
		ExtractedText: padded("breach breach breach breach", 100),
	}

	res := New(nil).Analyze(doc)
	require.True(t, res.OK())
	require.NotNil(t, res.Insights)
	assert.Empty(t, res.ProcessingError())

	ins := res.Insights
	assert.Equal(t, model.RiskHigh, ins.RiskAssessment)
	assert.Equal(t, model.ComplianceCompliant, ins.ComplianceStatus)
	assert.Equal(t,
		"Non-Disclosure Agreement with high risk level. compliant compliance status. standard business operations business impact.",
		ins.Summary)
	assert.Equal(t, "Negative - Contains risk factors and penalties", ins.SentimentAnalysis)
	assert.Len(t, ins.ExtractedEntities, 5)
	assert.LessOrEqual(t, ins.ConfidenceScore, 0.95)
}

func TestAnalyzeTextTooShort(t *testing.T) {
	res := New(nil).Analyze(&model.Document{ExtractedText: "  tiny  "})

	require.False(t, res.OK())
	assert.Equal(t, ReasonTextTooShort, res.Failure.Reason)
	assert.True(t, errors.Is(res.Failure, ErrTextTooShort))
	assert.Equal(t, 0.1, res.Insights.ConfidenceScore)
	assert.Equal(t, "AI analysis failed: insufficient_text: text too short for analysis", res.ProcessingError())
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	broken := &pattern.Library{Risk: pattern.Tiers{High: []*regexp.Regexp{nil}}}
	doc := &model.Document{ExtractedText: padded("breach", 100)}

	res := New(broken).Analyze(doc)

	require.False(t, res.OK())
	assert.Equal(t, ReasonInternalError, res.Failure.Reason)
	assert.Equal(t, 0.3, res.Insights.ConfidenceScore)
	assert.Equal(t, model.RiskLow, res.Insights.RiskAssessment)
	assert.Equal(t, model.ComplianceCompliant, res.Insights.ComplianceStatus)
	assert.True(t, strings.HasPrefix(res.ProcessingError(), "AI analysis failed: internal_error: "))
}

func TestRiskBreakdown(t *testing.T) {
	b := New(nil).RiskBreakdown("breach breach penalty")

	assert.Equal(t, 3, b.TextLength)
	assert.Equal(t, 4, b.RawScores["high"])
	assert.Equal(t, 2, b.RawScores["medium"])
	assert.Equal(t, 0, b.RawScores["low"])
	assert.InDelta(t, 400.0/3, b.NormalizedScores["high"], 1e-9)
	assert.Equal(t, []string{"breach", "penalty"}, b.RiskFactors)
	assert.Len(t, b.PatternMatches["high_risk"], 2)
	assert.Empty(t, b.PatternMatches["low_risk"])
}

func TestDocumentAnalysisDefaults(t *testing.T) {
	doc := &model.Document{
		ID:       "doc-2",
		Metadata: model.Metadata{Filename: "lease.docx"},
		Insights: &model.Insights{ConfidenceScore: 0.6},
	}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	a := New(nil).DocumentAnalysis(doc, now)

	assert.Equal(t, "doc-2", a.DocumentID)
	assert.Equal(t, "Analysis summary unavailable", a.AnalysisSummary)
	assert.Equal(t, "Unknown", a.RiskAssessment.Level)
	assert.Equal(t, "Unknown", a.ComplianceCheck.Status)
	assert.Empty(t, a.BusinessImplications)
	assert.Equal(t, 0.6, a.ConfidenceScore)
	assert.Equal(t, now, a.AnalysisTimestamp)
}
