// Package scorer computes the heuristic risk, compliance and business-impact
// scorecard for a document's text.
//
// All rates are normalized per 100 whitespace-separated words so that long
// documents are not biased towards higher tiers.
package scorer

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/pattern"
)

const (
	maxKeyTerms        = 8
	maxRecommendations = 6
	maxFactors         = 5
	maxConfidence      = 0.95
)

var (
	legalTerms = []string{
		"contract", "agreement", "terms", "conditions", "clause", "section",
		"party", "parties", "obligation", "liability", "breach", "termination",
		"renewal", "amendment", "waiver", "indemnification", "governing law",
	}
	financialTerms = []string{
		"payment", "fee", "cost", "price", "amount", "revenue", "profit",
		"loss", "budget", "investment", "funding", "currency", "dollar",
	}
	businessTerms = []string{
		"partnership", "collaboration", "joint venture", "merger", "acquisition",
		"market", "competition", "strategy", "growth", "expansion",
	}
	complianceTerms = []string{
		"compliance", "regulation", "legal", "statute", "requirement",
		"license", "permit", "certification", "accreditation", "audit",
	}
	keyTermGroups = [][]string{legalTerms, financialTerms, businessTerms, complianceTerms}

	legalIndicators    = []string{"contract", "agreement", "terms", "conditions", "clause", "section"}
	businessIndicators = []string{"party", "parties", "obligation", "liability", "payment", "delivery"}

	complexTerms = []string{"indemnification", "jurisdiction", "arbitration", "mediation", "governing law"}

	impactPriority = []struct{ area, description string }{
		{"Financial", "Significant financial implications"},
		{"Strategic", "Strategic business decisions required"},
		{"Regulatory", "Regulatory compliance critical"},
		{"Operational", "Operational processes affected"},
	}
)

// Counts holds raw match counts per tier.
type Counts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Rates holds per-100-word match rates per tier.
type Rates struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// AreaScore is the business-impact evidence for one area.
type AreaScore struct {
	Area  string  `json:"area"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// Scorecard is the full heuristic result for one text.
type Scorecard struct {
	WordCount int `json:"word_count"`

	RiskCounts  Counts          `json:"risk_counts"`
	RiskRates   Rates           `json:"risk_rates"`
	Risk        model.RiskLevel `json:"risk"`
	RiskFactors []string        `json:"risk_factors"`

	ComplianceCounts       Counts                 `json:"compliance_counts"`
	ComplianceRates        Rates                  `json:"compliance_rates"`
	Compliance             model.ComplianceStatus `json:"compliance"`
	ComplianceRequirements []string               `json:"compliance_requirements"`

	Impact         []AreaScore `json:"impact"`
	BusinessImpact string      `json:"business_impact"`

	KeyTerms        []string `json:"key_terms"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"`
	Complexity      float64  `json:"complexity"`
}

// Scorer applies the tier tables of a pattern library. It is stateless and
// safe for concurrent use.
type Scorer struct {
	lib *pattern.Library
}

// New returns a scorer over lib. A nil lib selects the built-in tables.
func New(lib *pattern.Library) *Scorer {
	if lib == nil {
		lib = pattern.Default()
	}
	return &Scorer{lib: lib}
}

// Score computes the scorecard for text.
func (s *Scorer) Score(text string) Scorecard {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))

	sc := Scorecard{WordCount: words}

	sc.RiskCounts, sc.RiskFactors = tally(s.lib.Risk, lower)
	sc.RiskRates = normalize(sc.RiskCounts, words)
	sc.Risk = riskTier(sc.RiskRates)

	sc.ComplianceCounts, sc.ComplianceRequirements = tally(s.lib.Compliance, lower)
	sc.ComplianceRates = normalize(sc.ComplianceCounts, words)
	sc.Compliance = complianceTier(sc.ComplianceRates)

	sc.Impact = s.impactScores(lower, words)
	sc.BusinessImpact = describeImpact(sc.Impact)

	sc.KeyTerms = KeyTerms(lower)
	sc.Recommendations = Recommendations(sc.Risk, sc.Compliance, sc.BusinessImpact)
	sc.Confidence = Confidence(lower, sc.KeyTerms)
	sc.Complexity = Complexity(text)
	return sc
}

func tally(t pattern.Tiers, text string) (Counts, []string) {
	c := Counts{
		High:   pattern.CountMatches(t.High, text),
		Medium: pattern.CountMatches(t.Medium, text),
		Low:    pattern.CountMatches(t.Low, text),
	}
	var factors []string
	for _, tier := range [][]*regexp.Regexp{t.High, t.Medium, t.Low} {
		for _, m := range pattern.AllMatches(tier, text) {
			if len(factors) == maxFactors {
				return c, factors
			}
			factors = append(factors, m)
		}
	}
	if factors == nil {
		factors = []string{}
	}
	return c, factors
}

// Rate converts a raw count to a per-100-word rate. A zero word count
// yields zero.
func Rate(count, words int) float64 {
	if words == 0 {
		return 0
	}
	return float64(count) * (100 / float64(words))
}

func normalize(c Counts, words int) Rates {
	return Rates{
		High:   Rate(c.High, words),
		Medium: Rate(c.Medium, words),
		Low:    Rate(c.Low, words),
	}
}

func riskTier(r Rates) model.RiskLevel {
	switch {
	case r.High > 3.0:
		return model.RiskHigh
	case r.Medium > 2.0 || r.High > 1.5:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func complianceTier(r Rates) model.ComplianceStatus {
	switch {
	case r.High > 2.5:
		return model.ComplianceRequiresAction
	case r.Medium > 1.5 || r.High > 1.0:
		return model.CompliancePendingReview
	default:
		return model.ComplianceCompliant
	}
}

func (s *Scorer) impactScores(text string, words int) []AreaScore {
	scores := make([]AreaScore, 0, len(s.lib.BusinessImpact))
	for _, area := range s.lib.BusinessImpact {
		n := pattern.CountMatches(area.Patterns, text)
		scores = append(scores, AreaScore{Area: area.Name, Count: n, Rate: Rate(n, words)})
	}
	return scores
}

func describeImpact(scores []AreaScore) string {
	maxRate := 0.0
	for _, a := range scores {
		maxRate = math.Max(maxRate, a.Rate)
	}
	if maxRate == 0 {
		return "Standard business operations"
	}

	var areas []string
	for _, a := range scores {
		if a.Rate > 2.5 {
			areas = append(areas, a.Area)
		}
	}
	if len(areas) == 0 {
		if maxRate > 1.5 {
			areas = append(areas, "Moderate")
		} else {
			areas = append(areas, "Limited")
		}
	}
	return strings.Join(areas, ", ") + " - " + impactDescription(areas, maxRate)
}

func impactDescription(areas []string, maxRate float64) string {
	if maxRate > 3 {
		for _, p := range impactPriority {
			if contains(areas, p.area) {
				return p.description
			}
		}
	}
	if maxRate > 2 {
		return "Moderate business impact"
	}
	return "Standard business impact"
}

// KeyTerms lists the known legal, financial, business and compliance terms
// present in text, title-cased, in list order, capped at eight.
func KeyTerms(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var terms []string
	for _, group := range keyTermGroups {
		for _, term := range group {
			if seen[term] || !strings.Contains(lower, term) {
				continue
			}
			seen[term] = true
			terms = append(terms, titleCase(term))
			if len(terms) == maxKeyTerms {
				return terms
			}
		}
	}
	if len(terms) == 0 {
		return []string{"Legal Document", "Agreement"}
	}
	return terms
}

// Recommendations derives advice from the tiers: risk first, then
// compliance, then business impact, capped at six.
func Recommendations(risk model.RiskLevel, compliance model.ComplianceStatus, impact string) []string {
	var recs []string

	switch risk {
	case model.RiskHigh:
		recs = append(recs,
			"Immediate legal review required",
			"Implement risk mitigation strategies",
			"Monitor for potential breaches")
	case model.RiskMedium:
		recs = append(recs,
			"Schedule legal review within 30 days",
			"Review risk factors quarterly")
	case model.RiskLow:
		recs = append(recs, "Standard review process")
	}

	switch compliance {
	case model.ComplianceRequiresAction:
		recs = append(recs, "Urgent compliance review needed", "Implement compliance monitoring")
	case model.CompliancePendingReview:
		recs = append(recs, "Schedule compliance review")
	case model.ComplianceCompliant:
		recs = append(recs, "Maintain current compliance standards")
	}

	if strings.Contains(impact, "Financial") {
		recs = append(recs, "Financial impact assessment required", "Monitor financial metrics closely")
	}
	if strings.Contains(impact, "Strategic") {
		recs = append(recs, "Executive review recommended", "Strategic planning session needed")
	}
	if strings.Contains(impact, "Regulatory") {
		recs = append(recs, "Legal compliance verification", "Regulatory monitoring setup")
	}

	if len(recs) == 0 {
		return []string{"Standard review process", "Monitor for changes"}
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// Confidence is the additive evidence score, capped at 0.95.
func Confidence(text string, keyTerms []string) float64 {
	lower := strings.ToLower(text)
	score := 0.4

	switch words := len(strings.Fields(lower)); {
	case words > 2000:
		score += 0.25
	case words > 1000:
		score += 0.20
	case words > 500:
		score += 0.15
	case words > 200:
		score += 0.10
	default:
		score += 0.05
	}

	switch n := len(keyTerms); {
	case n > 8:
		score += 0.20
	case n > 5:
		score += 0.15
	case n > 3:
		score += 0.10
	case n > 1:
		score += 0.05
	}

	switch n := countPresent(lower, legalIndicators); {
	case n > 3:
		score += 0.15
	case n > 1:
		score += 0.10
	}

	switch n := countPresent(lower, businessIndicators); {
	case n > 2:
		score += 0.10
	case n > 0:
		score += 0.05
	}

	if strings.Count(lower, ".") > 10 {
		score += 0.05
	}
	if strings.Count(lower, "\n") > 5 {
		score += 0.05
	}

	return math.Min(score, maxConfidence)
}

// Complexity rates text length in characters and the spread of complex
// legal terms, capped at 1.0.
func Complexity(text string) float64 {
	score := 0.5

	switch n := utf8.RuneCountInString(text); {
	case n > 2000:
		score += 0.3
	case n > 1000:
		score += 0.2
	}

	switch n := countPresent(strings.ToLower(text), complexTerms); {
	case n > 3:
		score += 0.2
	case n > 1:
		score += 0.1
	}

	return math.Min(score, 1.0)
}

func countPresent(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
