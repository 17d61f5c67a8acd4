package scorer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
)

// minAnalyzableChars is the trimmed text length below which a document is
// not scored.
const minAnalyzableChars = 50

// FailurePrefix starts every error-log entry written for a failed scoring run.
const FailurePrefix = "AI analysis failed: "

// ErrTextTooShort reports a document without enough text to score.
var ErrTextTooShort = errors.New("text too short for analysis")

// FailureReason classifies why insight generation fell back to defaults.
type FailureReason string

const (
	ReasonTextTooShort  FailureReason = "insufficient_text"
	ReasonInternalError FailureReason = "internal_error"
)

// Failure describes a fallback. It is never returned as an error to the
// caller of Analyze; it travels inside Result.
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of Analyze. Insights is always set; Failure is set
// only when Insights is a fallback bundle.
type Result struct {
	Insights *model.Insights
	Failure  *Failure
}

// OK reports whether the insights came from a full scoring run.
func (r Result) OK() bool { return r.Failure == nil }

// ProcessingError renders the failure for a document's error log, or ""
// when the run succeeded.
func (r Result) ProcessingError() string {
	if r.Failure == nil {
		return ""
	}
	return FailurePrefix + r.Failure.Error()
}

var (
	orgPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Inc|Corp|LLC|Ltd|Company|Corporation)\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Partners|Associates|Group)\b`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:New York|London|Dubai|Singapore|Hong Kong|Tokyo|Paris|Berlin)\b`),
		regexp.MustCompile(`(?i)\b(?:United States|United Kingdom|UAE|Germany|France|Japan)\b`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	}
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
		regexp.MustCompile(`(?i)\d+(?:\.\d{2})?\s*(?:USD|EUR|GBP|AED)`),
	}

	positiveWords = []string{"beneficial", "advantageous", "favorable", "positive", "good", "excellent"}
	negativeWords = []string{"risky", "dangerous", "harmful", "negative", "bad", "poor", "breach", "penalty"}
	neutralWords  = []string{"standard", "normal", "routine", "regular", "typical"}
)

// Analyze builds the full insight bundle for doc. It never panics and never
// returns an error: faults become a fallback bundle plus a Failure.
func (s *Scorer) Analyze(doc *model.Document) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fallback(ReasonInternalError, fmt.Errorf("%v", r))
		}
	}()

	if len(strings.TrimSpace(doc.ExtractedText)) < minAnalyzableChars {
		return fallback(ReasonTextTooShort, ErrTextTooShort)
	}

	sc := s.Score(doc.ExtractedText)
	return Result{Insights: &model.Insights{
		Summary:           Summary(doc.Metadata.Filename, sc.Risk, sc.Compliance, sc.BusinessImpact),
		KeyTerms:          sc.KeyTerms,
		RiskAssessment:    sc.Risk,
		ComplianceStatus:  sc.Compliance,
		BusinessImpact:    sc.BusinessImpact,
		Recommendations:   sc.Recommendations,
		ConfidenceScore:   sc.Confidence,
		ExtractedEntities: Entities(doc.ExtractedText),
		SentimentAnalysis: Sentiment(doc.ExtractedText),
		ComplexityScore:   sc.Complexity,
	}}
}

// Fallback returns the default bundle used when scoring cannot run.
func Fallback(reason FailureReason) *model.Insights {
	ins := &model.Insights{
		Summary:           "Analysis failed - using fallback insights",
		KeyTerms:          []string{"Legal", "Document"},
		RiskAssessment:    model.RiskLow,
		ComplianceStatus:  model.ComplianceCompliant,
		BusinessImpact:    "Standard impact",
		Recommendations:   []string{"Review manually"},
		ConfidenceScore:   0.3,
		ExtractedEntities: map[string][]string{},
		SentimentAnalysis: "Unknown",
		ComplexityScore:   0.5,
	}
	if reason == ReasonTextTooShort {
		ins.Summary = "Document text too short for comprehensive analysis"
		ins.ConfidenceScore = 0.1
	}
	return ins
}

func fallback(reason FailureReason, err error) Result {
	return Result{
		Insights: Fallback(reason),
		Failure:  &Failure{Reason: reason, Err: err},
	}
}

// Summary is the one-paragraph description of a scored document.
func Summary(filename string, risk model.RiskLevel, compliance model.ComplianceStatus, impact string) string {
	return fmt.Sprintf("%s with %s risk level. %s compliance status. %s business impact.",
		documentKind(filename),
		strings.ToLower(string(risk)),
		strings.ToLower(string(compliance)),
		strings.ToLower(impact))
}

func documentKind(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "nda"):
		return "Non-Disclosure Agreement"
	case strings.Contains(name, "contract"), strings.Contains(name, "agreement"):
		return "Contract/Agreement"
	case strings.Contains(name, "employment"):
		return "Employment Document"
	case strings.Contains(name, "lease"):
		return "Lease Agreement"
	default:
		return "Document"
	}
}

// Entities pulls organizations, locations, dates, amounts and complex legal
// terms out of text. Every category is present, possibly empty.
func Entities(text string) map[string][]string {
	lower := strings.ToLower(text)
	legal := []string{}
	for _, t := range complexTerms {
		if strings.Contains(lower, t) {
			legal = append(legal, t)
		}
	}
	return map[string][]string{
		"organizations": findAll(orgPatterns, text),
		"locations":     findAll(locationPatterns, text),
		"dates":         findAll(datePatterns, text),
		"amounts":       findAll(amountPatterns, text),
		"legal_terms":   legal,
	}
}

func findAll(patterns []*regexp.Regexp, text string) []string {
	out := []string{}
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}

// Sentiment compares how many positive, negative and neutral marker words
// appear in text.
func Sentiment(text string) string {
	lower := strings.ToLower(text)
	pos := countPresent(lower, positiveWords)
	neg := countPresent(lower, negativeWords)
	neu := countPresent(lower, neutralWords)

	switch {
	case pos > neg && pos > neu:
		return "Positive - Favorable terms and conditions"
	case neg > pos && neg > neu:
		return "Negative - Contains risk factors and penalties"
	default:
		return "Neutral - Standard legal language"
	}
}

// RiskBreakdown exposes the per-pattern evidence behind the risk tier.
func (s *Scorer) RiskBreakdown(text string) model.RiskBreakdown {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))

	tiers := []struct {
		key      string
		name     string
		patterns []*regexp.Regexp
	}{
		{"high", "high_risk", s.lib.Risk.High},
		{"medium", "medium_risk", s.lib.Risk.Medium},
		{"low", "low_risk", s.lib.Risk.Low},
	}

	b := model.RiskBreakdown{
		RawScores:        make(map[string]int, len(tiers)),
		NormalizedScores: make(map[string]float64, len(tiers)),
		TextLength:       words,
		PatternMatches:   make(map[string]map[string][]string, len(tiers)),
		RiskFactors:      []string{},
	}
	seen := make(map[string]bool)
	for _, tier := range tiers {
		matches := make(map[string][]string)
		for _, re := range tier.patterns {
			found := re.FindAllString(lower, -1)
			if len(found) == 0 {
				continue
			}
			matches[re.String()] = found
			b.RawScores[tier.key] += len(found)
			for _, f := range found {
				if !seen[f] && len(b.RiskFactors) < 10 {
					seen[f] = true
					b.RiskFactors = append(b.RiskFactors, f)
				}
			}
		}
		b.PatternMatches[tier.name] = matches
		b.NormalizedScores[tier.key] = Rate(b.RawScores[tier.key], words)
	}
	return b
}

// DocumentAnalysis renders the per-document analysis view. Documents
// without insights are analyzed on the fly.
func (s *Scorer) DocumentAnalysis(doc *model.Document, now time.Time) model.DocumentAnalysis {
	ins := doc.Insights
	if ins == nil {
		ins = s.Analyze(doc).Insights
	}
	sc := s.Score(doc.ExtractedText)

	summary := ins.Summary
	if summary == "" {
		summary = "Analysis summary unavailable"
	}
	implications := []string{}
	if ins.BusinessImpact != "" {
		implications = append(implications, ins.BusinessImpact)
	}

	return model.DocumentAnalysis{
		DocumentID:      doc.ID,
		Filename:        doc.Metadata.Filename,
		AnalysisSummary: summary,
		KeyFindings:     ins.KeyTerms,
		RiskAssessment: model.Assessment{
			Level:   orUnknown(string(ins.RiskAssessment)),
			Factors: sc.RiskFactors,
			Score:   ins.ConfidenceScore,
		},
		ComplianceCheck: model.Assessment{
			Status:  orUnknown(string(ins.ComplianceStatus)),
			Factors: sc.ComplianceRequirements,
			Score:   ins.ConfidenceScore,
		},
		BusinessImplications: implications,
		Recommendations:      ins.Recommendations,
		ConfidenceScore:      ins.ConfidenceScore,
		AnalysisTimestamp:    now,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
