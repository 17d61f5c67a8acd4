// Package query resolves the intent of free-text questions, ranks documents
// against them and builds cross-document comparisons.
package query

import (
	"math"
	"strings"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/pattern"
)

// Analyzer classifies questions with the intent table of a pattern library.
type Analyzer struct {
	lib *pattern.Library
}

// NewAnalyzer returns an analyzer over lib. A nil lib selects the built-in
// tables.
func NewAnalyzer(lib *pattern.Library) *Analyzer {
	if lib == nil {
		lib = pattern.Default()
	}
	return &Analyzer{lib: lib}
}

// Analyze resolves the intent of question. Intents are tried in table order
// and the first one with a matching pattern wins; its entities are the
// non-empty capture groups of every match of that pattern. The keyword flags
// are set independently of the winning intent.
func (a *Analyzer) Analyze(question string) model.QueryAnalysis {
	q := strings.ToLower(question)
	qa := model.QueryAnalysis{
		Intent:   model.IntentGeneralSearch,
		Entities: []string{},
	}

intents:
	for _, rule := range a.lib.Intents {
		for _, re := range rule.Patterns {
			matches := re.FindAllStringSubmatch(q, -1)
			if len(matches) == 0 {
				continue
			}
			qa.Intent = rule.Intent
			for _, m := range matches {
				for _, group := range m[1:] {
					if group != "" {
						qa.Entities = append(qa.Entities, group)
					}
				}
			}
			break intents
		}
	}

	switch qa.Intent {
	case model.IntentComparison:
		qa.ComparisonRequested = true
	case model.IntentRiskAnalysis, model.IntentComplianceCheck, model.IntentTrendAnalysis:
		qa.AnalysisRequested = true
	case model.IntentSummaryRequest:
		qa.SummaryRequested = true
	}
	if containsAny(q, a.lib.ComparisonKeywords) {
		qa.ComparisonRequested = true
	}
	if containsAny(q, a.lib.AnalysisKeywords) {
		qa.AnalysisRequested = true
	}
	if containsAny(q, a.lib.SummaryKeywords) {
		qa.SummaryRequested = true
	}

	switch {
	case qa.ComparisonRequested || qa.AnalysisRequested || qa.SummaryRequested:
		qa.Complexity = model.ComplexityHigh
	case len(strings.Fields(question)) > 8 || len(qa.Entities) > 2:
		qa.Complexity = model.ComplexityMedium
	default:
		qa.Complexity = model.ComplexityLow
	}

	confidence := 0.3
	if len(qa.Entities) > 0 {
		confidence += 0.3
	}
	if qa.Intent != model.IntentGeneralSearch {
		confidence += 0.2
	}
	if qa.ComparisonRequested || qa.AnalysisRequested {
		confidence += 0.2
	}
	qa.Confidence = math.Min(confidence, 1.0)

	return qa
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
