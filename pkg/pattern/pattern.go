// Package pattern holds the ordered regular-expression tables used to
// classify documents, score them and resolve query intent.
//
// Tables are declared in YAML. The built-in set is embedded from
// tables.yaml; Load accepts an operator-supplied replacement with the same
// schema.
package pattern

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/AnTengye/legalintel/model"
	"gopkg.in/yaml.v3"
)

// Rule maps one categorical label to its patterns.
type Rule[L ~string] struct {
	Label    L
	Patterns []*regexp.Regexp
}

// Table is an ordered list of rules resolved first-match-wins.
type Table[L ~string] []Rule[L]

// First returns the label of the first rule with any pattern matching text.
func (t Table[L]) First(text string) (L, bool) {
	for _, rule := range t {
		for _, re := range rule.Patterns {
			if re.MatchString(text) {
				return rule.Label, true
			}
		}
	}
	var zero L
	return zero, false
}

// Labels returns the labels in traversal order.
func (t Table[L]) Labels() []L {
	labels := make([]L, len(t))
	for i, rule := range t {
		labels[i] = rule.Label
	}
	return labels
}

// Tiers groups patterns by severity.
type Tiers struct {
	High   []*regexp.Regexp
	Medium []*regexp.Regexp
	Low    []*regexp.Regexp
}

// Area is a named business-impact dimension.
type Area struct {
	Name     string
	Patterns []*regexp.Regexp
}

// IntentRule maps a query intent to its patterns.
type IntentRule struct {
	Intent   model.Intent
	Patterns []*regexp.Regexp
}

// Library is a compiled, immutable pattern set.
type Library struct {
	Version string

	AgreementTypes Table[model.AgreementType]
	Jurisdictions  Table[model.Jurisdiction]
	Industries     Table[model.Industry]
	Geographies    Table[model.Geography]

	Risk           Tiers
	Compliance     Tiers
	BusinessImpact []Area

	GoverningLaw    []*regexp.Regexp
	Parties         []*regexp.Regexp
	Values          []*regexp.Regexp
	EffectiveDates  []*regexp.Regexp
	ExpirationDates []*regexp.Regexp

	Intents            []IntentRule
	ComparisonKeywords []string
	AnalysisKeywords   []string
	SummaryKeywords    []string
}

type ruleSpec struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

type tierSpec struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

type areaSpec struct {
	Area     string   `yaml:"area"`
	Patterns []string `yaml:"patterns"`
}

type intentSpec struct {
	Intent   string   `yaml:"intent"`
	Patterns []string `yaml:"patterns"`
}

type fileSpec struct {
	Version        string     `yaml:"version"`
	AgreementTypes []ruleSpec `yaml:"agreement_types"`
	Jurisdictions  []ruleSpec `yaml:"jurisdictions"`
	Industries     []ruleSpec `yaml:"industries"`
	Geographies    []ruleSpec `yaml:"geographies"`
	Risk           tierSpec   `yaml:"risk"`
	Compliance     tierSpec   `yaml:"compliance"`
	BusinessImpact []areaSpec `yaml:"business_impact"`
	Extraction     struct {
		GoverningLaw   []string `yaml:"governing_law"`
		Parties        []string `yaml:"parties"`
		Value          []string `yaml:"value"`
		EffectiveDate  []string `yaml:"effective_date"`
		ExpirationDate []string `yaml:"expiration_date"`
	} `yaml:"extraction"`
	Intents       []intentSpec `yaml:"intents"`
	QueryKeywords struct {
		Comparison []string `yaml:"comparison"`
		Analysis   []string `yaml:"analysis"`
		Summary    []string `yaml:"summary"`
	} `yaml:"query_keywords"`
}

var knownIntents = []model.Intent{
	model.IntentAgreementType, model.IntentJurisdiction, model.IntentIndustry,
	model.IntentValueRange, model.IntentDateRange, model.IntentComparison,
	model.IntentRiskAnalysis, model.IntentComplianceCheck, model.IntentTrendAnalysis,
	model.IntentSummaryRequest,
}

// Load parses and compiles a YAML pattern file.
func Load(r io.Reader) (*Library, error) {
	var raw fileSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode pattern tables: %w", err)
	}
	return compile(&raw)
}

// LoadFile reads a pattern file from disk.
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func compile(raw *fileSpec) (*Library, error) {
	lib := &Library{Version: raw.Version}
	var err error

	if lib.AgreementTypes, err = buildTable("agreement_types", raw.AgreementTypes, model.AgreementTypes); err != nil {
		return nil, err
	}
	if lib.Jurisdictions, err = buildTable("jurisdictions", raw.Jurisdictions, model.Jurisdictions); err != nil {
		return nil, err
	}
	if lib.Industries, err = buildTable("industries", raw.Industries, model.Industries); err != nil {
		return nil, err
	}
	if lib.Geographies, err = buildTable("geographies", raw.Geographies, model.Geographies); err != nil {
		return nil, err
	}
	if lib.Risk, err = buildTiers("risk", raw.Risk); err != nil {
		return nil, err
	}
	if lib.Compliance, err = buildTiers("compliance", raw.Compliance); err != nil {
		return nil, err
	}

	for _, a := range raw.BusinessImpact {
		exprs, err := compileKeywords("business_impact."+a.Area, a.Patterns)
		if err != nil {
			return nil, err
		}
		lib.BusinessImpact = append(lib.BusinessImpact, Area{Name: a.Area, Patterns: exprs})
	}

	ex := raw.Extraction
	if lib.GoverningLaw, err = compileExpressions("extraction.governing_law", ex.GoverningLaw); err != nil {
		return nil, err
	}
	if lib.Parties, err = compileExpressions("extraction.parties", ex.Parties); err != nil {
		return nil, err
	}
	if lib.Values, err = compileExpressions("extraction.value", ex.Value); err != nil {
		return nil, err
	}
	if lib.EffectiveDates, err = compileExpressions("extraction.effective_date", ex.EffectiveDate); err != nil {
		return nil, err
	}
	if lib.ExpirationDates, err = compileExpressions("extraction.expiration_date", ex.ExpirationDate); err != nil {
		return nil, err
	}

	seen := make(map[model.Intent]bool)
	for _, is := range raw.Intents {
		intent := model.Intent(is.Intent)
		if !containsLabel(knownIntents, intent) {
			return nil, fmt.Errorf("intents: unknown intent %q", is.Intent)
		}
		if seen[intent] {
			return nil, fmt.Errorf("intents: duplicate intent %q", is.Intent)
		}
		seen[intent] = true
		exprs, err := compileExpressions("intents."+is.Intent, is.Patterns)
		if err != nil {
			return nil, err
		}
		lib.Intents = append(lib.Intents, IntentRule{Intent: intent, Patterns: exprs})
	}

	lib.ComparisonKeywords = raw.QueryKeywords.Comparison
	lib.AnalysisKeywords = raw.QueryKeywords.Analysis
	lib.SummaryKeywords = raw.QueryKeywords.Summary

	return lib, nil
}

func buildTable[L ~string](section string, specs []ruleSpec, valid []L) (Table[L], error) {
	table := make(Table[L], 0, len(specs))
	seen := make(map[L]bool, len(specs))
	for _, rs := range specs {
		label := L(rs.Label)
		if !containsLabel(valid, label) {
			return nil, fmt.Errorf("%s: unknown label %q", section, rs.Label)
		}
		if label == "Other" {
			return nil, fmt.Errorf("%s: label Other cannot carry patterns", section)
		}
		if seen[label] {
			return nil, fmt.Errorf("%s: duplicate label %q", section, rs.Label)
		}
		seen[label] = true
		exprs, err := compileKeywords(section+"."+rs.Label, rs.Patterns)
		if err != nil {
			return nil, err
		}
		table = append(table, Rule[L]{Label: label, Patterns: exprs})
	}
	return table, nil
}

func buildTiers(section string, raw tierSpec) (Tiers, error) {
	var t Tiers
	var err error
	if t.High, err = compileKeywords(section+".high", raw.High); err != nil {
		return t, err
	}
	if t.Medium, err = compileKeywords(section+".medium", raw.Medium); err != nil {
		return t, err
	}
	if t.Low, err = compileKeywords(section+".low", raw.Low); err != nil {
		return t, err
	}
	return t, nil
}

// compileKeywords wraps each alternation as a case-insensitive whole-word match.
func compileKeywords(section string, alternations []string) ([]*regexp.Regexp, error) {
	exprs := make([]*regexp.Regexp, 0, len(alternations))
	for _, alt := range alternations {
		re, err := regexp.Compile(`(?i)\b(?:` + alt + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("%s: compile %q: %w", section, alt, err)
		}
		exprs = append(exprs, re)
	}
	return exprs, nil
}

func compileExpressions(section string, patterns []string) ([]*regexp.Regexp, error) {
	exprs := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: compile %q: %w", section, p, err)
		}
		exprs = append(exprs, re)
	}
	return exprs, nil
}

func containsLabel[L comparable](list []L, v L) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// CountMatches returns the total number of non-overlapping matches of all
// patterns in text.
func CountMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// AllMatches returns every matched substring, pattern by pattern.
func AllMatches(patterns []*regexp.Regexp, text string) []string {
	var out []string
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}
