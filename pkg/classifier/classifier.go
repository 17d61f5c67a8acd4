// Package classifier derives document metadata from extracted text.
package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/pattern"
)

// dateLayouts are tried in order; month comes first.
var dateLayouts = []string{
	"1/2/2006", "1-2-2006", "1/2/06", "1-2-06",
}

var currencySymbols = map[rune]string{
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
}

// Classifier applies a pattern library to text. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	lib *pattern.Library
}

// New returns a classifier over lib. A nil lib selects the built-in tables.
func New(lib *pattern.Library) *Classifier {
	if lib == nil {
		lib = pattern.Default()
	}
	return &Classifier{lib: lib}
}

// Classify assigns at most one label per categorical dimension and extracts
// the free-form fields. Dimensions with no match are left unset.
func (c *Classifier) Classify(text string) model.Classification {
	var out model.Classification

	if v, ok := c.lib.AgreementTypes.First(text); ok {
		out.AgreementType = v
	}
	if v, ok := c.lib.Jurisdictions.First(text); ok {
		out.Jurisdiction = v
	}
	if v, ok := c.lib.Industries.First(text); ok {
		out.Industry = v
	}
	if v, ok := c.lib.Geographies.First(text); ok {
		out.Geography = v
	}

	out.GoverningLaw = c.governingLaw(text)
	out.Parties = c.parties(text)
	out.EffectiveDate = firstDate(c.lib.EffectiveDates, text)
	out.ExpirationDate = firstDate(c.lib.ExpirationDates, text)
	out.Value, out.Currency = c.value(text)

	return out
}

// BuildMetadata fills the structural fields from the upload and runs
// classification only when the text has non-whitespace content.
func (c *Classifier) BuildMetadata(filename string, size int64, fileType string, uploaded time.Time, text string) model.Metadata {
	m := model.Metadata{
		Filename:   filename,
		FileSize:   size,
		FileType:   fileType,
		UploadDate: uploaded,
	}
	if strings.TrimSpace(text) != "" {
		m.Classification = c.Classify(text)
	}
	if m.Parties == nil {
		m.Parties = []string{}
	}
	return m
}

func (c *Classifier) governingLaw(text string) string {
	for _, re := range c.lib.GoverningLaw {
		if m := re.FindStringSubmatch(text); m != nil && len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// parties uses the first pattern with any match and collects every capture
// group of every match, trimmed and deduplicated in first-seen order.
func (c *Classifier) parties(text string) []string {
	for _, re := range c.lib.Parties {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]bool)
		var out []string
		for _, m := range matches {
			for _, group := range m[1:] {
				p := strings.TrimSpace(group)
				if p == "" || seen[p] {
					continue
				}
				seen[p] = true
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func (c *Classifier) value(text string) (*float64, string) {
	for _, re := range c.lib.Values {
		m := re.FindStringSubmatch(text)
		if m == nil || len(m) < 2 {
			continue
		}
		v, ok := ParseAmount(m[1])
		if !ok {
			continue
		}
		currency := ""
		if len(m) > 2 {
			currency = m[2]
		}
		if currency == "" {
			currency = symbolCurrency(m[1])
		}
		return &v, currency
	}
	return nil, ""
}

// ParseAmount strips thousands separators, currency symbols and spaces and
// parses the rest as a decimal number.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' {
			return -1
		}
		if _, ok := currencySymbols[r]; ok {
			return -1
		}
		return r
	}, raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func symbolCurrency(raw string) string {
	for _, r := range strings.TrimSpace(raw) {
		return currencySymbols[r]
	}
	return ""
}

func firstDate(patterns []*regexp.Regexp, text string) *time.Time {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil || len(m) < 2 {
			continue
		}
		if t, ok := ParseDate(m[1]); ok {
			return &t
		}
		return nil
	}
	return nil
}

// ParseDate parses a numeric month/day/year literal.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var defaultClassifier = New(nil)

// Classify runs the built-in tables over text.
func Classify(text string) model.Classification {
	return defaultClassifier.Classify(text)
}
