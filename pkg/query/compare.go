package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AnTengye/legalintel/model"
)

type partition struct {
	prefix string
	key    func(*model.Document) string
}

var partitions = []partition{
	{"agreement_type_", func(d *model.Document) string { return string(d.Metadata.AgreementType) }},
	{"jurisdiction_", func(d *model.Document) string { return string(d.Metadata.Jurisdiction) }},
	{"industry_", func(d *model.Document) string { return string(d.Metadata.Industry) }},
}

// Compare groups docs by agreement type, jurisdiction and industry and
// reports on every group with at least two members. Fewer than two input
// documents yield no comparisons.
func Compare(docs []*model.Document) []model.StructuredComparison {
	out := []model.StructuredComparison{}
	if len(docs) < 2 {
		return out
	}
	for _, p := range partitions {
		var order []string
		groups := make(map[string][]*model.Document)
		for _, doc := range docs {
			k := p.key(doc)
			if k == "" {
				continue
			}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], doc)
		}
		for _, k := range order {
			if len(groups[k]) < 2 {
				continue
			}
			out = append(out, compareGroup(p.prefix+k, groups[k]))
		}
	}
	return out
}

func compareGroup(kind string, docs []*model.Document) model.StructuredComparison {
	sims := similarities(docs)
	diffs := differences(docs)

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Metadata.Filename
	}

	return model.StructuredComparison{
		ComparisonType:     kind,
		DocumentsInvolved:  names,
		Similarities:       sims,
		Differences:        diffs,
		Insights:           comparisonInsights(docs, sims, diffs),
		ConfidenceScore:    comparisonConfidence(docs, sims, diffs),
		MetadataComparison: metadataComparison(docs),
	}
}

// shared returns the common value when every document has the same
// non-empty value.
func shared(docs []*model.Document, key func(*model.Document) string) (string, bool) {
	first := key(docs[0])
	if first == "" {
		return "", false
	}
	for _, d := range docs[1:] {
		if key(d) != first {
			return "", false
		}
	}
	return first, true
}

func similarities(docs []*model.Document) []string {
	sims := []string{}
	if v, ok := shared(docs, partitions[0].key); ok {
		sims = append(sims, fmt.Sprintf("All documents are %s agreements", v))
	}
	if v, ok := shared(docs, partitions[1].key); ok {
		sims = append(sims, fmt.Sprintf("All documents are governed by %s law", v))
	}
	if v, ok := shared(docs, partitions[2].key); ok {
		sims = append(sims, fmt.Sprintf("All documents are in the %s industry", v))
	}
	if v, ok := shared(docs, func(d *model.Document) string { return string(d.Risk()) }); ok {
		sims = append(sims, fmt.Sprintf("All documents have %s risk level", v))
	}
	return sims
}

func differences(docs []*model.Document) []string {
	diffs := []string{}

	values := docValues(docs)
	distinct := make(map[float64]bool)
	for _, v := range values {
		distinct[v] = true
	}
	if len(distinct) > 1 {
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		diffs = append(diffs, fmt.Sprintf("Contract values range from %s to %s", formatAmount(lo), formatAmount(hi)))
	}

	parties := make(map[string]bool)
	for _, d := range docs {
		for _, p := range d.Metadata.Parties {
			parties[p] = true
		}
	}
	if len(parties) > len(docs) {
		diffs = append(diffs, fmt.Sprintf("Documents involve %d different parties", len(parties)))
	}

	levels := distinctRisks(docs)
	if len(levels) > 1 {
		diffs = append(diffs, "Documents have varying risk levels: "+strings.Join(levels, ", "))
	}
	return diffs
}

func comparisonInsights(docs []*model.Document, sims, diffs []string) string {
	var parts []string
	if len(sims) > 0 {
		parts = append(parts, "Key similarities: "+strings.Join(sims, "; "))
	}
	if len(diffs) > 0 {
		parts = append(parts, "Key differences: "+strings.Join(diffs, "; "))
	}

	total := 0.0
	for _, v := range docValues(docs) {
		total += v
	}
	if total > 0 {
		parts = append(parts, "Combined contract value: "+formatAmount(total))
	}

	high := 0
	for _, d := range docs {
		if d.Risk() == model.RiskHigh {
			high++
		}
	}
	if high > 0 {
		parts = append(parts, fmt.Sprintf("%d high-risk documents identified", high))
	}

	if len(parts) == 0 {
		return "Standard comparison analysis"
	}
	return strings.Join(parts, " ")
}

// comparisonConfidence averages the factors that can be computed: mean AI
// confidence, metadata completeness and whether anything was found.
func comparisonConfidence(docs []*model.Document, sims, diffs []string) float64 {
	var factors []float64

	sum, n := 0.0, 0
	for _, d := range docs {
		if c, ok := d.Confidence(); ok && c > 0 {
			sum += c
			n++
		}
	}
	if n > 0 {
		factors = append(factors, sum/float64(n))
	}

	complete := 0
	for _, d := range docs {
		if d.Metadata.HasAllCoreLabels() {
			complete++
		}
	}
	factors = append(factors, float64(complete)/float64(len(docs)))

	if len(sims) > 0 || len(diffs) > 0 {
		factors = append(factors, 1)
	} else {
		factors = append(factors, 0)
	}

	total := 0.0
	for _, f := range factors {
		total += f
	}
	return math.Round(total/float64(len(factors))*100) / 100
}

func metadataComparison(docs []*model.Document) model.MetadataComparison {
	mc := model.MetadataComparison{
		AgreementTypes:         map[string]int{},
		Jurisdictions:          map[string]int{},
		Industries:             map[string]int{},
		TotalDocuments:         len(docs),
		RiskDistribution:       map[model.RiskLevel]int{},
		ComplianceDistribution: map[model.ComplianceStatus]int{},
	}
	for _, l := range model.RiskLevels {
		mc.RiskDistribution[l] = 0
	}
	for _, s := range model.ComplianceStatuses {
		mc.ComplianceDistribution[s] = 0
	}

	for _, d := range docs {
		m := d.Metadata
		if m.AgreementType != "" {
			mc.AgreementTypes[string(m.AgreementType)]++
		}
		if m.Jurisdiction != "" {
			mc.Jurisdictions[string(m.Jurisdiction)]++
		}
		if m.Industry != "" {
			mc.Industries[string(m.Industry)]++
		}
		if r := d.Risk(); r != "" {
			mc.RiskDistribution[r]++
		}
		if c := d.Compliance(); c != "" {
			mc.ComplianceDistribution[c]++
		}
	}

	if values := docValues(docs); len(values) > 0 {
		vr := &model.ValueRange{Min: values[0], Max: values[0]}
		sum := 0.0
		for _, v := range values {
			vr.Min = math.Min(vr.Min, v)
			vr.Max = math.Max(vr.Max, v)
			sum += v
		}
		vr.Average = sum / float64(len(values))
		mc.ValueRange = vr
	}
	return mc
}

func docValues(docs []*model.Document) []float64 {
	var values []float64
	for _, d := range docs {
		if d.Metadata.Value != nil {
			values = append(values, *d.Metadata.Value)
		}
	}
	return values
}

// distinctRisks lists the risk tiers present, in first-seen order.
func distinctRisks(docs []*model.Document) []string {
	seen := make(map[model.RiskLevel]bool)
	var out []string
	for _, d := range docs {
		r := d.Risk()
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
