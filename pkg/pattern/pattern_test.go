package pattern

import (
	"strings"
	"testing"

	"github.com/AnTengye/legalintel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesCompile(t *testing.T) {
	lib := Default()
	require.NotNil(t, lib)

	assert.Len(t, lib.AgreementTypes, 16)
	assert.Len(t, lib.Jurisdictions, 15)
	assert.Len(t, lib.Industries, 15)
	assert.Len(t, lib.Geographies, 9)
	assert.Len(t, lib.Risk.High, 5)
	assert.Len(t, lib.Risk.Medium, 5)
	assert.Len(t, lib.Risk.Low, 5)
	assert.Len(t, lib.Compliance.High, 4)
	assert.Len(t, lib.Compliance.Medium, 3)
	assert.Len(t, lib.Compliance.Low, 2)
	assert.Len(t, lib.BusinessImpact, 4)
	assert.Len(t, lib.GoverningLaw, 3)
	assert.Len(t, lib.Parties, 3)
	assert.Len(t, lib.Values, 2)
	assert.Len(t, lib.Intents, 10)
}

func TestTableOrderIsDocumented(t *testing.T) {
	lib := Default()

	assert.Equal(t, []model.AgreementType{
		model.AgreementNDA, model.AgreementMSA, model.AgreementFranchise, model.AgreementEmployment,
		model.AgreementLease, model.AgreementPartnership, model.AgreementSupply, model.AgreementService,
		model.AgreementLicensing, model.AgreementMerger, model.AgreementAcquisition, model.AgreementJointVenture,
		model.AgreementDistribution, model.AgreementConfidentiality, model.AgreementNonCompete, model.AgreementIP,
	}, lib.AgreementTypes.Labels())

	assert.Equal(t, []model.Jurisdiction{
		model.JurisdictionUAE, model.JurisdictionUK, model.JurisdictionUSA, model.JurisdictionDelaware,
		model.JurisdictionSingapore, model.JurisdictionHongKong, model.JurisdictionGermany, model.JurisdictionFrance,
	}, lib.Jurisdictions.Labels()[:8])

	intents := make([]model.Intent, len(lib.Intents))
	for i, r := range lib.Intents {
		intents[i] = r.Intent
	}
	assert.Equal(t, knownIntents, intents)
}

func TestTableFirstMatchWins(t *testing.T) {
	lib := Default()

	label, ok := lib.AgreementTypes.First("This Master Services Agreement incorporates the NDA signed earlier.")
	require.True(t, ok)
	assert.Equal(t, model.AgreementNDA, label)

	label, ok = lib.AgreementTypes.First("master services agreement")
	require.True(t, ok)
	assert.Equal(t, model.AgreementMSA, label)

	_, ok = lib.AgreementTypes.First("a plain letter about lunch")
	assert.False(t, ok)
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	lib := Default()

	_, ok := lib.Geographies.First("the Europeanization of things")
	assert.False(t, ok, "partial word must not match")

	geo, ok := lib.Geographies.First("operations across the GCC")
	require.True(t, ok)
	assert.Equal(t, model.GeographyMiddleEast, geo)
}

func TestCountMatches(t *testing.T) {
	lib := Default()
	text := "breach breach and a penalty, then litigation"

	// penalty is listed in two high-risk alternations and counts twice.
	assert.Equal(t, 5, CountMatches(lib.Risk.High, text))
	assert.Equal(t, 0, CountMatches(lib.Risk.High, ""))
	assert.Equal(t, []string{"breach", "breach", "penalty", "litigation", "penalty"}, AllMatches(lib.Risk.High, text))
}

func TestLoadRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown label",
			yaml: "agreement_types:\n  - label: Treaty\n    patterns: ['Treaty']\n",
			want: "unknown label",
		},
		{
			name: "other carries patterns",
			yaml: "industries:\n  - label: Other\n    patterns: ['misc']\n",
			want: "Other",
		},
		{
			name: "bad regex",
			yaml: "risk:\n  high: ['(unclosed']\n",
			want: "compile",
		},
		{
			name: "unknown intent",
			yaml: "intents:\n  - intent: chit_chat\n    patterns: ['hello']\n",
			want: "unknown intent",
		},
		{
			name: "unknown field",
			yaml: "colours: [red]\n",
			want: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMinimalOverride(t *testing.T) {
	lib, err := Load(strings.NewReader(`
version: "custom"
agreement_types:
  - label: Lease Agreement
    patterns: ['Tenancy']
`))
	require.NoError(t, err)
	assert.Equal(t, "custom", lib.Version)

	label, ok := lib.AgreementTypes.First("Tenancy terms")
	require.True(t, ok)
	assert.Equal(t, model.AgreementLease, label)
}
