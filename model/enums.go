package model

// AgreementType is the contractual category of a document.
type AgreementType string

const (
	AgreementNDA             AgreementType = "NDA"
	AgreementMSA             AgreementType = "MSA"
	AgreementFranchise       AgreementType = "Franchise Agreement"
	AgreementEmployment      AgreementType = "Employment Contract"
	AgreementLease           AgreementType = "Lease Agreement"
	AgreementPartnership     AgreementType = "Partnership Agreement"
	AgreementSupply          AgreementType = "Supply Agreement"
	AgreementService         AgreementType = "Service Agreement"
	AgreementLicensing       AgreementType = "Licensing Agreement"
	AgreementMerger          AgreementType = "Merger Agreement"
	AgreementAcquisition     AgreementType = "Acquisition Agreement"
	AgreementJointVenture    AgreementType = "Joint Venture Agreement"
	AgreementDistribution    AgreementType = "Distribution Agreement"
	AgreementConfidentiality AgreementType = "Confidentiality Agreement"
	AgreementNonCompete      AgreementType = "Non-Compete Agreement"
	AgreementIP              AgreementType = "IP Agreement"
	AgreementOther           AgreementType = "Other"
)

// AgreementTypes lists every AgreementType in declaration order.
var AgreementTypes = []AgreementType{
	AgreementNDA, AgreementMSA, AgreementFranchise, AgreementEmployment,
	AgreementLease, AgreementPartnership, AgreementSupply, AgreementService,
	AgreementLicensing, AgreementMerger, AgreementAcquisition, AgreementJointVenture,
	AgreementDistribution, AgreementConfidentiality, AgreementNonCompete, AgreementIP,
	AgreementOther,
}

type Jurisdiction string

const (
	JurisdictionUAE        Jurisdiction = "UAE"
	JurisdictionUK         Jurisdiction = "UK"
	JurisdictionUSA        Jurisdiction = "USA"
	JurisdictionDelaware   Jurisdiction = "Delaware"
	JurisdictionSingapore  Jurisdiction = "Singapore"
	JurisdictionHongKong   Jurisdiction = "Hong Kong"
	JurisdictionGermany    Jurisdiction = "Germany"
	JurisdictionFrance     Jurisdiction = "France"
	JurisdictionCanada     Jurisdiction = "Canada"
	JurisdictionAustralia  Jurisdiction = "Australia"
	JurisdictionJapan      Jurisdiction = "Japan"
	JurisdictionSouthKorea Jurisdiction = "South Korea"
	JurisdictionIndia      Jurisdiction = "India"
	JurisdictionBrazil     Jurisdiction = "Brazil"
	JurisdictionMexico     Jurisdiction = "Mexico"
	JurisdictionOther      Jurisdiction = "Other"
)

var Jurisdictions = []Jurisdiction{
	JurisdictionUAE, JurisdictionUK, JurisdictionUSA, JurisdictionDelaware,
	JurisdictionSingapore, JurisdictionHongKong, JurisdictionGermany, JurisdictionFrance,
	JurisdictionCanada, JurisdictionAustralia, JurisdictionJapan, JurisdictionSouthKorea,
	JurisdictionIndia, JurisdictionBrazil, JurisdictionMexico, JurisdictionOther,
}

type Industry string

const (
	IndustryTechnology     Industry = "Technology"
	IndustryHealthcare     Industry = "Healthcare"
	IndustryFinance        Industry = "Finance"
	IndustryOilGas         Industry = "Oil & Gas"
	IndustryRealEstate     Industry = "Real Estate"
	IndustryManufacturing  Industry = "Manufacturing"
	IndustryRetail         Industry = "Retail"
	IndustryConsulting     Industry = "Consulting"
	IndustryTelecom        Industry = "Telecommunications"
	IndustryAutomotive     Industry = "Automotive"
	IndustryAerospace      Industry = "Aerospace"
	IndustryEnergy         Industry = "Energy"
	IndustryTransportation Industry = "Transportation"
	IndustryEducation      Industry = "Education"
	IndustryMedia          Industry = "Media & Entertainment"
	IndustryOther          Industry = "Other"
)

var Industries = []Industry{
	IndustryTechnology, IndustryHealthcare, IndustryFinance, IndustryOilGas,
	IndustryRealEstate, IndustryManufacturing, IndustryRetail, IndustryConsulting,
	IndustryTelecom, IndustryAutomotive, IndustryAerospace, IndustryEnergy,
	IndustryTransportation, IndustryEducation, IndustryMedia, IndustryOther,
}

type Geography string

const (
	GeographyMiddleEast     Geography = "Middle East"
	GeographyEurope         Geography = "Europe"
	GeographyNorthAmerica   Geography = "North America"
	GeographyAsiaPacific    Geography = "Asia Pacific"
	GeographyAfrica         Geography = "Africa"
	GeographySouthAmerica   Geography = "South America"
	GeographyCentralAmerica Geography = "Central America"
	GeographyCaribbean      Geography = "Caribbean"
	GeographyOceania        Geography = "Oceania"
	GeographyOther          Geography = "Other"
)

var Geographies = []Geography{
	GeographyMiddleEast, GeographyEurope, GeographyNorthAmerica, GeographyAsiaPacific,
	GeographyAfrica, GeographySouthAmerica, GeographyCentralAmerica, GeographyCaribbean,
	GeographyOceania, GeographyOther,
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

type ComplianceStatus string

const (
	ComplianceCompliant      ComplianceStatus = "Compliant"
	ComplianceNonCompliant   ComplianceStatus = "Non-Compliant"
	CompliancePendingReview  ComplianceStatus = "Pending Review"
	ComplianceRequiresAction ComplianceStatus = "Requires Action"
)

var ComplianceStatuses = []ComplianceStatus{
	ComplianceCompliant, ComplianceNonCompliant, CompliancePendingReview, ComplianceRequiresAction,
}
