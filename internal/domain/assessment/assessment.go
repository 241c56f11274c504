package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskFactors holds the raw inputs to the RMF risk formula. Likelihood
// and impact sit on the 1-5 scale; exposure and confidence are fractions.
// Factors are immutable once assessed.
type RiskFactors struct {
	Likelihood float64 `json:"likelihood"` // 1.0 - 5.0
	Impact     float64 `json:"impact"`     // 1.0 - 5.0
	Exposure   float64 `json:"exposure"`   // 0.0 - 1.0
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
}

// NewRiskFactors validates each factor against its scale.
func NewRiskFactors(likelihood, impact, exposure, confidence float64) (RiskFactors, error) {
	if likelihood < 1.0 || likelihood > 5.0 {
		return RiskFactors{}, fmt.Errorf("likelihood must be between 1.0 and 5.0, got %v", likelihood)
	}
	if impact < 1.0 || impact > 5.0 {
		return RiskFactors{}, fmt.Errorf("impact must be between 1.0 and 5.0, got %v", impact)
	}
	if exposure < 0.0 || exposure > 1.0 {
		return RiskFactors{}, fmt.Errorf("exposure must be between 0.0 and 1.0, got %v", exposure)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return RiskFactors{}, fmt.Errorf("confidence must be between 0.0 and 1.0, got %v", confidence)
	}
	return RiskFactors{
		Likelihood: likelihood,
		Impact:     impact,
		Exposure:   exposure,
		Confidence: confidence,
	}, nil
}

type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskVeryHigh
	RiskCritical
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskVeryHigh:
		return "very_high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh, RiskCritical}
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	case "very_high":
		return RiskVeryHigh, nil
	case "critical":
		return RiskCritical, nil
	default:
		return 0, fmt.Errorf("invalid risk level: %q", s)
	}
}

type ConfidenceLevel int

const (
	ConfidenceLow ConfidenceLevel = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ImpactLevel is a FIPS 199 style impact rating used for system
// categorization, ordered LOW < MODERATE < HIGH.
type ImpactLevel int

const (
	ImpactLow ImpactLevel = iota
	ImpactModerate
	ImpactHigh
)

func (i ImpactLevel) String() string {
	switch i {
	case ImpactLow:
		return "low"
	case ImpactModerate:
		return "moderate"
	case ImpactHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Categorization records per-objective impact levels for an asset.
type Categorization struct {
	Confidentiality ImpactLevel `json:"confidentiality"`
	Integrity       ImpactLevel `json:"integrity"`
	Availability    ImpactLevel `json:"availability"`
}

// Overall applies the RMF high-water-mark rule: the system categorization
// is the maximum of the three objective impact levels.
func (c Categorization) Overall() ImpactLevel {
	overall := c.Confidentiality
	if c.Integrity > overall {
		overall = c.Integrity
	}
	if c.Availability > overall {
		overall = c.Availability
	}
	return overall
}

// CVESeverity is the CVSS qualitative rating of a scanner finding.
type CVESeverity int

const (
	CVELow CVESeverity = iota
	CVEMedium
	CVEHigh
	CVECritical
)

func (s CVESeverity) String() string {
	switch s {
	case CVELow:
		return "low"
	case CVEMedium:
		return "medium"
	case CVEHigh:
		return "high"
	case CVECritical:
		return "critical"
	default:
		return "unknown"
	}
}

// VulnerabilityAssessment is the computed vulnerability sub-score on the
// 1-5 scale, together with the counts it was derived from.
type VulnerabilityAssessment struct {
	Score float64 `json:"score"` // 1.0 - 5.0

	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`

	Confidence ConfidenceLevel `json:"confidence"`
	AssessedAt time.Time       `json:"assessed_at"`
}

// ControlFamily is a NIST SP 800-53 control family assessed for
// implementation status.
type ControlFamily int

const (
	FamilyAccessControl ControlFamily = iota
	FamilyAuditAccountability
	FamilyConfigurationManagement
	FamilyContingencyPlanning
	FamilyIdentificationAuthentication
	FamilyIncidentResponse
	FamilySystemCommunicationsProtection
	FamilySystemInformationIntegrity
)

func (f ControlFamily) String() string {
	switch f {
	case FamilyAccessControl:
		return "access_control"
	case FamilyAuditAccountability:
		return "audit_accountability"
	case FamilyConfigurationManagement:
		return "configuration_management"
	case FamilyContingencyPlanning:
		return "contingency_planning"
	case FamilyIdentificationAuthentication:
		return "identification_authentication"
	case FamilyIncidentResponse:
		return "incident_response"
	case FamilySystemCommunicationsProtection:
		return "system_communications_protection"
	case FamilySystemInformationIntegrity:
		return "system_information_integrity"
	default:
		return "unknown"
	}
}

type ImplementationStatus int

const (
	StatusNotImplemented ImplementationStatus = iota
	StatusPartiallyImplemented
	StatusImplemented
)

func (s ImplementationStatus) String() string {
	switch s {
	case StatusNotImplemented:
		return "not_implemented"
	case StatusPartiallyImplemented:
		return "partially_implemented"
	case StatusImplemented:
		return "implemented"
	default:
		return "unknown"
	}
}

// ControlAssessment is the computed control-effectiveness sub-score,
// the fraction of assessed control families that are implemented with
// partial implementations counting half.
type ControlAssessment struct {
	Effectiveness float64 `json:"effectiveness"` // 0.0 - 1.0

	AssessedFamilies    int `json:"assessed_families"`
	ImplementedCount    int `json:"implemented_count"`
	PartialCount        int `json:"partial_count"`
	NotImplementedCount int `json:"not_implemented_count"`

	Confidence ConfidenceLevel `json:"confidence"`
	AssessedAt time.Time       `json:"assessed_at"`
}

// RiskAssessment is one immutable assessment run for one asset. A new
// run supersedes the previous one; nothing is mutated in place, so
// successive assessments form a time series suitable for trend analysis.
type RiskAssessment struct {
	ID      uuid.UUID `json:"id"`
	AssetID uuid.UUID `json:"asset_id"`

	RiskScore float64   `json:"risk_score"` // 1.0 - 25.0
	RiskLevel RiskLevel `json:"risk_level"`

	Factors        RiskFactors    `json:"risk_factors"`
	Categorization Categorization `json:"categorization"`

	Vulnerability *VulnerabilityAssessment `json:"vulnerability_assessment,omitempty"`
	Controls      *ControlAssessment       `json:"control_assessment,omitempty"`

	AssessedAt        time.Time `json:"assessed_at"`
	NextAssessmentDue time.Time `json:"next_assessment_due"`
}

// TrendDirection describes how risk moved between two assessment runs.
type TrendDirection int

const (
	TrendStable TrendDirection = iota
	TrendImproving
	TrendWorsening
)

func (d TrendDirection) String() string {
	switch d {
	case TrendStable:
		return "stable"
	case TrendImproving:
		return "improving"
	case TrendWorsening:
		return "worsening"
	default:
		return "unknown"
	}
}

// RiskTrend is the diff of two successive assessments of the same asset.
type RiskTrend struct {
	AssetID    uuid.UUID      `json:"asset_id"`
	Delta      float64        `json:"delta"`
	Direction  TrendDirection `json:"direction"`
	FromLevel  RiskLevel      `json:"from_level"`
	ToLevel    RiskLevel      `json:"to_level"`
	Interval   time.Duration  `json:"interval"`
	MeasuredAt time.Time      `json:"measured_at"`
}
