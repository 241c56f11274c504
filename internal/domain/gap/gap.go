package gap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gap is a detected deficiency tied to an asset. Gaps are append-only
// evidence records: once created by a detector they are never mutated.
// The Kind tag discriminates the variant; the framework fields are only
// populated for compliance gaps.
type Gap struct {
	ID       uuid.UUID `json:"id"`
	AssetID  uuid.UUID `json:"asset_id"`
	Kind     Kind      `json:"kind"`
	Type     Type      `json:"gap_type"`
	Severity Severity  `json:"severity"`

	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`

	// Compliance gaps only
	Framework          Framework  `json:"framework,omitempty"`
	Requirement        string     `json:"requirement,omitempty"`
	ComplianceDeadline *time.Time `json:"compliance_deadline,omitempty"`

	DetectedAt time.Time `json:"detected_at"`
}

type Kind int

const (
	KindCompliance Kind = iota
	KindDocumentation
	KindOrphanedAsset
	KindSchemaDocumentation
)

func (k Kind) String() string {
	switch k {
	case KindCompliance:
		return "compliance"
	case KindDocumentation:
		return "documentation"
	case KindOrphanedAsset:
		return "orphaned_asset"
	case KindSchemaDocumentation:
		return "schema_documentation"
	default:
		return "unknown"
	}
}

type Type int

const (
	TypeMissingEncryption Type = iota
	TypeInsufficientSecurityControls
	TypeMissingAccessControls
	TypeMissingMonitoring
	TypeMissingBackupProcedures
	TypeMissingRetentionPolicy
	TypeMissingIncidentResponsePlan
	TypeMissingDocumentation
	TypeOutdatedDocumentation
	TypeOrphanedAsset
	TypeUndocumentedSchemaChange
)

func (t Type) String() string {
	switch t {
	case TypeMissingEncryption:
		return "missing_encryption"
	case TypeInsufficientSecurityControls:
		return "insufficient_security_controls"
	case TypeMissingAccessControls:
		return "missing_access_controls"
	case TypeMissingMonitoring:
		return "missing_monitoring"
	case TypeMissingBackupProcedures:
		return "missing_backup_procedures"
	case TypeMissingRetentionPolicy:
		return "missing_retention_policy"
	case TypeMissingIncidentResponsePlan:
		return "missing_incident_response_plan"
	case TypeMissingDocumentation:
		return "missing_documentation"
	case TypeOutdatedDocumentation:
		return "outdated_documentation"
	case TypeOrphanedAsset:
		return "orphaned_asset"
	case TypeUndocumentedSchemaChange:
		return "undocumented_schema_change"
	default:
		return "unknown"
	}
}

// Types lists every declared gap type, used when validating that
// externally supplied lookup tables cover the whole enum.
func Types() []Type {
	return []Type{
		TypeMissingEncryption,
		TypeInsufficientSecurityControls,
		TypeMissingAccessControls,
		TypeMissingMonitoring,
		TypeMissingBackupProcedures,
		TypeMissingRetentionPolicy,
		TypeMissingIncidentResponsePlan,
		TypeMissingDocumentation,
		TypeOutdatedDocumentation,
		TypeOrphanedAsset,
		TypeUndocumentedSchemaChange,
	}
}

// IsSecurity reports whether the type describes a weakened security
// control rather than a documentation or hygiene deficiency.
func (t Type) IsSecurity() bool {
	switch t {
	case TypeMissingEncryption, TypeInsufficientSecurityControls,
		TypeMissingAccessControls, TypeMissingMonitoring:
		return true
	default:
		return false
	}
}

// IsDocumentation reports whether the type describes missing or stale
// documentation artifacts.
func (t Type) IsDocumentation() bool {
	switch t {
	case TypeMissingDocumentation, TypeOutdatedDocumentation, TypeUndocumentedSchemaChange:
		return true
	default:
		return false
	}
}

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh}
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	default:
		return 0, fmt.Errorf("invalid gap severity: %q", s)
	}
}

type Framework int

const (
	FrameworkNone Framework = iota
	FrameworkGDPR
	FrameworkSOC2
	FrameworkNIST
)

func (f Framework) String() string {
	switch f {
	case FrameworkNone:
		return "none"
	case FrameworkGDPR:
		return "gdpr"
	case FrameworkSOC2:
		return "soc2"
	case FrameworkNIST:
		return "nist"
	default:
		return "unknown"
	}
}

func Frameworks() []Framework {
	return []Framework{FrameworkNone, FrameworkGDPR, FrameworkSOC2, FrameworkNIST}
}

// NewComplianceGap creates a gap for a failed compliance rule.
func NewComplianceGap(assetID uuid.UUID, framework Framework, requirement string, gapType Type, severity Severity, description string, recommendations ...string) *Gap {
	return &Gap{
		ID:              uuid.New(),
		AssetID:         assetID,
		Kind:            KindCompliance,
		Type:            gapType,
		Severity:        severity,
		Description:     description,
		Recommendations: recommendations,
		Framework:       framework,
		Requirement:     requirement,
		DetectedAt:      time.Now().UTC(),
	}
}

// NewDocumentationGap creates a gap for missing or stale documentation.
func NewDocumentationGap(assetID uuid.UUID, gapType Type, severity Severity, description string, recommendations ...string) *Gap {
	return &Gap{
		ID:              uuid.New(),
		AssetID:         assetID,
		Kind:            KindDocumentation,
		Type:            gapType,
		Severity:        severity,
		Description:     description,
		Recommendations: recommendations,
		DetectedAt:      time.Now().UTC(),
	}
}

// NewOrphanedAssetGap flags an asset with no known owner or consumer.
func NewOrphanedAssetGap(assetID uuid.UUID, severity Severity, description string, recommendations ...string) *Gap {
	return &Gap{
		ID:              uuid.New(),
		AssetID:         assetID,
		Kind:            KindOrphanedAsset,
		Type:            TypeOrphanedAsset,
		Severity:        severity,
		Description:     description,
		Recommendations: recommendations,
		DetectedAt:      time.Now().UTC(),
	}
}

// NewSchemaDocumentationGap flags a schema change that shipped without a
// matching documentation update.
func NewSchemaDocumentationGap(assetID uuid.UUID, severity Severity, description string, recommendations ...string) *Gap {
	return &Gap{
		ID:              uuid.New(),
		AssetID:         assetID,
		Kind:            KindSchemaDocumentation,
		Type:            TypeUndocumentedSchemaChange,
		Severity:        severity,
		Description:     description,
		Recommendations: recommendations,
		DetectedAt:      time.Now().UTC(),
	}
}

// WithDeadline returns a copy of the gap carrying a compliance deadline.
// Gaps are immutable, so deadline attachment produces a new record with
// the same identity.
func (g *Gap) WithDeadline(deadline time.Time) *Gap {
	clone := *g
	clone.ComplianceDeadline = &deadline
	return &clone
}

// Validate checks structural integrity of the record.
func (g *Gap) Validate() error {
	if g == nil {
		return fmt.Errorf("gap cannot be nil")
	}
	if g.ID == uuid.Nil {
		return fmt.Errorf("gap id cannot be nil")
	}
	if g.AssetID == uuid.Nil {
		return fmt.Errorf("gap asset id cannot be nil")
	}
	if g.Severity < SeverityLow || g.Severity > SeverityHigh {
		return fmt.Errorf("invalid gap severity: %d", g.Severity)
	}
	if g.Type < TypeMissingEncryption || g.Type > TypeUndocumentedSchemaChange {
		return fmt.Errorf("invalid gap type: %d", g.Type)
	}
	if g.Kind == KindCompliance && g.Framework == FrameworkNone {
		return fmt.Errorf("compliance gap must name a framework")
	}
	return nil
}
