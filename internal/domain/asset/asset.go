package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Asset is a monitored resource as reported by the asset inventory.
// The scoring engine treats it as read-only input: identity is immutable
// and attribute updates happen upstream.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	Criticality    CriticalityLevel       `json:"criticality_level"`
	Environment    Environment            `json:"environment"`
	Classification SecurityClassification `json:"security_classification"`
	BusinessImpact BusinessImpactLevel    `json:"business_impact_level"`

	// Control posture flags
	EncryptionEnabled              bool `json:"encryption_enabled"`
	AccessRestricted               bool `json:"access_restricted"`
	BackupConfigured               bool `json:"backup_configured"`
	MonitoringEnabled              bool `json:"monitoring_enabled"`
	RetentionPolicyDocumented      bool `json:"retention_policy_documented"`
	IncidentResponsePlanDocumented bool `json:"incident_response_plan_documented"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CriticalityLevel int

const (
	CriticalityLow CriticalityLevel = iota
	CriticalityMedium
	CriticalityHigh
	CriticalityCritical
)

func (l CriticalityLevel) String() string {
	switch l {
	case CriticalityLow:
		return "low"
	case CriticalityMedium:
		return "medium"
	case CriticalityHigh:
		return "high"
	case CriticalityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CriticalityLevels lists all valid values in ascending order.
func CriticalityLevels() []CriticalityLevel {
	return []CriticalityLevel{CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityCritical}
}

func ParseCriticalityLevel(s string) (CriticalityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return CriticalityLow, nil
	case "medium":
		return CriticalityMedium, nil
	case "high":
		return CriticalityHigh, nil
	case "critical":
		return CriticalityCritical, nil
	default:
		return 0, fmt.Errorf("invalid criticality level: %q", s)
	}
}

type Environment int

const (
	EnvironmentDevelopment Environment = iota
	EnvironmentTesting
	EnvironmentStaging
	EnvironmentProduction
)

func (e Environment) String() string {
	switch e {
	case EnvironmentDevelopment:
		return "development"
	case EnvironmentTesting:
		return "testing"
	case EnvironmentStaging:
		return "staging"
	case EnvironmentProduction:
		return "production"
	default:
		return "unknown"
	}
}

func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development":
		return EnvironmentDevelopment, nil
	case "testing":
		return EnvironmentTesting, nil
	case "staging":
		return EnvironmentStaging, nil
	case "production":
		return EnvironmentProduction, nil
	default:
		return 0, fmt.Errorf("invalid environment: %q", s)
	}
}

type SecurityClassification int

const (
	ClassificationPublic SecurityClassification = iota
	ClassificationInternal
	ClassificationConfidential
	ClassificationRestricted
)

func (c SecurityClassification) String() string {
	switch c {
	case ClassificationPublic:
		return "public"
	case ClassificationInternal:
		return "internal"
	case ClassificationConfidential:
		return "confidential"
	case ClassificationRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// IsSensitive reports whether the classification marks data that must
// not leave controlled access paths.
func (c SecurityClassification) IsSensitive() bool {
	return c == ClassificationConfidential || c == ClassificationRestricted
}

func ParseSecurityClassification(s string) (SecurityClassification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return ClassificationPublic, nil
	case "internal":
		return ClassificationInternal, nil
	case "confidential":
		return ClassificationConfidential, nil
	case "restricted":
		return ClassificationRestricted, nil
	default:
		return 0, fmt.Errorf("invalid security classification: %q", s)
	}
}

type BusinessImpactLevel int

const (
	BusinessImpactLow BusinessImpactLevel = iota
	BusinessImpactMedium
	BusinessImpactHigh
	BusinessImpactCritical
)

func (b BusinessImpactLevel) String() string {
	switch b {
	case BusinessImpactLow:
		return "low"
	case BusinessImpactMedium:
		return "medium"
	case BusinessImpactHigh:
		return "high"
	case BusinessImpactCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func ParseBusinessImpactLevel(s string) (BusinessImpactLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BusinessImpactLow, nil
	case "medium":
		return BusinessImpactMedium, nil
	case "high":
		return BusinessImpactHigh, nil
	case "critical":
		return BusinessImpactCritical, nil
	default:
		return 0, fmt.Errorf("invalid business impact level: %q", s)
	}
}

// NewAsset creates an asset with a fresh identity and validated attributes.
func NewAsset(name string, criticality CriticalityLevel, env Environment, classification SecurityClassification, businessImpact BusinessImpactLevel) (*Asset, error) {
	now := time.Now().UTC()
	a := &Asset{
		ID:             uuid.New(),
		Name:           name,
		Criticality:    criticality,
		Environment:    env,
		Classification: classification,
		BusinessImpact: businessImpact,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the record carries a complete, well-formed identity
// and that every enum field holds a declared value.
func (a *Asset) Validate() error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("asset id cannot be nil")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("asset name cannot be empty")
	}
	if a.Criticality < CriticalityLow || a.Criticality > CriticalityCritical {
		return fmt.Errorf("invalid criticality level: %d", a.Criticality)
	}
	if a.Environment < EnvironmentDevelopment || a.Environment > EnvironmentProduction {
		return fmt.Errorf("invalid environment: %d", a.Environment)
	}
	if a.Classification < ClassificationPublic || a.Classification > ClassificationRestricted {
		return fmt.Errorf("invalid security classification: %d", a.Classification)
	}
	if a.BusinessImpact < BusinessImpactLow || a.BusinessImpact > BusinessImpactCritical {
		return fmt.Errorf("invalid business impact level: %d", a.BusinessImpact)
	}
	return nil
}
