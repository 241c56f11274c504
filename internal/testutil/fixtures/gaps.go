package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// GapBuilder builds test Gap records
type GapBuilder struct {
	t               *testing.T
	assetID         uuid.UUID
	kind            gap.Kind
	gapType         gap.Type
	severity        gap.Severity
	framework       gap.Framework
	requirement     string
	description     string
	recommendations []string
	deadline        *time.Time
}

// NewGapBuilder creates a new GapBuilder defaulting to a medium
// documentation gap.
func NewGapBuilder(t *testing.T) *GapBuilder {
	t.Helper()
	assetID, err := uuid.NewRandom()
	require.NoError(t, err)

	return &GapBuilder{
		t:               t,
		assetID:         assetID,
		kind:            gap.KindDocumentation,
		gapType:         gap.TypeMissingDocumentation,
		severity:        gap.SeverityMedium,
		framework:       gap.FrameworkNone,
		description:     "Runbook missing for this asset",
		recommendations: []string{"Write an operational runbook"},
	}
}

func (b *GapBuilder) ForAsset(assetID uuid.UUID) *GapBuilder {
	b.assetID = assetID
	return b
}

func (b *GapBuilder) WithType(t gap.Type) *GapBuilder {
	b.gapType = t
	return b
}

func (b *GapBuilder) WithSeverity(s gap.Severity) *GapBuilder {
	b.severity = s
	return b
}

// WithFramework turns the gap into a compliance gap for the framework.
func (b *GapBuilder) WithFramework(f gap.Framework, requirement string) *GapBuilder {
	b.kind = gap.KindCompliance
	b.framework = f
	b.requirement = requirement
	return b
}

func (b *GapBuilder) WithDeadline(deadline time.Time) *GapBuilder {
	b.deadline = &deadline
	return b
}

func (b *GapBuilder) WithDescription(description string) *GapBuilder {
	b.description = description
	return b
}

// Build assembles the gap and asserts it is structurally valid.
func (b *GapBuilder) Build() *gap.Gap {
	b.t.Helper()
	g := &gap.Gap{
		ID:                 uuid.New(),
		AssetID:            b.assetID,
		Kind:               b.kind,
		Type:               b.gapType,
		Severity:           b.severity,
		Description:        b.description,
		Recommendations:    b.recommendations,
		Framework:          b.framework,
		Requirement:        b.requirement,
		ComplianceDeadline: b.deadline,
		DetectedAt:         time.Now().UTC(),
	}
	require.NoError(b.t, g.Validate())
	return g
}
