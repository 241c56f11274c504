package gap_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

func TestNewComplianceGap(t *testing.T) {
	assetID := uuid.New()
	g := gap.NewComplianceGap(
		assetID,
		gap.FrameworkGDPR,
		"Article 32 - Security of processing",
		gap.TypeMissingEncryption,
		gap.SeverityHigh,
		"data stored without encryption at rest",
		"enable encryption at rest",
	)

	require.NotNil(t, g)
	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.Equal(t, assetID, g.AssetID)
	assert.Equal(t, gap.KindCompliance, g.Kind)
	assert.Equal(t, gap.FrameworkGDPR, g.Framework)
	assert.Equal(t, "Article 32 - Security of processing", g.Requirement)
	assert.Nil(t, g.ComplianceDeadline)
	assert.NoError(t, g.Validate())
}

func TestNewDocumentationGap(t *testing.T) {
	g := gap.NewDocumentationGap(uuid.New(), gap.TypeOutdatedDocumentation, gap.SeverityLow, "runbook is two releases behind")

	assert.Equal(t, gap.KindDocumentation, g.Kind)
	assert.Equal(t, gap.FrameworkNone, g.Framework)
	assert.Empty(t, g.Requirement)
	assert.NoError(t, g.Validate())
}

func TestNewOrphanedAssetGap(t *testing.T) {
	g := gap.NewOrphanedAssetGap(uuid.New(), gap.SeverityMedium, "no owner on record")

	assert.Equal(t, gap.KindOrphanedAsset, g.Kind)
	assert.Equal(t, gap.TypeOrphanedAsset, g.Type)
	assert.NoError(t, g.Validate())
}

func TestGap_WithDeadline(t *testing.T) {
	g := gap.NewComplianceGap(uuid.New(), gap.FrameworkSOC2, "A1.2 - Recovery infrastructure and data backup",
		gap.TypeMissingBackupProcedures, gap.SeverityHigh, "no backup configured")
	deadline := time.Now().Add(45 * 24 * time.Hour)

	withDeadline := g.WithDeadline(deadline)

	require.NotSame(t, g, withDeadline)
	assert.Nil(t, g.ComplianceDeadline, "original gap must stay untouched")
	require.NotNil(t, withDeadline.ComplianceDeadline)
	assert.Equal(t, deadline, *withDeadline.ComplianceDeadline)
	assert.Equal(t, g.ID, withDeadline.ID, "deadline attachment keeps identity")
}

func TestGap_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *gap.Gap)
		wantErr string
	}{
		{
			name:   "valid gap",
			mutate: func(g *gap.Gap) {},
		},
		{
			name:    "nil id",
			mutate:  func(g *gap.Gap) { g.ID = uuid.Nil },
			wantErr: "gap id cannot be nil",
		},
		{
			name:    "nil asset id",
			mutate:  func(g *gap.Gap) { g.AssetID = uuid.Nil },
			wantErr: "gap asset id cannot be nil",
		},
		{
			name:    "severity out of range",
			mutate:  func(g *gap.Gap) { g.Severity = gap.Severity(7) },
			wantErr: "invalid gap severity",
		},
		{
			name:    "type out of range",
			mutate:  func(g *gap.Gap) { g.Type = gap.Type(-1) },
			wantErr: "invalid gap type",
		},
		{
			name:    "compliance gap without framework",
			mutate:  func(g *gap.Gap) { g.Framework = gap.FrameworkNone },
			wantErr: "compliance gap must name a framework",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gap.NewComplianceGap(uuid.New(), gap.FrameworkNIST, "AC-3 - Access Enforcement",
				gap.TypeInsufficientSecurityControls, gap.SeverityHigh, "access not enforced")
			tt.mutate(g)

			err := g.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestType_IsSecurity(t *testing.T) {
	security := []gap.Type{
		gap.TypeMissingEncryption,
		gap.TypeInsufficientSecurityControls,
		gap.TypeMissingAccessControls,
		gap.TypeMissingMonitoring,
	}
	for _, typ := range security {
		assert.True(t, typ.IsSecurity(), "%s should be security typed", typ)
	}

	assert.False(t, gap.TypeMissingBackupProcedures.IsSecurity())
	assert.False(t, gap.TypeMissingDocumentation.IsSecurity())
	assert.False(t, gap.TypeOrphanedAsset.IsSecurity())
}

func TestType_IsDocumentation(t *testing.T) {
	assert.True(t, gap.TypeMissingDocumentation.IsDocumentation())
	assert.True(t, gap.TypeOutdatedDocumentation.IsDocumentation())
	assert.True(t, gap.TypeUndocumentedSchemaChange.IsDocumentation())
	assert.False(t, gap.TypeMissingEncryption.IsDocumentation())
}

func TestPriorityLevel_IsImmediate(t *testing.T) {
	assert.True(t, gap.PriorityCritical.IsImmediate())
	assert.True(t, gap.PriorityHigh.IsImmediate())
	assert.False(t, gap.PriorityMedium.IsImmediate())
	assert.False(t, gap.PriorityLow.IsImmediate())
}

func TestParsePriorityLevel(t *testing.T) {
	for _, level := range []gap.PriorityLevel{gap.PriorityLow, gap.PriorityMedium, gap.PriorityHigh, gap.PriorityCritical} {
		parsed, err := gap.ParsePriorityLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := gap.ParsePriorityLevel("urgent")
	assert.Error(t, err)
}
