package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
)

// AssetBuilder builds test Asset entities
type AssetBuilder struct {
	t              *testing.T
	id             uuid.UUID
	name           string
	description    string
	criticality    asset.CriticalityLevel
	environment    asset.Environment
	classification asset.SecurityClassification
	businessImpact asset.BusinessImpactLevel

	encryption       bool
	accessRestricted bool
	backupConfigured bool
	monitoring       bool
	retentionPolicy  bool
	incidentResponse bool
}

// NewAssetBuilder creates a new AssetBuilder with a fully hardened
// default posture; tests flip the flags they need.
func NewAssetBuilder(t *testing.T) *AssetBuilder {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)

	return &AssetBuilder{
		t:                t,
		id:               id,
		name:             "orders-db",
		description:      "Primary order processing database",
		criticality:      asset.CriticalityMedium,
		environment:      asset.EnvironmentStaging,
		classification:   asset.ClassificationInternal,
		businessImpact:   asset.BusinessImpactMedium,
		encryption:       true,
		accessRestricted: true,
		backupConfigured: true,
		monitoring:       true,
		retentionPolicy:  true,
		incidentResponse: true,
	}
}

func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.name = name
	return b
}

func (b *AssetBuilder) WithDescription(description string) *AssetBuilder {
	b.description = description
	return b
}

func (b *AssetBuilder) WithCriticality(level asset.CriticalityLevel) *AssetBuilder {
	b.criticality = level
	return b
}

func (b *AssetBuilder) WithEnvironment(env asset.Environment) *AssetBuilder {
	b.environment = env
	return b
}

func (b *AssetBuilder) WithClassification(c asset.SecurityClassification) *AssetBuilder {
	b.classification = c
	return b
}

func (b *AssetBuilder) WithBusinessImpact(level asset.BusinessImpactLevel) *AssetBuilder {
	b.businessImpact = level
	return b
}

func (b *AssetBuilder) WithEncryption(enabled bool) *AssetBuilder {
	b.encryption = enabled
	return b
}

func (b *AssetBuilder) WithAccessRestricted(restricted bool) *AssetBuilder {
	b.accessRestricted = restricted
	return b
}

func (b *AssetBuilder) WithBackupConfigured(configured bool) *AssetBuilder {
	b.backupConfigured = configured
	return b
}

func (b *AssetBuilder) WithMonitoring(enabled bool) *AssetBuilder {
	b.monitoring = enabled
	return b
}

func (b *AssetBuilder) WithRetentionPolicy(documented bool) *AssetBuilder {
	b.retentionPolicy = documented
	return b
}

func (b *AssetBuilder) WithIncidentResponsePlan(documented bool) *AssetBuilder {
	b.incidentResponse = documented
	return b
}

// Build assembles the asset and asserts it is structurally valid.
func (b *AssetBuilder) Build() *asset.Asset {
	b.t.Helper()
	now := time.Now().UTC()
	a := &asset.Asset{
		ID:                             b.id,
		Name:                           b.name,
		Description:                    b.description,
		Criticality:                    b.criticality,
		Environment:                    b.environment,
		Classification:                 b.classification,
		BusinessImpact:                 b.businessImpact,
		EncryptionEnabled:              b.encryption,
		AccessRestricted:               b.accessRestricted,
		BackupConfigured:               b.backupConfigured,
		MonitoringEnabled:              b.monitoring,
		RetentionPolicyDocumented:      b.retentionPolicy,
		IncidentResponsePlanDocumented: b.incidentResponse,
		CreatedAt:                      now,
		UpdatedAt:                      now,
	}
	require.NoError(b.t, a.Validate())
	return a
}
