package riskassessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/domain/assessment"
	domainerrors "github.com/gapwatch/asset-risk-backend/internal/domain/errors"
	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/config"
	"github.com/gapwatch/asset-risk-backend/internal/service/riskassessment"
	"github.com/gapwatch/asset-risk-backend/internal/testutil/fixtures"
)

func newService(t *testing.T) *riskassessment.Service {
	t.Helper()
	cfg := config.Default()
	svc, err := riskassessment.NewService(zap.NewNop(), cfg.Risk, 4, nil)
	require.NoError(t, err)
	return svc
}

func mustFactors(t *testing.T, likelihood, impact, exposure float64) assessment.RiskFactors {
	t.Helper()
	factors, err := assessment.NewRiskFactors(likelihood, impact, exposure, 0.8)
	require.NoError(t, err)
	return factors
}

func TestAssess_ScoreAndBand(t *testing.T) {
	tests := []struct {
		name       string
		likelihood float64
		impact     float64
		exposure   float64
		wantScore  float64
		wantLevel  assessment.RiskLevel
	}{
		{name: "maximum factors", likelihood: 5, impact: 5, exposure: 1, wantScore: 25, wantLevel: assessment.RiskCritical},
		{name: "clamped to score floor", likelihood: 1, impact: 1, exposure: 0.1, wantScore: 1, wantLevel: assessment.RiskLow},
		{name: "low band boundary", likelihood: 2.5, impact: 2, exposure: 1, wantScore: 5, wantLevel: assessment.RiskLow},
		{name: "medium band", likelihood: 3, impact: 2, exposure: 1, wantScore: 6, wantLevel: assessment.RiskMedium},
		{name: "high band boundary", likelihood: 3, impact: 5, exposure: 1, wantScore: 15, wantLevel: assessment.RiskHigh},
		{name: "very high band", likelihood: 4, impact: 4, exposure: 1, wantScore: 16, wantLevel: assessment.RiskVeryHigh},
		{name: "critical band", likelihood: 4.2, impact: 5, exposure: 1, wantScore: 21, wantLevel: assessment.RiskCritical},
	}

	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := fixtures.NewAssetBuilder(t).Build()
			result, err := svc.Assess(context.Background(), riskassessment.Input{
				Asset:   a,
				Factors: mustFactors(t, tt.likelihood, tt.impact, tt.exposure),
			})
			require.NoError(t, err)

			assert.InDelta(t, tt.wantScore, result.RiskScore, 1e-9)
			assert.Equal(t, tt.wantLevel, result.RiskLevel)
			assert.Equal(t, a.ID, result.AssetID)
		})
	}
}

func TestAssess_ReassessmentSchedule(t *testing.T) {
	tests := []struct {
		name       string
		likelihood float64
		impact     float64
		exposure   float64
		wantDays   int
	}{
		{name: "critical reassessed monthly", likelihood: 5, impact: 5, exposure: 1, wantDays: 30},
		{name: "very high reassessed bimonthly", likelihood: 4, impact: 4, exposure: 1, wantDays: 60},
		{name: "high reassessed quarterly", likelihood: 3, impact: 5, exposure: 1, wantDays: 90},
		{name: "medium reassessed semiannually", likelihood: 3, impact: 2, exposure: 1, wantDays: 180},
		{name: "low reassessed annually", likelihood: 1, impact: 1, exposure: 0.5, wantDays: 365},
	}

	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Assess(context.Background(), riskassessment.Input{
				Asset:   fixtures.NewAssetBuilder(t).Build(),
				Factors: mustFactors(t, tt.likelihood, tt.impact, tt.exposure),
			})
			require.NoError(t, err)

			wantDue := result.AssessedAt.Add(time.Duration(tt.wantDays) * 24 * time.Hour)
			assert.Equal(t, wantDue, result.NextAssessmentDue)
		})
	}
}

func TestAssess_CarriesSubAssessments(t *testing.T) {
	svc := newService(t)

	vuln := &assessment.VulnerabilityAssessment{Score: 4.0, CriticalCount: 1, Confidence: assessment.ConfidenceHigh}
	controls := &assessment.ControlAssessment{Effectiveness: 0.75, AssessedFamilies: 4, Confidence: assessment.ConfidenceHigh}

	result, err := svc.Assess(context.Background(), riskassessment.Input{
		Asset:          fixtures.NewAssetBuilder(t).Build(),
		Factors:        mustFactors(t, 3, 3, 0.9),
		Categorization: assessment.Categorization{Confidentiality: assessment.ImpactHigh},
		Vulnerability:  vuln,
		Controls:       controls,
	})
	require.NoError(t, err)

	assert.Equal(t, vuln, result.Vulnerability)
	assert.Equal(t, controls, result.Controls)
	assert.Equal(t, assessment.ImpactHigh, result.Categorization.Overall())
}

func TestAssess_ConfidenceNeverChangesScore(t *testing.T) {
	svc := newService(t)
	a := fixtures.NewAssetBuilder(t).Build()

	lowConfidence, err := assessment.NewRiskFactors(4, 4, 0.5, 0.1)
	require.NoError(t, err)
	highConfidence, err := assessment.NewRiskFactors(4, 4, 0.5, 1.0)
	require.NoError(t, err)

	first, err := svc.Assess(context.Background(), riskassessment.Input{Asset: a, Factors: lowConfidence})
	require.NoError(t, err)
	second, err := svc.Assess(context.Background(), riskassessment.Input{Asset: a, Factors: highConfidence})
	require.NoError(t, err)

	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
}

func TestAssess_EachRunIsANewRecord(t *testing.T) {
	svc := newService(t)
	a := fixtures.NewAssetBuilder(t).Build()
	in := riskassessment.Input{Asset: a, Factors: mustFactors(t, 3, 3, 0.8)}

	first, err := svc.Assess(context.Background(), in)
	require.NoError(t, err)
	firstCopy := *first

	second, err := svc.Assess(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, firstCopy, *first, "a later run must not mutate the earlier record")
}

func TestAssess_InvalidInputs(t *testing.T) {
	svc := newService(t)

	_, err := svc.Assess(context.Background(), riskassessment.Input{Factors: mustFactors(t, 3, 3, 0.5)})
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))

	_, err = svc.Assess(context.Background(), riskassessment.Input{
		Asset:   fixtures.NewAssetBuilder(t).Build(),
		Factors: assessment.RiskFactors{Likelihood: 9, Impact: 3, Exposure: 0.5, Confidence: 0.5},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))
}

func TestNewService_InvalidConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Risk.Bands.Medium = cfg.Risk.Bands.High

	_, err := riskassessment.NewService(zap.NewNop(), cfg.Risk, 4, nil)
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeConfiguration))

	cfg = config.Default()
	delete(cfg.Risk.ReassessmentDays, "very_high")

	_, err = riskassessment.NewService(zap.NewNop(), cfg.Risk, 4, nil)
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeConfiguration))
}

func TestAssessBatch_PreservesInputOrder(t *testing.T) {
	svc := newService(t)

	var inputs []riskassessment.Input
	for i := 0; i < 16; i++ {
		inputs = append(inputs, riskassessment.Input{
			Asset:   fixtures.NewAssetBuilder(t).Build(),
			Factors: mustFactors(t, 3, 3, 0.5),
		})
	}

	results, err := svc.AssessBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, result := range results {
		assert.Equal(t, inputs[i].Asset.ID, result.AssetID, "result %d must keep its input slot", i)
	}
}

func TestAssessBatch_FirstErrorAborts(t *testing.T) {
	svc := newService(t)

	inputs := []riskassessment.Input{
		{Asset: fixtures.NewAssetBuilder(t).Build(), Factors: mustFactors(t, 3, 3, 0.5)},
		{Asset: nil, Factors: mustFactors(t, 3, 3, 0.5)},
	}

	_, err := svc.AssessBatch(context.Background(), inputs)
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))
}

func TestTrend(t *testing.T) {
	svc := newService(t)
	a := fixtures.NewAssetBuilder(t).Build()

	previous, err := svc.Assess(context.Background(), riskassessment.Input{Asset: a, Factors: mustFactors(t, 4, 4, 1)})
	require.NoError(t, err)
	current, err := svc.Assess(context.Background(), riskassessment.Input{Asset: a, Factors: mustFactors(t, 2, 3, 1)})
	require.NoError(t, err)

	trend, err := riskassessment.Trend(previous, current)
	require.NoError(t, err)

	assert.Equal(t, assessment.TrendImproving, trend.Direction)
	assert.InDelta(t, -10, trend.Delta, 1e-9)
	assert.Equal(t, assessment.RiskVeryHigh, trend.FromLevel)
	assert.Equal(t, assessment.RiskMedium, trend.ToLevel)

	// The reverse ordering is rejected rather than inverted.
	_, err = riskassessment.Trend(current, previous)
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))
}

func TestTrend_Mismatches(t *testing.T) {
	svc := newService(t)

	first, err := svc.Assess(context.Background(), riskassessment.Input{
		Asset:   fixtures.NewAssetBuilder(t).Build(),
		Factors: mustFactors(t, 3, 3, 0.5),
	})
	require.NoError(t, err)
	other, err := svc.Assess(context.Background(), riskassessment.Input{
		Asset:   fixtures.NewAssetBuilder(t).Build(),
		Factors: mustFactors(t, 3, 3, 0.5),
	})
	require.NoError(t, err)

	_, err = riskassessment.Trend(first, other)
	require.Error(t, err)
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))

	_, err = riskassessment.Trend(nil, first)
	require.Error(t, err)

	stable, err := riskassessment.Trend(first, first)
	require.NoError(t, err)
	assert.Equal(t, assessment.TrendStable, stable.Direction)
}
