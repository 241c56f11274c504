package assessor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gapwatch/asset-risk-backend/internal/domain/assessment"
	domainerrors "github.com/gapwatch/asset-risk-backend/internal/domain/errors"
	"github.com/gapwatch/asset-risk-backend/internal/service/assessor"
)

func TestAssessVulnerabilities(t *testing.T) {
	tests := []struct {
		name           string
		findings       []assessor.Finding
		wantScore      float64
		wantConfidence assessment.ConfidenceLevel
	}{
		{
			name:           "empty scan scores baseline with low confidence",
			findings:       nil,
			wantScore:      1.0,
			wantConfidence: assessment.ConfidenceLow,
		},
		{
			name: "single medium finding",
			findings: []assessor.Finding{
				{CVEID: "CVE-2024-1111", Severity: assessment.CVEMedium, CVSSScore: 5.4},
			},
			wantScore:      1.2,
			wantConfidence: assessment.ConfidenceHigh,
		},
		{
			name: "two high findings",
			findings: []assessor.Finding{
				{CVEID: "CVE-2024-2222", Severity: assessment.CVEHigh, CVSSScore: 7.8},
				{CVEID: "CVE-2024-3333", Severity: assessment.CVEHigh, CVSSScore: 8.1},
			},
			wantScore:      2.0,
			wantConfidence: assessment.ConfidenceHigh,
		},
		{
			name: "single critical pulled up to the floor",
			findings: []assessor.Finding{
				{CVEID: "CVE-2024-4444", Severity: assessment.CVECritical, CVSSScore: 9.8},
			},
			wantScore:      4.0,
			wantConfidence: assessment.ConfidenceHigh,
		},
		{
			name: "heavy scan saturates at five",
			findings: []assessor.Finding{
				{CVEID: "CVE-2024-5551", Severity: assessment.CVECritical, CVSSScore: 9.9},
				{CVEID: "CVE-2024-5552", Severity: assessment.CVECritical, CVSSScore: 9.1},
				{CVEID: "CVE-2024-5553", Severity: assessment.CVECritical, CVSSScore: 9.0},
				{CVEID: "CVE-2024-5554", Severity: assessment.CVEHigh, CVSSScore: 8.8},
				{CVEID: "CVE-2024-5555", Severity: assessment.CVEHigh, CVSSScore: 7.2},
				{CVEID: "CVE-2024-5556", Severity: assessment.CVEMedium, CVSSScore: 5.0},
			},
			wantScore:      5.0,
			wantConfidence: assessment.ConfidenceHigh,
		},
		{
			name: "low findings nudge the baseline",
			findings: []assessor.Finding{
				{CVEID: "CVE-2024-6661", Severity: assessment.CVELow, CVSSScore: 2.1},
				{CVEID: "CVE-2024-6662", Severity: assessment.CVELow, CVSSScore: 3.0},
			},
			wantScore:      1.1,
			wantConfidence: assessment.ConfidenceHigh,
		},
	}

	a := assessor.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.AssessVulnerabilities(assessor.VulnerabilityScanData{
				ScannedAt: time.Now(),
				Findings:  tt.findings,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, result.Score, 1e-9)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
		})
	}
}

func TestAssessVulnerabilities_CountsBySeverity(t *testing.T) {
	a := assessor.New()
	result, err := a.AssessVulnerabilities(assessor.VulnerabilityScanData{
		ScannedAt: time.Now(),
		Findings: []assessor.Finding{
			{CVEID: "CVE-2024-0001", Severity: assessment.CVECritical, CVSSScore: 9.5},
			{CVEID: "CVE-2024-0002", Severity: assessment.CVEHigh, CVSSScore: 7.0},
			{CVEID: "CVE-2024-0003", Severity: assessment.CVEHigh, CVSSScore: 8.0},
			{CVEID: "CVE-2024-0004", Severity: assessment.CVELow, CVSSScore: 1.5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CriticalCount)
	assert.Equal(t, 2, result.HighCount)
	assert.Equal(t, 0, result.MediumCount)
	assert.Equal(t, 1, result.LowCount)
}

func TestAssessVulnerabilities_MalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		finding assessor.Finding
	}{
		{
			name:    "missing cve id",
			finding: assessor.Finding{Severity: assessment.CVEHigh, CVSSScore: 7.5},
		},
		{
			name:    "cvss score above scale",
			finding: assessor.Finding{CVEID: "CVE-2024-7777", Severity: assessment.CVEHigh, CVSSScore: 11},
		},
		{
			name:    "cvss score negative",
			finding: assessor.Finding{CVEID: "CVE-2024-8888", Severity: assessment.CVELow, CVSSScore: -1},
		},
		{
			name:    "undeclared severity",
			finding: assessor.Finding{CVEID: "CVE-2024-9999", Severity: assessment.CVESeverity(42), CVSSScore: 5.0},
		},
	}

	a := assessor.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AssessVulnerabilities(assessor.VulnerabilityScanData{
				ScannedAt: time.Now(),
				Findings:  []assessor.Finding{tt.finding},
			})
			require.Error(t, err)
			assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))
		})
	}
}

func TestAssessControls(t *testing.T) {
	a := assessor.New()
	result, err := a.AssessControls(assessor.ControlScanData{
		AssessedAt: time.Now(),
		Evaluations: []assessor.ControlEvaluation{
			{Family: assessment.FamilyAccessControl, Status: assessment.StatusImplemented},
			{Family: assessment.FamilyAuditAccountability, Status: assessment.StatusImplemented},
			{Family: assessment.FamilyContingencyPlanning, Status: assessment.StatusPartiallyImplemented},
			{Family: assessment.FamilyIncidentResponse, Status: assessment.StatusNotImplemented},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.625, result.Effectiveness, 1e-9)
	assert.Equal(t, 4, result.AssessedFamilies)
	assert.Equal(t, 2, result.ImplementedCount)
	assert.Equal(t, 1, result.PartialCount)
	assert.Equal(t, 1, result.NotImplementedCount)
	assert.Equal(t, assessment.ConfidenceHigh, result.Confidence)
}

func TestAssessControls_AllImplemented(t *testing.T) {
	a := assessor.New()
	result, err := a.AssessControls(assessor.ControlScanData{
		AssessedAt: time.Now(),
		Evaluations: []assessor.ControlEvaluation{
			{Family: assessment.FamilyAccessControl, Status: assessment.StatusImplemented},
			{Family: assessment.FamilySystemCommunicationsProtection, Status: assessment.StatusImplemented},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Effectiveness, 1e-9)
}

func TestAssessControls_EmptyScan(t *testing.T) {
	a := assessor.New()
	result, err := a.AssessControls(assessor.ControlScanData{AssessedAt: time.Now()})
	require.NoError(t, err)

	assert.Zero(t, result.Effectiveness)
	assert.Zero(t, result.AssessedFamilies)
	assert.Equal(t, assessment.ConfidenceLow, result.Confidence)
}

func TestAssessControls_MalformedInput(t *testing.T) {
	tests := []struct {
		name        string
		evaluations []assessor.ControlEvaluation
	}{
		{
			name: "duplicate family",
			evaluations: []assessor.ControlEvaluation{
				{Family: assessment.FamilyAccessControl, Status: assessment.StatusImplemented},
				{Family: assessment.FamilyAccessControl, Status: assessment.StatusNotImplemented},
			},
		},
		{
			name: "undeclared family",
			evaluations: []assessor.ControlEvaluation{
				{Family: assessment.ControlFamily(99), Status: assessment.StatusImplemented},
			},
		},
		{
			name: "undeclared status",
			evaluations: []assessor.ControlEvaluation{
				{Family: assessment.FamilyConfigurationManagement, Status: assessment.ImplementationStatus(99)},
			},
		},
	}

	a := assessor.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AssessControls(assessor.ControlScanData{
				AssessedAt:  time.Now(),
				Evaluations: tt.evaluations,
			})
			require.Error(t, err)
			assert.True(t, domainerrors.IsType(err, domainerrors.ErrorTypeInput))
		})
	}
}
