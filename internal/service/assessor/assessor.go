package assessor

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gapwatch/asset-risk-backend/internal/domain/assessment"
	"github.com/gapwatch/asset-risk-backend/internal/domain/errors"
)

// Finding is a single scanner result supplied by an external
// vulnerability scanner.
type Finding struct {
	CVEID     string                 `json:"cve_id" validate:"required"`
	Severity  assessment.CVESeverity `json:"severity"`
	CVSSScore float64                `json:"cvss_score" validate:"gte=0,lte=10"`
}

// VulnerabilityScanData is the raw scan payload for one asset. Empty
// findings are valid and mean "no known vulnerabilities".
type VulnerabilityScanData struct {
	ScannedAt time.Time `json:"scanned_at"`
	Findings  []Finding `json:"findings" validate:"dive"`
}

// ControlEvaluation rates one NIST control family.
type ControlEvaluation struct {
	Family assessment.ControlFamily        `json:"family"`
	Status assessment.ImplementationStatus `json:"status"`
}

// ControlScanData is the control-assessment payload for one asset.
type ControlScanData struct {
	AssessedAt  time.Time           `json:"assessed_at"`
	Evaluations []ControlEvaluation `json:"evaluations"`
}

// Assessor computes vulnerability and control-effectiveness sub-scores
// from externally supplied scan data. All methods are pure functions of
// their inputs; the assessor holds no mutable state and is safe for
// concurrent use.
type Assessor struct {
	validate *validator.Validate
}

func New() *Assessor {
	return &Assessor{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Severity weights for the vulnerability score. The scale anchors a
// clean scan at 1.0 and saturates at 5.0.
const (
	criticalWeight = 1.0
	highWeight     = 0.5
	mediumWeight   = 0.2
	lowWeight      = 0.05

	// Any critical CVE pulls the score at least this far toward 5.0.
	criticalFloor = 4.0
)

// AssessVulnerabilities computes the 1-5 vulnerability score from CVE
// counts. Empty scan data scores 1.0 with low confidence; malformed
// findings fail with an input error.
func (a *Assessor) AssessVulnerabilities(scan VulnerabilityScanData) (*assessment.VulnerabilityAssessment, error) {
	if err := a.validate.Struct(scan); err != nil {
		return nil, errors.NewInputError("MALFORMED_SCAN_DATA", "vulnerability scan data failed validation").WithCause(err)
	}

	result := &assessment.VulnerabilityAssessment{
		Score:      1.0,
		Confidence: assessment.ConfidenceHigh,
		AssessedAt: time.Now().UTC(),
	}

	if len(scan.Findings) == 0 {
		// No data is not the same as verified-clean.
		result.Confidence = assessment.ConfidenceLow
		return result, nil
	}

	for _, f := range scan.Findings {
		switch f.Severity {
		case assessment.CVECritical:
			result.CriticalCount++
		case assessment.CVEHigh:
			result.HighCount++
		case assessment.CVEMedium:
			result.MediumCount++
		case assessment.CVELow:
			result.LowCount++
		default:
			return nil, errors.NewInputError("UNKNOWN_CVE_SEVERITY", "finding carries an undeclared severity value").
				WithDetails(map[string]interface{}{"cve_id": f.CVEID})
		}
	}

	score := 1.0 +
		criticalWeight*float64(result.CriticalCount) +
		highWeight*float64(result.HighCount) +
		mediumWeight*float64(result.MediumCount) +
		lowWeight*float64(result.LowCount)

	if result.CriticalCount > 0 && score < criticalFloor {
		score = criticalFloor
	}
	if score > 5.0 {
		score = 5.0
	}

	result.Score = score
	return result, nil
}

// AssessControls computes control effectiveness as the fraction of
// assessed families implemented, counting partial implementations as
// half. No assessed families yields 0.0 with low confidence.
func (a *Assessor) AssessControls(scan ControlScanData) (*assessment.ControlAssessment, error) {
	result := &assessment.ControlAssessment{
		Confidence: assessment.ConfidenceHigh,
		AssessedAt: time.Now().UTC(),
	}

	if len(scan.Evaluations) == 0 {
		result.Confidence = assessment.ConfidenceLow
		return result, nil
	}

	seen := make(map[assessment.ControlFamily]bool, len(scan.Evaluations))
	var sum float64
	for _, e := range scan.Evaluations {
		if e.Family < assessment.FamilyAccessControl || e.Family > assessment.FamilySystemInformationIntegrity {
			return nil, errors.NewInputError("UNKNOWN_CONTROL_FAMILY", "evaluation names an undeclared control family")
		}
		if seen[e.Family] {
			return nil, errors.NewInputError("DUPLICATE_CONTROL_FAMILY", "control family evaluated more than once").
				WithDetails(map[string]interface{}{"family": e.Family.String()})
		}
		seen[e.Family] = true

		switch e.Status {
		case assessment.StatusImplemented:
			result.ImplementedCount++
			sum += 1.0
		case assessment.StatusPartiallyImplemented:
			result.PartialCount++
			sum += 0.5
		case assessment.StatusNotImplemented:
			result.NotImplementedCount++
		default:
			return nil, errors.NewInputError("UNKNOWN_IMPLEMENTATION_STATUS", "evaluation carries an undeclared implementation status").
				WithDetails(map[string]interface{}{"family": e.Family.String()})
		}
	}

	result.AssessedFamilies = len(scan.Evaluations)
	result.Effectiveness = sum / float64(result.AssessedFamilies)
	return result, nil
}
