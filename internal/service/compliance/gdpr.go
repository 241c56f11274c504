package compliance

import (
	"fmt"
	"strings"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// GDPRChecker detects GDPR compliance gaps. It applies to assets whose
// classification marks sensitive data, or whose name or description
// suggests personal data handling.
type GDPRChecker struct {
	personalDataHints []string
}

func NewGDPRChecker() *GDPRChecker {
	return &GDPRChecker{
		personalDataHints: []string{
			"personal", "pii", "customer", "user", "subscriber", "employee", "gdpr",
		},
	}
}

func (c *GDPRChecker) Framework() gap.Framework {
	return gap.FrameworkGDPR
}

func (c *GDPRChecker) AppliesTo(a *asset.Asset) bool {
	if a == nil {
		return false
	}
	if a.Classification.IsSensitive() {
		return true
	}
	return c.suggestsPersonalData(a)
}

func (c *GDPRChecker) suggestsPersonalData(a *asset.Asset) bool {
	text := strings.ToLower(a.Name + " " + a.Description)
	for _, hint := range c.personalDataHints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}

func (c *GDPRChecker) AssessGaps(a *asset.Asset) ([]*gap.Gap, error) {
	if a == nil {
		return nil, fmt.Errorf("gdpr checker: asset is nil")
	}

	var gaps []*gap.Gap

	if !a.EncryptionEnabled {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkGDPR,
			"Article 32 - Security of processing",
			gap.TypeMissingEncryption,
			gap.SeverityHigh,
			fmt.Sprintf("Asset %q stores personal data without encryption at rest", a.Name),
			"Enable encryption at rest for all storage backing this asset",
			"Document the encryption mechanism and key management procedure",
		))
	}

	if !a.AccessRestricted {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkGDPR,
			"Article 25 - Data protection by design and by default",
			gap.TypeMissingAccessControls,
			gap.SeverityHigh,
			fmt.Sprintf("Asset %q exposes personal data without access restrictions", a.Name),
			"Restrict access to the minimum set of roles that require it",
			"Review access grants against the processing purpose",
		))
	}

	if !a.RetentionPolicyDocumented {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkGDPR,
			"Article 5 - Storage limitation",
			gap.TypeMissingRetentionPolicy,
			gap.SeverityMedium,
			fmt.Sprintf("Asset %q has no documented data retention policy", a.Name),
			"Define and document a retention period for personal data",
			"Schedule automated deletion once the retention period lapses",
		))
	}

	if !a.MonitoringEnabled {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkGDPR,
			"Article 33 - Notification of a personal data breach",
			gap.TypeMissingMonitoring,
			gap.SeverityMedium,
			fmt.Sprintf("Asset %q cannot detect breaches within the notification window", a.Name),
			"Enable monitoring and alerting for unauthorized access",
		))
	}

	return gaps, nil
}
