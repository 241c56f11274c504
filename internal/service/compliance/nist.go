package compliance

import (
	"fmt"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// NISTChecker detects NIST SP 800-53 control gaps. It applies to assets
// with high or critical criticality.
type NISTChecker struct{}

func NewNISTChecker() *NISTChecker {
	return &NISTChecker{}
}

func (c *NISTChecker) Framework() gap.Framework {
	return gap.FrameworkNIST
}

func (c *NISTChecker) AppliesTo(a *asset.Asset) bool {
	return a != nil && (a.Criticality == asset.CriticalityCritical || a.Criticality == asset.CriticalityHigh)
}

func (c *NISTChecker) AssessGaps(a *asset.Asset) ([]*gap.Gap, error) {
	if a == nil {
		return nil, fmt.Errorf("nist checker: asset is nil")
	}

	var gaps []*gap.Gap

	if !a.EncryptionEnabled {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkNIST,
			"SC-28 - Protection of Information at Rest",
			gap.TypeMissingEncryption,
			gap.SeverityHigh,
			fmt.Sprintf("High-criticality asset %q is unencrypted at rest", a.Name),
			"Enable encryption at rest using an approved mechanism",
		))
	}

	if !a.AccessRestricted {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkNIST,
			"AC-3 - Access Enforcement",
			gap.TypeInsufficientSecurityControls,
			gap.SeverityHigh,
			fmt.Sprintf("High-criticality asset %q does not enforce access authorization", a.Name),
			"Enforce approved authorizations on every access path",
		))
	}

	if !a.MonitoringEnabled {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkNIST,
			"AU-6 - Audit Record Review, Analysis, and Reporting",
			gap.TypeMissingMonitoring,
			gap.SeverityMedium,
			fmt.Sprintf("High-criticality asset %q produces no reviewable audit trail", a.Name),
			"Enable audit logging and periodic review",
		))
	}

	if !a.BackupConfigured {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkNIST,
			"CP-9 - System Backup",
			gap.TypeMissingBackupProcedures,
			gap.SeverityMedium,
			fmt.Sprintf("High-criticality asset %q has no system backup", a.Name),
			"Configure backups consistent with the contingency plan",
		))
	}

	return gaps, nil
}
