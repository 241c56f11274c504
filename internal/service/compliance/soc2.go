package compliance

import (
	"fmt"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// SOC2Checker detects SOC 2 Trust Services Criteria gaps. It applies to
// production assets only.
type SOC2Checker struct{}

func NewSOC2Checker() *SOC2Checker {
	return &SOC2Checker{}
}

func (c *SOC2Checker) Framework() gap.Framework {
	return gap.FrameworkSOC2
}

func (c *SOC2Checker) AppliesTo(a *asset.Asset) bool {
	return a != nil && a.Environment == asset.EnvironmentProduction
}

func (c *SOC2Checker) AssessGaps(a *asset.Asset) ([]*gap.Gap, error) {
	if a == nil {
		return nil, fmt.Errorf("soc2 checker: asset is nil")
	}

	var gaps []*gap.Gap

	if !a.BackupConfigured {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkSOC2,
			"A1.2 - Recovery infrastructure and data backup",
			gap.TypeMissingBackupProcedures,
			gap.SeverityHigh,
			fmt.Sprintf("Production asset %q has no backup configured", a.Name),
			"Configure scheduled backups with tested restore procedures",
			"Record backup cadence and retention in the recovery runbook",
		))
	}

	if !a.AccessRestricted {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkSOC2,
			"CC6.1 - Logical and physical access controls",
			gap.TypeMissingAccessControls,
			gap.SeverityHigh,
			fmt.Sprintf("Production asset %q lacks logical access restrictions", a.Name),
			"Gate access behind role-based authorization",
		))
	}

	if !a.MonitoringEnabled {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkSOC2,
			"CC7.2 - System monitoring",
			gap.TypeMissingMonitoring,
			gap.SeverityMedium,
			fmt.Sprintf("Production asset %q is not monitored for anomalies", a.Name),
			"Enable monitoring with alerting on anomalous activity",
		))
	}

	if !a.IncidentResponsePlanDocumented {
		gaps = append(gaps, gap.NewComplianceGap(
			a.ID,
			gap.FrameworkSOC2,
			"CC7.4 - Incident response",
			gap.TypeMissingIncidentResponsePlan,
			gap.SeverityMedium,
			fmt.Sprintf("Production asset %q has no documented incident response plan", a.Name),
			"Document an incident response plan covering this asset",
			"Run a tabletop exercise against the documented plan",
		))
	}

	return gaps, nil
}
