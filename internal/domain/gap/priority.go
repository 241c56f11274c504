package gap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PriorityScore is the computed remediation priority for one gap. It is
// derived, never persisted as input, and records every component so that
// the composition is auditable.
type PriorityScore struct {
	GapID uuid.UUID `json:"gap_id"`
	Score float64   `json:"score"`

	SeverityComponent    float64 `json:"severity_component"`
	CriticalityComponent float64 `json:"criticality_component"`
	RegulatoryComponent  float64 `json:"regulatory_component"`
	SecurityComponent    float64 `json:"security_component"`
	BusinessComponent    float64 `json:"business_component"`
	UrgencyComponent     float64 `json:"urgency_component"`

	Level PriorityLevel `json:"priority_level"`
}

type PriorityLevel int

const (
	PriorityLow PriorityLevel = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p PriorityLevel) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsImmediate reports whether the level demands remediation ahead of the
// regular scheduling cycle.
func (p PriorityLevel) IsImmediate() bool {
	return p == PriorityCritical || p == PriorityHigh
}

func ParsePriorityLevel(s string) (PriorityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("invalid priority level: %q", s)
	}
}

// ScoredGap pairs a gap with its computed priority.
type ScoredGap struct {
	Gap      *Gap          `json:"gap"`
	Priority PriorityScore `json:"priority"`
}

// AssetCluster groups gaps belonging to one asset. Bucket membership
// preserves the insertion order of the source list.
type AssetCluster struct {
	AssetID uuid.UUID `json:"asset_id"`
	Gaps    []*Gap    `json:"gaps"`
}

// TypeCluster groups gaps of one type, insertion-ordered.
type TypeCluster struct {
	Type Type   `json:"gap_type"`
	Gaps []*Gap `json:"gaps"`
}

// ResourceAllocation is the remediation plan derived from a batch of
// scored gaps. It is recomputed fresh on each request.
type ResourceAllocation struct {
	TotalGaps      int `json:"total_gaps"`
	ImmediateCount int `json:"immediate_count"`
	ScheduledCount int `json:"scheduled_count"`

	EstimatedEffortHours float64 `json:"estimated_effort_hours"`

	// Team name to the gaps assigned to it, insertion-ordered.
	TeamAssignments map[string][]uuid.UUID `json:"team_assignments"`

	GeneratedAt time.Time `json:"generated_at"`
}

// PortfolioSummary aggregates a scored batch by level, severity and
// framework for reporting.
type PortfolioSummary struct {
	TotalGaps    int            `json:"total_gaps"`
	ByLevel      map[string]int `json:"by_level"`
	BySeverity   map[string]int `json:"by_severity"`
	ByFramework  map[string]int `json:"by_framework"`
	HighestScore float64        `json:"highest_score"`
}
