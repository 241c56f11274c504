package prioritization

import (
	"context"

	"github.com/google/uuid"

	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// Allocate partitions scored gaps into immediate (critical/high) and
// scheduled (medium/low) work, estimates total effort from the per-type
// effort table, and assigns each gap to a team. The result is a pure
// reduction over the batch and is recomputed fresh on every call.
func (s *Service) Allocate(ctx context.Context, scored []gap.ScoredGap) *gap.ResourceAllocation {
	rec := &gap.ResourceAllocation{
		TotalGaps:       len(scored),
		TeamAssignments: make(map[string][]uuid.UUID),
		GeneratedAt:     s.now().UTC(),
	}

	for _, sg := range scored {
		if sg.Priority.Level.IsImmediate() {
			rec.ImmediateCount++
		} else {
			rec.ScheduledCount++
		}

		rec.EstimatedEffortHours += s.effortHours(sg.Gap.Type)

		team := s.team(sg.Gap.Type)
		rec.TeamAssignments[team] = append(rec.TeamAssignments[team], sg.Gap.ID)
	}

	s.metrics.RecordAllocation(ctx, len(scored))
	return rec
}

func (s *Service) effortHours(t gap.Type) float64 {
	if hours, ok := s.alloc.EffortHours[t.String()]; ok {
		return hours
	}
	return s.alloc.DefaultEffortHours
}

func (s *Service) team(t gap.Type) string {
	if team, ok := s.alloc.TeamAssignments[t.String()]; ok {
		return team
	}
	return s.alloc.DefaultTeam
}

// Summarize aggregates a scored batch by priority level, severity and
// framework. Order-free reduction; safe to call on partial batches.
func (s *Service) Summarize(scored []gap.ScoredGap) *gap.PortfolioSummary {
	summary := &gap.PortfolioSummary{
		TotalGaps:   len(scored),
		ByLevel:     make(map[string]int),
		BySeverity:  make(map[string]int),
		ByFramework: make(map[string]int),
	}

	for _, sg := range scored {
		summary.ByLevel[sg.Priority.Level.String()]++
		summary.BySeverity[sg.Gap.Severity.String()]++
		if sg.Gap.Framework != gap.FrameworkNone {
			summary.ByFramework[sg.Gap.Framework.String()]++
		}
		if sg.Priority.Score > summary.HighestScore {
			summary.HighestScore = sg.Priority.Score
		}
	}

	return summary
}
