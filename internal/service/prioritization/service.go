package prioritization

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	domainerrors "github.com/gapwatch/asset-risk-backend/internal/domain/errors"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/config"
	"github.com/gapwatch/asset-risk-backend/internal/metrics"
)

// Service converts (gap, asset) pairs into priority scores and scored
// batches into remediation plans. Every scoring path is a pure function
// of its inputs plus the lookup tables resolved at construction, so the
// service is safe to share across goroutines.
type Service struct {
	logger  *zap.Logger
	cfg     config.ScoringConfig
	alloc   config.AllocationConfig
	metrics *metrics.Registry

	severityScores         map[gap.Severity]float64
	criticalityMultipliers map[asset.CriticalityLevel]float64
	regulatoryMultipliers  map[gap.Framework]float64

	workers int
	now     func() time.Time
}

// NewService resolves the scoring tables up front. A table missing a key
// for any declared enum value is a configuration error surfaced here,
// not silently defaulted at scoring time.
func NewService(logger *zap.Logger, scoring config.ScoringConfig, alloc config.AllocationConfig, registry *metrics.Registry) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	severityScores := make(map[gap.Severity]float64, len(gap.Severities()))
	for _, sev := range gap.Severities() {
		score, ok := scoring.SeverityScores[sev.String()]
		if !ok {
			return nil, domainerrors.NewConfigurationError("MISSING_SEVERITY_SCORE",
				fmt.Sprintf("severity score table has no entry for %q", sev))
		}
		severityScores[sev] = score
	}

	criticalityMultipliers := make(map[asset.CriticalityLevel]float64, len(asset.CriticalityLevels()))
	for _, level := range asset.CriticalityLevels() {
		m, ok := scoring.CriticalityMultipliers[level.String()]
		if !ok {
			return nil, domainerrors.NewConfigurationError("MISSING_CRITICALITY_MULTIPLIER",
				fmt.Sprintf("criticality multiplier table has no entry for %q", level))
		}
		criticalityMultipliers[level] = m
	}

	regulatoryMultipliers := make(map[gap.Framework]float64, len(gap.Frameworks()))
	for _, fw := range gap.Frameworks() {
		m, ok := scoring.RegulatoryMultipliers[fw.String()]
		if !ok {
			return nil, domainerrors.NewConfigurationError("MISSING_REGULATORY_MULTIPLIER",
				fmt.Sprintf("regulatory multiplier table has no entry for %q", fw))
		}
		regulatoryMultipliers[fw] = m
	}

	if scoring.ScoreCap <= 0 {
		return nil, domainerrors.NewConfigurationError("INVALID_SCORE_CAP", "score cap must be positive")
	}
	if !(scoring.Thresholds.Medium < scoring.Thresholds.High && scoring.Thresholds.High < scoring.Thresholds.Critical) {
		return nil, domainerrors.NewConfigurationError("INVALID_THRESHOLDS",
			"priority thresholds must be strictly increasing medium < high < critical")
	}

	workers := alloc.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Service{
		logger:                 logger,
		cfg:                    scoring,
		alloc:                  alloc,
		metrics:                registry,
		severityScores:         severityScores,
		criticalityMultipliers: criticalityMultipliers,
		regulatoryMultipliers:  regulatoryMultipliers,
		workers:                workers,
		now:                    time.Now,
	}, nil
}

// Score computes the composite priority for one gap on one asset:
//
//	severity x criticality x regulatory x security x business x urgency
//
// capped at the configured maximum. A gap without a compliance deadline
// scores the neutral urgency multiplier.
func (s *Service) Score(ctx context.Context, g *gap.Gap, a *asset.Asset) (gap.PriorityScore, error) {
	if g == nil {
		return gap.PriorityScore{}, domainerrors.ErrMissingGap
	}
	if a == nil {
		return gap.PriorityScore{}, domainerrors.ErrMissingAsset
	}
	if err := g.Validate(); err != nil {
		return gap.PriorityScore{}, domainerrors.NewInputError("INVALID_GAP", "gap record failed validation").WithCause(err)
	}
	if err := a.Validate(); err != nil {
		return gap.PriorityScore{}, domainerrors.NewInputError("INVALID_ASSET", "asset record failed validation").WithCause(err)
	}

	score := gap.PriorityScore{
		GapID:                g.ID,
		SeverityComponent:    s.severityScores[g.Severity],
		CriticalityComponent: s.criticalityMultipliers[a.Criticality],
		RegulatoryComponent:  s.regulatoryMultipliers[g.Framework],
		SecurityComponent:    s.securityMultiplier(g, a),
		BusinessComponent:    s.businessMultiplier(a),
		UrgencyComponent:     s.urgencyMultiplier(g),
	}

	raw := score.SeverityComponent *
		score.CriticalityComponent *
		score.RegulatoryComponent *
		score.SecurityComponent *
		score.BusinessComponent *
		score.UrgencyComponent

	if raw > s.cfg.ScoreCap {
		raw = s.cfg.ScoreCap
	}
	score.Score = raw
	score.Level = s.levelFromScore(raw)

	s.metrics.RecordPriorityScore(ctx, score.Level.String(), raw)
	return score, nil
}

func (s *Service) securityMultiplier(g *gap.Gap, a *asset.Asset) float64 {
	if !g.Type.IsSecurity() {
		return s.cfg.Security.Default
	}
	if a.Classification.IsSensitive() {
		return s.cfg.Security.Elevated
	}
	return s.cfg.Security.SecurityTyped
}

func (s *Service) businessMultiplier(a *asset.Asset) float64 {
	critical := a.Criticality == asset.CriticalityCritical
	production := a.Environment == asset.EnvironmentProduction
	switch {
	case critical && production:
		return s.cfg.Business.CriticalProduction
	case critical || production:
		return s.cfg.Business.CriticalOrProduction
	case a.BusinessImpact >= asset.BusinessImpactHigh:
		return s.cfg.Business.HighBusinessImpact
	default:
		return s.cfg.Business.Default
	}
}

func (s *Service) urgencyMultiplier(g *gap.Gap) float64 {
	if g.ComplianceDeadline == nil {
		return s.cfg.Urgency.Neutral
	}

	days := g.ComplianceDeadline.Sub(s.now()).Hours() / 24
	u := s.cfg.Urgency
	switch {
	case days <= 0:
		return u.Overdue
	case days <= float64(u.NearDays):
		return u.Near
	case days >= float64(u.FarDays):
		return u.Far
	default:
		span := float64(u.FarDays - u.NearDays)
		return u.Near + (u.Far-u.Near)*(days-float64(u.NearDays))/span
	}
}

func (s *Service) levelFromScore(score float64) gap.PriorityLevel {
	t := s.cfg.Thresholds
	switch {
	case score >= t.Critical:
		return gap.PriorityCritical
	case score >= t.High:
		return gap.PriorityHigh
	case score >= t.Medium:
		return gap.PriorityMedium
	default:
		return gap.PriorityLow
	}
}

// Item is one unit of batch scoring work.
type Item struct {
	Gap   *gap.Gap
	Asset *asset.Asset
}

// ScoreBatch scores every item across a bounded worker pool. Results
// preserve input order, which also preserves gap creation order as the
// stable secondary sort key for identical scores. The first input error
// aborts the batch, since a wrong score is worse than no score.
func (s *Service) ScoreBatch(ctx context.Context, items []Item) ([]gap.ScoredGap, error) {
	results := make([]gap.ScoredGap, len(items))
	errs := make([]error, len(items))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item Item) {
			defer wg.Done()
			defer func() { <-sem }()
			score, err := s.Score(ctx, item.Gap, item.Asset)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = gap.ScoredGap{Gap: item.Gap, Priority: score}
		}(i, item)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, domainerrors.Wrap(err, fmt.Sprintf("scoring item %d", i))
		}
	}
	return results, nil
}
