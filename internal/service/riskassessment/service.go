package riskassessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/assessment"
	domainerrors "github.com/gapwatch/asset-risk-backend/internal/domain/errors"
	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/config"
	"github.com/gapwatch/asset-risk-backend/internal/metrics"
)

// Service computes NIST RMF style risk assessments. Each call produces a
// new immutable RiskAssessment; a later run supersedes rather than
// mutates an earlier one, which keeps the per-asset series diffable.
type Service struct {
	logger  *zap.Logger
	cfg     config.RiskConfig
	metrics *metrics.Registry

	intervals map[assessment.RiskLevel]time.Duration

	workers int
	now     func() time.Time
}

// Input is everything one assessment run needs. Vulnerability and
// control sub-assessments are optional attachments; the risk score is
// derived from the factors alone.
type Input struct {
	Asset          *asset.Asset
	Factors        assessment.RiskFactors
	Categorization assessment.Categorization

	Vulnerability *assessment.VulnerabilityAssessment
	Controls      *assessment.ControlAssessment
}

// NewService validates the band layout and the reassessment interval
// table, failing fast on configuration holes.
func NewService(logger *zap.Logger, cfg config.RiskConfig, workers int, registry *metrics.Registry) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := cfg.Bands
	if !(cfg.ScoreMin < b.Low && b.Low < b.Medium && b.Medium < b.High && b.High < b.VeryHigh && b.VeryHigh < cfg.ScoreMax) {
		return nil, domainerrors.NewConfigurationError("INVALID_RISK_BANDS",
			"risk bands must be strictly increasing between score_min and score_max")
	}

	intervals := make(map[assessment.RiskLevel]time.Duration, len(assessment.RiskLevels()))
	for _, level := range assessment.RiskLevels() {
		days, ok := cfg.ReassessmentDays[level.String()]
		if !ok {
			return nil, domainerrors.NewConfigurationError("MISSING_REASSESSMENT_INTERVAL",
				fmt.Sprintf("reassessment interval table has no entry for %q", level))
		}
		intervals[level] = time.Duration(days) * 24 * time.Hour
	}

	if workers <= 0 {
		workers = 1
	}

	return &Service{
		logger:    logger,
		cfg:       cfg,
		metrics:   registry,
		intervals: intervals,
		workers:   workers,
		now:       time.Now,
	}, nil
}

// Assess computes one risk assessment:
//
//	risk_score = clamp(likelihood x impact x exposure, score_min, score_max)
//
// Confidence is carried through as metadata and never folded into the
// score. The categorization follows the RMF high-water-mark rule.
func (s *Service) Assess(ctx context.Context, in Input) (*assessment.RiskAssessment, error) {
	start := time.Now()

	if in.Asset == nil {
		return nil, domainerrors.ErrMissingAsset
	}
	if err := in.Asset.Validate(); err != nil {
		return nil, domainerrors.NewInputError("INVALID_ASSET", "asset record failed validation").WithCause(err)
	}
	if _, err := assessment.NewRiskFactors(in.Factors.Likelihood, in.Factors.Impact, in.Factors.Exposure, in.Factors.Confidence); err != nil {
		return nil, domainerrors.NewInputError("INVALID_RISK_FACTORS", "risk factors out of range").WithCause(err)
	}

	score := in.Factors.Likelihood * in.Factors.Impact * in.Factors.Exposure
	if score < s.cfg.ScoreMin {
		score = s.cfg.ScoreMin
	}
	if score > s.cfg.ScoreMax {
		score = s.cfg.ScoreMax
	}

	level := s.bandFor(score)
	assessedAt := s.now().UTC()

	result := &assessment.RiskAssessment{
		ID:                uuid.New(),
		AssetID:           in.Asset.ID,
		RiskScore:         score,
		RiskLevel:         level,
		Factors:           in.Factors,
		Categorization:    in.Categorization,
		Vulnerability:     in.Vulnerability,
		Controls:          in.Controls,
		AssessedAt:        assessedAt,
		NextAssessmentDue: assessedAt.Add(s.intervals[level]),
	}

	s.metrics.RecordAssessment(ctx, level.String(), time.Since(start))
	s.logger.Debug("risk assessment complete",
		zap.String("asset_id", in.Asset.ID.String()),
		zap.Float64("risk_score", score),
		zap.String("risk_level", level.String()),
	)
	return result, nil
}

func (s *Service) bandFor(score float64) assessment.RiskLevel {
	b := s.cfg.Bands
	switch {
	case score <= b.Low:
		return assessment.RiskLow
	case score <= b.Medium:
		return assessment.RiskMedium
	case score <= b.High:
		return assessment.RiskHigh
	case score <= b.VeryHigh:
		return assessment.RiskVeryHigh
	default:
		return assessment.RiskCritical
	}
}

// AssessBatch assesses every input across a bounded worker pool. Assets
// are independent, so fan-out needs no ordering; results are joined back
// in input order. The first malformed input fails the batch.
func (s *Service) AssessBatch(ctx context.Context, inputs []Input) ([]*assessment.RiskAssessment, error) {
	s.metrics.RecordBatch(ctx, len(inputs))

	results := make([]*assessment.RiskAssessment, len(inputs))
	errs := make([]error, len(inputs))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = s.Assess(ctx, in)
		}(i, in)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, domainerrors.Wrap(err, fmt.Sprintf("assessing input %d", i))
		}
	}
	return results, nil
}

// Trend diffs two successive assessments of the same asset. Returns an
// input error when the assessments belong to different assets or are
// out of order.
func Trend(previous, current *assessment.RiskAssessment) (*assessment.RiskTrend, error) {
	if previous == nil || current == nil {
		return nil, domainerrors.NewInputError("MISSING_ASSESSMENT", "trend requires two assessments")
	}
	if previous.AssetID != current.AssetID {
		return nil, domainerrors.NewInputError("ASSET_MISMATCH", "trend requires assessments of the same asset")
	}
	if current.AssessedAt.Before(previous.AssessedAt) {
		return nil, domainerrors.NewInputError("OUT_OF_ORDER", "current assessment predates the previous one")
	}

	delta := current.RiskScore - previous.RiskScore
	direction := assessment.TrendStable
	if delta > 0 {
		direction = assessment.TrendWorsening
	} else if delta < 0 {
		direction = assessment.TrendImproving
	}

	return &assessment.RiskTrend{
		AssetID:    current.AssetID,
		Delta:      delta,
		Direction:  direction,
		FromLevel:  previous.RiskLevel,
		ToLevel:    current.RiskLevel,
		Interval:   current.AssessedAt.Sub(previous.AssessedAt),
		MeasuredAt: current.AssessedAt,
	}, nil
}
