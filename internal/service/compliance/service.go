package compliance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	domainerrors "github.com/gapwatch/asset-risk-backend/internal/domain/errors"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
	"github.com/gapwatch/asset-risk-backend/internal/metrics"
)

// Service runs every applicable compliance checker against an asset and
// aggregates their gaps. Checkers are injected at construction; the
// service holds no mutable state and is safe for concurrent use.
type Service struct {
	logger   *zap.Logger
	checkers []Checker
	metrics  *metrics.Registry
}

// NewService creates the aggregating compliance service. A nil metrics
// registry disables instrumentation.
func NewService(logger *zap.Logger, checkers []Checker, registry *metrics.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:   logger,
		checkers: checkers,
		metrics:  registry,
	}
}

// AssessAsset evaluates all applicable frameworks against the asset and
// returns the combined gap list in checker order. A checker that fails
// is logged and excluded; the remaining checkers still contribute, so a
// single misbehaving rule set never blocks the whole assessment.
func (s *Service) AssessAsset(ctx context.Context, a *asset.Asset) ([]*gap.Gap, error) {
	if a == nil {
		return nil, domainerrors.ErrMissingAsset
	}
	if err := a.Validate(); err != nil {
		return nil, domainerrors.NewInputError("INVALID_ASSET", "asset record failed validation").WithCause(err)
	}

	var gaps []*gap.Gap
	for _, checker := range s.checkers {
		if !checker.AppliesTo(a) {
			continue
		}

		start := time.Now()
		found, err := checker.AssessGaps(a)
		if err != nil {
			s.metrics.RecordCheckerFailure(ctx, checker.Framework().String())
			s.logger.Warn("compliance checker failed, excluding its results",
				zap.String("framework", checker.Framework().String()),
				zap.String("asset_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.metrics.RecordGapCheck(ctx, checker.Framework().String(), len(found), time.Since(start))
		gaps = append(gaps, found...)
	}

	s.logger.Debug("compliance assessment complete",
		zap.String("asset_id", a.ID.String()),
		zap.Int("gaps", len(gaps)),
	)
	return gaps, nil
}

// ApplicableFrameworks reports which frameworks gate open for the asset.
func (s *Service) ApplicableFrameworks(a *asset.Asset) []gap.Framework {
	if a == nil {
		return nil
	}
	var frameworks []gap.Framework
	for _, checker := range s.checkers {
		if checker.AppliesTo(a) {
			frameworks = append(frameworks, checker.Framework())
		}
	}
	return frameworks
}
