package service

import (
	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/config"
	"github.com/gapwatch/asset-risk-backend/internal/metrics"
	"github.com/gapwatch/asset-risk-backend/internal/service/assessor"
	"github.com/gapwatch/asset-risk-backend/internal/service/compliance"
	"github.com/gapwatch/asset-risk-backend/internal/service/prioritization"
	"github.com/gapwatch/asset-risk-backend/internal/service/riskassessment"
)

// Engine bundles every scoring service wired against one configuration.
// Construction fails fast if any lookup table has a coverage hole, so a
// built Engine is always safe to score with.
type Engine struct {
	Compliance  *compliance.Service
	Prioritizer *prioritization.Service
	Risk        *riskassessment.Service
	Assessor    *assessor.Assessor
}

// NewEngine wires the full scoring pipeline. A nil metrics registry
// disables instrumentation; a nil logger falls back to a nop logger in
// each service.
func NewEngine(logger *zap.Logger, cfg *config.Config, registry *metrics.Registry) (*Engine, error) {
	prioritizer, err := prioritization.NewService(logger, cfg.Scoring, cfg.Allocation, registry)
	if err != nil {
		return nil, err
	}

	risk, err := riskassessment.NewService(logger, cfg.Risk, cfg.Allocation.Workers, registry)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Compliance:  compliance.NewService(logger, compliance.DefaultCheckers(), registry),
		Prioritizer: prioritizer,
		Risk:        risk,
		Assessor:    assessor.New(),
	}, nil
}
