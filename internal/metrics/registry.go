package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds all engine metrics. A nil registry is valid and turns
// every recording call into a no-op, so services take it optionally.
type Registry struct {
	meter metric.Meter

	// Compliance checking
	GapCheckDuration metric.Float64Histogram
	GapsDetected     metric.Int64Counter
	CheckerFailures  metric.Int64Counter

	// Prioritization
	PriorityScores  metric.Float64Histogram
	GapsScored      metric.Int64Counter
	AllocationsBuilt metric.Int64Counter

	// Risk assessment
	Assessments        metric.Int64Counter
	AssessmentDuration metric.Float64Histogram
	BatchSize          metric.Int64Histogram
}

// NewRegistry creates a new metrics registry with all engine metrics
func NewRegistry(meterName string) (*Registry, error) {
	meter := otel.Meter(meterName)
	r := &Registry{meter: meter}

	if err := r.initComplianceMetrics(); err != nil {
		return nil, err
	}

	if err := r.initPrioritizationMetrics(); err != nil {
		return nil, err
	}

	if err := r.initAssessmentMetrics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) initComplianceMetrics() error {
	var err error

	r.GapCheckDuration, err = r.meter.Float64Histogram(
		"arb.compliance.check_duration",
		metric.WithDescription("Duration of a per-asset compliance check in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50),
	)
	if err != nil {
		return err
	}

	r.GapsDetected, err = r.meter.Int64Counter(
		"arb.compliance.gaps_detected_total",
		metric.WithDescription("Total compliance gaps detected"),
	)
	if err != nil {
		return err
	}

	r.CheckerFailures, err = r.meter.Int64Counter(
		"arb.compliance.checker_failures_total",
		metric.WithDescription("Total checker failures isolated from aggregate results"),
	)

	return err
}

func (r *Registry) initPrioritizationMetrics() error {
	var err error

	r.PriorityScores, err = r.meter.Float64Histogram(
		"arb.prioritization.score",
		metric.WithDescription("Distribution of computed gap priority scores"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 200, 300, 375),
	)
	if err != nil {
		return err
	}

	r.GapsScored, err = r.meter.Int64Counter(
		"arb.prioritization.gaps_scored_total",
		metric.WithDescription("Total gaps scored"),
	)
	if err != nil {
		return err
	}

	r.AllocationsBuilt, err = r.meter.Int64Counter(
		"arb.prioritization.allocations_total",
		metric.WithDescription("Total resource allocation recommendations built"),
	)

	return err
}

func (r *Registry) initAssessmentMetrics() error {
	var err error

	r.Assessments, err = r.meter.Int64Counter(
		"arb.assessment.runs_total",
		metric.WithDescription("Total risk assessment runs"),
	)
	if err != nil {
		return err
	}

	r.AssessmentDuration, err = r.meter.Float64Histogram(
		"arb.assessment.duration",
		metric.WithDescription("Duration of a single risk assessment in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return err
	}

	r.BatchSize, err = r.meter.Int64Histogram(
		"arb.assessment.batch_size",
		metric.WithDescription("Number of assets per batch assessment"),
		metric.WithExplicitBucketBoundaries(1, 10, 50, 100, 500, 1000),
	)

	return err
}

// RecordGapCheck records one per-asset compliance check outcome.
func (r *Registry) RecordGapCheck(ctx context.Context, framework string, gaps int, d time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("framework", framework))
	r.GapCheckDuration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
	r.GapsDetected.Add(ctx, int64(gaps), attrs)
}

// RecordCheckerFailure counts a checker error that was isolated.
func (r *Registry) RecordCheckerFailure(ctx context.Context, framework string) {
	if r == nil {
		return
	}
	r.CheckerFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("framework", framework)))
}

// RecordPriorityScore records one computed gap priority.
func (r *Registry) RecordPriorityScore(ctx context.Context, level string, score float64) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("level", level))
	r.PriorityScores.Record(ctx, score, attrs)
	r.GapsScored.Add(ctx, 1, attrs)
}

// RecordAllocation counts a built allocation recommendation.
func (r *Registry) RecordAllocation(ctx context.Context, gaps int) {
	if r == nil {
		return
	}
	r.AllocationsBuilt.Add(ctx, 1, metric.WithAttributes(attribute.Int("gaps", gaps)))
}

// RecordAssessment records one risk assessment run.
func (r *Registry) RecordAssessment(ctx context.Context, level string, d time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("risk_level", level))
	r.Assessments.Add(ctx, 1, attrs)
	r.AssessmentDuration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
}

// RecordBatch records the size of a batch assessment.
func (r *Registry) RecordBatch(ctx context.Context, size int) {
	if r == nil {
		return
	}
	r.BatchSize.Record(ctx, int64(size))
}
