package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/config"
	"github.com/gapwatch/asset-risk-backend/internal/infrastructure/telemetry"
	"github.com/gapwatch/asset-risk-backend/internal/metrics"
	"github.com/gapwatch/asset-risk-backend/internal/service"
	"github.com/gapwatch/asset-risk-backend/internal/service/prioritization"
)

func main() {
	configPath := flag.String("config", "", "path to the scoring configuration file")
	inventoryPath := flag.String("inventory", "", "path to the asset inventory JSON file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(ctx, logger, cfg, *inventoryPath); err != nil {
		logger.Error("gap assessment failed", zap.Error(err))
		os.Exit(1)
	}
}

// inventoryRecord is one asset row of the inventory file.
type inventoryRecord struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Criticality    string `json:"criticality"`
	Environment    string `json:"environment"`
	Classification string `json:"classification"`
	BusinessImpact string `json:"business_impact"`

	EncryptionEnabled              bool `json:"encryption_enabled"`
	AccessRestricted               bool `json:"access_restricted"`
	BackupConfigured               bool `json:"backup_configured"`
	MonitoringEnabled              bool `json:"monitoring_enabled"`
	RetentionPolicyDocumented      bool `json:"retention_policy_documented"`
	IncidentResponsePlanDocumented bool `json:"incident_response_plan_documented"`
}

// report is what the run prints: every scored gap plus the derived
// remediation plan and portfolio rollup.
type report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Scored      []gap.ScoredGap         `json:"scored_gaps"`
	Allocation  *gap.ResourceAllocation `json:"allocation"`
	Summary     *gap.PortfolioSummary   `json:"summary"`
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config, inventoryPath string) error {
	logger.Info("starting gap assessment",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
	)

	registry, err := metrics.NewRegistry("asset-risk-backend")
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	engine, err := service.NewEngine(logger, cfg, registry)
	if err != nil {
		return fmt.Errorf("wiring scoring engine: %w", err)
	}

	assets, err := loadInventory(inventoryPath)
	if err != nil {
		return err
	}

	var items []prioritization.Item
	for _, a := range assets {
		gaps, err := engine.Compliance.AssessAsset(ctx, a)
		if err != nil {
			return fmt.Errorf("assessing asset %q: %w", a.Name, err)
		}
		for _, g := range gaps {
			items = append(items, prioritization.Item{Gap: g, Asset: a})
		}
	}

	scored, err := engine.Prioritizer.ScoreBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("scoring gaps: %w", err)
	}

	out := report{
		GeneratedAt: time.Now().UTC(),
		Scored:      scored,
		Allocation:  engine.Prioritizer.Allocate(ctx, scored),
		Summary:     engine.Prioritizer.Summarize(scored),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("gap assessment complete",
		zap.Int("assets", len(assets)),
		zap.Int("gaps", len(scored)),
		zap.Int("immediate", out.Allocation.ImmediateCount),
	)
	return nil
}

func loadInventory(path string) ([]*asset.Asset, error) {
	if path == "" {
		return nil, fmt.Errorf("an inventory file is required, pass -inventory")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var records []inventoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing inventory: %w", err)
	}

	assets := make([]*asset.Asset, 0, len(records))
	for i, rec := range records {
		a, err := recordToAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("inventory record %d: %w", i, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func recordToAsset(rec inventoryRecord) (*asset.Asset, error) {
	criticality, err := asset.ParseCriticalityLevel(rec.Criticality)
	if err != nil {
		return nil, err
	}
	environment, err := asset.ParseEnvironment(rec.Environment)
	if err != nil {
		return nil, err
	}
	classification, err := asset.ParseSecurityClassification(rec.Classification)
	if err != nil {
		return nil, err
	}
	impact, err := asset.ParseBusinessImpactLevel(rec.BusinessImpact)
	if err != nil {
		return nil, err
	}

	a, err := asset.NewAsset(rec.Name, criticality, environment, classification, impact)
	if err != nil {
		return nil, err
	}
	a.Description = rec.Description
	a.EncryptionEnabled = rec.EncryptionEnabled
	a.AccessRestricted = rec.AccessRestricted
	a.BackupConfigured = rec.BackupConfigured
	a.MonitoringEnabled = rec.MonitoringEnabled
	a.RetentionPolicyDocumented = rec.RetentionPolicyDocumented
	a.IncidentResponsePlanDocumented = rec.IncidentResponsePlanDocumented
	return a, nil
}
