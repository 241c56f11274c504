package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Scoring    ScoringConfig    `koanf:"scoring"`
	Risk       RiskConfig       `koanf:"risk"`
	Allocation AllocationConfig `koanf:"allocation"`
}

// ScoringConfig holds every lookup table the gap prioritizer consults.
// All tables are externally injectable so scoring can be tuned without
// code changes; services validate key coverage at construction time.
type ScoringConfig struct {
	SeverityScores         map[string]float64 `koanf:"severity_scores"`
	CriticalityMultipliers map[string]float64 `koanf:"criticality_multipliers"`
	RegulatoryMultipliers  map[string]float64 `koanf:"regulatory_multipliers"`

	Security SecurityMultiplierConfig `koanf:"security_multipliers"`
	Business BusinessMultiplierConfig `koanf:"business_multipliers"`
	Urgency  UrgencyConfig            `koanf:"urgency"`

	ScoreCap   float64            `koanf:"score_cap"`
	Thresholds PriorityThresholds `koanf:"priority_thresholds"`
}

type SecurityMultiplierConfig struct {
	// Security-typed gap on a confidential or restricted asset.
	Elevated float64 `koanf:"elevated"`
	// Security-typed gap on any other asset.
	SecurityTyped float64 `koanf:"security_typed"`
	Default       float64 `koanf:"default"`
}

type BusinessMultiplierConfig struct {
	CriticalProduction   float64 `koanf:"critical_production"`
	CriticalOrProduction float64 `koanf:"critical_or_production"`
	HighBusinessImpact   float64 `koanf:"high_business_impact"`
	Default              float64 `koanf:"default"`
}

// UrgencyConfig shapes the compliance-deadline proximity curve. Between
// NearDays and FarDays the multiplier interpolates linearly from Near
// down to Far. A gap with no deadline scores Neutral.
type UrgencyConfig struct {
	NearDays int     `koanf:"near_days"`
	FarDays  int     `koanf:"far_days"`
	Overdue  float64 `koanf:"overdue"`
	Near     float64 `koanf:"near"`
	Far      float64 `koanf:"far"`
	Neutral  float64 `koanf:"neutral"`
}

type PriorityThresholds struct {
	Critical float64 `koanf:"critical"`
	High     float64 `koanf:"high"`
	Medium   float64 `koanf:"medium"`
}

// RiskConfig drives the RMF risk aggregator: score clamping, the five
// equal-width level bands, and per-level reassessment intervals.
type RiskConfig struct {
	ScoreMin float64        `koanf:"score_min"`
	ScoreMax float64        `koanf:"score_max"`
	Bands    RiskBandConfig `koanf:"bands"`

	// Days until the next assessment is due, keyed by risk level.
	ReassessmentDays map[string]int `koanf:"reassessment_days"`
}

// RiskBandConfig lists the inclusive upper bound of each band below
// critical; anything above VeryHigh is critical.
type RiskBandConfig struct {
	Low      float64 `koanf:"low"`
	Medium   float64 `koanf:"medium"`
	High     float64 `koanf:"high"`
	VeryHigh float64 `koanf:"very_high"`
}

// AllocationConfig drives resource-allocation recommendations.
type AllocationConfig struct {
	DefaultEffortHours float64            `koanf:"default_effort_hours"`
	EffortHours        map[string]float64 `koanf:"effort_hours"`

	DefaultTeam     string            `koanf:"default_team"`
	TeamAssignments map[string]string `koanf:"team_assignments"`

	// Batch fan-out width for scoring and assessment runs.
	Workers int `koanf:"workers"`
}

// Default returns the built-in scoring contract. The multiplier and
// threshold literals are load-bearing: downstream consumers encode them
// in their expectations.
func Default() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Scoring: ScoringConfig{
			SeverityScores: map[string]float64{
				"high":   10,
				"medium": 6,
				"low":    3,
			},
			CriticalityMultipliers: map[string]float64{
				"critical": 3.0,
				"high":     2.5,
				"medium":   2.0,
				"low":      1.0,
			},
			RegulatoryMultipliers: map[string]float64{
				"gdpr": 3.0,
				"soc2": 2.0,
				"nist": 2.0,
				"none": 1.0,
			},
			Security: SecurityMultiplierConfig{
				Elevated:      1.5,
				SecurityTyped: 1.2,
				Default:       1.0,
			},
			Business: BusinessMultiplierConfig{
				CriticalProduction:   2.5,
				CriticalOrProduction: 2.0,
				HighBusinessImpact:   1.5,
				Default:              1.0,
			},
			Urgency: UrgencyConfig{
				NearDays: 30,
				FarDays:  365,
				Overdue:  2.0,
				Near:     1.5,
				Far:      1.1,
				Neutral:  1.0,
			},
			ScoreCap: 375,
			Thresholds: PriorityThresholds{
				Critical: 300,
				High:     200,
				Medium:   100,
			},
		},
		Risk: RiskConfig{
			ScoreMin: 1,
			ScoreMax: 25,
			Bands: RiskBandConfig{
				Low:      5,
				Medium:   10,
				High:     15,
				VeryHigh: 20,
			},
			ReassessmentDays: map[string]int{
				"critical":  30,
				"very_high": 60,
				"high":      90,
				"medium":    180,
				"low":       365,
			},
		},
		Allocation: AllocationConfig{
			DefaultEffortHours: 12,
			EffortHours: map[string]float64{
				"missing_encryption":             16,
				"insufficient_security_controls": 16,
				"missing_access_controls":        16,
				"missing_monitoring":             16,
				"missing_documentation":          8,
				"outdated_documentation":         8,
				"undocumented_schema_change":     8,
			},
			DefaultTeam: "operations_team",
			TeamAssignments: map[string]string{
				"missing_encryption":             "security_team",
				"insufficient_security_controls": "security_team",
				"missing_access_controls":        "security_team",
				"missing_monitoring":             "security_team",
				"missing_documentation":          "documentation_team",
				"outdated_documentation":         "documentation_team",
				"undocumented_schema_change":     "documentation_team",
			},
			Workers: 8,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and ARB_-prefixed environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = "configs/scoring.yaml"
	}
	// Config file is optional; a missing file leaves defaults in place.
	_ = k.Load(file.Provider(path), yaml.Parser())

	if err := k.Load(env.Provider("ARB_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "ARB_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
