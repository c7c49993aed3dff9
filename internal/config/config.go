package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a fraudscan run.
type Config struct {
	DataDir    string
	OutputPath string
	DSN        string
	LogFormat  string // "text" or "json"
	Parallel   int    // max detectors running at once
	NoGPU      bool   // accepted for legacy pipeline compatibility; ignored
	Thresholds Thresholds
}

// Thresholds are the numeric cutoffs for the six signals. The zero value
// is invalid; start from Defaults and optionally override via YAML.
type Thresholds struct {
	PeerGroupMinSize    int     `yaml:"peer_group_min_size"`
	OutlierHighRatio    float64 `yaml:"outlier_high_ratio"`
	NewProviderMonths   int     `yaml:"new_provider_months"`
	EscalationWindow    int     `yaml:"escalation_window_months"`
	EscalationGrowthPct float64 `yaml:"escalation_growth_pct"`
	EscalationHighPct   float64 `yaml:"escalation_high_pct"`
	BusinessHours       int64   `yaml:"business_hours_per_month"`
	MaxClaimsPerHour    float64 `yaml:"max_claims_per_hour"`
	NetworkMinNPIs      int     `yaml:"network_min_npis"`
	NetworkCombinedUSD  float64 `yaml:"network_combined_usd"`
	NetworkHighUSD      float64 `yaml:"network_high_usd"`
	HomeHealthMinClaims int64   `yaml:"home_health_min_claims"`
	HomeHealthRatio     float64 `yaml:"home_health_ratio"`
	HomeHealthHighRatio float64 `yaml:"home_health_high_ratio"`
}

// Defaults returns the published detection thresholds.
func Defaults() Thresholds {
	return Thresholds{
		PeerGroupMinSize:    5,
		OutlierHighRatio:    5.0,
		NewProviderMonths:   24,
		EscalationWindow:    12,
		EscalationGrowthPct: 200,
		EscalationHighPct:   500,
		BusinessHours:       22 * 8,
		MaxClaimsPerHour:    6.0,
		NetworkMinNPIs:      5,
		NetworkCombinedUSD:  1_000_000,
		NetworkHighUSD:      5_000_000,
		HomeHealthMinClaims: 100,
		HomeHealthRatio:     0.1,
		HomeHealthHighRatio: 0.05,
	}
}

// LoadThresholds reads a YAML file and merges non-zero values over the
// defaults, so an override file only needs the cutoffs it changes.
func LoadThresholds(path string) (Thresholds, error) {
	t := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse config file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects threshold combinations that would make a signal
// vacuous or self-contradictory.
func (t Thresholds) Validate() error {
	switch {
	case t.PeerGroupMinSize < 2:
		return fmt.Errorf("peer_group_min_size must be at least 2, got %d", t.PeerGroupMinSize)
	case t.OutlierHighRatio <= 0:
		return fmt.Errorf("outlier_high_ratio must be positive, got %g", t.OutlierHighRatio)
	case t.NewProviderMonths < 0:
		return fmt.Errorf("new_provider_months must not be negative, got %d", t.NewProviderMonths)
	case t.EscalationWindow < 3:
		return fmt.Errorf("escalation_window_months must be at least 3, got %d", t.EscalationWindow)
	case t.EscalationGrowthPct <= 0 || t.EscalationHighPct < t.EscalationGrowthPct:
		return fmt.Errorf("escalation growth thresholds must be positive and ordered")
	case t.BusinessHours <= 0:
		return fmt.Errorf("business_hours_per_month must be positive, got %d", t.BusinessHours)
	case t.MaxClaimsPerHour <= 0:
		return fmt.Errorf("max_claims_per_hour must be positive, got %g", t.MaxClaimsPerHour)
	case t.NetworkMinNPIs < 2:
		return fmt.Errorf("network_min_npis must be at least 2, got %d", t.NetworkMinNPIs)
	case t.NetworkCombinedUSD <= 0 || t.NetworkHighUSD < t.NetworkCombinedUSD:
		return fmt.Errorf("network billing thresholds must be positive and ordered")
	case t.HomeHealthMinClaims <= 0:
		return fmt.Errorf("home_health_min_claims must be positive, got %d", t.HomeHealthMinClaims)
	case t.HomeHealthRatio <= 0 || t.HomeHealthRatio > 1 || t.HomeHealthHighRatio > t.HomeHealthRatio:
		return fmt.Errorf("home health ratio thresholds must be in (0,1] and ordered")
	}
	return nil
}

// Validate checks required fields for a detection run.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("--data-dir is required")
	}
	if stat, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	} else if !stat.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", c.DataDir)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", c.Parallel)
	}
	return c.Thresholds.Validate()
}
