package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Habibbiswas460/Angel-x-sub003/confidence"
	"github.com/Habibbiswas460/Angel-x-sub003/guard"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
	"github.com/Habibbiswas460/Angel-x-sub003/pattern"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
)

// Config is the complete adaptive-core configuration.
type Config struct {
	// LookbackDays is the trailing trade-log window the daily learning
	// cycle reads.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// SnapshotPath, when set, is where RunDailyLearning persists the
	// state snapshot.
	SnapshotPath string `json:"snapshot_path,omitempty" yaml:"snapshot_path,omitempty"`

	Regime     regime.Config     `json:"regime" yaml:"regime"`
	Learning   learning.Config   `json:"learning" yaml:"learning"`
	Pattern    PatternConfig     `json:"pattern" yaml:"pattern"`
	Guard      guard.Config      `json:"guard" yaml:"guard"`
	Confidence confidence.Config `json:"confidence" yaml:"confidence"`
}

// PatternConfig is the file-facing form of pattern.Config: block TTLs are
// expressed in hours so a config file can say 72 instead of nanoseconds.
type PatternConfig struct {
	MinOccurrences  int     `json:"min_occurrences" yaml:"min_occurrences"`
	MaterialityLoss float64 `json:"materiality_loss" yaml:"materiality_loss"`

	MediumCount   int     `json:"medium_count" yaml:"medium_count"`
	MediumLoss    float64 `json:"medium_loss" yaml:"medium_loss"`
	HighCount     int     `json:"high_count" yaml:"high_count"`
	HighLoss      float64 `json:"high_loss" yaml:"high_loss"`
	CriticalCount int     `json:"critical_count" yaml:"critical_count"`
	CriticalLoss  float64 `json:"critical_loss" yaml:"critical_loss"`

	HighBlockHours     int `json:"high_block_hours" yaml:"high_block_hours"`
	CriticalBlockHours int `json:"critical_block_hours" yaml:"critical_block_hours"`
}

// Detector converts to the pattern package's config.
func (p PatternConfig) Detector() pattern.Config {
	return pattern.Config{
		MinOccurrences:   p.MinOccurrences,
		MaterialityLoss:  p.MaterialityLoss,
		MediumCount:      p.MediumCount,
		MediumLoss:       p.MediumLoss,
		HighCount:        p.HighCount,
		HighLoss:         p.HighLoss,
		CriticalCount:    p.CriticalCount,
		CriticalLoss:     p.CriticalLoss,
		HighBlockTTL:     time.Duration(p.HighBlockHours) * time.Hour,
		CriticalBlockTTL: time.Duration(p.CriticalBlockHours) * time.Hour,
	}
}

// Default returns the configuration with every knob at its reference
// value. These are calibration defaults, not invariants; validate them
// against backtests before trusting them live.
func Default() *Config {
	return &Config{
		LookbackDays: 30,
		Regime:       regime.DefaultConfig(),
		Learning:     learning.DefaultConfig(),
		Pattern: PatternConfig{
			MinOccurrences:     3,
			MaterialityLoss:    500,
			MediumCount:        5,
			MediumLoss:         1000,
			HighCount:          6,
			HighLoss:           2000,
			CriticalCount:      10,
			CriticalLoss:       5000,
			HighBlockHours:     72,
			CriticalBlockHours: 168,
		},
		Guard:      guard.DefaultConfig(),
		Confidence: confidence.DefaultConfig(),
	}
}

// LoadFromFile loads configuration from a file (YAML first, JSON as a
// fallback) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values that would make the core
// misbehave silently.
func (c *Config) Validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive")
	}

	if c.Regime.LowVolThreshold >= c.Regime.HighVolThreshold {
		return fmt.Errorf("regime.low_vol_threshold (%.2f) must be below high_vol_threshold (%.2f)",
			c.Regime.LowVolThreshold, c.Regime.HighVolThreshold)
	}
	if c.Regime.ChopStrengthMax >= c.Regime.TrendStrengthMin {
		return fmt.Errorf("regime.chop_strength_max must be below trend_strength_min")
	}

	if c.Learning.MinSampleSize < 1 {
		return fmt.Errorf("learning.min_sample_size must be at least 1")
	}
	if !(c.Learning.BlockWinRate < c.Learning.RestrictWinRate &&
		c.Learning.RestrictWinRate < c.Learning.AmplifyWinRate) {
		return fmt.Errorf("learning win-rate thresholds must be ordered block < restrict < amplify")
	}

	if c.Pattern.MinOccurrences < 1 {
		return fmt.Errorf("pattern.min_occurrences must be at least 1")
	}
	if c.Pattern.MaterialityLoss < 0 {
		return fmt.Errorf("pattern.materiality_loss must not be negative")
	}
	if c.Pattern.HighBlockHours <= 0 || c.Pattern.CriticalBlockHours <= 0 {
		return fmt.Errorf("pattern block hours must be positive")
	}
	if c.Pattern.CriticalBlockHours < c.Pattern.HighBlockHours {
		return fmt.Errorf("pattern.critical_block_hours must not be shorter than high_block_hours")
	}

	if c.Guard.MaxWeightChange <= 0 {
		return fmt.Errorf("guard.max_weight_change must be positive")
	}
	if c.Guard.MaxDailyAdjustments < 1 {
		return fmt.Errorf("guard.max_daily_adjustments must be at least 1")
	}
	if c.Guard.MinLearningIntervalHours < 0 {
		return fmt.Errorf("guard.min_learning_interval_hours must not be negative")
	}

	sum := c.Confidence.HistoryWeight + c.Confidence.RegimeWeight +
		c.Confidence.RecentWeight + c.Confidence.AdequacyWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("confidence term weights must sum to 1.0, got %.4f", sum)
	}
	if c.Confidence.RecentWindow < 1 {
		return fmt.Errorf("confidence.recent_window must be at least 1")
	}

	return nil
}
