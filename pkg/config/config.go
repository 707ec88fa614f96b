// Package config handles loading and managing sitepulse configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SITEPULSE_SITE_ID.
const EnvPrefix = "SITEPULSE_"

// Config is the top-level configuration for sitepulse.
type Config struct {
	SiteID      string            `yaml:"site_id" env:"SITE_ID"`
	PropertyID  string            `yaml:"property_id" env:"PROPERTY_ID"`
	DatabaseURL string            `yaml:"database_url" env:"DATABASE_URL"`
	Performance PerformanceConfig `yaml:"performance" envPrefix:"PERFORMANCE_"`
	Scoring     ScoringConfig     `yaml:"scoring" envPrefix:"SCORING_"`
	Archive     ArchiveConfig     `yaml:"archive" envPrefix:"ARCHIVE_"`
	Kafka       KafkaConfig       `yaml:"kafka" envPrefix:"KAFKA_"`
	Log         LogConfig         `yaml:"log" envPrefix:"LOG_"`
	HTTP        HTTPConfig        `yaml:"http" envPrefix:"HTTP_"`
	Backfill    BackfillConfig    `yaml:"backfill" envPrefix:"BACKFILL_"`
}

// PerformanceConfig controls the optional Core Web Vitals source.
type PerformanceConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// ScoringConfig controls scoring behavior.
type ScoringConfig struct {
	Parallel bool `yaml:"parallel" env:"PARALLEL"`
}

// ArchiveConfig selects the blob store for snapshot copies. An empty
// backend disables archiving.
type ArchiveConfig struct {
	Backend  string `yaml:"backend" env:"BACKEND"` // "", local, s3, gcs
	Dir      string `yaml:"dir" env:"DIR"`
	Bucket   string `yaml:"bucket" env:"BUCKET"`
	Region   string `yaml:"region" env:"REGION"`
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
}

// KafkaConfig configures score event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"TOPIC"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

// HTTPConfig controls the daemon's listener.
type HTTPConfig struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	APIKey    string `yaml:"api_key" env:"API_KEY"`
	CacheSize int    `yaml:"cache_size" env:"CACHE_SIZE"` // snapshots kept in memory
}

// BackfillConfig throttles multi-day recalculation.
type BackfillConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second" env:"RATE_PER_SECOND"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Kafka: KafkaConfig{
			Topic: "sitepulse.scores",
		},
		Log: LogConfig{
			Level: "info",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Backfill: BackfillConfig{
			RatePerSecond: 2,
		},
	}
}

// Load reads a config file from the given path and applies SITEPULSE_*
// environment overrides on top. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports every missing or invalid setting needed for scoring.
func (c *Config) Validate() error {
	var errs []error
	if c.SiteID == "" {
		errs = append(errs, errors.New("site_id is required"))
	}
	if c.PropertyID == "" {
		errs = append(errs, errors.New("property_id is required"))
	}
	switch c.Archive.Backend {
	case "", "local", "s3", "gcs":
	default:
		errs = append(errs, fmt.Errorf("archive.backend %q is not one of local, s3, gcs", c.Archive.Backend))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when brokers are set"))
	}
	if c.Backfill.RatePerSecond <= 0 {
		errs = append(errs, errors.New("backfill.rate_per_second must be positive"))
	}
	return errors.Join(errs...)
}

// FindConfigFile looks for .sitepulse/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".sitepulse", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
