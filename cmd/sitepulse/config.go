package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/internal/app"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/pkg/config"
	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// loadConfig reads the file named by --config, or the nearest
// .sitepulse/config.yaml, with environment overrides applied.
func loadConfig(opts *globalOpts) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Log.Level = firstNonEmpty(opts.logLevel, cfg.Log.Level)
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	return logger.New(cfg.Log.Level, cfg.Log.File)
}

// openApp loads config and connects every backend.
func openApp(ctx context.Context, opts *globalOpts) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

// parseDateFlag parses a YYYY-MM-DD flag value, falling back to def when
// the flag is empty.
func parseDateFlag(name, value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	d, err := metrics.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
