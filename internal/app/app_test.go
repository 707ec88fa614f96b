package app

import (
	"context"
	"strings"
	"testing"

	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/pkg/config"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

func TestNewEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.Parallel = true

	engine := NewEngine(cfg)
	if err := engine.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !engine.Parallel {
		t.Error("expected parallel engine")
	}
	if got := len(engine.Pillars()); got != len(scoring.RequiredPillars) {
		t.Errorf("pillars = %d", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "missing ids", mutate: func(c *config.Config) {}, wantErr: "site_id"},
		{name: "missing database", mutate: func(c *config.Config) {
			c.SiteID = "example.com"
			c.PropertyID = "1"
		}, wantErr: "database_url"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			a, err := New(context.Background(), cfg, logger.Discard())
			if err == nil {
				a.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}
