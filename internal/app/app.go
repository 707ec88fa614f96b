// Package app wires configuration into a running scoring service. The CLI
// and the daemon share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/internal/aggregator"
	"github.com/sitepulse/sitepulse/internal/archive"
	"github.com/sitepulse/sitepulse/internal/events"
	"github.com/sitepulse/sitepulse/internal/store"
	"github.com/sitepulse/sitepulse/internal/telemetry"
	"github.com/sitepulse/sitepulse/pkg/config"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// App holds every long-lived dependency of a scoring process.
type App struct {
	Config    *config.Config
	Log       logrus.FieldLogger
	DB        *sql.DB
	Snapshots *store.SnapshotStore
	Actions   *store.ActionStore
	Recorder  *telemetry.Recorder
	Service   *aggregator.Service

	closers []io.Closer
}

// NewEngine builds the five-pillar engine described by cfg.
func NewEngine(cfg *config.Config) *scoring.Engine {
	engine := scoring.NewEngine(scoring.DefaultPillars(cfg.Performance.Enabled)...)
	engine.Parallel = cfg.Scoring.Parallel
	return engine
}

// New validates cfg and connects the database, archive and event stream.
// Callers must Close the App.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("invalid config: database_url is required")
	}

	a := &App{Config: cfg, Log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.DB, err = store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.DB)

	blobs, err := archive.New(ctx, archive.Config{
		Backend:  cfg.Archive.Backend,
		Dir:      cfg.Archive.Dir,
		Bucket:   cfg.Archive.Bucket,
		Region:   cfg.Archive.Region,
		Endpoint: cfg.Archive.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	if c, ok := blobs.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		publisher = kp
		a.closers = append(a.closers, kp)
	}

	a.Snapshots = store.NewSnapshotStore(a.DB)
	a.Actions = store.NewActionStore(a.DB)
	a.Recorder = telemetry.NewRecorder()

	a.Service, err = aggregator.NewService(aggregator.Options{
		SiteID: cfg.SiteID,
		Engine: NewEngine(cfg),
		Reader: store.NewMetricsReader(a.DB, store.Sources{
			SiteID:             cfg.SiteID,
			PropertyID:         cfg.PropertyID,
			PerformanceEnabled: cfg.Performance.Enabled,
		}),
		Snapshots:    a.Snapshots,
		Actions:      a.Actions,
		Archive:      blobs,
		Publisher:    publisher,
		Recorder:     a.Recorder,
		Logger:       log,
		BackfillRate: cfg.Backfill.RatePerSecond,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"site_id":     cfg.SiteID,
		"archive":     cfg.Archive.Backend,
		"kafka":       len(cfg.Kafka.Brokers) > 0,
		"performance": cfg.Performance.Enabled,
	}).Debug("app initialized")
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
