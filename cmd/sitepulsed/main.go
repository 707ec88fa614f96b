// Command sitepulsed is the SitePulse scoring service.
// It serves the read API, the internal scoring trigger used by the daily
// scheduler, Prometheus metrics and a health check.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sitepulse/sitepulse/internal/api"
	"github.com/sitepulse/sitepulse/internal/app"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/internal/platform"
	"github.com/sitepulse/sitepulse/pkg/config"
)

func main() {
	configPath := flag.String("config", envOrDefault("SITEPULSE_CONFIG", ""), "Path to config file")
	migrate := flag.Bool("migrate", true, "Apply database migrations on startup")
	flag.Parse()

	if err := run(*configPath, *migrate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, migrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if err := platform.AutoMigrate(a.DB); err != nil {
			return err
		}
	}

	handler := api.NewHandler(a.Service, a.Snapshots, a.Actions, api.NewSnapshotCache(cfg.HTTP.CacheSize), log)
	handler.SetHealthCheck(a.DB.PingContext)

	internal := http.NewServeMux()
	handler.RegisterInternalRoutes(internal)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/internal/", api.APIKeyAuth(cfg.HTTP.APIKey)(internal))
	mux.Handle("GET /metrics", a.Recorder.Handler())

	if cfg.HTTP.APIKey == "" {
		log.Warn("http.api_key is empty; internal endpoints are unauthenticated")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.CORS(api.RequestLogger(log)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("starting sitepulsed")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
