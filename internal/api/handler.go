// Package api implements the SitePulse HTTP API.
// It exposes the daily scoring trigger and read endpoints over stored
// snapshots and actions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/internal/aggregator"
	"github.com/sitepulse/sitepulse/internal/store"
)

// Runner executes scoring jobs.
type Runner interface {
	Run(ctx context.Context, date time.Time) (*aggregator.Report, error)
	Backfill(ctx context.Context, from, to time.Time) ([]*aggregator.Report, error)
	DefaultDate() time.Time
}

// SnapshotReader reads stored snapshots.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, date time.Time) (*store.Snapshot, error)
	ListSnapshots(ctx context.Context, from, to time.Time) ([]store.Snapshot, error)
}

// ActionReader reads stored actions.
type ActionReader interface {
	ListActions(ctx context.Context, date time.Time) ([]store.ActionRow, error)
}

// Handler is the top-level API handler.
type Handler struct {
	runner    Runner
	snapshots SnapshotReader
	actions   ActionReader
	cache     *SnapshotCache
	log       logrus.FieldLogger
	health    func(context.Context) error
}

// NewHandler creates a new API handler. A nil cache gets the default size.
func NewHandler(runner Runner, snapshots SnapshotReader, actions ActionReader, cache *SnapshotCache, log logrus.FieldLogger) *Handler {
	if cache == nil {
		cache = NewSnapshotCache(0)
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Handler{
		runner:    runner,
		snapshots: snapshots,
		actions:   actions,
		cache:     cache,
		log:       log,
	}
}

// RegisterRoutes registers the public read routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/scores", h.handleListScores)
	mux.HandleFunc("GET /api/scores/{date}", h.handleGetScore)
	mux.HandleFunc("GET /api/actions/{date}", h.handleListActions)
}

// RegisterInternalRoutes registers the job trigger routes. Callers should
// wrap mux with APIKeyAuth.
func (h *Handler) RegisterInternalRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /internal/score", h.handleScore)
	mux.HandleFunc("POST /internal/backfill", h.handleBackfill)
}

// SetHealthCheck makes /healthz answer 503 while check fails.
func (h *Handler) SetHealthCheck(check func(context.Context) error) {
	h.health = check
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.log.WithError(err).Warn("health check failed")
			writeError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a store error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
