package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sitepulse/sitepulse/internal/store"
	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/surface"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 366
)

// loadSnapshot loads a snapshot by day, checking the cache first.
func (h *Handler) loadSnapshot(ctx context.Context, day time.Time) (*store.Snapshot, error) {
	key := metrics.FormatDay(day)
	if snap := h.cache.Get(key); snap != nil {
		return snap, nil
	}

	snap, err := h.snapshots.GetSnapshot(ctx, day)
	if err != nil {
		return nil, err
	}
	h.cache.Put(key, snap)
	return snap, nil
}

// handleListScores serves GET /api/scores?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Without bounds it returns the last 30 days ending at the default run date.
func (h *Handler) handleListScores(w http.ResponseWriter, r *http.Request) {
	to := h.runner.DefaultDate()
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := metrics.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to: "+err.Error())
			return
		}
		to = d
	}
	from := to.AddDate(0, 0, -(defaultHistoryDays - 1))
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := metrics.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
			return
		}
		from = d
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}
	if to.Sub(from) > maxHistoryDays*24*time.Hour {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("range exceeds %d days", maxHistoryDays))
		return
	}

	list, err := h.snapshots.ListSnapshots(r.Context(), from, to)
	if err != nil {
		h.log.WithError(err).Error("list snapshots")
		writeError(w, statusFor(err), "failed to list scores")
		return
	}
	if list == nil {
		list = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":   metrics.FormatDay(from),
		"to":     metrics.FormatDay(to),
		"scores": list,
	})
}

// handleGetScore serves GET /api/scores/{date}. With ?format=markdown it
// returns a Markdown summary including the day's open actions.
func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	day, err := metrics.ParseDay(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	snap, err := h.loadSnapshot(r.Context(), day)
	if err != nil {
		if statusFor(err) != http.StatusNotFound {
			h.log.WithError(err).Error("load snapshot")
		}
		writeError(w, statusFor(err), "score not found")
		return
	}

	if r.URL.Query().Get("format") != "markdown" {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	rows, err := h.actions.ListActions(r.Context(), day)
	if err != nil {
		h.log.WithError(err).Error("list actions")
		writeError(w, statusFor(err), "failed to list actions")
		return
	}
	var open []actions.Action
	for _, row := range rows {
		if row.Status == store.StatusOpen {
			open = append(open, row.Action)
		}
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	md := &surface.MarkdownRenderer{}
	_ = md.Render(w, &surface.Report{Result: snap.Result(), Actions: open})
}

// handleListActions serves GET /api/actions/{date}?status=open|resolved.
func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	day, err := metrics.ParseDay(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "", store.StatusOpen, store.StatusResolved:
	default:
		writeError(w, http.StatusBadRequest, "status must be open or resolved")
		return
	}

	rows, err := h.actions.ListActions(r.Context(), day)
	if err != nil {
		h.log.WithError(err).Error("list actions")
		writeError(w, statusFor(err), "failed to list actions")
		return
	}

	out := make([]store.ActionRow, 0, len(rows))
	for _, row := range rows {
		if status == "" || row.Status == status {
			out = append(out, row)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    metrics.FormatDay(day),
		"actions": out,
	})
}
