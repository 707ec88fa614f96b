package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/pkg/metrics"
)

type scoreRequest struct {
	Date string `json:"date"` // optional, defaults to yesterday
}

type backfillRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type backfillResponse struct {
	Days   int      `json:"days"`
	Scores []string `json:"scores"`
	Error  string   `json:"error,omitempty"`
}

// handleScore runs the daily job for one date and returns its report.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	day := h.runner.DefaultDate()
	if req.Date != "" {
		d, err := metrics.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		day = d
	}

	rep, err := h.runner.Run(r.Context(), day)
	h.cache.Invalidate(metrics.FormatDay(day))
	if err != nil {
		h.log.WithError(err).WithField("date", metrics.FormatDay(day)).Error("score run failed")
		writeError(w, http.StatusInternalServerError, "score run failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleBackfill rescores an inclusive date range. Days completed before a
// failure stay stored and are listed in the response.
func (h *Handler) handleBackfill(w http.ResponseWriter, r *http.Request) {
	var req backfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	from, err := metrics.ParseDay(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
		return
	}
	to, err := metrics.ParseDay(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to: "+err.Error())
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}

	start := time.Now()
	reports, err := h.runner.Backfill(r.Context(), from, to)

	resp := backfillResponse{Days: len(reports), Scores: []string{}}
	for _, rep := range reports {
		h.cache.Invalidate(rep.Result.Date)
		resp.Scores = append(resp.Scores, rep.Result.Date)
	}
	log := h.log.WithFields(logrus.Fields{
		"from":     req.From,
		"to":       req.To,
		"days":     resp.Days,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		log.WithError(err).Error("backfill failed")
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	log.Info("backfill complete")
	writeJSON(w, http.StatusOK, resp)
}
