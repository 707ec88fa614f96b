// Package aggregator runs the daily scoring job: score every pillar, store
// the snapshot, derive and store actions, then fan the result out to the
// archive and event stream.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sitepulse/sitepulse/internal/archive"
	"github.com/sitepulse/sitepulse/internal/events"
	"github.com/sitepulse/sitepulse/internal/telemetry"
	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// SnapshotStore persists one snapshot per day.
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, res *scoring.Result, runID string) error
}

// ActionStore persists the actions of a day. ReplaceActions upserts list and
// resolves any other open action for the day.
type ActionStore interface {
	ReplaceActions(ctx context.Context, date time.Time, list []actions.Action, runID string) (int64, error)
}

// Options wires a Service. Engine, Reader, Snapshots and Actions are required.
type Options struct {
	SiteID    string
	Engine    *scoring.Engine
	Reader    metrics.Reader
	Snapshots SnapshotStore
	Actions   ActionStore
	Generator *actions.Generator // default rules when nil
	Archive   archive.Store      // optional
	Publisher events.Publisher   // optional
	Recorder  *telemetry.Recorder
	Logger    logrus.FieldLogger
	Clock     metrics.Clock

	// BackfillRate caps Backfill at this many days per second. Zero means no limit.
	BackfillRate float64
}

// Service runs scoring jobs.
type Service struct {
	siteID       string
	engine       *scoring.Engine
	reader       metrics.Reader
	snapshots    SnapshotStore
	actions      ActionStore
	generator    *actions.Generator
	archive      archive.Store
	publisher    events.Publisher
	recorder     *telemetry.Recorder
	log          logrus.FieldLogger
	clock        metrics.Clock
	backfillRate float64
}

// Report describes one completed Run.
type Report struct {
	RunID    string           `json:"run_id"`
	Result   *scoring.Result  `json:"result"`
	Actions  []actions.Action `json:"actions"`
	Resolved int64            `json:"resolved"`
}

// NewService validates opts and creates a Service.
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Engine == nil:
		return nil, errors.New("aggregator: engine is required")
	case opts.Reader == nil:
		return nil, errors.New("aggregator: metrics reader is required")
	case opts.Snapshots == nil:
		return nil, errors.New("aggregator: snapshot store is required")
	case opts.Actions == nil:
		return nil, errors.New("aggregator: action store is required")
	}
	if err := opts.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	s := &Service{
		siteID:       opts.SiteID,
		engine:       opts.Engine,
		reader:       opts.Reader,
		snapshots:    opts.Snapshots,
		actions:      opts.Actions,
		generator:    opts.Generator,
		archive:      opts.Archive,
		publisher:    opts.Publisher,
		recorder:     opts.Recorder,
		log:          opts.Logger,
		clock:        opts.Clock,
		backfillRate: opts.BackfillRate,
	}
	if s.generator == nil {
		s.generator = actions.NewGenerator()
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = l
	}
	if s.clock == nil {
		s.clock = metrics.SystemClock{}
	}
	return s, nil
}

// DefaultDate is the day a scheduled run scores: yesterday in UTC.
func (s *Service) DefaultDate() time.Time {
	return metrics.Yesterday(s.clock)
}

// CalculateAndStore scores date and upserts its snapshot.
func (s *Service) CalculateAndStore(ctx context.Context, date time.Time) (*scoring.Result, error) {
	return s.calculateAndStore(ctx, metrics.Day(date), uuid.NewString())
}

func (s *Service) calculateAndStore(ctx context.Context, day time.Time, runID string) (*scoring.Result, error) {
	log := s.log.WithFields(logrus.Fields{"date": metrics.FormatDay(day), "run_id": runID})

	res, err := s.engine.Score(ctx, s.reader, day)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", metrics.FormatDay(day), err)
	}
	if err := s.snapshots.UpsertSnapshot(ctx, res, runID); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"total_score": res.TotalScore, "grade": res.Grade}).Info("snapshot stored")

	if err := s.archiveJSON(ctx, archive.KindSnapshot, day, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GenerateActions derives actions from breakdown and stores them for date.
// It returns the actions generated by this call only.
func (s *Service) GenerateActions(ctx context.Context, date time.Time, breakdown scoring.Breakdown) ([]actions.Action, error) {
	list, _, err := s.generateActions(ctx, metrics.Day(date), breakdown, uuid.NewString())
	return list, err
}

func (s *Service) generateActions(ctx context.Context, day time.Time, breakdown scoring.Breakdown, runID string) ([]actions.Action, int64, error) {
	list := s.generator.Generate(breakdown)

	resolved, err := s.actions.ReplaceActions(ctx, day, list, runID)
	if err != nil {
		return nil, 0, err
	}
	s.log.WithFields(logrus.Fields{
		"date":     metrics.FormatDay(day),
		"run_id":   runID,
		"actions":  len(list),
		"resolved": resolved,
	}).Info("actions stored")

	if s.recorder != nil {
		s.recorder.ObserveActions(list)
	}
	if err := s.archiveJSON(ctx, archive.KindActions, day, list); err != nil {
		return nil, 0, err
	}
	return list, resolved, nil
}

// Run is the daily job: CalculateAndStore, then GenerateActions with the same
// run id, then publish a score event.
func (s *Service) Run(ctx context.Context, date time.Time) (rep *Report, err error) {
	start := time.Now()
	day := metrics.Day(date)
	runID := uuid.NewString()

	defer func() {
		if s.recorder == nil {
			return
		}
		if err != nil {
			s.recorder.ObserveRun(time.Since(start), 0, nil, err)
			return
		}
		s.recorder.ObserveRun(time.Since(start), rep.Result.TotalScore, pillarScores(rep.Result), nil)
	}()

	res, err := s.calculateAndStore(ctx, day, runID)
	if err != nil {
		return nil, err
	}
	list, resolved, err := s.generateActions(ctx, day, res.Breakdown, runID)
	if err != nil {
		return nil, err
	}

	ev := events.ScoreComputed{
		SiteID:      s.siteID,
		Date:        res.Date,
		TotalScore:  res.TotalScore,
		Grade:       res.Grade,
		Pillars:     pillarScores(res),
		ActionCount: len(list),
		RunID:       runID,
		At:          s.clock.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.sideEffectFailed()
		return nil, err
	}

	return &Report{RunID: runID, Result: res, Actions: list, Resolved: resolved}, nil
}

// Backfill runs every day in [from, to], oldest first, throttled by the
// configured rate. It stops at the first failing day.
func (s *Service) Backfill(ctx context.Context, from, to time.Time) ([]*Report, error) {
	from, to = metrics.Day(from), metrics.Day(to)
	if to.Before(from) {
		return nil, fmt.Errorf("backfill: end %s is before start %s", metrics.FormatDay(to), metrics.FormatDay(from))
	}

	limit := rate.Inf
	if s.backfillRate > 0 {
		limit = rate.Limit(s.backfillRate)
	}
	limiter := rate.NewLimiter(limit, 1)

	var reports []*Report
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := limiter.Wait(ctx); err != nil {
			return reports, fmt.Errorf("backfill %s: %w", metrics.FormatDay(day), err)
		}
		rep, err := s.Run(ctx, day)
		if err != nil {
			return reports, fmt.Errorf("backfill %s: %w", metrics.FormatDay(day), err)
		}
		reports = append(reports, rep)
	}
	s.log.WithFields(logrus.Fields{"from": metrics.FormatDay(from), "to": metrics.FormatDay(to), "days": len(reports)}).Info("backfill complete")
	return reports, nil
}

func (s *Service) archiveJSON(ctx context.Context, kind archive.Kind, day time.Time, v any) error {
	if s.archive == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	if err := s.archive.Put(ctx, s.siteID, kind, day, data); err != nil {
		s.sideEffectFailed()
		return fmt.Errorf("archive %s: %w", kind, err)
	}
	return nil
}

func (s *Service) sideEffectFailed() {
	if s.recorder != nil {
		s.recorder.ObserveSideEffectError()
	}
}

func pillarScores(res *scoring.Result) map[string]int {
	out := make(map[string]int, len(res.Breakdown))
	for id, p := range res.Breakdown {
		out[id] = p.Score
	}
	return out
}
