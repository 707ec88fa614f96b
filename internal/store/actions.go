package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// Action status values.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// ActionRow is a persisted action for a day.
type ActionRow struct {
	actions.Action
	Date       string     `json:"date"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	RunID      string     `json:"run_id"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ActionStore reads and writes score_actions.
type ActionStore struct {
	db *sql.DB
}

// NewActionStore creates an ActionStore.
func NewActionStore(db *sql.DB) *ActionStore {
	return &ActionStore{db: db}
}

// UpsertAction writes one action keyed by (date, pillar, key), reopening it
// if it had been resolved.
func (s *ActionStore) UpsertAction(ctx context.Context, date time.Time, a actions.Action, runID string) error {
	return upsertAction(ctx, s.db, date, a, runID)
}

func upsertAction(ctx context.Context, db execer, date time.Time, a actions.Action, runID string) error {
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if a.Metadata == nil {
		meta = []byte("{}")
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO score_actions
		   (date, pillar, key, severity, title, description, impact_points, metadata, status, run_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'open', $9)
		 ON CONFLICT (date, pillar, key) DO UPDATE
		   SET severity      = EXCLUDED.severity,
		       title         = EXCLUDED.title,
		       description   = EXCLUDED.description,
		       impact_points = EXCLUDED.impact_points,
		       metadata      = EXCLUDED.metadata,
		       status        = 'open',
		       resolved_at   = NULL,
		       run_id        = EXCLUDED.run_id,
		       updated_at    = now()`,
		metrics.FormatDay(date), a.Pillar, a.Key, string(a.Severity), a.Title, a.Description,
		a.ImpactPoints, string(meta), runID,
	)
	if err != nil {
		return fmt.Errorf("upsert action %s/%s: %w", a.Pillar, a.Key, err)
	}
	return nil
}

// ResolveStale marks open actions for the day as resolved unless their
// (pillar, key) is in keep. It returns the number of rows resolved.
func (s *ActionStore) ResolveStale(ctx context.Context, date time.Time, keep []actions.Action) (int64, error) {
	return resolveStale(ctx, s.db, date, keep)
}

func resolveStale(ctx context.Context, db execer, date time.Time, keep []actions.Action) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE score_actions
		    SET status = 'resolved', resolved_at = now(), updated_at = now()
		  WHERE date = $1 AND status = 'open'
		    AND NOT (pillar || '/' || key = ANY($2))`,
		metrics.FormatDay(date), pq.Array(actionIDs(keep)),
	)
	if err != nil {
		return 0, fmt.Errorf("resolve stale actions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("resolve stale actions: %w", err)
	}
	return n, nil
}

// ReplaceActions upserts list for the day and resolves every other open
// action of that day, in one transaction.
func (s *ActionStore) ReplaceActions(ctx context.Context, date time.Time, list []actions.Action, runID string) (resolved int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, a := range list {
		if err = upsertAction(ctx, tx, date, a, runID); err != nil {
			return 0, err
		}
	}
	if resolved, err = resolveStale(ctx, tx, date, list); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit actions: %w", err)
	}
	return resolved, nil
}

// ListActions returns every stored action for the day, open ones first and
// then by impact.
func (s *ActionStore) ListActions(ctx context.Context, date time.Time) ([]ActionRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), pillar, key, severity, title, description,
		        impact_points, metadata, status, resolved_at, run_id, updated_at
		 FROM score_actions
		 WHERE date = $1
		 ORDER BY status, impact_points DESC, pillar, key`,
		metrics.FormatDay(date),
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []ActionRow
	for rows.Next() {
		var (
			r        ActionRow
			severity string
			meta     []byte
		)
		if err := rows.Scan(&r.Date, &r.Pillar, &r.Key, &severity, &r.Title, &r.Description,
			&r.ImpactPoints, &meta, &r.Status, &r.ResolvedAt, &r.RunID, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		r.Severity = actions.Severity(severity)
		if err := json.Unmarshal(meta, &r.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal action metadata: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func actionIDs(list []actions.Action) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.Pillar+"/"+a.Key)
	}
	return ids
}
