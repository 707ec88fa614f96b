package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// Snapshot is the persisted score of one day.
type Snapshot struct {
	Date       string            `json:"date"`
	TotalScore int               `json:"total_score"`
	Grade      string            `json:"grade"`
	Breakdown  scoring.Breakdown `json:"breakdown"`
	RunID      string            `json:"run_id"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Result converts the snapshot back into a scoring result.
func (s *Snapshot) Result() *scoring.Result {
	return &scoring.Result{
		Date:       s.Date,
		TotalScore: s.TotalScore,
		Grade:      s.Grade,
		Breakdown:  s.Breakdown,
	}
}

// SnapshotStore reads and writes score_snapshots.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a SnapshotStore.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// UpsertSnapshot writes the full result for its date, replacing any earlier run.
func (s *SnapshotStore) UpsertSnapshot(ctx context.Context, res *scoring.Result, runID string) error {
	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_snapshots
		   (date, total_score, grade, p1_score, p2_score, p3_score, p4_score, p5_score, breakdown, run_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (date) DO UPDATE
		   SET total_score = EXCLUDED.total_score,
		       grade       = EXCLUDED.grade,
		       p1_score    = EXCLUDED.p1_score,
		       p2_score    = EXCLUDED.p2_score,
		       p3_score    = EXCLUDED.p3_score,
		       p4_score    = EXCLUDED.p4_score,
		       p5_score    = EXCLUDED.p5_score,
		       breakdown   = EXCLUDED.breakdown,
		       run_id      = EXCLUDED.run_id,
		       updated_at  = now()`,
		res.Date, res.TotalScore, res.Grade,
		res.PillarScore(scoring.PillarIndexHealth),
		res.PillarScore(scoring.PillarSearchVisibility),
		res.PillarScore(scoring.PillarEngagement),
		res.PillarScore(scoring.PillarContent),
		res.PillarScore(scoring.PillarTechnical),
		string(breakdown), runID,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", res.Date, err)
	}
	return nil
}

const snapshotColumns = `to_char(date, 'YYYY-MM-DD'), total_score, grade, breakdown, run_id, updated_at`

// GetSnapshot returns the snapshot for a day, or ErrNotFound.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, date time.Time) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM score_snapshots WHERE date = $1`,
		metrics.FormatDay(date),
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get snapshot %s: %w", metrics.FormatDay(date), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", metrics.FormatDay(date), err)
	}
	return snap, nil
}

// ListSnapshots returns snapshots with from <= date <= to, oldest first.
func (s *SnapshotStore) ListSnapshots(ctx context.Context, from, to time.Time) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM score_snapshots
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date`,
		metrics.FormatDay(from), metrics.FormatDay(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var (
		snap      Snapshot
		breakdown []byte
	)
	if err := row.Scan(&snap.Date, &snap.TotalScore, &snap.Grade, &breakdown, &snap.RunID, &snap.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &snap.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &snap, nil
}
