package scoring

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// Pillar is the interface that all pillar calculators implement.
// Calculators hold no mutable state and may run concurrently.
type Pillar interface {
	// ID returns the pillar identifier ("p1".."p5").
	ID() string
	// Name returns the human-readable pillar name.
	Name() string
	// MaxScore returns the upper bound of the pillar score.
	MaxScore() int
	// Calculate reads the pillar's metrics for date and scores them.
	Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error)
}

// Engine runs all configured pillars for a date and produces a Result.
type Engine struct {
	pillars []Pillar

	// Parallel fans pillar calculation out across goroutines.
	// The result is identical either way.
	Parallel bool
}

// NewEngine creates a scoring engine with the given pillars.
func NewEngine(pillars ...Pillar) *Engine {
	return &Engine{pillars: pillars}
}

// Pillars returns the configured pillars in order.
func (e *Engine) Pillars() []Pillar {
	return e.pillars
}

// Validate checks that the engine holds exactly the required pillars and that
// their max scores add up to MaxTotalScore.
func (e *Engine) Validate() error {
	seen := make(map[string]bool, len(e.pillars))
	maxTotal := 0
	for _, p := range e.pillars {
		if seen[p.ID()] {
			return fmt.Errorf("%w: duplicate pillar %s", ErrIncompleteBreakdown, p.ID())
		}
		seen[p.ID()] = true
		maxTotal += p.MaxScore()
	}
	for _, id := range RequiredPillars {
		if !seen[id] {
			return fmt.Errorf("%w: missing pillar %s", ErrIncompleteBreakdown, id)
		}
	}
	if len(e.pillars) != len(RequiredPillars) {
		return fmt.Errorf("%w: expected %d pillars, got %d", ErrIncompleteBreakdown, len(RequiredPillars), len(e.pillars))
	}
	if maxTotal != MaxTotalScore {
		return fmt.Errorf("%w: pillar max scores sum to %d, want %d", ErrIncompleteBreakdown, maxTotal, MaxTotalScore)
	}
	return nil
}

// Score evaluates every pillar for date and produces a complete Result.
// A failure in any pillar aborts the whole run.
func (e *Engine) Score(ctx context.Context, r metrics.Reader, date time.Time) (*Result, error) {
	if r == nil {
		return nil, fmt.Errorf("metrics reader is nil")
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	day := metrics.Day(date)
	results := make([]PillarResult, len(e.pillars))

	if e.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range e.pillars {
			g.Go(func() error {
				res, err := p.Calculate(gctx, r, day)
				if err != nil {
					return fmt.Errorf("pillar %s: %w", p.ID(), err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, p := range e.pillars {
			res, err := p.Calculate(ctx, r, day)
			if err != nil {
				return nil, fmt.Errorf("pillar %s: %w", p.ID(), err)
			}
			results[i] = res
		}
	}

	result := &Result{
		Date:      metrics.FormatDay(day),
		Breakdown: make(Breakdown, len(e.pillars)),
	}
	for i, p := range e.pillars {
		result.Breakdown[p.ID()] = results[i]
	}
	result.TotalScore = result.Breakdown.Total()
	result.Grade = GradeFromScore(result.TotalScore)

	return result, nil
}
