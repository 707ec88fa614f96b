package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/normalize"
)

// Component names for P2.
const (
	ComponentClicksTrend = "clicksTrend"
	ComponentTopQueries  = "topQueries"
	ComponentAvgPosition = "avgPosition"
)

// SearchVisibilityPillar (P2) measures how visible the site is in search results.
type SearchVisibilityPillar struct {
	ClicksTrend     Band
	TopQueries      LogBand // count of queries ranking in the top 10
	AvgPosition     Band    // over PositionCeiling - avg position
	PositionCeiling float64
}

func (p *SearchVisibilityPillar) ID() string   { return PillarSearchVisibility }
func (p *SearchVisibilityPillar) Name() string { return "Search visibility" }
func (p *SearchVisibilityPillar) MaxScore() int {
	return int(p.ClicksTrend.Budget + p.TopQueries.Budget + p.AvgPosition.Budget)
}

func (p *SearchVisibilityPillar) Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error) {
	cur, err := r.DailyTotals(ctx, metrics.SourceSearch, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search totals: %w", err)
	}
	prev, err := r.TrailingAverage(ctx, metrics.SourceSearch, date, metrics.TrailingDays)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search trailing average: %w", err)
	}

	// No ranked queries means no position, not position zero.
	position := 0
	if cur.AvgPosition > 0 {
		position = p.AvgPosition.Points(p.PositionCeiling - cur.AvgPosition)
	}

	components := map[string]int{
		ComponentClicksTrend: p.ClicksTrend.Points(normalize.PctChange(cur.Clicks, prev.Clicks)),
		ComponentTopQueries:  p.TopQueries.Points(cur.QueriesTop10),
		ComponentAvgPosition: position,
	}
	return newPillarResult(p.MaxScore(), components), nil
}
