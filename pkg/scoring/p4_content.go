package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/normalize"
)

// Component names for P4.
const (
	ComponentTopPagesGrowth    = "topPagesGrowth"
	ComponentContentDepth      = "contentDepth"
	ComponentConversionQuality = "conversionQuality"
)

// ContentPillar (P4) measures whether content ranks, holds attention and converts.
type ContentPillar struct {
	TopPagesGrowth    Band // pct change of distinct ranked pages vs trailing average
	ContentDepth      Band // avg engagement seconds
	ConversionQuality Band
}

func (p *ContentPillar) ID() string   { return PillarContent }
func (p *ContentPillar) Name() string { return "Content performance" }
func (p *ContentPillar) MaxScore() int {
	return int(p.TopPagesGrowth.Budget + p.ContentDepth.Budget + p.ConversionQuality.Budget)
}

func (p *ContentPillar) Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error) {
	cur, err := r.DailyTotals(ctx, metrics.SourceSearch, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search totals: %w", err)
	}
	prev, err := r.TrailingAverage(ctx, metrics.SourceSearch, date, metrics.TrailingDays)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search trailing average: %w", err)
	}
	analytics, err := r.DailyTotals(ctx, metrics.SourceAnalytics, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read analytics totals: %w", err)
	}

	components := map[string]int{
		ComponentTopPagesGrowth:    p.TopPagesGrowth.Points(normalize.PctChange(cur.RankedPages, prev.RankedPages)),
		ComponentContentDepth:      p.ContentDepth.Points(analytics.AvgEngagementSeconds),
		ComponentConversionQuality: p.ConversionQuality.Points(analytics.ConversionRate),
	}
	return newPillarResult(p.MaxScore(), components), nil
}
