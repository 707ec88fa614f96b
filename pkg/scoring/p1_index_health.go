package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/normalize"
)

// Component names for P1.
const (
	ComponentImpressionsTrend = "impressionsTrend"
	ComponentIndexCoverage    = "indexCoverage"
	ComponentCrawlErrors      = "crawlErrors"
)

// IndexHealthPillar (P1) measures whether the site is indexed and crawled.
// Absence of search data is treated as a coverage and crawl problem.
type IndexHealthPillar struct {
	ImpressionsTrend Band    // pct change of impressions vs trailing average
	IndexCoverage    float64 // points when any impressions were recorded
	CrawlErrors      float64 // points when search data is present
}

func (p *IndexHealthPillar) ID() string   { return PillarIndexHealth }
func (p *IndexHealthPillar) Name() string { return "Index & crawl health" }
func (p *IndexHealthPillar) MaxScore() int {
	return int(p.ImpressionsTrend.Budget + p.IndexCoverage + p.CrawlErrors)
}

func (p *IndexHealthPillar) Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error) {
	cur, err := r.DailyTotals(ctx, metrics.SourceSearch, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search totals: %w", err)
	}
	prev, err := r.TrailingAverage(ctx, metrics.SourceSearch, date, metrics.TrailingDays)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search trailing average: %w", err)
	}

	hasData := cur.Impressions > 0

	components := map[string]int{
		ComponentImpressionsTrend: p.ImpressionsTrend.Points(normalize.PctChange(cur.Impressions, prev.Impressions)),
		ComponentIndexCoverage:    binaryPoints(hasData, p.IndexCoverage),
		ComponentCrawlErrors:      binaryPoints(hasData, p.CrawlErrors),
	}
	return newPillarResult(p.MaxScore(), components), nil
}

func binaryPoints(ok bool, budget float64) int {
	if !ok {
		return 0
	}
	return normalize.Points(1, budget)
}

// newPillarResult sums already-rounded components and bounds the total.
func newPillarResult(maxScore int, components map[string]int) PillarResult {
	score := 0
	for _, v := range components {
		score += v
	}
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return PillarResult{Score: score, MaxScore: maxScore, Components: components}
}
