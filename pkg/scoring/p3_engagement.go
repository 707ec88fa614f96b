package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// Component names for P3.
const (
	ComponentCTR            = "ctr"
	ComponentEngagementRate = "engagementRate"
	ComponentReturningUsers = "returningUsers"
)

// EngagementPillar (P3) measures whether visitors find what they searched for.
type EngagementPillar struct {
	CTR            Band
	EngagementRate Band
	ReturningUsers Band
}

func (p *EngagementPillar) ID() string   { return PillarEngagement }
func (p *EngagementPillar) Name() string { return "Engagement & intent" }
func (p *EngagementPillar) MaxScore() int {
	return int(p.CTR.Budget + p.EngagementRate.Budget + p.ReturningUsers.Budget)
}

func (p *EngagementPillar) Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error) {
	search, err := r.DailyTotals(ctx, metrics.SourceSearch, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read search totals: %w", err)
	}
	analytics, err := r.DailyTotals(ctx, metrics.SourceAnalytics, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read analytics totals: %w", err)
	}

	components := map[string]int{
		ComponentCTR:            p.CTR.Points(search.CTR),
		ComponentEngagementRate: p.EngagementRate.Points(analytics.EngagementRate),
		ComponentReturningUsers: p.ReturningUsers.Points(analytics.ReturningRatio),
	}
	return newPillarResult(p.MaxScore(), components), nil
}
