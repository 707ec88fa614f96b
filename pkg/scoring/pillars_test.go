package scoring_test

import (
	"context"
	"testing"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

func pillar(t *testing.T, id string, performanceEnabled bool) scoring.Pillar {
	t.Helper()
	for _, p := range scoring.DefaultPillars(performanceEnabled) {
		if p.ID() == id {
			return p
		}
	}
	t.Fatalf("no pillar %s", id)
	return nil
}

func TestIndexHealthPillar(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		trailing  float64
		wantTrend int
		wantCover int
		wantCrawl int
		wantScore int
	}{
		{name: "growing impressions", current: 120, trailing: 100, wantTrend: 100, wantCover: 100, wantCrawl: 50, wantScore: 250},
		{name: "flat impressions", current: 100, trailing: 100, wantTrend: 50, wantCover: 100, wantCrawl: 50, wantScore: 200},
		{name: "halved impressions", current: 50, trailing: 100, wantTrend: 0, wantCover: 100, wantCrawl: 50, wantScore: 150},
		{name: "no data at all", current: 0, trailing: 0, wantTrend: 50, wantCover: 0, wantCrawl: 0, wantScore: 50},
		{name: "first day of data", current: 10, trailing: 0, wantTrend: 100, wantCover: 100, wantCrawl: 50, wantScore: 250},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := metrics.NewFixtureReader()
			if tc.current > 0 {
				r.Set(metrics.SourceSearch, scoredDay, metrics.Slice{Impressions: tc.current})
			}
			if tc.trailing > 0 {
				r.Set(metrics.SourceSearch, scoredDay.AddDate(0, 0, -1), metrics.Slice{Impressions: tc.trailing})
			}

			res, err := pillar(t, scoring.PillarIndexHealth, false).Calculate(context.Background(), r, scoredDay)
			if err != nil {
				t.Fatalf("Calculate() error: %v", err)
			}
			if got := res.Components[scoring.ComponentImpressionsTrend]; got != tc.wantTrend {
				t.Errorf("impressionsTrend = %d, want %d", got, tc.wantTrend)
			}
			if got := res.Components[scoring.ComponentIndexCoverage]; got != tc.wantCover {
				t.Errorf("indexCoverage = %d, want %d", got, tc.wantCover)
			}
			if got := res.Components[scoring.ComponentCrawlErrors]; got != tc.wantCrawl {
				t.Errorf("crawlErrors = %d, want %d", got, tc.wantCrawl)
			}
			if res.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", res.Score, tc.wantScore)
			}
			if res.MaxScore != 250 {
				t.Errorf("MaxScore = %d, want 250", res.MaxScore)
			}
		})
	}
}

func TestSearchVisibilityPillarPosition(t *testing.T) {
	tests := []struct {
		position float64
		want     int
	}{
		{position: 0, want: 0},
		{position: 1, want: 50},
		{position: 10, want: 50},
		{position: 30, want: 25},
		{position: 50, want: 0},
		{position: 80, want: 0},
	}

	for _, tc := range tests {
		r := metrics.NewFixtureReader()
		r.Set(metrics.SourceSearch, scoredDay, metrics.Slice{AvgPosition: tc.position})

		res, err := pillar(t, scoring.PillarSearchVisibility, false).Calculate(context.Background(), r, scoredDay)
		if err != nil {
			t.Fatalf("Calculate() error: %v", err)
		}
		if got := res.Components[scoring.ComponentAvgPosition]; got != tc.want {
			t.Errorf("avgPosition(%v) = %d, want %d", tc.position, got, tc.want)
		}
	}
}

func TestEngagementPillarLowEngagement(t *testing.T) {
	r := metrics.NewFixtureReader()
	r.Set(metrics.SourceSearch, scoredDay, metrics.Slice{CTR: 0.08})
	r.Set(metrics.SourceAnalytics, scoredDay, metrics.Slice{EngagementRate: 0.3, ReturningRatio: 0.4})

	res, err := pillar(t, scoring.PillarEngagement, false).Calculate(context.Background(), r, scoredDay)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}

	want := map[string]int{
		scoring.ComponentCTR:            80,
		scoring.ComponentEngagementRate: 0,
		scoring.ComponentReturningUsers: 40,
	}
	for name, v := range want {
		if res.Components[name] != v {
			t.Errorf("%s = %d, want %d", name, res.Components[name], v)
		}
	}
	if res.Score != 120 {
		t.Errorf("Score = %d, want 120", res.Score)
	}
}

func TestTechnicalPillarFallback(t *testing.T) {
	perf := metrics.Slice{LCPMs: 6000, CLS: 0.5, PerformanceScore: 10}

	tests := []struct {
		name      string
		enabled   bool
		withRows  bool
		fallback  bool
		wantScore int
	}{
		{name: "disabled ignores data", enabled: false, withRows: true, fallback: true, wantScore: 50},
		{name: "disabled without data", enabled: false, withRows: false, fallback: true, wantScore: 50},
		{name: "enabled without rows", enabled: true, withRows: false, fallback: true, wantScore: 50},
		{name: "enabled with poor vitals", enabled: true, withRows: true, fallback: false, wantScore: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := metrics.NewFixtureReader()
			if tc.withRows {
				r.Set(metrics.SourcePerformance, scoredDay, perf)
			}

			res, err := pillar(t, scoring.PillarTechnical, tc.enabled).Calculate(context.Background(), r, scoredDay)
			if err != nil {
				t.Fatalf("Calculate() error: %v", err)
			}
			if res.Fallback != tc.fallback {
				t.Errorf("Fallback = %v, want %v", res.Fallback, tc.fallback)
			}
			if res.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", res.Score, tc.wantScore)
			}
			if tc.fallback {
				if res.Components[scoring.ComponentCoreWebVitals] != 25 || res.Components[scoring.ComponentMobileUsability] != 25 {
					t.Errorf("fallback components = %v, want 25/25", res.Components)
				}
			}
		})
	}
}

func TestTechnicalPillarSourceError(t *testing.T) {
	r := metrics.NewFixtureReader()
	r.Fail(metrics.SourcePerformance, metrics.ErrSourceNotConfigured)

	if _, err := pillar(t, scoring.PillarTechnical, true).Calculate(context.Background(), r, scoredDay); err == nil {
		t.Error("expected error from failing performance source")
	}
}

func TestDefaultPillarsBudgets(t *testing.T) {
	want := map[string]int{
		scoring.PillarIndexHealth:      250,
		scoring.PillarSearchVisibility: 250,
		scoring.PillarEngagement:       200,
		scoring.PillarContent:          200,
		scoring.PillarTechnical:        100,
	}
	for _, p := range scoring.DefaultPillars(true) {
		if p.MaxScore() != want[p.ID()] {
			t.Errorf("%s MaxScore = %d, want %d", p.ID(), p.MaxScore(), want[p.ID()])
		}
		if p.Name() == "" {
			t.Errorf("%s has empty name", p.ID())
		}
	}
}
