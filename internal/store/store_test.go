package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/metrics"
)

func TestSearchRowSlice(t *testing.T) {
	r := searchRow{impressions: 2000, clicks: 50, avgPosition: 12.5, queries: 40, queriesTop10: 8, rankedPages: 15, rows: 120}
	got := r.slice()

	want := metrics.Slice{
		Impressions:  2000,
		Clicks:       50,
		CTR:          0.025,
		AvgPosition:  12.5,
		Queries:      40,
		QueriesTop10: 8,
		RankedPages:  15,
		Rows:         120,
	}
	if got != want {
		t.Errorf("slice() = %+v, want %+v", got, want)
	}
}

func TestSearchRowNoImpressions(t *testing.T) {
	got := searchRow{clicks: 3, rows: 1}.slice()
	if got.CTR != 0 {
		t.Errorf("CTR = %v, want 0 with no impressions", got.CTR)
	}
}

func TestAnalyticsRowSlice(t *testing.T) {
	r := analyticsRow{
		sessions:          400,
		engagedSessions:   200,
		totalUsers:        300,
		returningUsers:    75,
		engagementSeconds: 30000,
		conversions:       12,
		rows:              25,
	}
	got := r.slice()

	if got.EngagementRate != 0.5 {
		t.Errorf("EngagementRate = %v, want 0.5", got.EngagementRate)
	}
	if got.ReturningRatio != 0.25 {
		t.Errorf("ReturningRatio = %v, want 0.25", got.ReturningRatio)
	}
	if got.AvgEngagementSeconds != 75 {
		t.Errorf("AvgEngagementSeconds = %v, want 75", got.AvgEngagementSeconds)
	}
	if got.ConversionRate != 0.03 {
		t.Errorf("ConversionRate = %v, want 0.03", got.ConversionRate)
	}
	if got.Rows != 25 {
		t.Errorf("Rows = %d, want 25", got.Rows)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		num, den, want float64
	}{
		{1, 4, 0.25},
		{5, 0, 0},
		{5, -1, 0},
		{0, 10, 0},
	}
	for _, tt := range tests {
		if got := ratio(tt.num, tt.den); got != tt.want {
			t.Errorf("ratio(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestMetricsReaderNotConfigured(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	r := NewMetricsReader(nil, Sources{})

	if _, err := r.DailyTotals(ctx, metrics.SourceSearch, day); !errors.Is(err, metrics.ErrSourceNotConfigured) {
		t.Errorf("search: err = %v, want ErrSourceNotConfigured", err)
	}
	if _, err := r.TrailingAverage(ctx, metrics.SourceAnalytics, day, 7); !errors.Is(err, metrics.ErrSourceNotConfigured) {
		t.Errorf("analytics: err = %v, want ErrSourceNotConfigured", err)
	}

	// The performance source is optional and reads as empty.
	s, err := r.DailyTotals(ctx, metrics.SourcePerformance, day)
	if err != nil {
		t.Fatalf("performance: unexpected error %v", err)
	}
	if !s.Empty() {
		t.Errorf("performance: expected empty slice, got %+v", s)
	}

	if _, err := r.DailyTotals(ctx, metrics.Source("ads"), day); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestActionIDs(t *testing.T) {
	got := actionIDs([]actions.Action{{Pillar: "P1", Key: "index_coverage_gap"}, {Pillar: "P3", Key: "low_ctr"}})
	want := []string{"P1/index_coverage_gap", "P3/low_ctr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("actionIDs = %v, want %v", got, want)
	}
	if ids := actionIDs(nil); ids == nil || len(ids) != 0 {
		t.Errorf("actionIDs(nil) = %#v, want empty non-nil slice", ids)
	}
}
