// Package metrics defines the read-only contract between the scoring engine and the
// daily aggregates produced by the ingestion pipelines.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source identifies which ingestion pipeline a slice of metrics comes from.
type Source string

const (
	SourceSearch      Source = "search"
	SourceAnalytics   Source = "analytics"
	SourcePerformance Source = "performance"
)

// TrailingDays is the trailing window used for trend comparisons.
const TrailingDays = 7

// ErrSourceNotConfigured is returned when the identifier required to address a
// source (site or analytics property) is absent. It is fatal for the run.
var ErrSourceNotConfigured = errors.New("metrics source not configured")

// Slice is a per-day (or per-day averaged) aggregate for one source.
// Fields not produced by a source are left at zero.
type Slice struct {
	// search
	Impressions  float64 `json:"impressions,omitempty"`
	Clicks       float64 `json:"clicks,omitempty"`
	CTR          float64 `json:"ctr,omitempty"`
	AvgPosition  float64 `json:"avg_position,omitempty"`
	Queries      float64 `json:"queries,omitempty"`
	QueriesTop10 float64 `json:"queries_top10,omitempty"`
	RankedPages  float64 `json:"ranked_pages,omitempty"`

	// analytics
	Sessions             float64 `json:"sessions,omitempty"`
	EngagementRate       float64 `json:"engagement_rate,omitempty"`
	ReturningRatio       float64 `json:"returning_ratio,omitempty"`
	AvgEngagementSeconds float64 `json:"avg_engagement_seconds,omitempty"`
	Conversions          float64 `json:"conversions,omitempty"`
	ConversionRate       float64 `json:"conversion_rate,omitempty"`

	// performance
	LCPMs            float64 `json:"lcp_ms,omitempty"`
	CLS              float64 `json:"cls,omitempty"`
	PerformanceScore float64 `json:"performance_score,omitempty"`

	// Rows is the number of source rows behind the aggregate. Zero means no data.
	Rows int `json:"rows,omitempty"`
}

// Empty reports whether no source rows back the slice.
func (s Slice) Empty() bool { return s.Rows == 0 }

// Reader reads daily aggregates. Implementations resolve the source identifier
// (site, analytics property) from their own configuration.
type Reader interface {
	// DailyTotals returns the aggregate for a single day.
	DailyTotals(ctx context.Context, src Source, date time.Time) (Slice, error)
	// TrailingAverage returns the per-day average over the days preceding date,
	// excluding date itself. Days without data are not counted.
	TrailingAverage(ctx context.Context, src Source, date time.Time, days int) (Slice, error)
}

// DayLayout is the canonical textual form of a scoring date.
const DayLayout = "2006-01-02"

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDay renders the UTC day of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayLayout)
}

// Window returns the half-open range [start, end) of the days preceding date.
func Window(date time.Time, days int) (start, end time.Time) {
	end = Day(date)
	start = end.AddDate(0, 0, -days)
	return start, end
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Yesterday is the default scoring date: the last complete UTC day.
func Yesterday(c Clock) time.Time {
	return Day(c.Now()).AddDate(0, 0, -1)
}
