package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// Sources addresses the ingestion tables for one site.
type Sources struct {
	SiteID             string // search console and performance rows
	PropertyID         string // analytics rows
	PerformanceEnabled bool
}

// MetricsReader implements metrics.Reader over the daily source tables.
type MetricsReader struct {
	db  *sql.DB
	src Sources
}

var _ metrics.Reader = (*MetricsReader)(nil)

// NewMetricsReader creates a reader for the given sources.
func NewMetricsReader(db *sql.DB, src Sources) *MetricsReader {
	return &MetricsReader{db: db, src: src}
}

const searchDailyQuery = `
SELECT date,
       COALESCE(SUM(impressions), 0),
       COALESCE(SUM(clicks), 0),
       COALESCE(SUM(position * impressions) / NULLIF(SUM(impressions), 0), 0),
       COUNT(DISTINCT query),
       COUNT(DISTINCT query) FILTER (WHERE position > 0 AND position <= 10),
       COUNT(DISTINCT page) FILTER (WHERE impressions > 0),
       COUNT(*)
FROM search_console_daily
WHERE site_id = $1 AND date >= $2 AND date < $3
GROUP BY date
ORDER BY date`

const analyticsDailyQuery = `
SELECT date,
       COALESCE(SUM(sessions), 0),
       COALESCE(SUM(engaged_sessions), 0),
       COALESCE(SUM(total_users), 0),
       COALESCE(SUM(returning_users), 0),
       COALESCE(SUM(engagement_seconds), 0),
       COALESCE(SUM(conversions), 0),
       COUNT(*)
FROM analytics_daily
WHERE property_id = $1 AND date >= $2 AND date < $3
GROUP BY date
ORDER BY date`

const performanceDailyQuery = `
SELECT date,
       COALESCE(AVG(lcp_ms), 0),
       COALESCE(AVG(cls), 0),
       COALESCE(AVG(performance_score) FILTER (WHERE strategy = 'mobile'), AVG(performance_score), 0),
       COUNT(*)
FROM performance_daily
WHERE site_id = $1 AND date >= $2 AND date < $3
GROUP BY date
ORDER BY date`

// DailyTotals returns the aggregate of one source for a single day.
func (r *MetricsReader) DailyTotals(ctx context.Context, src metrics.Source, date time.Time) (metrics.Slice, error) {
	day := metrics.Day(date)
	rows, err := r.daily(ctx, src, day, day.AddDate(0, 0, 1))
	if err != nil {
		return metrics.Slice{}, err
	}
	if len(rows) == 0 {
		return metrics.Slice{}, nil
	}
	return rows[0], nil
}

// TrailingAverage returns the per-day average of one source over the days
// preceding date. Days without rows are not counted.
func (r *MetricsReader) TrailingAverage(ctx context.Context, src metrics.Source, date time.Time, days int) (metrics.Slice, error) {
	start, end := metrics.Window(date, days)
	rows, err := r.daily(ctx, src, start, end)
	if err != nil {
		return metrics.Slice{}, err
	}
	return metrics.Average(rows), nil
}

// daily returns one slice per day with data in [start, end).
func (r *MetricsReader) daily(ctx context.Context, src metrics.Source, start, end time.Time) ([]metrics.Slice, error) {
	switch src {
	case metrics.SourceSearch:
		if r.src.SiteID == "" {
			return nil, fmt.Errorf("search source: site id: %w", metrics.ErrSourceNotConfigured)
		}
		return r.queryDaily(ctx, src, searchDailyQuery, r.src.SiteID, start, end, scanSearch)
	case metrics.SourceAnalytics:
		if r.src.PropertyID == "" {
			return nil, fmt.Errorf("analytics source: property id: %w", metrics.ErrSourceNotConfigured)
		}
		return r.queryDaily(ctx, src, analyticsDailyQuery, r.src.PropertyID, start, end, scanAnalytics)
	case metrics.SourcePerformance:
		// Optional source: no rows rather than an error.
		if !r.src.PerformanceEnabled || r.src.SiteID == "" {
			return nil, nil
		}
		return r.queryDaily(ctx, src, performanceDailyQuery, r.src.SiteID, start, end, scanPerformance)
	default:
		return nil, fmt.Errorf("unknown metrics source %q", src)
	}
}

type scanFunc func(rows *sql.Rows) (metrics.Slice, error)

func (r *MetricsReader) queryDaily(ctx context.Context, src metrics.Source, query, id string, start, end time.Time, scan scanFunc) ([]metrics.Slice, error) {
	rows, err := r.db.QueryContext(ctx, query, id, start, end)
	if err != nil {
		return nil, fmt.Errorf("query %s daily: %w", src, err)
	}
	defer rows.Close()

	var out []metrics.Slice
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s daily: %w", src, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s daily: %w", src, err)
	}
	return out, nil
}

// searchRow is one day of aggregated search console data.
type searchRow struct {
	impressions  float64
	clicks       float64
	avgPosition  float64
	queries      float64
	queriesTop10 float64
	rankedPages  float64
	rows         int
}

func scanSearch(rows *sql.Rows) (metrics.Slice, error) {
	var (
		day time.Time
		r   searchRow
	)
	if err := rows.Scan(&day, &r.impressions, &r.clicks, &r.avgPosition, &r.queries, &r.queriesTop10, &r.rankedPages, &r.rows); err != nil {
		return metrics.Slice{}, err
	}
	return r.slice(), nil
}

func (r searchRow) slice() metrics.Slice {
	return metrics.Slice{
		Impressions:  r.impressions,
		Clicks:       r.clicks,
		CTR:          ratio(r.clicks, r.impressions),
		AvgPosition:  r.avgPosition,
		Queries:      r.queries,
		QueriesTop10: r.queriesTop10,
		RankedPages:  r.rankedPages,
		Rows:         r.rows,
	}
}

// analyticsRow is one day of aggregated analytics data.
type analyticsRow struct {
	sessions          float64
	engagedSessions   float64
	totalUsers        float64
	returningUsers    float64
	engagementSeconds float64
	conversions       float64
	rows              int
}

func scanAnalytics(rows *sql.Rows) (metrics.Slice, error) {
	var (
		day time.Time
		r   analyticsRow
	)
	if err := rows.Scan(&day, &r.sessions, &r.engagedSessions, &r.totalUsers, &r.returningUsers, &r.engagementSeconds, &r.conversions, &r.rows); err != nil {
		return metrics.Slice{}, err
	}
	return r.slice(), nil
}

func (r analyticsRow) slice() metrics.Slice {
	return metrics.Slice{
		Sessions:             r.sessions,
		EngagementRate:       ratio(r.engagedSessions, r.sessions),
		ReturningRatio:       ratio(r.returningUsers, r.totalUsers),
		AvgEngagementSeconds: ratio(r.engagementSeconds, r.sessions),
		Conversions:          r.conversions,
		ConversionRate:       ratio(r.conversions, r.sessions),
		Rows:                 r.rows,
	}
}

func scanPerformance(rows *sql.Rows) (metrics.Slice, error) {
	var (
		day time.Time
		s   metrics.Slice
	)
	if err := rows.Scan(&day, &s.LCPMs, &s.CLS, &s.PerformanceScore, &s.Rows); err != nil {
		return metrics.Slice{}, err
	}
	return s, nil
}

// ratio divides, treating an empty denominator as a zero metric.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
