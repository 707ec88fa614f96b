package actions

import "github.com/sitepulse/sitepulse/pkg/scoring"

// Rule fires when a pillar component scores below Threshold.
type Rule struct {
	Pillar       string // breakdown pillar id, e.g. "p1"
	Component    string
	Threshold    int
	Key          string
	Severity     Severity
	Title        string
	Description  string
	ImpactPoints int
}

// Fires reports whether the rule triggers for a component value.
func (r Rule) Fires(value int) bool {
	return value < r.Threshold
}

// DefaultRules returns the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		// P1: Index & crawl health
		{
			Pillar:       scoring.PillarIndexHealth,
			Component:    scoring.ComponentImpressionsTrend,
			Threshold:    40,
			Key:          "impressions_declining",
			Severity:     SeverityHigh,
			ImpactPoints: 50,
			Title:        "Impressions Declining",
			Description:  "Search impressions are well below the trailing 7-day average. Check for deindexed pages, lost rankings or seasonal drops.",
		},
		{
			Pillar:       scoring.PillarIndexHealth,
			Component:    scoring.ComponentIndexCoverage,
			Threshold:    50,
			Key:          "index_coverage_gap",
			Severity:     SeverityCritical,
			ImpactPoints: 100,
			Title:        "No Indexed Impressions",
			Description:  "No search impressions were recorded for the day. Verify the site is indexed and the search console property is connected.",
		},
		{
			Pillar:       scoring.PillarIndexHealth,
			Component:    scoring.ComponentCrawlErrors,
			Threshold:    25,
			Key:          "crawl_data_missing",
			Severity:     SeverityHigh,
			ImpactPoints: 50,
			Title:        "Crawl Data Missing",
			Description:  "Search data is missing for the day. Review robots.txt, sitemaps and crawl errors in search console.",
		},

		// P2: Search visibility
		{
			Pillar:       scoring.PillarSearchVisibility,
			Component:    scoring.ComponentClicksTrend,
			Threshold:    40,
			Key:          "clicks_declining",
			Severity:     SeverityHigh,
			ImpactPoints: 50,
			Title:        "Clicks Declining",
			Description:  "Search clicks are below the trailing 7-day average. Review titles and meta descriptions of top landing pages.",
		},
		{
			Pillar:       scoring.PillarSearchVisibility,
			Component:    scoring.ComponentTopQueries,
			Threshold:    30,
			Key:          "few_top_queries",
			Severity:     SeverityMedium,
			ImpactPoints: 40,
			Title:        "Few Top-10 Queries",
			Description:  "Few queries rank on the first results page. Strengthen content for queries ranking just outside the top 10.",
		},
		{
			Pillar:       scoring.PillarSearchVisibility,
			Component:    scoring.ComponentAvgPosition,
			Threshold:    20,
			Key:          "poor_average_position",
			Severity:     SeverityMedium,
			ImpactPoints: 30,
			Title:        "Poor Average Position",
			Description:  "The average search position is low. Improve internal linking and on-page relevance for key pages.",
		},

		// P3: Engagement & intent
		{
			Pillar:       scoring.PillarEngagement,
			Component:    scoring.ComponentCTR,
			Threshold:    30,
			Key:          "low_ctr",
			Severity:     SeverityMedium,
			ImpactPoints: 40,
			Title:        "Low Click-Through Rate",
			Description:  "Searchers see the site but rarely click. Rewrite titles and descriptions to match search intent.",
		},
		{
			Pillar:       scoring.PillarEngagement,
			Component:    scoring.ComponentEngagementRate,
			Threshold:    40,
			Key:          "low_engagement",
			Severity:     SeverityMedium,
			ImpactPoints: 40,
			Title:        "Low Engagement",
			Description:  "Most sessions end without engagement. Check that landing pages answer the query above the fold.",
		},
		{
			Pillar:       scoring.PillarEngagement,
			Component:    scoring.ComponentReturningUsers,
			Threshold:    15,
			Key:          "low_returning_users",
			Severity:     SeverityLow,
			ImpactPoints: 20,
			Title:        "Few Returning Visitors",
			Description:  "Few visitors come back. Consider newsletters, related content links or saved preferences.",
		},

		// P4: Content performance
		{
			Pillar:       scoring.PillarContent,
			Component:    scoring.ComponentTopPagesGrowth,
			Threshold:    30,
			Key:          "ranked_pages_declining",
			Severity:     SeverityMedium,
			ImpactPoints: 40,
			Title:        "Fewer Ranking Pages",
			Description:  "The number of pages receiving search impressions is shrinking. Refresh stale content and fix broken pages.",
		},
		{
			Pillar:       scoring.PillarContent,
			Component:    scoring.ComponentContentDepth,
			Threshold:    30,
			Key:          "shallow_content",
			Severity:     SeverityMedium,
			ImpactPoints: 40,
			Title:        "Shallow Content Engagement",
			Description:  "Visitors spend little time on pages. Expand thin pages and add supporting media or examples.",
		},
		{
			Pillar:       scoring.PillarContent,
			Component:    scoring.ComponentConversionQuality,
			Threshold:    15,
			Key:          "low_conversions",
			Severity:     SeverityLow,
			ImpactPoints: 20,
			Title:        "Low Conversion Rate",
			Description:  "Few sessions convert. Review calls to action and form friction on top landing pages.",
		},

		// P5: Technical experience
		{
			Pillar:       scoring.PillarTechnical,
			Component:    scoring.ComponentCoreWebVitals,
			Threshold:    35,
			Key:          "poor_core_web_vitals",
			Severity:     SeverityHigh,
			ImpactPoints: 35,
			Title:        "Poor Core Web Vitals",
			Description:  "Largest Contentful Paint or Cumulative Layout Shift is outside the recommended range. Optimize images, fonts and layout reservations.",
		},
		{
			Pillar:       scoring.PillarTechnical,
			Component:    scoring.ComponentMobileUsability,
			Threshold:    15,
			Key:          "poor_mobile_usability",
			Severity:     SeverityMedium,
			ImpactPoints: 15,
			Title:        "Poor Mobile Performance",
			Description:  "The mobile performance score is low. Reduce JavaScript payloads and render-blocking resources.",
		},
	}
}
