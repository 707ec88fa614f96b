package scoring

// DefaultPillars returns the standard five pillars with default weights.
// performanceEnabled governs whether P5 reads Core Web Vitals or falls back
// to its neutral score.
func DefaultPillars(performanceEnabled bool) []Pillar {
	w := Defaults()
	return []Pillar{
		&IndexHealthPillar{
			ImpressionsTrend: w.ImpressionsTrend,
			IndexCoverage:    w.IndexCoverage,
			CrawlErrors:      w.CrawlErrors,
		},
		&SearchVisibilityPillar{
			ClicksTrend:     w.ClicksTrend,
			TopQueries:      w.TopQueries,
			AvgPosition:     w.AvgPosition,
			PositionCeiling: w.PositionCeiling,
		},
		&EngagementPillar{
			CTR:            w.CTR,
			EngagementRate: w.EngagementRate,
			ReturningUsers: w.ReturningUsers,
		},
		&ContentPillar{
			TopPagesGrowth:    w.TopPagesGrowth,
			ContentDepth:      w.ContentDepth,
			ConversionQuality: w.ConversionQuality,
		},
		&TechnicalPillar{
			Enabled:                performanceEnabled,
			LCP:                    w.LCP,
			LCPCeiling:             w.LCPCeiling,
			CLS:                    w.CLS,
			CLSCeiling:             w.CLSCeiling,
			MobileUsability:        w.MobileUsability,
			NeutralCoreWebVitals:   w.NeutralCoreWebVitals,
			NeutralMobileUsability: w.NeutralMobileUsability,
		},
	}
}
