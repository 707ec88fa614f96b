package scoring

import "github.com/sitepulse/sitepulse/pkg/normalize"

// Band maps a raw value linearly over [Min, Max] onto [0, Budget] points.
type Band struct {
	Min    float64
	Max    float64
	Budget float64
}

// Value returns the unrounded points for v.
func (b Band) Value(v float64) float64 {
	return normalize.Linear(v, b.Min, b.Max) * b.Budget
}

// Points returns the rounded points for v.
func (b Band) Points(v float64) int {
	return normalize.Points(normalize.Linear(v, b.Min, b.Max), b.Budget)
}

// LogBand maps a count logarithmically onto [0, Budget] points.
type LogBand struct {
	Baseline float64
	Scale    float64
	Budget   float64
}

// Points returns the rounded points for v.
func (b LogBand) Points(v float64) int {
	return normalize.Points(normalize.Log(v, b.Baseline, b.Scale), b.Budget)
}

// DefaultWeights holds the default bands and budgets for all pillars.
type DefaultWeights struct {
	// P1: Index & crawl health
	ImpressionsTrend Band // over pct change vs trailing average
	IndexCoverage    float64
	CrawlErrors      float64

	// P2: Search visibility
	ClicksTrend     Band
	TopQueries      LogBand
	AvgPosition     Band    // over (PositionCeiling - avg position)
	PositionCeiling float64 // positions worse than this score 0

	// P3: Engagement & intent
	CTR            Band
	EngagementRate Band
	ReturningUsers Band

	// P4: Content performance
	TopPagesGrowth    Band
	ContentDepth      Band // avg engagement seconds
	ConversionQuality Band

	// P5: Technical experience
	LCP                    Band    // over (LCPCeiling - LCP ms)
	LCPCeiling             float64 // ms
	CLS                    Band    // over (CLSCeiling - CLS)
	CLSCeiling             float64
	MobileUsability        Band // performance score 0-100
	NeutralCoreWebVitals   int
	NeutralMobileUsability int
}

// Defaults returns the default scoring weights.
func Defaults() DefaultWeights {
	return DefaultWeights{
		// P1 = 250
		ImpressionsTrend: Band{Min: -0.2, Max: 0.2, Budget: 100},
		IndexCoverage:    100,
		CrawlErrors:      50,

		// P2 = 250
		ClicksTrend:     Band{Min: -0.2, Max: 0.2, Budget: 100},
		TopQueries:      LogBand{Baseline: 10, Scale: 5, Budget: 100},
		AvgPosition:     Band{Min: 0, Max: 40, Budget: 50},
		PositionCeiling: 50,

		// P3 = 200
		CTR:            Band{Min: 0.02, Max: 0.08, Budget: 80},
		EngagementRate: Band{Min: 0.3, Max: 0.7, Budget: 80},
		ReturningUsers: Band{Min: 0.1, Max: 0.4, Budget: 40},

		// P4 = 200
		TopPagesGrowth:    Band{Min: -0.1, Max: 0.1, Budget: 80},
		ContentDepth:      Band{Min: 30, Max: 120, Budget: 80},
		ConversionQuality: Band{Min: 0.01, Max: 0.05, Budget: 40},

		// P5 = 100
		LCP:                    Band{Min: 0, Max: 2000, Budget: 30},
		LCPCeiling:             4000,
		CLS:                    Band{Min: 0, Max: 0.15, Budget: 40},
		CLSCeiling:             0.25,
		MobileUsability:        Band{Min: 50, Max: 90, Budget: 30},
		NeutralCoreWebVitals:   25,
		NeutralMobileUsability: 25,
	}
}
