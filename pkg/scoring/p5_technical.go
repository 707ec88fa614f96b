package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
	"github.com/sitepulse/sitepulse/pkg/normalize"
)

// Component names for P5.
const (
	ComponentCoreWebVitals   = "coreWebVitals"
	ComponentMobileUsability = "mobileUsability"
)

// TechnicalPillar (P5) measures page experience from Core Web Vitals.
// The performance source is optional: when it is disabled, or has no rows for
// the day, the pillar reports a fixed neutral score instead of penalizing.
type TechnicalPillar struct {
	Enabled bool

	LCP             Band // over LCPCeiling - LCP ms
	LCPCeiling      float64
	CLS             Band // over CLSCeiling - CLS
	CLSCeiling      float64
	MobileUsability Band

	NeutralCoreWebVitals   int
	NeutralMobileUsability int
}

func (p *TechnicalPillar) ID() string   { return PillarTechnical }
func (p *TechnicalPillar) Name() string { return "Technical experience" }
func (p *TechnicalPillar) MaxScore() int {
	return int(p.LCP.Budget + p.CLS.Budget + p.MobileUsability.Budget)
}

func (p *TechnicalPillar) Calculate(ctx context.Context, r metrics.Reader, date time.Time) (PillarResult, error) {
	if !p.Enabled {
		return p.neutral(), nil
	}

	perf, err := r.DailyTotals(ctx, metrics.SourcePerformance, date)
	if err != nil {
		return PillarResult{}, fmt.Errorf("read performance totals: %w", err)
	}
	if perf.Empty() {
		return p.neutral(), nil
	}

	// Both vitals share one rounded component.
	vitals := p.LCP.Value(p.LCPCeiling-perf.LCPMs) + p.CLS.Value(p.CLSCeiling-perf.CLS)

	components := map[string]int{
		ComponentCoreWebVitals:   normalize.Points(vitals, 1),
		ComponentMobileUsability: p.MobileUsability.Points(perf.PerformanceScore),
	}
	return newPillarResult(p.MaxScore(), components), nil
}

func (p *TechnicalPillar) neutral() PillarResult {
	res := newPillarResult(p.MaxScore(), map[string]int{
		ComponentCoreWebVitals:   p.NeutralCoreWebVitals,
		ComponentMobileUsability: p.NeutralMobileUsability,
	})
	res.Fallback = true
	return res
}
