package actions_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// healthyBreakdown has every component above every default threshold.
func healthyBreakdown() scoring.Breakdown {
	return scoring.Breakdown{
		scoring.PillarIndexHealth: {Score: 250, MaxScore: 250, Components: map[string]int{
			scoring.ComponentImpressionsTrend: 100,
			scoring.ComponentIndexCoverage:    100,
			scoring.ComponentCrawlErrors:      50,
		}},
		scoring.PillarSearchVisibility: {Score: 250, MaxScore: 250, Components: map[string]int{
			scoring.ComponentClicksTrend: 100,
			scoring.ComponentTopQueries:  100,
			scoring.ComponentAvgPosition: 50,
		}},
		scoring.PillarEngagement: {Score: 200, MaxScore: 200, Components: map[string]int{
			scoring.ComponentCTR:            80,
			scoring.ComponentEngagementRate: 80,
			scoring.ComponentReturningUsers: 40,
		}},
		scoring.PillarContent: {Score: 200, MaxScore: 200, Components: map[string]int{
			scoring.ComponentTopPagesGrowth:    80,
			scoring.ComponentContentDepth:      80,
			scoring.ComponentConversionQuality: 40,
		}},
		scoring.PillarTechnical: {Score: 100, MaxScore: 100, Components: map[string]int{
			scoring.ComponentCoreWebVitals:   70,
			scoring.ComponentMobileUsability: 30,
		}},
	}
}

func setComponent(b scoring.Breakdown, pillar, name string, v int) {
	p := b[pillar]
	p.Components[name] = v
	b[pillar] = p
}

func TestGenerateHealthy(t *testing.T) {
	got := actions.NewGenerator().Generate(healthyBreakdown())
	if len(got) != 0 {
		t.Errorf("expected no actions, got %d: %+v", len(got), got)
	}
}

func TestGenerateLowEngagement(t *testing.T) {
	b := healthyBreakdown()
	setComponent(b, scoring.PillarEngagement, scoring.ComponentEngagementRate, 39)

	got := actions.NewGenerator().Generate(b)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 action, got %d: %+v", len(got), got)
	}

	a := got[0]
	if a.Pillar != "P3" {
		t.Errorf("Pillar = %s, want P3", a.Pillar)
	}
	if a.Key != "low_engagement" {
		t.Errorf("Key = %s, want low_engagement", a.Key)
	}
	if a.Severity != actions.SeverityMedium {
		t.Errorf("Severity = %s, want medium", a.Severity)
	}
	if a.ImpactPoints != 40 {
		t.Errorf("ImpactPoints = %d, want 40", a.ImpactPoints)
	}

	wantMeta := map[string]any{
		"component": scoring.ComponentEngagementRate,
		"value":     39,
		"threshold": 40,
		"max_score": 200,
	}
	if !reflect.DeepEqual(a.Metadata, wantMeta) {
		t.Errorf("Metadata = %v, want %v", a.Metadata, wantMeta)
	}
}

func TestGenerateThresholdIsStrict(t *testing.T) {
	b := healthyBreakdown()
	setComponent(b, scoring.PillarEngagement, scoring.ComponentEngagementRate, 40)

	if got := actions.NewGenerator().Generate(b); len(got) != 0 {
		t.Errorf("component equal to threshold should not fire, got %+v", got)
	}
}

func TestGenerateMultipleRulesSamePillar(t *testing.T) {
	b := healthyBreakdown()
	setComponent(b, scoring.PillarIndexHealth, scoring.ComponentImpressionsTrend, 50)
	setComponent(b, scoring.PillarIndexHealth, scoring.ComponentIndexCoverage, 0)
	setComponent(b, scoring.PillarIndexHealth, scoring.ComponentCrawlErrors, 0)

	got := actions.NewGenerator().Generate(b)

	var keys []string
	for _, a := range got {
		keys = append(keys, a.Key)
	}
	want := []string{"index_coverage_gap", "crawl_data_missing"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if got[0].Severity != actions.SeverityCritical {
		t.Errorf("index_coverage_gap severity = %s, want critical", got[0].Severity)
	}
}

func TestGenerateSkipsFallbackPillar(t *testing.T) {
	b := healthyBreakdown()
	b[scoring.PillarTechnical] = scoring.PillarResult{
		Score:    50,
		MaxScore: 100,
		Components: map[string]int{
			scoring.ComponentCoreWebVitals:   25,
			scoring.ComponentMobileUsability: 25,
		},
		Fallback: true,
	}

	if got := actions.NewGenerator().Generate(b); len(got) != 0 {
		t.Errorf("fallback pillar produced actions: %+v", got)
	}

	// Same components measured for real do fire.
	p := b[scoring.PillarTechnical]
	p.Fallback = false
	b[scoring.PillarTechnical] = p

	got := actions.NewGenerator().Generate(b)
	if len(got) != 1 || got[0].Key != "poor_core_web_vitals" {
		t.Errorf("expected poor_core_web_vitals, got %+v", got)
	}
}

func TestGenerateMissingPillar(t *testing.T) {
	b := healthyBreakdown()
	delete(b, scoring.PillarContent)

	if got := actions.NewGenerator().Generate(b); len(got) != 0 {
		t.Errorf("missing pillar produced actions: %+v", got)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	b := healthyBreakdown()
	setComponent(b, scoring.PillarSearchVisibility, scoring.ComponentClicksTrend, 0)
	setComponent(b, scoring.PillarContent, scoring.ComponentContentDepth, 10)
	setComponent(b, scoring.PillarTechnical, scoring.ComponentMobileUsability, 0)

	g := actions.NewGenerator()
	first, err := json.Marshal(g.Generate(b))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(g.Generate(b))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("re-run differs:\n%s\n%s", first, second)
	}
}

func TestGenerateCustomRules(t *testing.T) {
	rule := actions.Rule{
		Pillar:       scoring.PillarTechnical,
		Component:    scoring.ComponentCoreWebVitals,
		Threshold:    100,
		Key:          "vitals_not_perfect",
		Severity:     actions.SeverityLow,
		ImpactPoints: 1,
	}

	got := actions.NewGenerator(rule).Generate(healthyBreakdown())
	if len(got) != 1 || got[0].Key != "vitals_not_perfect" || got[0].Pillar != "P5" {
		t.Errorf("unexpected actions: %+v", got)
	}
}

func TestDefaultRulesWellFormed(t *testing.T) {
	budgets := map[string]int{}
	for _, p := range scoring.DefaultPillars(true) {
		budgets[p.ID()] = p.MaxScore()
	}

	seen := map[string]bool{}
	for _, r := range actions.DefaultRules() {
		id := r.Pillar + "/" + r.Key
		if seen[id] {
			t.Errorf("duplicate rule %s", id)
		}
		seen[id] = true

		if _, ok := budgets[r.Pillar]; !ok {
			t.Errorf("rule %s references unknown pillar", id)
		}
		if r.Title == "" || r.Description == "" {
			t.Errorf("rule %s missing title or description", id)
		}
		if r.ImpactPoints <= 0 || r.ImpactPoints > budgets[r.Pillar] {
			t.Errorf("rule %s impact %d outside (0, %d]", id, r.ImpactPoints, budgets[r.Pillar])
		}
	}
}

func TestSeverityRank(t *testing.T) {
	order := []actions.Severity{
		actions.SeverityCritical, actions.SeverityHigh, actions.SeverityMedium, actions.SeverityLow,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}

func TestImpactTotal(t *testing.T) {
	list := []actions.Action{{ImpactPoints: 50}, {ImpactPoints: 40}, {ImpactPoints: 15}}
	if got := actions.ImpactTotal(list); got != 105 {
		t.Errorf("ImpactTotal = %d, want 105", got)
	}
}
