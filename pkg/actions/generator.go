package actions

import "github.com/sitepulse/sitepulse/pkg/scoring"

// Generator evaluates a rule table against score breakdowns.
type Generator struct {
	rules []Rule
}

// NewGenerator creates a generator for the given rules. With no rules the
// default table is used.
func NewGenerator(rules ...Rule) *Generator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Generator{rules: rules}
}

// Rules returns the rule table in evaluation order.
func (g *Generator) Rules() []Rule {
	return g.rules
}

// Generate returns one Action per fired rule, in rule order.
// Pillars that reported a fallback score never produce actions, and rules
// whose component is absent from the breakdown are skipped.
func (g *Generator) Generate(b scoring.Breakdown) []Action {
	var out []Action
	for _, r := range g.rules {
		p, ok := b[r.Pillar]
		if !ok || p.Fallback {
			continue
		}
		value, ok := p.Components[r.Component]
		if !ok || !r.Fires(value) {
			continue
		}
		out = append(out, Action{
			Pillar:       PillarLabel(r.Pillar),
			Key:          r.Key,
			Severity:     r.Severity,
			Title:        r.Title,
			Description:  r.Description,
			ImpactPoints: r.ImpactPoints,
			Metadata: map[string]any{
				"component": r.Component,
				"value":     value,
				"threshold": r.Threshold,
				"max_score": p.MaxScore,
			},
		})
	}
	return out
}

// ImpactTotal sums the impact points of a set of actions.
func ImpactTotal(list []Action) int {
	total := 0
	for _, a := range list {
		total += a.ImpactPoints
	}
	return total
}
