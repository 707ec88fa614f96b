// Package scoring implements the site health scoring engine.
// It turns daily search, analytics and performance aggregates into a 0-1000
// score split across five weighted pillars.
package scoring

import "errors"

// Pillar identifiers, in breakdown order.
const (
	PillarIndexHealth      = "p1"
	PillarSearchVisibility = "p2"
	PillarEngagement       = "p3"
	PillarContent          = "p4"
	PillarTechnical        = "p5"
)

// MaxTotalScore is the sum of every pillar's max score.
const MaxTotalScore = 1000

// RequiredPillars lists the pillar ids a complete breakdown must contain.
var RequiredPillars = []string{
	PillarIndexHealth,
	PillarSearchVisibility,
	PillarEngagement,
	PillarContent,
	PillarTechnical,
}

// ErrIncompleteBreakdown is returned when an engine is not configured with
// exactly the five required pillars.
var ErrIncompleteBreakdown = errors.New("incomplete score breakdown")

// PillarResult is the bounded sub-score of one pillar.
// Invariant: 0 <= Score <= MaxScore and Score is the sum of Components.
type PillarResult struct {
	Score      int            `json:"score"`
	MaxScore   int            `json:"max_score"`
	Components map[string]int `json:"components"`
	// Fallback marks a neutral result substituted for an unavailable optional source.
	Fallback bool `json:"fallback,omitempty"`
}

// Breakdown holds every PillarResult keyed by pillar id.
// Map keys are marshalled in sorted order, so the JSON form is deterministic.
type Breakdown map[string]PillarResult

// Total sums the pillar scores.
func (b Breakdown) Total() int {
	total := 0
	for _, p := range b {
		total += p.Score
	}
	return total
}

// Component returns a named component of a pillar.
func (b Breakdown) Component(pillar, name string) (int, bool) {
	p, ok := b[pillar]
	if !ok {
		return 0, false
	}
	v, ok := p.Components[name]
	return v, ok
}

// Result is the complete output of scoring one day.
type Result struct {
	Date       string    `json:"date"`
	TotalScore int       `json:"total_score"`
	Grade      string    `json:"grade"`
	Breakdown  Breakdown `json:"breakdown"`
}

// PillarScore returns the score of a pillar, or 0 if it is absent.
func (r *Result) PillarScore(id string) int {
	return r.Breakdown[id].Score
}

// GradeFromScore maps a total score to a letter grade.
func GradeFromScore(score int) string {
	switch {
	case score >= 850:
		return "A"
	case score >= 700:
		return "B"
	case score >= 550:
		return "C"
	case score >= 400:
		return "D"
	default:
		return "F"
	}
}
