// Package actions derives remediation actions from a score breakdown.
package actions

import "strings"

// Severity ranks how urgently an action should be addressed.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities from most (0) to least urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Action is one remediation recommendation for a scored day.
// Its natural key is (date, Pillar, Key).
type Action struct {
	Pillar       string         `json:"pillar"`
	Key          string         `json:"key"`
	Severity     Severity       `json:"severity"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ImpactPoints int            `json:"impact_points"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// PillarLabel converts a breakdown pillar id ("p3") to the label stored on actions ("P3").
func PillarLabel(id string) string {
	return strings.ToUpper(id)
}
