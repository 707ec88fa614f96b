package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/sitepulse/sitepulse/pkg/actions"
)

// MarkdownRenderer renders a Report as a Markdown summary suitable for chat
// or issue trackers.
type MarkdownRenderer struct {
	// MaxActions limits the listed actions. Zero means 5.
	MaxActions int
}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("render: empty report")
	}
	_, err := io.WriteString(w, r.Summary(report))
	return err
}

// Summary builds the Markdown body.
func (r *MarkdownRenderer) Summary(report *Report) string {
	res := report.Result
	var sb strings.Builder

	fmt.Fprintf(&sb, "## SitePulse %s: Grade %s, Score %d\n\n", res.Date, res.Grade, res.TotalScore)

	sb.WriteString("| Pillar | Score | Max |\n|--------|-------|-----|\n")
	for _, id := range sortedPillars(res.Breakdown) {
		p := res.Breakdown[id]
		name := pillarName(id)
		if p.Fallback {
			name += " _(fallback)_"
		}
		fmt.Fprintf(&sb, "| %s %s | %d | %d |\n", strings.ToUpper(id), name, p.Score, p.MaxScore)
	}
	sb.WriteString("\n")

	if len(report.Actions) == 0 {
		return sb.String()
	}

	max := r.MaxActions
	if max <= 0 {
		max = 5
	}
	ranked := rankActions(report.Actions)
	sb.WriteString("### Actions\n\n")
	for i, a := range ranked {
		if i >= max {
			fmt.Fprintf(&sb, "_... and %d more actions_\n", len(ranked)-max)
			break
		}
		fmt.Fprintf(&sb, "- %s **%s** (%s, +%d): %s\n",
			severityIcon(a.Severity), a.Title, a.Pillar, a.ImpactPoints, a.Description)
	}
	return sb.String()
}

func severityIcon(sev actions.Severity) string {
	switch sev {
	case actions.SeverityCritical:
		return ":red_circle:"
	case actions.SeverityHigh:
		return ":orange_circle:"
	case actions.SeverityMedium:
		return ":yellow_circle:"
	default:
		return ":blue_circle:"
	}
}
