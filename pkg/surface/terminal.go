package surface

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func gradeColor(grade string) string {
	if noColor() {
		return ""
	}
	switch grade {
	case "A", "B":
		return colorGreen
	case "C":
		return colorYellow
	case "D", "F":
		return colorRed
	default:
		return ""
	}
}

func severityColor(sev actions.Severity) string {
	switch sev {
	case actions.SeverityCritical, actions.SeverityHigh:
		return colorRed
	case actions.SeverityMedium:
		return colorYellow
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("render: empty report")
	}
	res := report.Result
	gc := gradeColor(res.Grade)

	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("SitePulse %s: Grade %s, Score %d/%d",
			res.Date, colored(res.Grade, gc), res.TotalScore, scoring.MaxTotalScore)))

	fmt.Fprintln(w, "Pillars:")
	for _, id := range sortedPillars(res.Breakdown) {
		p := res.Breakdown[id]
		line := fmt.Sprintf("  %s  %-22s %4d/%d", strings.ToUpper(id), pillarName(id), p.Score, p.MaxScore)
		if p.Fallback {
			line += " " + dim("(neutral, source unavailable)")
		}
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "        %s\n", dim(formatComponents(p.Components)))
	}
	fmt.Fprintln(w)

	if len(report.Actions) == 0 {
		fmt.Fprintln(w, "No actions.")
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintln(w, "Actions:")
	for _, a := range rankActions(report.Actions) {
		fmt.Fprintf(w, "  %s %s %s (+%d)\n",
			colored(fmt.Sprintf("[%s]", a.Severity), severityColor(a.Severity)),
			a.Pillar, bold(a.Title), a.ImpactPoints)
		if a.Description != "" {
			for _, line := range wrapText(a.Description, 70) {
				fmt.Fprintf(w, "      %s\n", dim(line))
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}

func sortedPillars(b scoring.Breakdown) []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func formatComponents(c map[string]int) string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%d", n, c[n])
	}
	return strings.Join(parts, " ")
}

// rankActions orders actions by severity, then by impact.
func rankActions(list []actions.Action) []actions.Action {
	out := append([]actions.Action(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() < out[j].Severity.Rank()
		}
		return out[i].ImpactPoints > out[j].ImpactPoints
	})
	return out
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
