package surface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/scoring"
	"github.com/sitepulse/sitepulse/pkg/surface"
)

func sampleReport() *surface.Report {
	return &surface.Report{
		Result: &scoring.Result{
			Date:       "2024-05-08",
			TotalScore: 688,
			Grade:      "C",
			Breakdown: scoring.Breakdown{
				"p1": {Score: 250, MaxScore: 250, Components: map[string]int{"crawlErrors": 50, "impressionsTrend": 100, "indexCoverage": 100}},
				"p2": {Score: 188, MaxScore: 250, Components: map[string]int{"avgPosition": 38, "clicksTrend": 50, "topQueries": 100}},
				"p3": {Score: 60, MaxScore: 200, Components: map[string]int{"ctr": 40, "engagementRate": 0, "returningUsers": 20}},
				"p4": {Score: 100, MaxScore: 200, Components: map[string]int{"contentDepth": 40, "conversionQuality": 20, "topPagesGrowth": 40}},
				"p5": {Score: 50, MaxScore: 100, Components: map[string]int{"coreWebVitals": 25, "mobileUsability": 25}, Fallback: true},
			},
		},
		Actions: []actions.Action{
			{Pillar: "P3", Key: "low_engagement", Severity: actions.SeverityMedium, Title: "Improve on-page engagement", Description: "Fewer than half of sessions are engaged.", ImpactPoints: 40},
			{Pillar: "P2", Key: "weak_rankings", Severity: actions.SeverityHigh, Title: "Lift average ranking position", Description: "Pages rank outside the first page for most queries.", ImpactPoints: 60},
		},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	t.Setenv("NO_COLOR", "1")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Grade C, Score 688/1000") {
		t.Errorf("expected header with grade and score, got:\n%s", output)
	}
	if !strings.Contains(output, "P1  Index & crawl health") {
		t.Error("expected P1 pillar line")
	}
	if !strings.Contains(output, "avgPosition=38 clicksTrend=50 topQueries=100") {
		t.Error("expected sorted P2 components")
	}
	if !strings.Contains(output, "(neutral, source unavailable)") {
		t.Error("expected fallback marker on P5")
	}
	if strings.Contains(output, "\033[") {
		t.Error("expected no ANSI codes with NO_COLOR set")
	}

	high := strings.Index(output, "Lift average ranking position")
	medium := strings.Index(output, "Improve on-page engagement")
	if high < 0 || medium < 0 || high > medium {
		t.Errorf("expected high severity action before medium, got:\n%s", output)
	}
	if !strings.Contains(output, "[high] P2") || !strings.Contains(output, "(+60)") {
		t.Error("expected severity, pillar and impact on action line")
	}
}

func TestTerminalRenderer_NoActions(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	rep := sampleReport()
	rep.Actions = nil

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, rep); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No actions") {
		t.Error("expected 'No actions' message")
	}
}

func TestTerminalRenderer_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, &surface.Report{}); err == nil {
		t.Error("expected error for report without result")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	if v, ok := os.LookupEnv("NO_COLOR"); ok {
		os.Unsetenv("NO_COLOR")
		t.Cleanup(func() { os.Setenv("NO_COLOR", v) })
	}

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r := &surface.MarkdownRenderer{MaxActions: 1}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	output := buf.String()

	if !strings.HasPrefix(output, "## SitePulse 2024-05-08: Grade C, Score 688\n") {
		t.Errorf("unexpected heading:\n%s", output)
	}
	if !strings.Contains(output, "| P5 Technical experience _(fallback)_ | 50 | 100 |") {
		t.Errorf("expected P5 fallback row:\n%s", output)
	}
	if !strings.Contains(output, ":orange_circle: **Lift average ranking position** (P2, +60)") {
		t.Errorf("expected top ranked action:\n%s", output)
	}
	if strings.Contains(output, "Improve on-page engagement") {
		t.Error("expected second action to be cut by MaxActions")
	}
	if !strings.Contains(output, "_... and 1 more actions_") {
		t.Error("expected overflow note")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var got surface.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Result.TotalScore != 688 || len(got.Actions) != 2 {
		t.Errorf("decoded report = %+v", got)
	}
	if !got.Result.Breakdown["p5"].Fallback {
		t.Error("expected p5 fallback to survive encoding")
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "*surface.TerminalRenderer"},
		{"text", "*surface.TerminalRenderer"},
		{"json", "*surface.JSONRenderer"},
		{"markdown", "*surface.MarkdownRenderer"},
		{"xml", "<nil>"},
	}
	for _, tc := range tests {
		got := typeName(surface.ForFormat(tc.format))
		if got != tc.want {
			t.Errorf("ForFormat(%q) = %s, want %s", tc.format, got, tc.want)
		}
	}
}

func typeName(r surface.Renderer) string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", r)
}
