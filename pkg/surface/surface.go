// Package surface renders score results for people and machines.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"io"

	"github.com/sitepulse/sitepulse/pkg/actions"
	"github.com/sitepulse/sitepulse/pkg/scoring"
)

// Report is what a renderer draws: one day's result and the actions derived
// from it.
type Report struct {
	Result  *scoring.Result  `json:"result"`
	Actions []actions.Action `json:"actions"`
}

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}

// ForFormat returns the renderer for an output format name, or nil if the
// name is unknown.
func ForFormat(format string) Renderer {
	switch format {
	case "", "text", "terminal":
		return &TerminalRenderer{}
	case "json":
		return &JSONRenderer{}
	case "markdown", "md":
		return &MarkdownRenderer{}
	default:
		return nil
	}
}

var pillarNames = func() map[string]string {
	m := make(map[string]string)
	for _, p := range scoring.DefaultPillars(true) {
		m[p.ID()] = p.Name()
	}
	return m
}()

func pillarName(id string) string {
	if n, ok := pillarNames[id]; ok {
		return n
	}
	return id
}
