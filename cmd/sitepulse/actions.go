package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/store"
	"github.com/sitepulse/sitepulse/pkg/metrics"
)

func newActionsCmd(g *globalOpts) *cobra.Command {
	var opts actionsOpts

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the stored actions of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(cmd.Context(), g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Date, YYYY-MM-DD (default: yesterday UTC)")
	cmd.Flags().StringVar(&opts.status, "status", "open", "Filter by status: open, resolved or all")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type actionsOpts struct {
	date      string
	status    string
	outputFmt string
}

func runActions(ctx context.Context, g *globalOpts, opts actionsOpts, out io.Writer) error {
	switch opts.status {
	case store.StatusOpen, store.StatusResolved, "all":
	default:
		return fmt.Errorf("--status must be open, resolved or all")
	}
	day, err := parseDateFlag("date", opts.date, metrics.Yesterday(metrics.SystemClock{}))
	if err != nil {
		return err
	}

	a, err := openApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.Actions.ListActions(ctx, day)
	if err != nil {
		return err
	}
	rows = filterActions(rows, opts.status)

	switch opts.outputFmt {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "text", "":
		printActions(out, metrics.FormatDay(day), rows)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.outputFmt)
	}
}

func filterActions(rows []store.ActionRow, status string) []store.ActionRow {
	if status == "all" {
		return rows
	}
	out := make([]store.ActionRow, 0, len(rows))
	for _, r := range rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func printActions(w io.Writer, day string, rows []store.ActionRow) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No actions for %s.\n", day)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tSEVERITY\tPILLAR\tKEY\tIMPACT\tTITLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t+%d\t%s\n", r.Status, r.Severity, r.Pillar, r.Key, r.ImpactPoints, r.Title)
	}
	tw.Flush()
}
