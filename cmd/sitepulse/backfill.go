package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/aggregator"
	"github.com/sitepulse/sitepulse/pkg/metrics"
)

func newBackfillCmd(g *globalOpts) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Rescore an inclusive range of days",
		Long: `Runs the daily job for every day from --from to --to, oldest first,
throttled by backfill.rate_per_second. Stops at the first failing day; days
already scored stay stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd.Context(), g, from, to, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (default: yesterday UTC)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func runBackfill(ctx context.Context, g *globalOpts, fromFlag, toFlag string, out io.Writer) error {
	from, err := metrics.ParseDay(fromFlag)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseDateFlag("to", toFlag, metrics.Yesterday(metrics.SystemClock{}))
	if err != nil {
		return err
	}

	a, err := openApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := a.Service.Backfill(ctx, from, to)
	printBackfill(out, reports)
	return err
}

func printBackfill(w io.Writer, reports []*aggregator.Report) {
	for _, rep := range reports {
		fmt.Fprintf(w, "%s  %4d  %s  %d actions\n",
			rep.Result.Date, rep.Result.TotalScore, rep.Result.Grade, len(rep.Actions))
	}
	fmt.Fprintf(w, "%d days scored\n", len(reports))
}
