// Package main provides the sitepulse CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalOpts holds the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	rootCmd := &cobra.Command{
		Use:   "sitepulse",
		Short: "Daily visibility and health scoring for websites",
		Long: `SitePulse combines search, analytics and performance data into a daily
0-1000 health score split across five pillars, and derives prioritized
actions from weak components.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: search for .sitepulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		newScoreCmd(opts),
		newActionsCmd(opts),
		newBackfillCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}
