package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/platform"
	"github.com/sitepulse/sitepulse/internal/store"
)

func newMigrateCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			return runMigrate(cmd.Context(), g, direction, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runMigrate(ctx context.Context, g *globalOpts, direction string, out io.Writer) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		if err := platform.AutoMigrate(db); err != nil {
			return err
		}
	case "down":
		if err := platform.Rollback(db); err != nil {
			return err
		}
	}

	version, dirty, err := platform.SchemaVersion(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d", version)
	if dirty {
		fmt.Fprint(out, " (dirty)")
	}
	fmt.Fprintln(out)
	return nil
}
