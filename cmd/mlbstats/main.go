package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mlbstats/internal/config"
	"mlbstats/internal/logger"
	"mlbstats/internal/storage"
)

// app carries what every subcommand needs. It is filled in by the root command's PersistentPreRunE.
type app struct {
	cfg config.Config
	log *zap.Logger
	db  *storage.DB
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "mlbstats",
		Short:         "Scrape MLB record tables into SQLite and explore them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			log, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			db, err := storage.Open(cfg.DBPath, log)
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.DBPath, err)
			}
			a.cfg, a.log, a.db = cfg, log, db
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default $DB_PATH or data/mlb_stats.db)")

	root.AddCommand(
		newScrapeCmd(a),
		newWatchCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newQueryCmd(a),
		newDashboardCmd(a),
	)
	return root
}
