package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mlbstats/internal"
	"mlbstats/internal/console"
	"mlbstats/internal/dashboard"
	"mlbstats/internal/fetch"
	"mlbstats/internal/pipeline"
	"mlbstats/internal/scheduler"
)

func newScrapeCmd(a *app) *cobra.Command {
	var replace bool
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the three record tables and export them to the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := pipeline.Definitions(a.cfg.Sources)
			if err != nil {
				return err
			}

			var sink pipeline.Sink = a.db
			var wb *pipeline.Workbook
			if strings.TrimSpace(xlsxOut) != "" {
				wb = pipeline.NewWorkbook()
				defer wb.Close()
				sink = pipeline.Tee(a.db, wb)
			}

			svc := pipeline.NewProcessingService(fetch.New(a.cfg, a.log), sink, a.log, defs, pipeline.WithReplace(replace))
			report := svc.Run(cmd.Context())
			console.RenderReport(cmd.OutOrStdout(), report)

			if err := scheduler.Record(cmd.Context(), a.db, report); err != nil {
				return fmt.Errorf("record run: %w", err)
			}
			if wb != nil {
				if err := wb.SaveAs(xlsxOut); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "workbook written to %s\n", xlsxOut)
			}
			if report.Failed() {
				return fmt.Errorf("run %s: one or more categories failed", report.RunID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "clear each table before writing this run's records")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the records to this workbook")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scrape on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := pipeline.Definitions(a.cfg.Sources)
			if err != nil {
				return err
			}
			if every <= 0 {
				every = time.Duration(a.cfg.WatchIntervalMin) * time.Minute
			}
			if every <= 0 {
				return fmt.Errorf("--every must be positive")
			}

			svc := pipeline.NewProcessingService(fetch.New(a.cfg, a.log), a.db, a.log, defs, pipeline.WithReplace(a.cfg.WatchReplace))
			s := scheduler.NewService(svc, a.db, every, a.log)
			s.OnCycle(func(report internal.RunReport) {
				console.RenderReport(cmd.OutOrStdout(), report)
			})
			return s.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&every, "every", 0, "interval between runs (default $WATCH_INTERVAL_MIN minutes)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import:xlsx",
		Short: "Load a records workbook into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("--input is required")
			}
			results, err := pipeline.ImportWorkbook(cmd.Context(), input, a.db, a.log)
			renderTransfer(cmd, results)
			return err
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "workbook path")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export:xlsx",
		Short: "Write every stored record table to a workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(out) == "" {
				out = filepath.Join(a.cfg.OutputDir, "mlb_stats.xlsx")
			}
			wb := pipeline.NewWorkbook()
			defer wb.Close()

			results, err := pipeline.CopyRecords(cmd.Context(), a.db, wb)
			renderTransfer(cmd, results)
			if err != nil {
				return err
			}
			if err := wb.SaveAs(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output xlsx path (default $OUTPUT_DIR/mlb_stats.xlsx)")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Interactive query console over the record tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return console.New(a.db, os.Stdin, cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the dashboard data API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.DashboardAddr
			}
			return dashboard.Serve(cmd.Context(), addr, dashboard.NewHandler(a.db, a.log))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $DASHBOARD_ADDR)")
	return cmd
}

func renderTransfer(cmd *cobra.Command, results []pipeline.ImportResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Rows", "Malformed", "Invalid", "Written", "Failed"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Table, r.Rows, r.Malformed, r.Invalid, r.Written, r.Failed})
	}
	t.Render()
}
