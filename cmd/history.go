package cmd

import (
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// historyCmd groups audit history commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect persisted audit runs.",
	Long: `Inspect the audit history store. Every 'asoscan audit' run is
persisted with its overall score, outcome, combo scores and KPI
breakdown, so listings can be tracked across revisions.

The store defaults to SQLite under ~/.asoscan; use --history-backend
to point at MySQL or PostgreSQL instead, or 'none' to disable
persistence entirely.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyListCmd lists recent audit runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit runs, newest first.",
	Long: `List persisted audit runs, newest first.

Examples:
  # Show the most recent runs
  asoscan history list

  # Show more runs as JSON
  asoscan history list --limit 100 --output json

  # Export run history to Parquet
  asoscan history list --output parquet --output-file runs.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := historyStore.ListRuns(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list audit runs", err)
		}
		if err := outwriter.WriteHistoryRuns(runs, cfg); err != nil {
			contract.LogFatal("Cannot write audit runs", err)
		}
	},
}

// historyStatusCmd prints history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show history store status.",
	Long: `Show the history store backend, location, run count and the time of
the most recent run.

Examples:
  # Check the default SQLite store
  asoscan history status

  # Check a PostgreSQL store
  asoscan history status --history-backend postgresql --history-db-connect "host=localhost dbname=asoscan"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot read history status", err)
		}
		if err := outwriter.WriteHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Cannot write history status", err)
		}
	},
}
