// Package cmd defines the command-line interface for asoscan.
package cmd

import (
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(combosCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the registry subcommands to the parent registry command
	registryCmd.AddCommand(registryShowCmd)
	registryCmd.AddCommand(registryValidateCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("title", "t", "", "App title text")
	rootCmd.PersistentFlags().StringP("subtitle", "s", "", "App subtitle text")
	rootCmd.PersistentFlags().StringP("keywords", "k", "", "Comma-separated keyword field")
	rootCmd.PersistentFlags().StringP("description", "d", "", "Long description text")
	rootCmd.PersistentFlags().String("description-file", "", "Path to a file containing the long description")
	rootCmd.PersistentFlags().String("vertical", "", "App vertical for KPI weight overrides (e.g. games, education)")
	rootCmd.PersistentFlags().String("market", "", "Target market for KPI weight overrides (e.g. us, de)")
	rootCmd.PersistentFlags().String("client", "", "Client identifier recorded with audit runs")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("extraction", string(schema.ExtractionEnabled), "Capability extraction mode: enabled or disabled")
	rootCmd.PersistentFlags().String("triples", "yes", "Enumerate three-word combos in addition to pairs (yes/no)")
	rootCmd.PersistentFlags().Int("max-combos", 0, "Hard cap on enumerated combos (0 = registry default)")
	rootCmd.PersistentFlags().String("brand-aliases", "", "Comma-separated brand tokens to recognize in addition to the built-in list")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("registry-file", "", "Path to a YAML document overriding formula registry weights")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of combosCmd to Viper
	combosCmd.Flags().Int("min-score", 0, "Drop combos scoring below this value")
	combosCmd.Flags().Bool("missing-only", false, "Only show combos absent from the current listing")
	combosCmd.Flags().Bool("long-tail", false, "Only show combos of three or more words")
	if err := viper.BindPFlags(combosCmd.Flags()); err != nil {
		contract.LogFatal("Error binding combos flags", err)
	}
}
