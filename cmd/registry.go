package cmd

import (
	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// registryCmd groups formula registry inspection commands.
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and validate the formula registry.",
	Long: `Inspect the versioned formula registry that drives all scoring:
weight maps, interpretation band tables, priority thresholds and output
limits.

Overrides from a config file or --registry-file are merged before
display, so what you see is what the scorer uses.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// registryShowCmd prints the active registry definition.
var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active registry definition.",
	Long: `Print the merged registry definition: every weight map, band table,
threshold, limit and changelog entry.

Examples:
  # Show the active registry
  asoscan registry show

  # Show the registry with overrides applied
  asoscan registry show --registry-file overrides.yaml

  # Dump the registry as JSON
  asoscan registry show --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.WriteRegistry(cfg.Registry, cfg); err != nil {
			contract.LogFatal("Cannot write registry", err)
		}
	},
}

// registryValidateCmd revalidates the merged registry and reports all
// findings instead of stopping at the first.
var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry and report all findings.",
	Long: `Validate every registry invariant: weight maps summing to 1.0, band
tables sorted and non-overlapping, thresholds ordered and limits
positive. All failures are reported together.

Note that a registry that fails validation aborts every scoring
command at startup; this command exists to debug override documents
before rollout.

Examples:
  # Validate the built-in registry
  asoscan registry validate

  # Validate an override document
  asoscan registry validate --registry-file overrides.yaml`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup normally aborts on an invalid registry, which is the one
		// failure this command exists to report. Swallow that error and
		// revalidate below against whatever loaded.
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			if cfg.Registry == nil {
				// Revalidate the raw merged registry without aborting.
				reg, loadErr := formula.LoadUnvalidated(&input.Registry, input.RegistryFile)
				if loadErr != nil {
					return loadErr
				}
				cfg.Registry = reg
			}
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		result := formula.Validate(cfg.Registry)
		if err := outwriter.WriteValidationResult(&result, cfg.Registry, cfg); err != nil {
			contract.LogFatal("Cannot write validation result", err)
		}
	},
}
