package cmd

import (
	"github.com/listinglab/asoscan/core/capability"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// capabilitiesCmd extracts capabilities from description text.
var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Extract feature, benefit and trust signals from a description.",
	Long: `Scan the long description against the built-in pattern library and
report every detected capability, grouped into features, benefits and
trust signals.

Each detection carries a confidence derived from the criticality tier
of the pattern that matched it.

Examples:
  # Scan description text directly
  asoscan capabilities -d "Learn 40+ languages with bite-sized lessons"

  # Scan a description file and export as CSV
  asoscan capabilities --description-file desc.txt --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		capMap := capability.Extract(cfg.Bundle.Description, cfg.Extraction)
		if err := outwriter.WriteCapabilityMap(&capMap, cfg); err != nil {
			contract.LogFatal("Cannot write capability map", err)
		}
	},
}
