package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "regcap",
	Short: "Regulatory capital and liquidity calculation engine",
	Long: `Regcap computes CRR3/Basel-III and IFRS 9 metrics for a portfolio of
financial exposures.

It provides:
  - Standardized and IRB risk-weighted assets
  - SA-CCR counterparty exposure and BA-CVA / CVA pricing
  - LCR and NSFR liquidity ratios
  - Capital adequacy ratios against minima and buffers
  - IFRS 9 staging and expected credit loss

Results are deterministic functions of (exposures, scenario) and can be
persisted to a SQLite result store keyed by parameter hash.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
