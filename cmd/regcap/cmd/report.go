package cmd

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bankcalc/regcap/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print stored metrics for a run",
	RunE:  runReport,
}

var (
	reportDBPath string
	reportRunID  string
	reportEngine string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDBPath, "db", "./results.sqlite", "path to SQLite result store")
	reportCmd.Flags().StringVar(&reportRunID, "run-id", "", "run identifier (required)")
	reportCmd.Flags().StringVar(&reportEngine, "engine", "", "print per-exposure values of one engine (rwa_standardized, rwa_irb, ecl)")

	reportCmd.MarkFlagRequired("run-id")
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := store.Open(reportDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	info, err := db.GetRun(reportRunID)
	if err != nil {
		return err
	}
	fmt.Printf("Run %s\n", info.RunID)
	fmt.Printf("  created:   %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  params:    %s\n", info.ParamsHash)
	fmt.Printf("  portfolio: %s\n\n", info.PortfolioHash)

	if reportEngine != "" {
		values, err := db.ExposureValues(reportRunID, reportEngine)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(values))
		for id := range values {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("  %-24s %.2f\n", id, values[id])
		}
		return nil
	}

	metrics, err := db.Metrics(reportRunID)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		if math.IsInf(m.Value, 1) {
			fmt.Printf("  %-28s +Inf\n", m.Name)
			continue
		}
		fmt.Printf("  %-28s %.4f\n", m.Name, m.Value)
	}
	return nil
}
