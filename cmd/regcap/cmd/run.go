package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bankcalc/regcap/engine"
	"github.com/bankcalc/regcap/pkg/id"
	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/scenario"
	"github.com/bankcalc/regcap/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all calculation engines over a portfolio CSV",
	Long: `Run loads an exposure portfolio from CSV and a scenario from YAML/JSON,
executes every engine, prints the headline metrics, and optionally persists
the results to a SQLite store.

Example:
  regcap run -p portfolio.csv -s scenario.yaml --db results.sqlite \
    --cet1 50e6 --at1 10e6 --tier2 15e6 --leverage-exposure 1.2e9`,
	RunE: runRun,
}

var (
	runPortfolioPath string
	runScenarioPath  string
	runDBPath        string
	runID            string
	runVerbose       bool

	runCET1     float64
	runAT1      float64
	runTier2    float64
	runLeverage float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runPortfolioPath, "portfolio", "p", "", "path to exposure CSV (required)")
	runCmd.Flags().StringVarP(&runScenarioPath, "scenario", "s", "", "path to scenario YAML/JSON (default scenario when omitted)")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "path to SQLite result store (not persisted when omitted)")
	runCmd.Flags().StringVar(&runID, "run-id", "", "run identifier (fresh ULID when omitted)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "debug logging")

	runCmd.Flags().Float64Var(&runCET1, "cet1", 0, "CET1 capital (required)")
	runCmd.Flags().Float64Var(&runAT1, "at1", 0, "Additional Tier 1 capital")
	runCmd.Flags().Float64Var(&runTier2, "tier2", 0, "Tier 2 capital")
	runCmd.Flags().Float64Var(&runLeverage, "leverage-exposure", 0, "total leverage exposure (required)")

	runCmd.MarkFlagRequired("portfolio")
	runCmd.MarkFlagRequired("cet1")
	runCmd.MarkFlagRequired("leverage-exposure")
}

func runRun(cmd *cobra.Command, args []string) error {
	log, err := newLogger(runVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	params := scenario.Default()
	if runScenarioPath != "" {
		params, err = scenario.Load(runScenarioPath)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
	}

	exposures, err := portfolio.ReadCSV(runPortfolioPath)
	if err != nil {
		return fmt.Errorf("portfolio: %w", err)
	}

	if runID == "" {
		runID = id.NewRun()
	}

	en := engine.New(log)
	res, err := en.Run(context.Background(), engine.RunInput{
		RunID:     runID,
		Exposures: exposures,
		Capital: portfolio.CapitalBase{
			CET1:             runCET1,
			AdditionalTier1:  runAT1,
			Tier2:            runTier2,
			LeverageExposure: runLeverage,
		},
		Params: params,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete (%d exposures, %d rejected)\n",
		res.RunID, len(res.Standardized), res.RowErrorCount)
	for _, re := range res.RowErrors {
		fmt.Printf("  rejected: %v\n", re)
	}
	fmt.Println()
	for _, m := range res.Metrics() {
		if math.IsInf(m.Value, 1) {
			fmt.Printf("  %-28s +Inf\n", m.Name)
			continue
		}
		fmt.Printf("  %-28s %.4f\n", m.Name, m.Value)
	}

	if runDBPath != "" {
		db, err := store.Open(runDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		ph, err := engine.PortfolioHash(exposures)
		if err != nil {
			return err
		}
		if err := db.SaveRun(res, ph); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("\nSaved to %s (params %s)\n", runDBPath, res.ParamsHash[:12])
	}

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
