package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankcalc/regcap/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Scenario file helpers",
}

var scenarioInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default scenario to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "scenario.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := scenario.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default scenario to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.AddCommand(scenarioInitCmd)
}
