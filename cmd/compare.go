package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nulenergi/microgrid/app"
)

var scenariosPath string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several plant scenarios against the same input series",
	RunE:  compare,
}

func init() {
	compareCmd.Flags().StringVarP(&scenariosPath, "scenarios", "s", "scenarios.yaml", "scenario file")
	rootCmd.AddCommand(compareCmd)
}

func compare(cmd *cobra.Command, args []string) error {
	scenarios, err := app.LoadScenarios(scenariosPath)
	if err != nil {
		return err
	}
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)
	return svc.Compare(ctx, scenarios)
}
