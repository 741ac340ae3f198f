// Command tablectl works the dashboard datasets offline: validating exports,
// rendering the PDF report, and seeding demo files, without a running API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	performancePath string
	contractsPath   string
	allowedClubs    []string
	dataSeed        int64
)

var rootCmd = &cobra.Command{
	Use:          "tablectl",
	Short:        "Offline companion for the performance dashboard datasets",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&performancePath, "performance", "data/performance.csv", "path to the performance export")
	rootCmd.PersistentFlags().StringVar(&contractsPath, "contracts", "data/contracts.csv", "path to the contracts export")
	rootCmd.PersistentFlags().StringSliceVar(&allowedClubs, "clubs", nil, "restrict rows to these clubs (empty keeps all)")
	rootCmd.PersistentFlags().Int64Var(&dataSeed, "seed", 42, "seed for the demo dataset generator")

	rootCmd.AddCommand(validateCmd, reportCmd, seedCmd)
}
