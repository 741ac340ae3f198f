package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	csvrepo "github.com/german-fros/tablero-api/internal/infrastructure/repository/csv"
	"github.com/german-fros/tablero-api/internal/infrastructure/repository/memory"
)

var (
	seedDir   string
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the seeded demo datasets as CSV exports",
	Long: `Seed generates the deterministic demo datasets and writes them in the
export layout the API reads, so a fresh deployment has data before the first
real export lands. The same seed always produces the same files.`,
	Example: `  tablectl seed
  tablectl seed --dir /var/lib/tablero/data --seed 7 --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		perfPath := filepath.Join(seedDir, "performance.csv")
		contractsOut := filepath.Join(seedDir, "contracts.csv")

		if !seedForce {
			for _, path := range []string{perfPath, contractsOut} {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, pass --force to overwrite", path)
				}
			}
		}

		if err := os.MkdirAll(seedDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		records := memory.SeedPerformance(dataSeed)
		if err := writeCSVFile(perfPath, func(f *os.File) error {
			return csvrepo.WritePerformance(f, records)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d rows)\n", perfPath, len(records))

		contracts := memory.SeedContracts(dataSeed, time.Now())
		if err := writeCSVFile(contractsOut, func(f *os.File) error {
			return csvrepo.WriteContracts(f, contracts)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d rows)\n", contractsOut, len(contracts))

		return nil
	},
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "data", "directory for the generated exports")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite existing files")
}
