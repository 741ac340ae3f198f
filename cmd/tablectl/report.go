package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/infrastructure/document"
	csvrepo "github.com/german-fros/tablero-api/internal/infrastructure/repository/csv"
	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/usecase"
)

var (
	reportSeason      string
	reportTeam        string
	reportMinShots    int
	reportAccumulated bool
	reportMetric      string
	reportAscending   bool
	reportOut         string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the performance PDF report from a local export",
	Example: `  tablectl report --season 2024 --out reporte_2024.pdf
  tablectl report --team Nacional --metric assists --accumulated`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewNop()

		repo := csvrepo.NewPerformanceRepository(csvrepo.PerformanceConfig{
			Path:         performancePath,
			AllowedClubs: allowedClubs,
			Seed:         dataSeed,
		}, logger)

		performanceSvc := usecase.NewPerformanceService(repo, nil, logger)
		reportSvc := usecase.NewReportService(performanceSvc, document.NewPNGRenderer(), document.NewPDFBuilder(), logger)

		doc, err := reportSvc.PerformanceReport(cmd.Context(),
			playerstats.Filter{
				Season:   reportSeason,
				Team:     reportTeam,
				MinShots: reportMinShots,
			},
			playerstats.SortSpec{
				Metric:    playerstats.ParseMetric(reportMetric),
				Ascending: reportAscending,
			},
			reportAccumulated,
		)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = doc.Filename
		}
		if err := os.WriteFile(out, doc.Bytes, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		for _, warning := range doc.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(doc.Bytes))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportSeason, "season", "", "season facet (empty or \"all\" keeps every season)")
	reportCmd.Flags().StringVar(&reportTeam, "team", "", "team facet, case-insensitive containment")
	reportCmd.Flags().IntVar(&reportMinShots, "min-shots", 0, "drop rows with fewer shots")
	reportCmd.Flags().BoolVar(&reportAccumulated, "accumulated", false, "collapse seasons into one career row per player")
	reportCmd.Flags().StringVar(&reportMetric, "metric", "goals", "ranking metric: goals, assists or minutes")
	reportCmd.Flags().BoolVar(&reportAscending, "ascending", false, "rank ascending instead of descending")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (defaults to the download filename)")
}
