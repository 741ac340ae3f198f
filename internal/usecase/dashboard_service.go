package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

// DatasetHealth is one dataset's status block on the home page.
type DatasetHealth struct {
	Dataset     string
	Rows        int
	Source      string
	Fallback    bool
	LoadedAt    time.Time
	Diagnostics int
}

// DashboardSummary is the signed-in landing page payload: dataset health
// plus the headline counts.
type DashboardSummary struct {
	Performance     DatasetHealth
	Contracts       DatasetHealth
	Seasons         []string
	Teams           int
	ActiveContracts int
	Clubs           int
	SyntheticXG     bool
}

type DashboardService struct {
	performanceRepo playerstats.Repository
	contractRepo    contract.Repository
}

func NewDashboardService(performanceRepo playerstats.Repository, contractRepo contract.Repository) *DashboardService {
	return &DashboardService{
		performanceRepo: performanceRepo,
		contractRepo:    contractRepo,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Summary")
	defer span.End()

	perf, err := s.performanceRepo.Snapshot(ctx)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("load performance snapshot: %w", err)
	}
	contracts, err := s.contractRepo.Snapshot(ctx)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("load contracts snapshot: %w", err)
	}

	return DashboardSummary{
		Performance: DatasetHealth{
			Dataset:     dataset.NamePerformance,
			Rows:        len(perf.Records),
			Source:      perf.Source,
			Fallback:    perf.Fallback,
			LoadedAt:    perf.LoadedAt,
			Diagnostics: len(perf.Diagnostics),
		},
		Contracts: DatasetHealth{
			Dataset:     dataset.NameContracts,
			Rows:        len(contracts.Contracts),
			Source:      contracts.Source,
			Fallback:    contracts.Fallback,
			LoadedAt:    contracts.LoadedAt,
			Diagnostics: len(contracts.Diagnostics),
		},
		Seasons:         playerstats.Seasons(perf.Records),
		Teams:           len(playerstats.Teams(perf.Records)),
		ActiveContracts: len(contracts.Contracts),
		Clubs:           len(contract.Clubs(contracts.Contracts)),
		SyntheticXG:     perf.SyntheticXG,
	}, nil
}
