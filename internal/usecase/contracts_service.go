package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/report"
	repocache "github.com/german-fros/tablero-api/internal/infrastructure/repository/cache"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// soonestExpiringCount rows fill the expirations table.
const soonestExpiringCount = 10

// ContractsTotals is the summary strip above the contracts table.
type ContractsTotals struct {
	Contracts    int
	Clubs        int
	MeanSalary   float64
	TotalMonthly float64
}

type ContractsMeta struct {
	Club        string
	Position    string
	Fallback    bool
	RowCount    int
	LoadedAt    time.Time
	Diagnostics []dataset.Diagnostic
}

// ContractsView is everything the contracts page renders for one facet
// combination. The working table holds active contracts only; expired rows
// never reach this layer.
type ContractsView struct {
	Rows             []contract.Contract
	SalaryByPosition report.ChartSpec
	StartsByYear     report.ChartSpec
	Totals           ContractsTotals
	Meta             ContractsMeta
}

// ContractsFacets feeds the club and position dropdowns plus the salary
// slider bounds.
type ContractsFacets struct {
	Clubs     []string
	Positions []string
	SalaryMin float64
	SalaryMax float64
}

// ExpirationsView buckets upcoming contract ends by semester and lists the
// contracts ending soonest.
type ExpirationsView struct {
	Horizon int
	Buckets []contract.SemesterCount
	Soonest []contract.Contract
	Meta    ContractsMeta
}

type ContractsService struct {
	repo   contract.Repository
	views  *cache.Store
	logger *logging.Logger
	now    func() time.Time
}

// NewContractsService builds the contracts-page service. views may be nil
// to disable view caching.
func NewContractsService(repo contract.Repository, views *cache.Store, logger *logging.Logger) *ContractsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ContractsService{
		repo:   repo,
		views:  views,
		logger: logger.Named("contracts"),
		now:    time.Now,
	}
}

// Overview builds the contracts page for one facet combination: filtered
// table, both chart specs and the totals strip.
func (s *ContractsService) Overview(ctx context.Context, filter contract.Filter) (ContractsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractsService.Overview")
	defer span.End()

	return cachedView(ctx, s.views, contractsViewKey(filter), func(ctx context.Context) (ContractsView, error) {
		return s.buildOverview(ctx, filter)
	})
}

// Expirations reports how many contracts end per semester. horizon > 0
// returns exactly that many semesters starting at the current one, empty
// buckets included; horizon 0 returns every observed semester.
func (s *ContractsService) Expirations(ctx context.Context, horizon int) (ExpirationsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractsService.Expirations")
	defer span.End()

	if horizon < 0 {
		return ExpirationsView{}, fmt.Errorf("%w: horizon must be >= 0", ErrInvalidInput)
	}

	key := fmt.Sprintf("%sexpirations|horizon=%d", repocache.ContractsQueryPrefix, horizon)

	return cachedView(ctx, s.views, key, func(ctx context.Context) (ExpirationsView, error) {
		return s.buildExpirations(ctx, horizon)
	})
}

// Facets lists the live dropdown values and the observed salary range.
func (s *ContractsService) Facets(ctx context.Context) (ContractsFacets, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractsService.Facets")
	defer span.End()

	return cachedView(ctx, s.views, contractsFacetsKey, func(ctx context.Context) (ContractsFacets, error) {
		return s.buildFacets(ctx)
	})
}

func (s *ContractsService) buildOverview(ctx context.Context, filter contract.Filter) (ContractsView, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ContractsView{}, fmt.Errorf("load contracts snapshot: %w", err)
	}

	rows := contract.Apply(snap.Contracts, filter)

	return ContractsView{
		Rows:             rows,
		SalaryByPosition: salaryByPositionSpec(rows),
		StartsByYear:     startsByYearSpec(rows),
		Totals:           contractTotals(rows),
		Meta: ContractsMeta{
			Club:        filter.Club,
			Position:    filter.Position,
			Fallback:    snap.Fallback,
			RowCount:    len(rows),
			LoadedAt:    snap.LoadedAt,
			Diagnostics: snap.Diagnostics,
		},
	}, nil
}

func (s *ContractsService) buildExpirations(ctx context.Context, horizon int) (ExpirationsView, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ExpirationsView{}, fmt.Errorf("load contracts snapshot: %w", err)
	}

	soonest := contract.SortByExpiry(snap.Contracts)
	if len(soonest) > soonestExpiringCount {
		soonest = soonest[:soonestExpiringCount]
	}

	return ExpirationsView{
		Horizon: horizon,
		Buckets: contract.ExpiryBuckets(snap.Contracts, horizon, s.now()),
		Soonest: soonest,
		Meta: ContractsMeta{
			Fallback:    snap.Fallback,
			RowCount:    len(snap.Contracts),
			LoadedAt:    snap.LoadedAt,
			Diagnostics: snap.Diagnostics,
		},
	}, nil
}

func (s *ContractsService) buildFacets(ctx context.Context) (ContractsFacets, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ContractsFacets{}, fmt.Errorf("load contracts snapshot: %w", err)
	}

	categories := contract.Categories(snap.Contracts)
	positions := make([]string, 0, len(categories))
	for _, c := range categories {
		positions = append(positions, string(c))
	}

	minSalary, maxSalary := contract.SalaryBounds(snap.Contracts)

	return ContractsFacets{
		Clubs:     contract.Clubs(snap.Contracts),
		Positions: positions,
		SalaryMin: minSalary,
		SalaryMax: maxSalary,
	}, nil
}

// salaryByPositionSpec averages monthly salaries per position category, in
// display order.
func salaryByPositionSpec(rows []contract.Contract) report.ChartSpec {
	byCategory := contract.MeanSalaryByCategory(rows)

	labels := make([]string, 0, len(byCategory))
	values := make([]float64, 0, len(byCategory))
	for _, item := range byCategory {
		labels = append(labels, string(item.Category))
		values = append(values, item.MeanSalary)
	}

	return report.ChartSpec{
		Kind:   report.ChartBars,
		Title:  "Salario promedio por posición",
		XLabel: "Posición",
		YLabel: "Salario mensual (USD)",
		Labels: labels,
		Series: []report.Series{{Name: "Salario promedio", Color: report.ColorGoals, Values: values}},
	}
}

// startsByYearSpec counts contract starts per year, one stacked series per
// club. Series carry no color; the dashboard assigns its club palette
// client-side.
func startsByYearSpec(rows []contract.Contract) report.ChartSpec {
	cells := contract.StartsByYearClub(rows)

	yearSet := make(map[int]struct{})
	clubSet := make(map[string]struct{})
	for _, cell := range cells {
		yearSet[cell.Year] = struct{}{}
		clubSet[cell.Club] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	clubs := make([]string, 0, len(clubSet))
	for club := range clubSet {
		clubs = append(clubs, club)
	}
	sort.Strings(clubs)

	counts := make(map[int]map[string]int, len(years))
	for _, cell := range cells {
		if counts[cell.Year] == nil {
			counts[cell.Year] = make(map[string]int)
		}
		counts[cell.Year][cell.Club] = cell.Count
	}

	labels := make([]string, 0, len(years))
	for _, year := range years {
		labels = append(labels, strconv.Itoa(year))
	}

	series := make([]report.Series, 0, len(clubs))
	for _, club := range clubs {
		values := make([]float64, len(years))
		for i, year := range years {
			values[i] = float64(counts[year][club])
		}
		series = append(series, report.Series{Name: club, Values: values})
	}

	return report.ChartSpec{
		Kind:   report.ChartStackedBars,
		Title:  "Altas de contratos por año",
		XLabel: "Año",
		YLabel: "Contratos",
		Labels: labels,
		Series: series,
	}
}

func contractTotals(rows []contract.Contract) ContractsTotals {
	total := 0.0
	for _, c := range rows {
		total += c.MonthlySalary
	}

	mean := 0.0
	if len(rows) > 0 {
		mean = total / float64(len(rows))
	}

	return ContractsTotals{
		Contracts:    len(rows),
		Clubs:        len(contract.Clubs(rows)),
		MeanSalary:   mean,
		TotalMonthly: total,
	}
}
