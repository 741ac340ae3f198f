package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/report"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// PerformanceMeta echoes the facets a view answered plus the dataset
// caveats the dashboard has to surface next to the charts.
type PerformanceMeta struct {
	Season      string
	Team        string
	Accumulated bool
	SyntheticXG bool
	Fallback    bool
	RowCount    int
	LoadedAt    time.Time
	Diagnostics []dataset.Diagnostic
}

// PerformanceView is everything the players page renders for one facet
// combination. Slices are shared with the view cache; treat them as
// read-only.
type PerformanceView struct {
	Rows       []playerstats.Record
	Top        []playerstats.Record
	Scatter    report.ChartSpec
	RankedBars report.ChartSpec
	Meta       PerformanceMeta
}

// PerformanceFacets feeds the filter dropdowns.
type PerformanceFacets struct {
	Seasons []string
	Teams   []string
	Metrics []MetricOption
}

type MetricOption struct {
	Value string
	Label string
}

type PerformanceService struct {
	repo   playerstats.Repository
	views  *cache.Store
	logger *logging.Logger
}

// NewPerformanceService builds the players-page service. views may be nil
// to disable view caching.
func NewPerformanceService(repo playerstats.Repository, views *cache.Store, logger *logging.Logger) *PerformanceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PerformanceService{
		repo:   repo,
		views:  views,
		logger: logger.Named("performance"),
	}
}

// Overview builds the players page for one facet combination: the filtered
// table (optionally accumulated across seasons), the top ranking and both
// chart specs. Views are cached per facet tuple until the TTL or a dataset
// Reload drops them.
func (s *PerformanceService) Overview(ctx context.Context, filter playerstats.Filter, sortSpec playerstats.SortSpec, accumulated bool) (PerformanceView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceService.Overview")
	defer span.End()

	key := performanceViewKey(filter, sortSpec, accumulated)

	return cachedView(ctx, s.views, key, func(ctx context.Context) (PerformanceView, error) {
		return s.buildOverview(ctx, filter, sortSpec, accumulated)
	})
}

// Facets lists the live dropdown values: seasons ascending, teams
// alphabetical, metrics in ranking order.
func (s *PerformanceService) Facets(ctx context.Context) (PerformanceFacets, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceService.Facets")
	defer span.End()

	return cachedView(ctx, s.views, performanceFacetsKey, func(ctx context.Context) (PerformanceFacets, error) {
		return s.buildFacets(ctx)
	})
}

func (s *PerformanceService) buildOverview(ctx context.Context, filter playerstats.Filter, sortSpec playerstats.SortSpec, accumulated bool) (PerformanceView, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return PerformanceView{}, fmt.Errorf("load performance snapshot: %w", err)
	}

	records := playerstats.Apply(snap.Records, filter)
	if accumulated {
		records = playerstats.Accumulate(records)
	}

	rows := playerstats.SortBy(records, sortSpec)
	top := playerstats.TopN(records, sortSpec, topPlayerCount)

	return PerformanceView{
		Rows:       rows,
		Top:        top,
		Scatter:    scatterSpec(rows),
		RankedBars: rankedBarsSpec(top, sortSpec.Metric),
		Meta: PerformanceMeta{
			Season:      filter.Season,
			Team:        filter.Team,
			Accumulated: accumulated,
			SyntheticXG: snap.SyntheticXG,
			Fallback:    snap.Fallback,
			RowCount:    len(rows),
			LoadedAt:    snap.LoadedAt,
			Diagnostics: snap.Diagnostics,
		},
	}, nil
}

func (s *PerformanceService) buildFacets(ctx context.Context) (PerformanceFacets, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return PerformanceFacets{}, fmt.Errorf("load performance snapshot: %w", err)
	}

	metrics := make([]MetricOption, 0, len(playerstats.AllMetrics))
	for _, m := range playerstats.AllMetrics {
		metrics = append(metrics, MetricOption{Value: string(m), Label: m.Label()})
	}

	return PerformanceFacets{
		Seasons: playerstats.Seasons(snap.Records),
		Teams:   playerstats.Teams(snap.Records),
		Metrics: metrics,
	}, nil
}

// scatterSpec plots xG against shots, marker size tracking minutes, with a
// vertical reference line at the average shot count.
func scatterSpec(records []playerstats.Record) report.ChartSpec {
	points := make([]report.Point, 0, len(records))
	for _, r := range records {
		points = append(points, report.Point{
			X:     float64(r.Shots),
			Y:     r.XG,
			Size:  float64(r.Minutes),
			Label: r.Player,
		})
	}

	spec := report.ChartSpec{
		Kind:   report.ChartScatter,
		Title:  "xG vs. Disparos",
		XLabel: "Disparos",
		YLabel: "xG",
		Series: []report.Series{{Name: "Jugadores", Color: report.ColorGoals, Points: points}},
	}
	if len(records) > 0 {
		avg := playerstats.AverageShots(records)
		spec.RefLines = []report.RefLine{{
			Axis:  "x",
			Value: avg,
			Label: fmt.Sprintf("Disparos promedio: %.1f", avg),
		}}
	}

	return spec
}

// rankedBarsSpec turns the top ranking into one labeled bar per player.
func rankedBarsSpec(top []playerstats.Record, metric playerstats.Metric) report.ChartSpec {
	labels := make([]string, 0, len(top))
	values := make([]float64, 0, len(top))
	for _, r := range top {
		labels = append(labels, r.Player)
		values = append(values, float64(playerstats.MetricValue(r, metric)))
	}

	return report.ChartSpec{
		Kind:   report.ChartBars,
		Title:  fmt.Sprintf("Top %d por %s", len(top), strings.ToLower(metric.Label())),
		XLabel: "Jugador",
		YLabel: metric.Label(),
		Labels: labels,
		Series: []report.Series{{Name: metric.Label(), Color: metricColor(metric), Values: values}},
	}
}

func metricColor(metric playerstats.Metric) string {
	if metric == playerstats.MetricAssists {
		return report.ColorAssists
	}

	return report.ColorGoals
}
