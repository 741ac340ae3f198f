package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/position"
	"github.com/german-fros/tablero-api/internal/domain/report"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

type performanceRepoStub struct {
	snapshot playerstats.Snapshot
	calls    int
}

func (s *performanceRepoStub) Snapshot(context.Context) (playerstats.Snapshot, error) {
	s.calls++
	return s.snapshot, nil
}

func (s *performanceRepoStub) Reload(ctx context.Context) (playerstats.Snapshot, error) {
	return s.Snapshot(ctx)
}

func performanceFixture() playerstats.Snapshot {
	return playerstats.Snapshot{
		Records: []playerstats.Record{
			{WyscoutID: 1, Player: "Luis Acosta", Team: "Nacional", RawPosition: "Delantero (ST)", Category: position.CategoryForward, Season: "2024", Minutes: 900, Goals: 7, Assists: 3, Shots: 30, XG: 5.5, XA: 2.1},
			{WyscoutID: 2, Player: "Bruno Silva", Team: "Peñarol", RawPosition: "Mediocampista (CM)", Category: position.CategoryMidfielder, Season: "2024", Minutes: 850, Goals: 4, Assists: 6, Shots: 18, XG: 3.2, XA: 4.0},
			{WyscoutID: 3, Player: "Diego Techera", Team: "Danubio", RawPosition: "Delantero (CF)", Category: position.CategoryForward, Season: "2024", Minutes: 700, Goals: 9, Assists: 1, Shots: 41, XG: 6.8, XA: 0.9},
			{WyscoutID: 1, Player: "Luis Acosta", Team: "Nacional", RawPosition: "Delantero (ST)", Category: position.CategoryForward, Season: "2023", Minutes: 1100, Goals: 5, Assists: 4, Shots: 26, XG: 4.1, XA: 2.6},
		},
		Source:      dataset.SourceCSV,
		SyntheticXG: true,
		LoadedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newTestPerformanceService(repo *performanceRepoStub, views *cache.Store) *PerformanceService {
	return NewPerformanceService(repo, views, logging.NewNop())
}

func TestPerformanceServiceOverviewFiltersAndRanks(t *testing.T) {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	service := newTestPerformanceService(repo, nil)

	view, err := service.Overview(context.Background(), playerstats.Filter{Season: "2024"}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, false)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	wantOrder := []string{"Diego Techera", "Luis Acosta", "Bruno Silva"}
	if len(view.Rows) != len(wantOrder) {
		t.Fatalf("len(Rows) = %d, want %d", len(view.Rows), len(wantOrder))
	}
	for i, want := range wantOrder {
		if view.Rows[i].Player != want {
			t.Fatalf("Rows[%d].Player = %q, want %q", i, view.Rows[i].Player, want)
		}
	}

	if len(view.Top) != 3 {
		t.Fatalf("len(Top) = %d, want 3", len(view.Top))
	}
	if view.Meta.RowCount != 3 {
		t.Fatalf("Meta.RowCount = %d, want 3", view.Meta.RowCount)
	}
	if view.Meta.Season != "2024" || view.Meta.Team != "" {
		t.Fatalf("unexpected meta facets: %+v", view.Meta)
	}
	if !view.Meta.SyntheticXG {
		t.Fatal("Meta.SyntheticXG = false, want true")
	}
}

func TestPerformanceServiceOverviewChartSpecs(t *testing.T) {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	service := newTestPerformanceService(repo, nil)

	view, err := service.Overview(context.Background(), playerstats.Filter{Season: "2024"}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, false)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	scatter := view.Scatter
	if scatter.Kind != report.ChartScatter {
		t.Fatalf("Scatter.Kind = %q, want %q", scatter.Kind, report.ChartScatter)
	}
	if len(scatter.Series) != 1 || len(scatter.Series[0].Points) != 3 {
		t.Fatalf("unexpected scatter series shape: %+v", scatter.Series)
	}
	if len(scatter.RefLines) != 1 {
		t.Fatalf("len(RefLines) = %d, want 1", len(scatter.RefLines))
	}
	// (30 + 18 + 41) / 3 shots.
	if got, want := scatter.RefLines[0].Value, 89.0/3.0; got != want {
		t.Fatalf("RefLines[0].Value = %v, want %v", got, want)
	}
	if scatter.RefLines[0].Label != "Disparos promedio: 29.7" {
		t.Fatalf("RefLines[0].Label = %q", scatter.RefLines[0].Label)
	}

	bars := view.RankedBars
	if bars.Kind != report.ChartBars {
		t.Fatalf("RankedBars.Kind = %q, want %q", bars.Kind, report.ChartBars)
	}
	if bars.Title != "Top 3 por goles" {
		t.Fatalf("RankedBars.Title = %q", bars.Title)
	}
	if len(bars.Labels) != 3 || bars.Labels[0] != "Diego Techera" {
		t.Fatalf("unexpected bar labels: %v", bars.Labels)
	}
	if len(bars.Series) != 1 || bars.Series[0].Values[0] != 9 {
		t.Fatalf("unexpected bar values: %+v", bars.Series)
	}
}

func TestPerformanceServiceOverviewAccumulates(t *testing.T) {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	service := newTestPerformanceService(repo, nil)

	view, err := service.Overview(context.Background(), playerstats.Filter{Team: "nacional"}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, true)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	if len(view.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(view.Rows))
	}
	row := view.Rows[0]
	if row.Season != playerstats.SeasonAccumulated {
		t.Fatalf("Season = %q, want %q", row.Season, playerstats.SeasonAccumulated)
	}
	if row.Goals != 12 || row.Assists != 7 || row.Minutes != 2000 {
		t.Fatalf("accumulated totals = goals %d assists %d minutes %d", row.Goals, row.Assists, row.Minutes)
	}
	if !view.Meta.Accumulated {
		t.Fatal("Meta.Accumulated = false, want true")
	}
}

func TestPerformanceServiceOverviewCachesPerFilter(t *testing.T) {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	service := newTestPerformanceService(repo, cache.NewStore(time.Minute, 0))

	filter := playerstats.Filter{Season: "2024"}
	sortSpec := playerstats.SortSpec{Metric: playerstats.MetricGoals}

	if _, err := service.Overview(context.Background(), filter, sortSpec, false); err != nil {
		t.Fatalf("first Overview returned error: %v", err)
	}
	if _, err := service.Overview(context.Background(), filter, sortSpec, false); err != nil {
		t.Fatalf("second Overview returned error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("repo calls after repeated Overview = %d, want 1", repo.calls)
	}

	filter.MinShots = 20
	if _, err := service.Overview(context.Background(), filter, sortSpec, false); err != nil {
		t.Fatalf("Overview with new filter returned error: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo calls after changed filter = %d, want 2", repo.calls)
	}
}

func TestPerformanceServiceFacets(t *testing.T) {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	service := newTestPerformanceService(repo, nil)

	facets, err := service.Facets(context.Background())
	if err != nil {
		t.Fatalf("Facets returned error: %v", err)
	}

	wantSeasons := []string{"2023", "2024"}
	if len(facets.Seasons) != len(wantSeasons) {
		t.Fatalf("Seasons = %v, want %v", facets.Seasons, wantSeasons)
	}
	for i, want := range wantSeasons {
		if facets.Seasons[i] != want {
			t.Fatalf("Seasons[%d] = %q, want %q", i, facets.Seasons[i], want)
		}
	}

	wantTeams := []string{"Danubio", "Nacional", "Peñarol"}
	for i, want := range wantTeams {
		if facets.Teams[i] != want {
			t.Fatalf("Teams[%d] = %q, want %q", i, facets.Teams[i], want)
		}
	}

	if len(facets.Metrics) != len(playerstats.AllMetrics) {
		t.Fatalf("len(Metrics) = %d, want %d", len(facets.Metrics), len(playerstats.AllMetrics))
	}
	if facets.Metrics[0].Value != string(playerstats.MetricGoals) || facets.Metrics[0].Label != "Goles" {
		t.Fatalf("unexpected first metric option: %+v", facets.Metrics[0])
	}
}
