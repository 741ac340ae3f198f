package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/position"
	qb "github.com/german-fros/tablero-api/internal/platform/querybuilder"
)

// PerformanceRepository reads the player_season_stats table and applies the
// classification and synthesis steps of the load pipeline.
type PerformanceRepository struct {
	db           *sqlx.DB
	allowedClubs []string
	seed         int64
	clock        func() time.Time
}

var performanceSelectColumns = []string{
	"id",
	"wyscout_id",
	"player",
	"team",
	"position",
	"age",
	"season",
	"minutes",
	"goals",
	"assists",
	"shots",
	"xg",
	"xa",
	"imported_at",
}

func NewPerformanceRepository(db *sqlx.DB, allowedClubs []string, seed int64, clock func() time.Time) *PerformanceRepository {
	if clock == nil {
		clock = time.Now
	}
	if seed == 0 {
		seed = playerstats.DefaultSeed
	}
	return &PerformanceRepository{db: db, allowedClubs: allowedClubs, seed: seed, clock: clock}
}

func (r *PerformanceRepository) Snapshot(ctx context.Context) (playerstats.Snapshot, error) {
	query, args, err := qb.Select(performanceSelectColumns...).From("player_season_stats").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return playerstats.Snapshot{}, fmt.Errorf("build select player stats query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return playerstats.Snapshot{}, fmt.Errorf("select player stats: %w", err)
	}

	allowed := clubAllowSet(r.allowedClubs)
	records := make([]playerstats.Record, 0, len(rows))

	for _, row := range rows {
		if row.Player == "" || row.Team == "" || row.Position == "" {
			continue
		}
		if !clubAllowed(allowed, row.Team) {
			continue
		}

		records = append(records, playerstats.Record{
			WyscoutID:   row.WyscoutID,
			Player:      row.Player,
			Team:        row.Team,
			RawPosition: row.Position,
			Category:    position.Classify(row.Position),
			Age:         row.Age,
			Season:      row.Season,
			Minutes:     row.Minutes,
			Goals:       row.Goals,
			Assists:     row.Assists,
			Shots:       row.Shots,
			XG:          row.XG,
			XA:          row.XA,
		})
	}

	snap := playerstats.Snapshot{
		Records:  records,
		LoadedAt: r.clock(),
		Source:   dataset.SourcePostgres,
	}

	xgs := make([]float64, len(records))
	for i := range records {
		xgs[i] = records[i].XG
	}
	if playerstats.NeedsSynthesis(xgs) {
		playerstats.NewEstimator(r.seed).Synthesize(records)
		snap.SyntheticXG = true
		snap.Diagnostics = append(snap.Diagnostics,
			dataset.NewDiagnostic(dataset.DiagSyntheticMetric, "xg/xa synthesized from goals and assists"))
	}

	return snap, nil
}

func (r *PerformanceRepository) Reload(ctx context.Context) (playerstats.Snapshot, error) {
	return r.Snapshot(ctx)
}

// ReplaceAll swaps the stored performance rows in one transaction.
func (r *PerformanceRepository) ReplaceAll(ctx context.Context, records []playerstats.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom("player_season_stats").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player stats: %w", err)
	}

	if len(records) > 0 {
		query, args, err = qb.InsertModels("player_season_stats", performanceInsertModels(records), "")
		if err != nil {
			return fmt.Errorf("build insert player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player stats tx: %w", err)
	}

	return nil
}
