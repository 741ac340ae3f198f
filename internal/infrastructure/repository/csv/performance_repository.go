package csv

import (
	"context"
	enccsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/position"
	"github.com/german-fros/tablero-api/internal/infrastructure/repository/memory"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// PerformanceConfig configures the player performance CSV loader.
type PerformanceConfig struct {
	Path         string
	AllowedClubs []string
	Seed         int64
	Clock        func() time.Time
	Fallback     func() []playerstats.Record
}

// PerformanceRepository loads the performance export once and serves
// memoized snapshots until Reload. Missing xG/xA columns are synthesized by
// the seeded estimator on whatever rows the load produced, fallback included.
type PerformanceRepository struct {
	cfg    PerformanceConfig
	logger *logging.Logger

	mu       sync.Mutex
	loaded   bool
	snapshot playerstats.Snapshot
}

func NewPerformanceRepository(cfg PerformanceConfig, logger *logging.Logger) *PerformanceRepository {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Fallback == nil {
		cfg.Fallback = func() []playerstats.Record {
			return memory.SeedPerformance(cfg.Seed)
		}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PerformanceRepository{cfg: cfg, logger: logger.Named("csv.performance")}
}

func (r *PerformanceRepository) Snapshot(ctx context.Context) (playerstats.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return playerstats.Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		r.snapshot = r.load(ctx)
		r.loaded = true
	}

	return r.snapshot.Clone(), nil
}

func (r *PerformanceRepository) Reload(ctx context.Context) (playerstats.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return playerstats.Snapshot{}, err
	}

	snap := r.load(ctx)

	r.mu.Lock()
	r.snapshot = snap
	r.loaded = true
	r.mu.Unlock()

	return snap.Clone(), nil
}

func (r *PerformanceRepository) load(ctx context.Context) playerstats.Snapshot {
	snap := playerstats.Snapshot{
		LoadedAt: r.cfg.Clock(),
		Source:   dataset.SourceCSV,
	}

	rows, stats, err := readPerformanceRows(r.cfg.Path, r.cfg.AllowedClubs)
	if err != nil {
		r.logger.WarnContext(ctx, "performance export unavailable, serving synthetic fallback",
			"path", r.cfg.Path, "error", err)

		rows = r.cfg.Fallback()
		snap.Source = dataset.SourceSynthetic
		snap.Fallback = true
		snap.Diagnostics = append(snap.Diagnostics,
			dataset.NewDiagnostic(dataset.DiagMissingSource, fmt.Sprintf("performance export unavailable: %v", err)),
			dataset.NewDiagnostic(dataset.DiagFallbackDataset, "serving seeded synthetic performance dataset"),
		)
	} else {
		snap.Diagnostics = append(snap.Diagnostics, stats.diagnostics()...)
		r.logger.InfoContext(ctx, "performance export loaded",
			"path", r.cfg.Path,
			"rows", len(rows),
			"dropped_identity", stats.droppedIdentity,
			"dropped_clubs", stats.droppedClub,
			"malformed_cells", stats.malformedCells)
	}

	xgs := make([]float64, len(rows))
	for i := range rows {
		xgs[i] = rows[i].XG
	}
	if playerstats.NeedsSynthesis(xgs) {
		playerstats.NewEstimator(r.estimatorSeed()).Synthesize(rows)
		snap.SyntheticXG = true
		snap.Diagnostics = append(snap.Diagnostics,
			dataset.NewDiagnostic(dataset.DiagSyntheticMetric, "xg/xa synthesized from goals and assists"))
	}

	snap.Records = rows

	return snap
}

func (r *PerformanceRepository) estimatorSeed() int64 {
	if r.cfg.Seed != 0 {
		return r.cfg.Seed
	}
	return playerstats.DefaultSeed
}

// readPerformanceRows runs the cleaning pipeline over the export. Rows keep
// their file order. Exports without an id column get stable sequential ids
// assigned per distinct player name in first-seen order.
func readPerformanceRows(path string, allowedClubs []string) ([]playerstats.Record, loadStats, error) {
	var stats loadStats

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, errors.Wrap(err, "open performance export")
	}
	defer f.Close()

	reader := enccsv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, stats, errors.Wrap(err, "read performance header")
	}

	cols := columnIndex(header, performanceAliases)
	if missing := missingColumns(cols, colPlayer, colTeam, colPosition); len(missing) > 0 {
		return nil, stats, errors.Newf("performance export missing columns %v", missing)
	}

	allowed := clubAllowSet(allowedClubs)
	coerce := &coercion{}
	assigned := map[string]int64{}
	nextID := int64(900001)
	out := make([]playerstats.Record, 0, 128)

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, errors.Wrap(err, "read performance row")
		}

		rec := record{cols: cols, cells: cells}
		player := rec.str(colPlayer)
		team := rec.str(colTeam)
		rawPos := rec.str(colPosition)

		if player == "" || team == "" || rawPos == "" {
			stats.droppedIdentity++
			continue
		}
		if !clubAllowed(allowed, team) {
			stats.droppedClub++
			continue
		}

		id := coerce.int64Cell(rec, colWyID)
		if id == 0 {
			if v, ok := assigned[player]; ok {
				id = v
			} else {
				id = nextID
				nextID++
				assigned[player] = id
			}
		}

		out = append(out, playerstats.Record{
			WyscoutID:   id,
			Player:      player,
			Team:        team,
			RawPosition: rawPos,
			Category:    position.Classify(rawPos),
			Age:         coerce.intCell(rec, colAge),
			Season:      rec.str(colSeason),
			Minutes:     coerce.intCell(rec, colMinutes),
			Goals:       coerce.intCell(rec, colGoals),
			Assists:     coerce.intCell(rec, colAssists),
			Shots:       coerce.intCell(rec, colShots),
			XG:          coerce.floatCell(rec, colXG),
			XA:          coerce.floatCell(rec, colXA),
		})
	}

	stats.malformedCells = coerce.malformed

	return out, stats, nil
}
