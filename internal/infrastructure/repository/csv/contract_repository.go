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

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
	"github.com/german-fros/tablero-api/internal/infrastructure/repository/memory"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// ContractConfig configures the contracts CSV loader. Fallback is the
// soft-fail policy: when the export cannot be read, its rows are served
// instead and the snapshot is marked accordingly.
type ContractConfig struct {
	Path         string
	AllowedClubs []string
	Seed         int64
	Clock        func() time.Time
	Fallback     func(now time.Time) []contract.Contract
}

// ContractRepository loads the contracts export once and serves memoized
// snapshots until Reload.
type ContractRepository struct {
	cfg    ContractConfig
	logger *logging.Logger

	mu       sync.Mutex
	loaded   bool
	snapshot contract.Snapshot
}

func NewContractRepository(cfg ContractConfig, logger *logging.Logger) *ContractRepository {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Fallback == nil {
		cfg.Fallback = func(now time.Time) []contract.Contract {
			return memory.SeedContracts(cfg.Seed, now)
		}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ContractRepository{cfg: cfg, logger: logger.Named("csv.contracts")}
}

func (r *ContractRepository) Snapshot(ctx context.Context) (contract.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return contract.Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		r.snapshot = r.load(ctx)
		r.loaded = true
	}

	return r.snapshot.Clone(), nil
}

func (r *ContractRepository) Reload(ctx context.Context) (contract.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return contract.Snapshot{}, err
	}

	snap := r.load(ctx)

	r.mu.Lock()
	r.snapshot = snap
	r.loaded = true
	r.mu.Unlock()

	return snap.Clone(), nil
}

func (r *ContractRepository) load(ctx context.Context) contract.Snapshot {
	now := r.cfg.Clock()

	rows, stats, err := readContractRows(r.cfg.Path, r.cfg.AllowedClubs, now)
	if err != nil {
		r.logger.WarnContext(ctx, "contracts export unavailable, serving synthetic fallback",
			"path", r.cfg.Path, "error", err)

		return contract.Snapshot{
			Contracts: r.cfg.Fallback(now),
			LoadedAt:  now,
			Source:    dataset.SourceSynthetic,
			Fallback:  true,
			Diagnostics: []dataset.Diagnostic{
				dataset.NewDiagnostic(dataset.DiagMissingSource, fmt.Sprintf("contracts export unavailable: %v", err)),
				dataset.NewDiagnostic(dataset.DiagFallbackDataset, "serving seeded synthetic contracts"),
			},
		}
	}

	r.logger.InfoContext(ctx, "contracts export loaded",
		"path", r.cfg.Path,
		"rows", len(rows),
		"dropped_identity", stats.droppedIdentity,
		"dropped_clubs", stats.droppedClub,
		"dropped_inactive", stats.droppedInactive,
		"malformed_cells", stats.malformedCells)

	return contract.Snapshot{
		Contracts:   rows,
		LoadedAt:    now,
		Source:      dataset.SourceCSV,
		Diagnostics: stats.diagnostics(),
	}
}

// readContractRows runs the cleaning pipeline over the export: identity
// check, club allow-list, typed coercion, classification, derived fields.
// Only contracts active at the reference date make the working table.
func readContractRows(path string, allowedClubs []string, now time.Time) ([]contract.Contract, loadStats, error) {
	var stats loadStats

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, errors.Wrap(err, "open contracts export")
	}
	defer f.Close()

	reader := enccsv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, stats, errors.Wrap(err, "read contracts header")
	}

	cols := columnIndex(header, contractAliases)
	if missing := missingColumns(cols, colPlayer, colClub, colPosition); len(missing) > 0 {
		return nil, stats, errors.Newf("contracts export missing columns %v", missing)
	}

	allowed := clubAllowSet(allowedClubs)
	coerce := &coercion{}
	out := make([]contract.Contract, 0, 64)

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, errors.Wrap(err, "read contracts row")
		}

		rec := record{cols: cols, cells: cells}
		player := rec.str(colPlayer)
		club := rec.str(colClub)
		rawPos := rec.str(colPosition)

		if player == "" || club == "" || rawPos == "" {
			stats.droppedIdentity++
			continue
		}
		if !clubAllowed(allowed, club) {
			stats.droppedClub++
			continue
		}

		c := contract.Contract{
			Player:        player,
			Club:          club,
			RawPosition:   rawPos,
			Category:      position.Classify(rawPos),
			StartDate:     coerce.dateCell(rec, colStart),
			EndDate:       coerce.dateCell(rec, colEnd),
			MonthlySalary: coerce.floatCell(rec, colSalary),
			ReleaseClause: coerce.floatCell(rec, colClause),
		}
		c.Derive(now)

		if !c.Active {
			stats.droppedInactive++
			continue
		}
		out = append(out, c)
	}

	stats.malformedCells = coerce.malformed

	return out, stats, nil
}
