package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
	qb "github.com/german-fros/tablero-api/internal/platform/querybuilder"
)

// ContractRepository reads the contracts table and runs the same cleaning
// and derivation pipeline the CSV loader applies, so both backends produce
// identical working snapshots for identical rows.
type ContractRepository struct {
	db           *sqlx.DB
	allowedClubs []string
	clock        func() time.Time
}

var contractSelectColumns = []string{
	"id",
	"player",
	"club",
	"position",
	"start_date",
	"end_date",
	"monthly_salary",
	"release_clause",
	"imported_at",
}

func NewContractRepository(db *sqlx.DB, allowedClubs []string, clock func() time.Time) *ContractRepository {
	if clock == nil {
		clock = time.Now
	}
	return &ContractRepository{db: db, allowedClubs: allowedClubs, clock: clock}
}

func (r *ContractRepository) Snapshot(ctx context.Context) (contract.Snapshot, error) {
	query, args, err := qb.Select(contractSelectColumns...).From("contracts").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return contract.Snapshot{}, fmt.Errorf("build select contracts query: %w", err)
	}

	var rows []contractTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return contract.Snapshot{}, fmt.Errorf("select contracts: %w", err)
	}

	now := r.clock()
	allowed := clubAllowSet(r.allowedClubs)
	out := make([]contract.Contract, 0, len(rows))

	for _, row := range rows {
		if row.Player == "" || row.Club == "" || row.Position == "" {
			continue
		}
		if !clubAllowed(allowed, row.Club) {
			continue
		}

		c := contract.Contract{
			Player:        row.Player,
			Club:          row.Club,
			RawPosition:   row.Position,
			Category:      position.Classify(row.Position),
			StartDate:     timeOrZero(row.StartDate),
			EndDate:       timeOrZero(row.EndDate),
			MonthlySalary: row.MonthlySalary,
			ReleaseClause: row.ReleaseClause,
		}
		c.Derive(now)

		if !c.Active {
			continue
		}
		out = append(out, c)
	}

	return contract.Snapshot{
		Contracts: out,
		LoadedAt:  now,
		Source:    dataset.SourcePostgres,
	}, nil
}

// Reload re-reads the table; the database is the source of truth, so there
// is nothing to invalidate here. Cache decorators sit above this type.
func (r *ContractRepository) Reload(ctx context.Context) (contract.Snapshot, error) {
	return r.Snapshot(ctx)
}

// ReplaceAll swaps the stored contract rows in one transaction. The refresh
// job writes fetched exports through this.
func (r *ContractRepository) ReplaceAll(ctx context.Context, contracts []contract.Contract) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace contracts: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom("contracts").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete contracts query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete contracts: %w", err)
	}

	if len(contracts) > 0 {
		query, args, err = qb.InsertModels("contracts", contractInsertModels(contracts), "")
		if err != nil {
			return fmt.Errorf("build insert contracts query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert contracts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace contracts tx: %w", err)
	}

	return nil
}
