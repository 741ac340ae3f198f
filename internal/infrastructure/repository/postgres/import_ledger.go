package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	qb "github.com/german-fros/tablero-api/internal/platform/querybuilder"
)

// ImportLedger keeps one bookkeeping row per dataset recording the latest
// refresh: where the data came from, how many rows, and when.
type ImportLedger struct {
	db *sqlx.DB
}

var importSelectColumns = []string{
	"dataset",
	"source",
	"row_count",
	"imported_at",
}

type importTableModel struct {
	Dataset    string    `db:"dataset"`
	Source     string    `db:"source"`
	Rows       int       `db:"row_count"`
	ImportedAt time.Time `db:"imported_at"`
}

type importInsertModel struct {
	Dataset    string    `db:"dataset"`
	Source     string    `db:"source"`
	Rows       int       `db:"row_count"`
	ImportedAt time.Time `db:"imported_at"`
}

func NewImportLedger(db *sqlx.DB) *ImportLedger {
	return &ImportLedger{db: db}
}

func (l *ImportLedger) Record(ctx context.Context, rec dataset.ImportRecord) error {
	query, args, err := qb.Update("dataset_imports").
		Set("source", rec.Source).
		Set("row_count", rec.Rows).
		Set("imported_at", rec.ImportedAt).
		Where(qb.Eq("dataset", rec.Dataset)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update import ledger query: %w", err)
	}

	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update import ledger: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update import ledger result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query, args, err = qb.InsertModel("dataset_imports", importInsertModel{
		Dataset:    rec.Dataset,
		Source:     rec.Source,
		Rows:       rec.Rows,
		ImportedAt: rec.ImportedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert import ledger query: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert import ledger: %w", err)
	}

	return nil
}

func (l *ImportLedger) Last(ctx context.Context, name string) (dataset.ImportRecord, bool, error) {
	query, args, err := qb.Select(importSelectColumns...).From("dataset_imports").
		Where(qb.Eq("dataset", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return dataset.ImportRecord{}, false, fmt.Errorf("build select import ledger query: %w", err)
	}

	var row importTableModel
	if err := l.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return dataset.ImportRecord{}, false, nil
		}
		return dataset.ImportRecord{}, false, fmt.Errorf("select import ledger row: %w", err)
	}

	return dataset.ImportRecord{
		Dataset:    row.Dataset,
		Source:     row.Source,
		Rows:       row.Rows,
		ImportedAt: row.ImportedAt,
	}, true, nil
}
