package postgres

import (
	"database/sql"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
)

type contractTableModel struct {
	ID            int64        `db:"id"`
	Player        string       `db:"player"`
	Club          string       `db:"club"`
	Position      string       `db:"position"`
	StartDate     sql.NullTime `db:"start_date"`
	EndDate       sql.NullTime `db:"end_date"`
	MonthlySalary float64      `db:"monthly_salary"`
	ReleaseClause float64      `db:"release_clause"`
	ImportedAt    time.Time    `db:"imported_at"`
}

type contractInsertModel struct {
	Player        string     `db:"player"`
	Club          string     `db:"club"`
	Position      string     `db:"position"`
	StartDate     *time.Time `db:"start_date"`
	EndDate       *time.Time `db:"end_date"`
	MonthlySalary float64    `db:"monthly_salary"`
	ReleaseClause float64    `db:"release_clause"`
}

func contractInsertModels(contracts []contract.Contract) []contractInsertModel {
	out := make([]contractInsertModel, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, contractInsertModel{
			Player:        c.Player,
			Club:          c.Club,
			Position:      c.RawPosition,
			StartDate:     nullableTime(c.StartDate),
			EndDate:       nullableTime(c.EndDate),
			MonthlySalary: c.MonthlySalary,
			ReleaseClause: c.ReleaseClause,
		})
	}
	return out
}
