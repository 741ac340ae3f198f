package csv

import (
	enccsv "encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

// Export column order. The loaders accept these headers unchanged, so files
// written here round-trip through the load pipeline.
var (
	performanceHeader = []string{colWyID, colPlayer, colTeam, colPosition, colAge, colSeason, colMinutes, colGoals, colAssists, colShots, colXG, colXA}
	contractHeader    = []string{colPlayer, colClub, colPosition, colStart, colEnd, colSalary, colClause}
)

// WritePerformance serializes performance rows in the canonical export
// layout.
func WritePerformance(w io.Writer, records []playerstats.Record) error {
	cw := enccsv.NewWriter(w)
	if err := cw.Write(performanceHeader); err != nil {
		return errors.Wrap(err, "write performance header")
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.WyscoutID, 10),
			rec.Player,
			rec.Team,
			rec.RawPosition,
			strconv.Itoa(rec.Age),
			rec.Season,
			strconv.Itoa(rec.Minutes),
			strconv.Itoa(rec.Goals),
			strconv.Itoa(rec.Assists),
			strconv.Itoa(rec.Shots),
			formatFloatCell(rec.XG),
			formatFloatCell(rec.XA),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write performance row player=%s", rec.Player)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush performance rows")
}

// WriteContracts serializes contract rows in the canonical export layout.
// Derived columns are not written; loaders recompute them.
func WriteContracts(w io.Writer, contracts []contract.Contract) error {
	cw := enccsv.NewWriter(w)
	if err := cw.Write(contractHeader); err != nil {
		return errors.Wrap(err, "write contracts header")
	}

	for _, c := range contracts {
		row := []string{
			c.Player,
			c.Club,
			c.RawPosition,
			formatDateCell(c.StartDate),
			formatDateCell(c.EndDate),
			formatFloatCell(c.MonthlySalary),
			formatFloatCell(c.ReleaseClause),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write contract row player=%s", c.Player)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush contract rows")
}

func formatFloatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatDateCell writes zero dates as empty cells, mirroring how the loader
// treats blanks.
func formatDateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
