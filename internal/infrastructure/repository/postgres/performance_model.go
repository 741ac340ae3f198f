package postgres

import (
	"time"

	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

type performanceTableModel struct {
	ID         int64     `db:"id"`
	WyscoutID  int64     `db:"wyscout_id"`
	Player     string    `db:"player"`
	Team       string    `db:"team"`
	Position   string    `db:"position"`
	Age        int       `db:"age"`
	Season     string    `db:"season"`
	Minutes    int       `db:"minutes"`
	Goals      int       `db:"goals"`
	Assists    int       `db:"assists"`
	Shots      int       `db:"shots"`
	XG         float64   `db:"xg"`
	XA         float64   `db:"xa"`
	ImportedAt time.Time `db:"imported_at"`
}

type performanceInsertModel struct {
	WyscoutID int64   `db:"wyscout_id"`
	Player    string  `db:"player"`
	Team      string  `db:"team"`
	Position  string  `db:"position"`
	Age       int     `db:"age"`
	Season    string  `db:"season"`
	Minutes   int     `db:"minutes"`
	Goals     int     `db:"goals"`
	Assists   int     `db:"assists"`
	Shots     int     `db:"shots"`
	XG        float64 `db:"xg"`
	XA        float64 `db:"xa"`
}

func performanceInsertModels(records []playerstats.Record) []performanceInsertModel {
	out := make([]performanceInsertModel, 0, len(records))
	for _, rec := range records {
		out = append(out, performanceInsertModel{
			WyscoutID: rec.WyscoutID,
			Player:    rec.Player,
			Team:      rec.Team,
			Position:  rec.RawPosition,
			Age:       rec.Age,
			Season:    rec.Season,
			Minutes:   rec.Minutes,
			Goals:     rec.Goals,
			Assists:   rec.Assists,
			Shots:     rec.Shots,
			XG:        rec.XG,
			XA:        rec.XA,
		})
	}
	return out
}
