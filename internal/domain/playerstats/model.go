package playerstats

import (
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

// SeasonAccumulated labels rows produced by the accumulated (career) view.
const SeasonAccumulated = "Acumulado"

// Record is one player-season performance row.
type Record struct {
	WyscoutID   int64
	Player      string
	Team        string
	RawPosition string
	Category    position.Category
	Age         int
	Season      string
	Minutes     int
	Goals       int
	Assists     int
	Shots       int
	XG          float64
	XA          float64
}

// Snapshot is an immutable view of the performance dataset after the full
// load pipeline (cleaning, classification, synthesis) has run.
type Snapshot struct {
	Records     []Record
	LoadedAt    time.Time
	Source      string
	Fallback    bool
	SyntheticXG bool
	Diagnostics []dataset.Diagnostic
}

// Clone returns a deep copy so holders can hand snapshots out without
// sharing backing arrays.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Records = append([]Record(nil), s.Records...)
	out.Diagnostics = append([]dataset.Diagnostic(nil), s.Diagnostics...)
	return out
}
