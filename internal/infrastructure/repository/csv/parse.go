package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
)

// Canonical column keys after header aliasing.
const (
	colWyID     = "wyscout_id"
	colPlayer   = "player"
	colClub     = "club"
	colTeam     = "team"
	colPosition = "position"
	colAge      = "age"
	colSeason   = "season"
	colMinutes  = "minutes"
	colGoals    = "goals"
	colAssists  = "assists"
	colShots    = "shots"
	colXG       = "xg"
	colXA       = "xa"
	colStart    = "start_date"
	colEnd      = "end_date"
	colSalary   = "monthly_salary"
	colClause   = "release_clause"
)

// Header aliases accept both the Spanish headings the club exports carry and
// their English equivalents. Keys are lowercased trimmed header cells.
var contractAliases = map[string]string{
	"jugador":     colPlayer,
	"nombre":      colPlayer,
	"player":      colPlayer,
	"player_name": colPlayer,

	"club":   colClub,
	"equipo": colClub,
	"team":   colClub,

	"posición": colPosition,
	"posicion": colPosition,
	"position": colPosition,
	"pos":      colPosition,

	"fecha inicio": colStart,
	"fecha_inicio": colStart,
	"inicio":       colStart,
	"start_date":   colStart,
	"start":        colStart,

	"fecha fin": colEnd,
	"fecha_fin": colEnd,
	"fin":       colEnd,
	"end_date":  colEnd,
	"end":       colEnd,

	"salario mensual": colSalary,
	"salario_mensual": colSalary,
	"salario":         colSalary,
	"monthly_salary":  colSalary,
	"salary":          colSalary,

	"cláusula":       colClause,
	"clausula":       colClause,
	"release_clause": colClause,
	"clause":         colClause,
}

var performanceAliases = map[string]string{
	"wyid":       colWyID,
	"wyscout_id": colWyID,
	"id":         colWyID,

	"jugador":     colPlayer,
	"nombre":      colPlayer,
	"player":      colPlayer,
	"player_name": colPlayer,

	"equipo": colTeam,
	"team":   colTeam,
	"club":   colTeam,

	"posición": colPosition,
	"posicion": colPosition,
	"position": colPosition,
	"pos":      colPosition,

	"edad": colAge,
	"age":  colAge,

	"temporada": colSeason,
	"season":    colSeason,

	"minutos":        colMinutes,
	"minutes":        colMinutes,
	"minutes_played": colMinutes,

	"goles": colGoals,
	"goals": colGoals,

	"asistencias": colAssists,
	"assists":     colAssists,

	"remates": colShots,
	"tiros":   colShots,
	"shots":   colShots,

	"xg":             colXG,
	"expected_goals": colXG,

	"xa":               colXA,
	"expected_assists": colXA,
}

// columnIndex resolves canonical column positions from a header row through
// an alias table. The first header cell that maps to a canonical name wins.
func columnIndex(header []string, aliases map[string]string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		canonical, ok := aliases[key]
		if !ok {
			continue
		}
		if _, dup := out[canonical]; !dup {
			out[canonical] = i
		}
	}
	return out
}

func missingColumns(cols map[string]int, names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// record is one data row addressed by canonical column name.
type record struct {
	cols  map[string]int
	cells []string
}

func (r record) str(name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// coercion applies the safe-default policy for typed cells: blanks become
// zero values silently, unparseable cells become zero values and are counted
// so the load can surface a diagnostic.
type coercion struct {
	malformed int
}

func (c *coercion) intCell(r record, name string) int {
	raw := r.str(name)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := parseFloat(raw); err == nil {
		return int(f)
	}
	c.malformed++
	return 0
}

func (c *coercion) int64Cell(r record, name string) int64 {
	raw := r.str(name)
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	c.malformed++
	return 0
}

func (c *coercion) floatCell(r record, name string) float64 {
	raw := r.str(name)
	if raw == "" {
		return 0
	}
	f, err := parseFloat(raw)
	if err != nil {
		c.malformed++
		return 0
	}
	return f
}

func (c *coercion) dateCell(r record, name string) time.Time {
	raw := r.str(name)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	c.malformed++
	return time.Time{}
}

// parseFloat also accepts the comma decimal separator Spanish exports use.
func parseFloat(raw string) (float64, error) {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

// clubAllowSet lowers the configured club names for matching. A nil result
// disables the restriction.
func clubAllowSet(clubs []string) map[string]struct{} {
	if len(clubs) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(clubs))
	for _, c := range clubs {
		out[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return out
}

func clubAllowed(set map[string]struct{}, club string) bool {
	if set == nil {
		return true
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(club))]
	return ok
}

// loadStats counts rows and cells the cleaning steps rejected or coerced.
type loadStats struct {
	droppedIdentity int
	droppedClub     int
	droppedInactive int
	malformedCells  int
}

func (s loadStats) diagnostics() []dataset.Diagnostic {
	var out []dataset.Diagnostic
	if s.droppedIdentity > 0 {
		out = append(out, dataset.NewDiagnostic(
			dataset.DiagMalformedValue,
			fmt.Sprintf("%d rows dropped for missing identity columns", s.droppedIdentity),
		))
	}
	if s.malformedCells > 0 {
		out = append(out, dataset.NewDiagnostic(
			dataset.DiagMalformedValue,
			fmt.Sprintf("%d cells coerced to zero values", s.malformedCells),
		))
	}
	return out
}
