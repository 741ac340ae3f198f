package playerstats

import (
	"sort"
	"strings"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
)

// Metric selects the stat used for ranking and bar charts.
type Metric string

const (
	MetricGoals   Metric = "goals"
	MetricAssists Metric = "assists"
	MetricMinutes Metric = "minutes"
)

var AllMetrics = []Metric{MetricGoals, MetricAssists, MetricMinutes}

// ParseMetric maps user input to a metric. Unrecognized input falls back to
// goals, the dashboard's default ranking.
func ParseMetric(raw string) Metric {
	switch Metric(strings.ToLower(strings.TrimSpace(raw))) {
	case MetricAssists:
		return MetricAssists
	case MetricMinutes:
		return MetricMinutes
	default:
		return MetricGoals
	}
}

// Label returns the Spanish display name used in charts and tables.
func (m Metric) Label() string {
	switch m {
	case MetricAssists:
		return "Asistencias"
	case MetricMinutes:
		return "Minutos"
	default:
		return "Goles"
	}
}

// SortSpec describes a ranking order. The zero value sorts by goals
// descending, the dashboard default.
type SortSpec struct {
	Metric    Metric
	Ascending bool
}

// Filter holds the performance page facets. Empty or "all" values impose no
// constraint; facets combine conjunctively.
type Filter struct {
	Season   string
	Team     string
	MinShots int
}

// Matches reports whether r passes every active facet. The team facet uses
// case-insensitive containment so accumulated rows with joined team strings
// still match their constituent clubs.
func (f Filter) Matches(r Record) bool {
	if active(f.Season) && r.Season != f.Season {
		return false
	}
	if active(f.Team) && !strings.Contains(strings.ToLower(r.Team), strings.ToLower(f.Team)) {
		return false
	}
	if f.MinShots > 0 && r.Shots < f.MinShots {
		return false
	}
	return true
}

// Apply returns the records passing f, in input order, as a fresh slice.
// The input is never mutated; an empty result is a valid outcome.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func active(facet string) bool {
	return facet != "" && facet != dataset.FacetAll
}

// Columns summed when season rows collapse into one accumulated row per
// player. Team and season have dedicated merge rules below; every other
// column keeps the value from the player's first row.
var summedIntColumns = []struct {
	name string
	get  func(*Record) *int
}{
	{name: "minutes", get: func(r *Record) *int { return &r.Minutes }},
	{name: "goals", get: func(r *Record) *int { return &r.Goals }},
	{name: "assists", get: func(r *Record) *int { return &r.Assists }},
	{name: "shots", get: func(r *Record) *int { return &r.Shots }},
}

var summedFloatColumns = []struct {
	name string
	get  func(*Record) *float64
}{
	{name: "xg", get: func(r *Record) *float64 { return &r.XG }},
	{name: "xa", get: func(r *Record) *float64 { return &r.XA }},
}

// Accumulate collapses season rows into one row per player. Counting stats
// sum; the team cell becomes the distinct teams in first-seen order joined
// with ", " (a display string, never re-parsed); the season cell becomes
// SeasonAccumulated. Group order follows each player's first appearance.
func Accumulate(records []Record) []Record {
	if len(records) == 0 {
		return []Record{}
	}

	index := make(map[int64]int, len(records))
	teams := make(map[int64][]string, len(records))
	out := make([]Record, 0, len(records))

	for _, r := range records {
		i, seen := index[r.WyscoutID]
		if !seen {
			merged := r
			merged.Season = SeasonAccumulated
			out = append(out, merged)
			index[r.WyscoutID] = len(out) - 1
			teams[r.WyscoutID] = []string{r.Team}
			continue
		}

		g := &out[i]
		for _, col := range summedIntColumns {
			*col.get(g) += *col.get(&r)
		}
		for _, col := range summedFloatColumns {
			*col.get(g) += *col.get(&r)
		}
		if !containsString(teams[r.WyscoutID], r.Team) {
			teams[r.WyscoutID] = append(teams[r.WyscoutID], r.Team)
		}
	}

	for i := range out {
		out[i].Team = strings.Join(teams[out[i].WyscoutID], ", ")
	}
	return out
}

func containsString(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

// MetricValue returns r's value for m.
func MetricValue(r Record, m Metric) int {
	switch m {
	case MetricAssists:
		return r.Assists
	case MetricMinutes:
		return r.Minutes
	default:
		return r.Goals
	}
}

// SortBy returns a copy of records stably ordered by the spec: ties keep
// their input order.
func SortBy(records []Record, spec SortSpec) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := MetricValue(out[i], spec.Metric), MetricValue(out[j], spec.Metric)
		if spec.Ascending {
			return a < b
		}
		return a > b
	})
	return out
}

// TopN returns the first n records of the SortBy order. n <= 0 or an empty
// input yields an empty slice.
func TopN(records []Record, spec SortSpec, n int) []Record {
	if n <= 0 || len(records) == 0 {
		return []Record{}
	}
	ranked := SortBy(records, spec)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Seasons returns the distinct seasons in ascending order.
func Seasons(records []Record) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, r := range records {
		if _, ok := seen[r.Season]; ok {
			continue
		}
		seen[r.Season] = struct{}{}
		out = append(out, r.Season)
	}
	sort.Strings(out)
	return out
}

// Teams returns the distinct teams in alphabetical order.
func Teams(records []Record) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)
	for _, r := range records {
		if _, ok := seen[r.Team]; ok {
			continue
		}
		seen[r.Team] = struct{}{}
		out = append(out, r.Team)
	}
	sort.Strings(out)
	return out
}

// AverageShots returns the mean shot count, 0 for an empty input.
func AverageShots(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.Shots
	}
	return float64(total) / float64(len(records))
}
