package contract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

// IsActive reports whether a contract covers now, boundaries inclusive.
// A missing boundary means the contract cannot be proven active.
func IsActive(start, end, now time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// DurationDays returns the whole days between start and end. ok is false
// when either date is missing.
func DurationDays(start, end time.Time) (int, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	return int(end.Sub(start).Hours() / 24), true
}

// ExpirySemesterOf buckets an end date into "{year}-1" (January through
// June) or "{year}-2" (July through December). Missing dates yield "".
func ExpirySemesterOf(end time.Time) string {
	if end.IsZero() {
		return ""
	}
	semester := 1
	if end.Month() > time.June {
		semester = 2
	}
	return fmt.Sprintf("%d-%d", end.Year(), semester)
}

// StartYear returns the contract's starting year, 0 for missing dates.
func StartYear(start time.Time) int {
	if start.IsZero() {
		return 0
	}
	return start.Year()
}

// Filter holds the contracts page facets. Empty or "all" club/position
// impose no constraint; the salary range applies when SalaryMax > 0 and is
// inclusive at both ends. Facets combine conjunctively.
type Filter struct {
	Club      string
	Position  string
	SalaryMin float64
	SalaryMax float64
}

func (f Filter) Matches(c Contract) bool {
	if facetActive(f.Club) && c.Club != f.Club {
		return false
	}
	if facetActive(f.Position) && string(c.Category) != f.Position {
		return false
	}
	if f.SalaryMax > 0 {
		if c.MonthlySalary < f.SalaryMin || c.MonthlySalary > f.SalaryMax {
			return false
		}
	}
	return true
}

// Apply returns the contracts passing f, in input order, as a fresh slice.
// The input is never mutated; an empty result is a valid outcome.
func Apply(contracts []Contract, f Filter) []Contract {
	out := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func facetActive(facet string) bool {
	return facet != "" && facet != dataset.FacetAll
}

// CategorySalary is one bar of the mean-salary-by-position chart.
type CategorySalary struct {
	Category   position.Category
	MeanSalary float64
	Count      int
}

// MeanSalaryByCategory averages monthly salaries per position category in
// display order, omitting categories with no contracts.
func MeanSalaryByCategory(contracts []Contract) []CategorySalary {
	sums := make(map[position.Category]float64)
	counts := make(map[position.Category]int)
	for _, c := range contracts {
		sums[c.Category] += c.MonthlySalary
		counts[c.Category]++
	}

	out := make([]CategorySalary, 0, len(counts))
	for _, cat := range position.CategoryOrder {
		n := counts[cat]
		if n == 0 {
			continue
		}
		out = append(out, CategorySalary{
			Category:   cat,
			MeanSalary: sums[cat] / float64(n),
			Count:      n,
		})
	}
	return out
}

// YearClubCount is one cell of the contract-starts stacked chart.
type YearClubCount struct {
	Year  int
	Club  string
	Count int
}

// StartsByYearClub counts contract starts per (year, club), years ascending
// then clubs alphabetical. Rows without a start date are skipped.
func StartsByYearClub(contracts []Contract) []YearClubCount {
	type key struct {
		year int
		club string
	}
	counts := make(map[key]int)
	for _, c := range contracts {
		if c.StartYear == 0 {
			continue
		}
		counts[key{year: c.StartYear, club: c.Club}]++
	}

	out := make([]YearClubCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearClubCount{Year: k.year, Club: k.club, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Club < out[j].Club
	})
	return out
}

// SemesterCount is one bucket of the expiry timeline.
type SemesterCount struct {
	Semester string
	Count    int
}

// ExpiryBuckets counts contracts expiring per semester. With horizon > 0 it
// returns exactly that many consecutive semesters starting at now's,
// including empty buckets; otherwise it returns every observed semester in
// ascending order. Rows without an end date are skipped.
func ExpiryBuckets(contracts []Contract, horizon int, now time.Time) []SemesterCount {
	counts := make(map[string]int)
	for _, c := range contracts {
		if c.ExpirySemester == "" {
			continue
		}
		counts[c.ExpirySemester]++
	}

	if horizon > 0 {
		out := make([]SemesterCount, 0, horizon)
		year, half := now.Year(), 1
		if now.Month() > time.June {
			half = 2
		}
		for i := 0; i < horizon; i++ {
			label := fmt.Sprintf("%d-%d", year, half)
			out = append(out, SemesterCount{Semester: label, Count: counts[label]})
			if half == 1 {
				half = 2
			} else {
				half = 1
				year++
			}
		}
		return out
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	out := make([]SemesterCount, 0, len(labels))
	for _, label := range labels {
		out = append(out, SemesterCount{Semester: label, Count: counts[label]})
	}
	return out
}

// Clubs returns the distinct clubs in alphabetical order.
func Clubs(contracts []Contract) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)
	for _, c := range contracts {
		if _, ok := seen[c.Club]; ok {
			continue
		}
		seen[c.Club] = struct{}{}
		out = append(out, c.Club)
	}
	sort.Strings(out)
	return out
}

// Categories returns the position categories present, in display order.
func Categories(contracts []Contract) []position.Category {
	present := make(map[position.Category]struct{})
	for _, c := range contracts {
		present[c.Category] = struct{}{}
	}
	out := make([]position.Category, 0, len(present))
	for _, cat := range position.CategoryOrder {
		if _, ok := present[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// SalaryBounds returns the min and max monthly salary, (0, 0) when empty.
func SalaryBounds(contracts []Contract) (float64, float64) {
	if len(contracts) == 0 {
		return 0, 0
	}
	low, high := contracts[0].MonthlySalary, contracts[0].MonthlySalary
	for _, c := range contracts[1:] {
		if c.MonthlySalary < low {
			low = c.MonthlySalary
		}
		if c.MonthlySalary > high {
			high = c.MonthlySalary
		}
	}
	return low, high
}

// SortByExpiry returns a copy ordered by end date ascending, missing dates
// last, ties by player name.
func SortByExpiry(contracts []Contract) []Contract {
	out := append([]Contract(nil), contracts...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].EndDate, out[j].EndDate
		switch {
		case a.IsZero() && b.IsZero():
			return strings.ToLower(out[i].Player) < strings.ToLower(out[j].Player)
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		case !a.Equal(b):
			return a.Before(b)
		default:
			return strings.ToLower(out[i].Player) < strings.ToLower(out[j].Player)
		}
	})
	return out
}
