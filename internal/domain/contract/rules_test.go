package contract

import (
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsActive(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 1)
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "covers now", start: date(2024, time.January, 1), end: date(2026, time.December, 31), want: true},
		{name: "starts today", start: now, end: date(2026, time.January, 1), want: true},
		{name: "ends today", start: date(2024, time.January, 1), end: now, want: true},
		{name: "expired", start: date(2022, time.January, 1), end: date(2024, time.December, 31), want: false},
		{name: "not started", start: date(2025, time.July, 1), end: date(2027, time.June, 30), want: false},
		{name: "missing start", start: time.Time{}, end: date(2026, time.January, 1), want: false},
		{name: "missing end", start: date(2024, time.January, 1), end: time.Time{}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsActive(tc.start, tc.end, now); got != tc.want {
				t.Fatalf("IsActive(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestDurationDays(t *testing.T) {
	t.Parallel()

	got, ok := DurationDays(date(2024, time.January, 1), date(2024, time.January, 31))
	if !ok || got != 30 {
		t.Fatalf("DurationDays = (%d, %v), want (30, true)", got, ok)
	}

	if _, ok := DurationDays(time.Time{}, date(2024, time.January, 31)); ok {
		t.Fatal("expected missing start to report no duration")
	}
	if _, ok := DurationDays(date(2024, time.January, 1), time.Time{}); ok {
		t.Fatal("expected missing end to report no duration")
	}
}

func TestExpirySemesterOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		end  time.Time
		want string
	}{
		{end: date(2024, time.June, 30), want: "2024-1"},
		{end: date(2024, time.July, 1), want: "2024-2"},
		{end: date(2024, time.January, 1), want: "2024-1"},
		{end: date(2024, time.December, 31), want: "2024-2"},
		{end: time.Time{}, want: ""},
	}

	for _, tc := range cases {
		if got := ExpirySemesterOf(tc.end); got != tc.want {
			t.Fatalf("ExpirySemesterOf(%v) = %q, want %q", tc.end, got, tc.want)
		}
	}
}

func sampleContracts(t *testing.T) []Contract {
	t.Helper()

	now := date(2025, time.June, 1)
	contracts := []Contract{
		{Player: "Bruno Silva", Club: "Nacional", RawPosition: "CB", Category: position.CategoryDefender, StartDate: date(2023, time.January, 15), EndDate: date(2025, time.December, 31), MonthlySalary: 8000},
		{Player: "Nicolás López", Club: "Nacional", RawPosition: "CF", Category: position.CategoryForward, StartDate: date(2024, time.February, 1), EndDate: date(2026, time.June, 30), MonthlySalary: 12000},
		{Player: "Agustín Rodríguez", Club: "Peñarol", RawPosition: "GK", Category: position.CategoryGoalkeeper, StartDate: date(2022, time.July, 1), EndDate: date(2025, time.June, 30), MonthlySalary: 9500},
		{Player: "Fabricio Díaz", Club: "Danubio", RawPosition: "DMF", Category: position.CategoryMidfielder, StartDate: date(2024, time.January, 10), EndDate: date(2027, time.December, 15), MonthlySalary: 4300},
	}
	for i := range contracts {
		contracts[i].Derive(now)
	}
	return contracts
}

func TestDerive(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 1)
	c := Contract{
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2026, time.June, 30),
	}
	c.Derive(now)

	if !c.Active {
		t.Fatal("expected contract covering now to be active")
	}
	if c.StartYear != 2024 {
		t.Fatalf("StartYear = %d, want 2024", c.StartYear)
	}
	if c.ExpirySemester != "2026-1" {
		t.Fatalf("ExpirySemester = %q, want 2026-1", c.ExpirySemester)
	}
	if c.DurationDays != 911 {
		t.Fatalf("DurationDays = %d, want 911", c.DurationDays)
	}
}

func TestApply_ClubAndPositionFacets(t *testing.T) {
	t.Parallel()

	contracts := sampleContracts(t)

	nacional := Apply(contracts, Filter{Club: "Nacional"})
	if len(nacional) != 2 {
		t.Fatalf("club filter returned %d rows, want 2", len(nacional))
	}

	// No goalkeeper plays for Nacional in the sample: the conjunction must
	// produce an empty table, not an error.
	empty := Apply(contracts, Filter{Club: "Nacional", Position: string(position.CategoryGoalkeeper)})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v", empty)
	}
}

func TestApply_SalaryRangeInclusive(t *testing.T) {
	t.Parallel()

	contracts := sampleContracts(t)

	got := Apply(contracts, Filter{SalaryMin: 8000, SalaryMax: 9500})
	if len(got) != 2 {
		t.Fatalf("salary filter returned %d rows, want 2", len(got))
	}
	for _, c := range got {
		if c.MonthlySalary < 8000 || c.MonthlySalary > 9500 {
			t.Fatalf("row outside inclusive range: %v", c.MonthlySalary)
		}
	}

	// SalaryMax at zero leaves the range facet inactive.
	if got := Apply(contracts, Filter{SalaryMin: 8000}); len(got) != len(contracts) {
		t.Fatalf("inactive range filtered rows: %d", len(got))
	}
}

func TestApply_AllSentinelAndImmutability(t *testing.T) {
	t.Parallel()

	contracts := sampleContracts(t)
	got := Apply(contracts, Filter{Club: dataset.FacetAll, Position: dataset.FacetAll})

	if len(got) != len(contracts) {
		t.Fatalf("all-sentinel filter returned %d rows, want %d", len(got), len(contracts))
	}
	got[0].Club = "Elsewhere"
	if contracts[0].Club == "Elsewhere" {
		t.Fatal("filter result shares backing array with input")
	}
}

func TestMeanSalaryByCategory(t *testing.T) {
	t.Parallel()

	got := MeanSalaryByCategory(sampleContracts(t))

	if len(got) != 4 {
		t.Fatalf("got %d categories, want 4", len(got))
	}
	// Display order: Portero, Defensa, Mediocampo, Delantero.
	if got[0].Category != position.CategoryGoalkeeper || got[0].MeanSalary != 9500 {
		t.Fatalf("unexpected first bucket: %+v", got[0])
	}
	if got[1].Category != position.CategoryDefender || got[1].MeanSalary != 8000 {
		t.Fatalf("unexpected second bucket: %+v", got[1])
	}
	if got[3].Category != position.CategoryForward || got[3].Count != 1 {
		t.Fatalf("unexpected last bucket: %+v", got[3])
	}
}

func TestStartsByYearClub(t *testing.T) {
	t.Parallel()

	got := StartsByYearClub(sampleContracts(t))

	want := []YearClubCount{
		{Year: 2022, Club: "Peñarol", Count: 1},
		{Year: 2023, Club: "Nacional", Count: 1},
		{Year: 2024, Club: "Danubio", Count: 1},
		{Year: 2024, Club: "Nacional", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d cells, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExpiryBuckets_HorizonIncludesEmptySemesters(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 1)
	got := ExpiryBuckets(sampleContracts(t), 4, now)

	want := []SemesterCount{
		{Semester: "2025-1", Count: 1},
		{Semester: "2025-2", Count: 1},
		{Semester: "2026-1", Count: 1},
		{Semester: "2026-2", Count: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExpiryBuckets_NoHorizonListsObservedSemesters(t *testing.T) {
	t.Parallel()

	got := ExpiryBuckets(sampleContracts(t), 0, date(2025, time.June, 1))
	if len(got) != 4 {
		t.Fatalf("got %d buckets: %+v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Semester < got[i-1].Semester {
			t.Fatalf("buckets not ascending: %+v", got)
		}
	}
}

func TestFacetHelpers(t *testing.T) {
	t.Parallel()

	contracts := sampleContracts(t)

	clubs := Clubs(contracts)
	if len(clubs) != 3 || clubs[0] != "Danubio" || clubs[2] != "Peñarol" {
		t.Fatalf("Clubs = %v", clubs)
	}

	cats := Categories(contracts)
	if len(cats) != 4 || cats[0] != position.CategoryGoalkeeper {
		t.Fatalf("Categories = %v", cats)
	}

	low, high := SalaryBounds(contracts)
	if low != 4300 || high != 12000 {
		t.Fatalf("SalaryBounds = (%v, %v)", low, high)
	}
}

func TestSortByExpiry(t *testing.T) {
	t.Parallel()

	contracts := sampleContracts(t)
	contracts = append(contracts, Contract{Player: "Sin Fecha", Club: "Wanderers"})

	got := SortByExpiry(contracts)
	if got[0].Player != "Agustín Rodríguez" {
		t.Fatalf("soonest expiry first, got %q", got[0].Player)
	}
	if got[len(got)-1].Player != "Sin Fecha" {
		t.Fatalf("missing dates must sort last, got %q", got[len(got)-1].Player)
	}
}
