package contract

import (
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

// Contract is one player contract row. Zero dates mean the source value was
// missing or unparseable. Derived fields are filled by Derive at load time.
type Contract struct {
	Player        string
	Club          string
	RawPosition   string
	Category      position.Category
	StartDate     time.Time
	EndDate       time.Time
	MonthlySalary float64
	ReleaseClause float64

	Active         bool
	DurationDays   int
	StartYear      int
	ExpirySemester string
}

// Derive fills the derived columns from the date fields, evaluated at now.
func (c *Contract) Derive(now time.Time) {
	c.Active = IsActive(c.StartDate, c.EndDate, now)
	c.DurationDays, _ = DurationDays(c.StartDate, c.EndDate)
	c.StartYear = StartYear(c.StartDate)
	c.ExpirySemester = ExpirySemesterOf(c.EndDate)
}

// Snapshot is an immutable view of the contracts dataset after loading,
// holding only rows that survived cleaning and the active-contract filter.
type Snapshot struct {
	Contracts   []Contract
	LoadedAt    time.Time
	Source      string
	Fallback    bool
	Diagnostics []dataset.Diagnostic
}

func (s Snapshot) Clone() Snapshot {
	out := s
	out.Contracts = append([]Contract(nil), s.Contracts...)
	out.Diagnostics = append([]dataset.Diagnostic(nil), s.Diagnostics...)
	return out
}
