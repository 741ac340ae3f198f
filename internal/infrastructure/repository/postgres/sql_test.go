package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
)

func TestNullableTime(t *testing.T) {
	if got := nullableTime(time.Time{}); got != nil {
		t.Fatalf("zero time should map to nil, got %v", got)
	}

	when := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := nullableTime(when)
	if got == nil || !got.Equal(when) {
		t.Fatalf("expected %v, got %v", when, got)
	}
}

func TestTimeOrZero(t *testing.T) {
	if got := timeOrZero(sql.NullTime{}); !got.IsZero() {
		t.Fatalf("invalid null time should map to zero, got %v", got)
	}

	when := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := timeOrZero(sql.NullTime{Time: when, Valid: true})
	if !got.Equal(when) {
		t.Fatalf("expected %v, got %v", when, got)
	}
}

func TestClubAllowed(t *testing.T) {
	if !clubAllowed(nil, "Anything FC") {
		t.Fatal("nil set should allow every club")
	}

	set := clubAllowSet([]string{"Nacional", "Peñarol"})
	if !clubAllowed(set, "nacional") {
		t.Fatal("matching should be case-insensitive")
	}
	if clubAllowed(set, "Boca Juniors") {
		t.Fatal("clubs outside the set should be rejected")
	}
}

func TestContractInsertModels(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	models := contractInsertModels([]contract.Contract{
		{Player: "Bruno Silva", Club: "Nacional", RawPosition: "CB", StartDate: start, MonthlySalary: 8000},
	})

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
	m := models[0]
	if m.Player != "Bruno Silva" || m.Position != "CB" || m.MonthlySalary != 8000 {
		t.Fatalf("unexpected model: %+v", m)
	}
	if m.StartDate == nil || !m.StartDate.Equal(start) {
		t.Fatalf("start date not mapped: %v", m.StartDate)
	}
	if m.EndDate != nil {
		t.Fatalf("zero end date should map to nil, got %v", m.EndDate)
	}
}
