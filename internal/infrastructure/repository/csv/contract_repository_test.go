package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

func writeExport(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func testClock() time.Time {
	return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
}

const contractExport = `Jugador,Club,Posición,Fecha Inicio,Fecha Fin,Salario Mensual,Cláusula
Bruno Silva,Nacional,CB,2023-01-15,2026-12-31,8000,250000
Diego Techera,Peñarol,GK,2019-01-01,2020-12-31,5000,100000
,Nacional,CB,2023-01-01,2026-01-01,4000,0
Juan Pérez,Boca Juniors,CF,2023-01-01,2026-01-01,9000,0
Nicolás López,Liverpool,CF,2024-02-01,2026-06-30,abc,50000
`

func TestContractRepository_LoadsAndCleans(t *testing.T) {
	repo := NewContractRepository(ContractConfig{
		Path:         writeExport(t, "contratos.csv", contractExport),
		AllowedClubs: []string{"Nacional", "Peñarol", "Liverpool"},
		Clock:        testClock,
	}, nil)

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Fallback || snap.Source != dataset.SourceCSV {
		t.Fatalf("expected clean csv load, got fallback=%v source=%q", snap.Fallback, snap.Source)
	}
	// Inactive, identity-less and out-of-list rows are dropped.
	if len(snap.Contracts) != 2 {
		t.Fatalf("expected 2 working contracts, got %d: %+v", len(snap.Contracts), snap.Contracts)
	}

	first := snap.Contracts[0]
	if first.Player != "Bruno Silva" || first.Category != position.CategoryDefender {
		t.Fatalf("unexpected first contract: %+v", first)
	}
	if !first.Active || first.ExpirySemester != "2026-2" {
		t.Fatalf("derived fields not set: %+v", first)
	}

	second := snap.Contracts[1]
	if second.MonthlySalary != 0 {
		t.Fatalf("malformed salary should coerce to 0, got %v", second.MonthlySalary)
	}

	found := false
	for _, d := range snap.Diagnostics {
		if d.Code == dataset.DiagMalformedValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s diagnostic, got %v", dataset.DiagMalformedValue, snap.Diagnostics)
	}
}

func TestContractRepository_FallbackWhenExportMissing(t *testing.T) {
	fallbackRows := []contract.Contract{{Player: "Relleno Uno", Club: "Nacional"}}

	repo := NewContractRepository(ContractConfig{
		Path:  filepath.Join(t.TempDir(), "no-such-file.csv"),
		Clock: testClock,
		Fallback: func(time.Time) []contract.Contract {
			return fallbackRows
		},
	}, nil)

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot must not surface load errors, got %v", err)
	}

	if !snap.Fallback || snap.Source != dataset.SourceSynthetic {
		t.Fatalf("expected fallback snapshot, got fallback=%v source=%q", snap.Fallback, snap.Source)
	}
	if len(snap.Contracts) != 1 || snap.Contracts[0].Player != "Relleno Uno" {
		t.Fatalf("expected generator rows, got %+v", snap.Contracts)
	}

	codes := map[string]bool{}
	for _, d := range snap.Diagnostics {
		codes[d.Code] = true
	}
	if !codes[dataset.DiagMissingSource] || !codes[dataset.DiagFallbackDataset] {
		t.Fatalf("expected missing-source and fallback-dataset diagnostics, got %v", snap.Diagnostics)
	}
}

func TestContractRepository_MemoizesUntilReload(t *testing.T) {
	path := writeExport(t, "contratos.csv", `Jugador,Club,Posición,Fecha Inicio,Fecha Fin,Salario Mensual,Cláusula
Bruno Silva,Nacional,CB,2023-01-15,2026-12-31,8000,250000
`)

	repo := NewContractRepository(ContractConfig{Path: path, Clock: testClock}, nil)

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Contracts) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(snap.Contracts))
	}

	grown := `Jugador,Club,Posición,Fecha Inicio,Fecha Fin,Salario Mensual,Cláusula
Bruno Silva,Nacional,CB,2023-01-15,2026-12-31,8000,250000
Nicolás López,Liverpool,CF,2024-02-01,2026-06-30,12000,50000
`
	if err := os.WriteFile(path, []byte(grown), 0o600); err != nil {
		t.Fatalf("rewrite export: %v", err)
	}

	snap, err = repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Contracts) != 1 {
		t.Fatalf("snapshot should be memoized until reload, got %d contracts", len(snap.Contracts))
	}

	snap, err = repo.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(snap.Contracts) != 2 {
		t.Fatalf("reload should pick up the new export, got %d contracts", len(snap.Contracts))
	}
}
