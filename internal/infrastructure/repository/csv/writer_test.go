package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

func TestWritePerformance_RoundTripsThroughLoader(t *testing.T) {
	records := []playerstats.Record{
		{WyscoutID: 101, Player: "Luis Acosta", Team: "Nacional", RawPosition: "CF", Age: 24, Season: "2024", Minutes: 1800, Goals: 12, Assists: 4, Shots: 60, XG: 10.30, XA: 3.10},
		{WyscoutID: 102, Player: "Diego Techera", Team: "Peñarol", RawPosition: "GK", Age: 30, Season: "2024", Minutes: 2700, Shots: 1, XG: 0.10, XA: 0.20},
	}

	path := filepath.Join(t.TempDir(), "rendimiento.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}
	if err := WritePerformance(f, records); err != nil {
		t.Fatalf("write performance: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close export: %v", err)
	}

	repo := NewPerformanceRepository(PerformanceConfig{Path: path, Clock: testClock}, nil)
	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Fallback || snap.Source != dataset.SourceCSV {
		t.Fatalf("expected clean csv load, got fallback=%v source=%q", snap.Fallback, snap.Source)
	}
	if snap.SyntheticXG {
		t.Fatal("written file carries xg columns, expected no synthesis")
	}
	if len(snap.Records) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(snap.Records))
	}
	if snap.Records[0].WyscoutID != 101 || snap.Records[0].XG != 10.30 {
		t.Fatalf("unexpected first record: %+v", snap.Records[0])
	}
}

func TestWriteContracts_RoundTripsThroughLoader(t *testing.T) {
	contracts := []contract.Contract{
		{
			Player:        "Bruno Silva",
			Club:          "Nacional",
			RawPosition:   "CB",
			StartDate:     time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
			MonthlySalary: 8000,
			ReleaseClause: 250000,
		},
	}

	path := filepath.Join(t.TempDir(), "contratos.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}
	if err := WriteContracts(f, contracts); err != nil {
		t.Fatalf("write contracts: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close export: %v", err)
	}

	repo := NewContractRepository(ContractConfig{Path: path, Clock: testClock}, nil)
	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Fallback || snap.Source != dataset.SourceCSV {
		t.Fatalf("expected clean csv load, got fallback=%v source=%q", snap.Fallback, snap.Source)
	}
	if len(snap.Contracts) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(snap.Contracts))
	}

	got := snap.Contracts[0]
	if got.Player != "Bruno Silva" || got.MonthlySalary != 8000 {
		t.Fatalf("unexpected contract: %+v", got)
	}
	// Derived columns come back from the loader, not the file.
	if !got.Active || got.StartYear != 2023 {
		t.Fatalf("expected active 2023 contract at the test clock, got %+v", got)
	}
}
