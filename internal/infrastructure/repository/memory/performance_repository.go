package memory

import (
	"context"
	"sync"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
)

// PerformanceRepository serves the seeded demo performance dataset. It backs
// deployments that configure neither a CSV export nor a database.
type PerformanceRepository struct {
	mu       sync.RWMutex
	seed     int64
	clock    func() time.Time
	snapshot playerstats.Snapshot
}

func NewPerformanceRepository(seed int64, clock func() time.Time) *PerformanceRepository {
	if clock == nil {
		clock = time.Now
	}

	r := &PerformanceRepository{seed: seed, clock: clock}
	r.snapshot = r.build()

	return r
}

func (r *PerformanceRepository) Snapshot(_ context.Context) (playerstats.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot.Clone(), nil
}

func (r *PerformanceRepository) Reload(_ context.Context) (playerstats.Snapshot, error) {
	snap := r.build()

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	return snap.Clone(), nil
}

func (r *PerformanceRepository) build() playerstats.Snapshot {
	records := SeedPerformance(r.seed)

	xgs := make([]float64, len(records))
	for i := range records {
		xgs[i] = records[i].XG
	}

	synthetic := playerstats.NeedsSynthesis(xgs)
	if synthetic {
		playerstats.NewEstimator(playerstats.DefaultSeed).Synthesize(records)
	}

	var diags []dataset.Diagnostic
	if synthetic {
		diags = append(diags, dataset.NewDiagnostic(
			dataset.DiagSyntheticMetric,
			"xg/xa synthesized from goals and assists",
		))
	}

	return playerstats.Snapshot{
		Records:     records,
		LoadedAt:    r.clock(),
		Source:      dataset.SourceSynthetic,
		SyntheticXG: synthetic,
		Diagnostics: diags,
	}
}
