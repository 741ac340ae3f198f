package memory

import (
	"context"
	"sync"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/dataset"
)

// ContractRepository serves the seeded demo contracts dataset.
type ContractRepository struct {
	mu       sync.RWMutex
	seed     int64
	clock    func() time.Time
	snapshot contract.Snapshot
}

func NewContractRepository(seed int64, clock func() time.Time) *ContractRepository {
	if clock == nil {
		clock = time.Now
	}

	r := &ContractRepository{seed: seed, clock: clock}
	r.snapshot = r.build()

	return r
}

func (r *ContractRepository) Snapshot(_ context.Context) (contract.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot.Clone(), nil
}

func (r *ContractRepository) Reload(_ context.Context) (contract.Snapshot, error) {
	snap := r.build()

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	return snap.Clone(), nil
}

func (r *ContractRepository) build() contract.Snapshot {
	now := r.clock()

	return contract.Snapshot{
		Contracts: SeedContracts(r.seed, now),
		LoadedAt:  now,
		Source:    dataset.SourceSynthetic,
	}
}
