package cache

import (
	"context"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	basecache "github.com/german-fros/tablero-api/internal/platform/cache"
)

// Cache key layout. Derived query results keyed under the dataset prefixes
// are dropped together with the snapshot when the dataset reloads.
const (
	contractsKeyPrefix   = "contracts:"
	performanceKeyPrefix = "performance:"

	contractsSnapshotKey   = contractsKeyPrefix + "snapshot"
	performanceSnapshotKey = performanceKeyPrefix + "snapshot"

	// ContractsQueryPrefix and PerformanceQueryPrefix are for services
	// caching filtered or aggregated results derived from a snapshot.
	ContractsQueryPrefix   = contractsKeyPrefix + "query:"
	PerformanceQueryPrefix = performanceKeyPrefix + "query:"
)

// ContractRepository caches contract snapshots in front of a slower backend.
type ContractRepository struct {
	next  contract.Repository
	cache *basecache.Store
}

func NewContractRepository(next contract.Repository, cache *basecache.Store) *ContractRepository {
	return &ContractRepository{next: next, cache: cache}
}

func (r *ContractRepository) Snapshot(ctx context.Context) (contract.Snapshot, error) {
	v, err := r.cache.GetOrLoad(ctx, contractsSnapshotKey, func(ctx context.Context) (any, error) {
		return r.next.Snapshot(ctx)
	})
	if err != nil {
		return contract.Snapshot{}, err
	}

	snap, _ := v.(contract.Snapshot)
	return snap.Clone(), nil
}

func (r *ContractRepository) Reload(ctx context.Context) (contract.Snapshot, error) {
	snap, err := r.next.Reload(ctx)
	if err != nil {
		return contract.Snapshot{}, err
	}

	r.cache.DeletePrefix(ctx, contractsKeyPrefix)
	r.cache.Set(ctx, contractsSnapshotKey, snap.Clone())

	return snap, nil
}

// PerformanceRepository caches performance snapshots in front of a slower
// backend.
type PerformanceRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPerformanceRepository(next playerstats.Repository, cache *basecache.Store) *PerformanceRepository {
	return &PerformanceRepository{next: next, cache: cache}
}

func (r *PerformanceRepository) Snapshot(ctx context.Context) (playerstats.Snapshot, error) {
	v, err := r.cache.GetOrLoad(ctx, performanceSnapshotKey, func(ctx context.Context) (any, error) {
		return r.next.Snapshot(ctx)
	})
	if err != nil {
		return playerstats.Snapshot{}, err
	}

	snap, _ := v.(playerstats.Snapshot)
	return snap.Clone(), nil
}

func (r *PerformanceRepository) Reload(ctx context.Context) (playerstats.Snapshot, error) {
	snap, err := r.next.Reload(ctx)
	if err != nil {
		return playerstats.Snapshot{}, err
	}

	r.cache.DeletePrefix(ctx, performanceKeyPrefix)
	r.cache.Set(ctx, performanceSnapshotKey, snap.Clone())

	return snap, nil
}
