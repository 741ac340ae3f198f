package usecase

import (
	"context"
	"fmt"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	repocache "github.com/german-fros/tablero-api/internal/infrastructure/repository/cache"
	"github.com/german-fros/tablero-api/internal/platform/cache"
)

// topPlayerCount rows feed the ranked table and the ranked bar chart.
const topPlayerCount = 10

const (
	performanceFacetsKey = repocache.PerformanceQueryPrefix + "facets"
	contractsFacetsKey   = repocache.ContractsQueryPrefix + "facets"
)

// cachedView serves a derived view from the shared store, computing it at
// most once per key while cached. Keys live under the dataset query
// prefixes, so a repository Reload invalidates them together with the
// snapshot. A nil store disables caching.
func cachedView[T any](ctx context.Context, store *cache.Store, key string, build func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return build(ctx)
	}

	value, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return build(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	view, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected cached value type %T under key %s", value, key)
	}

	return view, nil
}

func performanceViewKey(f playerstats.Filter, sortSpec playerstats.SortSpec, accumulated bool) string {
	return fmt.Sprintf("%sseason=%s|team=%s|min_shots=%d|accumulated=%t|metric=%s|ascending=%t",
		repocache.PerformanceQueryPrefix, f.Season, f.Team, f.MinShots, accumulated, sortSpec.Metric, sortSpec.Ascending)
}

func contractsViewKey(f contract.Filter) string {
	return fmt.Sprintf("%sclub=%s|position=%s|salary_min=%.2f|salary_max=%.2f",
		repocache.ContractsQueryPrefix, f.Club, f.Position, f.SalaryMin, f.SalaryMax)
}
