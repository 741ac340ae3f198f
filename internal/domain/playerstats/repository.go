package playerstats

import "context"

// Repository serves performance snapshots. Snapshot returns the memoized
// current dataset; Reload forces the next Snapshot to rebuild from the
// backing source. Implementations never fail a Snapshot because the source
// is missing; they fall back to synthetic data and say so in the snapshot.
type Repository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Reload(ctx context.Context) (Snapshot, error)
}
