package contract

import "context"

// Repository serves contract snapshots. Snapshot returns the memoized
// current dataset; Reload forces a rebuild from the backing source. Missing
// sources never fail a Snapshot; implementations fall back to synthetic
// data and flag it on the snapshot.
type Repository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Reload(ctx context.Context) (Snapshot, error)
}
