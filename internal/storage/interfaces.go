// Package storage defines the one table contract every backend variant
// implements: a collection is fetched whole, mutated in memory, and
// written back whole, guarded by an opaque version token where the
// backend supports compare-and-swap.
package storage

import "context"

// Table names shared by every variant.
const (
	TableAccounts = "accounts"
	TablePosts    = "posts"
	TableSessions = "sessions"
)

// TableStore reads and writes whole JSON collections.
//
// Load decodes the named table into out (a pointer to a slice) and
// returns the version token to pass to the next Store. Backends without
// versioning return "".
//
// Store writes the collection, attempting the write at most once. When
// the backend supports compare-and-swap and the version is stale it
// returns model.ErrVersionConflict; the caller decides whether to
// re-fetch and retry. The returned token versions the written state.
type TableStore interface {
	Load(ctx context.Context, table string, out any) (version string, err error)
	Store(ctx context.Context, table string, in any, version, message string) (newVersion string, err error)
}
