/*
store.go - Persistence interface for the ledger snapshot

PURPOSE:
  The core never touches storage. A StateStore holds one serialized State
  per key and replaces it wholesale on every write.

OPTIMISTIC CONCURRENCY:
  Each snapshot carries a version. Save succeeds only when the stored
  version still equals the version the caller read; otherwise it returns
  ErrConcurrentModification and the caller reloads and retries.
  Version 0 means "no snapshot yet".

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory for tests and dev
  - store/sqlite/sqlite.go: SQLite file

SEE ALSO:
  - keeper.go: The single writer built on StateStore
  - codec.go: Snapshot format
*/
package ledger

import "context"

// Snapshot is the raw persisted form of a State.
type Snapshot struct {
	Data    []byte
	Version int64
}

// StateStore persists serialized ledger snapshots.
type StateStore interface {
	// Load returns the snapshot under key. A missing key is not an error:
	// it returns an empty Snapshot with Version 0.
	Load(ctx context.Context, key string) (Snapshot, error)

	// Save replaces the snapshot if the stored version equals expected and
	// returns the new version.
	Save(ctx context.Context, key string, data []byte, expected int64) (int64, error)

	// Delete removes the snapshot under key.
	Delete(ctx context.Context, key string) error
}
