/*
Package sqlite provides a SQLite-backed ledger.StateStore.

PURPOSE:
  Persists the serialized ledger snapshot. The ledger is a single document,
  so the schema is a single keyed row that every transition overwrites.

KEY TABLES:
  ledger_state: key, version, payload (JSON snapshot), updated_at

OPTIMISTIC CONCURRENCY:
  Save is a compare-and-swap on version:
  - expected == 0: INSERT, fails if a row already exists
  - expected  > 0: UPDATE ... WHERE version = expected
  Zero affected rows means another writer got there first and the caller
  receives ledger.ErrConcurrentModification.

WAL MODE:
  The database is opened with WAL so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./split.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  keeper := ledger.NewKeeper(store, "Me")

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/split-ledger/ledger"
)

// Store implements ledger.StateStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger_state (
		key TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STATE STORE (ledger.StateStore interface)
// =============================================================================

// Load returns the snapshot under key, or an empty snapshot if none exists.
func (s *Store) Load(ctx context.Context, key string) (ledger.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		payload string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, version FROM ledger_state WHERE key = ?`, key,
	).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Snapshot{}, nil
	}
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return ledger.Snapshot{Data: []byte(payload), Version: version}, nil
}

// Save overwrites the snapshot if the stored version equals expected.
func (s *Store) Save(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	next := expected + 1

	if expected == 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO ledger_state (key, version, payload, updated_at) VALUES (?, ?, ?, ?)`,
			key, next, string(data), now,
		)
		if isUniqueConstraintError(err) {
			return 0, ledger.ErrConcurrentModification
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
		return next, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_state SET version = ?, payload = ?, updated_at = ? WHERE key = ? AND version = ?`,
		next, string(data), now, key, expected,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to update snapshot: %w", err)
	}
	if n == 0 {
		return 0, ledger.ErrConcurrentModification
	}
	return next, nil
}

// Delete removes the snapshot under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM ledger_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Put writes a snapshot without a version check (for testing/recovery).
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_state (key, version, payload, updated_at) VALUES (?, 1, ?, ?)
		ON CONFLICT(key) DO UPDATE SET version = version + 1, payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}
