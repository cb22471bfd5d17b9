// Package store provides StateStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/split-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]ledger.Snapshot
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]ledger.Snapshot)}
}

func (m *Memory) Load(_ context.Context, key string) (ledger.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[key]
	if !ok {
		return ledger.Snapshot{}, nil
	}
	return ledger.Snapshot{Data: append([]byte(nil), snap.Data...), Version: snap.Version}, nil
}

// Save overwrites the snapshot when expected matches the stored version.
func (m *Memory) Save(_ context.Context, key string, data []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.snapshots[key]
	if current.Version != expected {
		return 0, ledger.ErrConcurrentModification
	}
	next := ledger.Snapshot{Data: append([]byte(nil), data...), Version: expected + 1}
	m.snapshots[key] = next
	return next.Version, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, key)
	return nil
}

// Put writes a snapshot unconditionally. Tests use it to seed raw or
// corrupt data.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.snapshots[key]
	m.snapshots[key] = ledger.Snapshot{Data: append([]byte(nil), data...), Version: current.Version + 1}
}
