/*
keeper.go - Single writer over the persisted ledger

PURPOSE:
  The core functions are pure; something has to own the one persisted
  State. The Keeper loads it, applies transitions one at a time, and saves
  the result after every transition.

REQUEST FLOW (Apply):
  1. Lock
  2. Load snapshot + version (corrupt or missing -> fresh InitialState)
  3. Run the transition on the decoded State
  4. Save with the version read in step 2
  5. On ErrConcurrentModification (another process wrote), go to 2

Reset takes the same lock and deletes the snapshot outright; a writer in
another process holding the old version then fails its version check.

The in-process mutex serializes writers in this process; the version check
covers writers in other processes sharing the same store.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

const maxApplyAttempts = 3

// Transition maps one State to the next.
type Transition func(State) (State, error)

type Keeper struct {
	mu        sync.Mutex
	store     StateStore
	key       string
	ownerName string
}

// NewKeeper returns a keeper for the snapshot under StorageKey.
func NewKeeper(store StateStore, ownerName string) *Keeper {
	return &Keeper{store: store, key: StorageKey, ownerName: ownerName}
}

// Current returns the latest State.
func (k *Keeper) Current(ctx context.Context) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, _, err := k.load(ctx)
	return s, err
}

// Apply runs fn against the latest State and persists its result.
func (k *Keeper) Apply(ctx context.Context, name string, fn Transition) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		current, version, err := k.load(ctx)
		if err != nil {
			return State{}, err
		}
		next, err := fn(current)
		if err != nil {
			return State{}, err
		}
		newVersion, err := k.save(ctx, next, version)
		if err == nil {
			log.Printf("ledger: applied %s (version %d)", name, newVersion)
			return next, nil
		}
		if !IsRetryable(err) {
			return State{}, err
		}
		lastErr = err
		log.Printf("ledger: %s conflicted on version %d, retrying (%d/%d)", name, version, attempt, maxApplyAttempts)
	}
	return State{}, fmt.Errorf("%s: %w", name, lastErr)
}

// Reset deletes the persisted snapshot. The next load sees no data and
// starts from a fresh InitialState.
func (k *Keeper) Reset(ctx context.Context) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.store.Delete(ctx, k.key); err != nil {
		return State{}, fmt.Errorf("reset ledger: %w", err)
	}
	log.Printf("ledger: reset %s", k.key)
	return ResetAll(k.ownerName), nil
}

func (k *Keeper) load(ctx context.Context) (State, int64, error) {
	snap, err := k.store.Load(ctx, k.key)
	if err != nil {
		return State{}, 0, fmt.Errorf("load ledger: %w", err)
	}
	s, err := DecodeOrInitial(snap.Data, k.ownerName)
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return State{}, 0, err
		}
		log.Printf("ledger: discarding snapshot version %d: %v", snap.Version, err)
	}
	return s, snap.Version, nil
}

func (k *Keeper) save(ctx context.Context, s State, expected int64) (int64, error) {
	data, err := Encode(s)
	if err != nil {
		return 0, fmt.Errorf("encode ledger: %w", err)
	}
	return k.store.Save(ctx, k.key, data, expected)
}
