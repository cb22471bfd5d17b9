package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/split-ledger/ledger"
)

func TestMemory_LoadMissingKey(t *testing.T) {
	m := NewMemory()

	snap, err := m.Load(context.Background(), "nope")

	require.NoError(t, err)
	assert.Empty(t, snap.Data)
	assert.Equal(t, int64(0), snap.Version)
}

func TestMemory_SaveChecksVersion(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v1, err := m.Save(ctx, "k", []byte("one"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	// Stale writer.
	_, err = m.Save(ctx, "k", []byte("stale"), 0)
	assert.ErrorIs(t, err, ledger.ErrConcurrentModification)

	v2, err := m.Save(ctx, "k", []byte("two"), v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	snap, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(snap.Data))
	assert.Equal(t, v2, snap.Version)
}

func TestMemory_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	data := []byte("abc")
	_, err := m.Save(ctx, "k", data, 0)
	require.NoError(t, err)
	data[0] = 'x'

	snap, err := m.Load(ctx, "k")
	require.NoError(t, err)
	snap.Data[1] = 'y'

	again, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again.Data))
}

func TestMemory_PutAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Put("k", []byte("seed"))
	m.Put("k", []byte("seed again"))
	snap, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)

	require.NoError(t, m.Delete(ctx, "k"))
	snap, err = m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Version)
}
