package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := Open("sqlite", filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	file, err := Open("file", filepath.Join(dir, "ledger.json"))
	require.NoError(t, err)
	memory, err := Open("memory", "")
	require.NoError(t, err)

	stores := map[string]Store{"sqlite": sqlite, "file": file, "memory": memory}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStores_PersistAndLoad(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Load(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Persist(ctx, "alice", 1000))
			require.NoError(t, store.Persist(ctx, "bob", 42.5))
			require.NoError(t, store.Persist(ctx, "alice", 1250))

			balance, found, err := store.Load(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 1250.0, balance)

			balance, found, err = store.Load(ctx, "bob")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 42.5, balance)
		})
	}
}

func TestStores_SurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{"sqlite", "file"} {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(dir, "reopen-"+driver)

			store, err := Open(driver, path)
			require.NoError(t, err)
			require.NoError(t, store.Persist(ctx, "alice", 987.5))
			require.NoError(t, store.Close())

			store, err = Open(driver, path)
			require.NoError(t, err)
			defer store.Close()

			balance, found, err := store.Load(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 987.5, balance)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", "x")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = store.Load(context.Background(), "alice")
	assert.Error(t, err)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Persist(context.Background(), "alice", 10))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadBalance(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		stored *float64
		want   float64
	}{
		{name: "new player gets starting balance", stored: nil, want: 1000},
		{name: "stored balance is kept", stored: ptr(523.5), want: 523.5},
		{name: "minimum balance is kept", stored: ptr(1), want: 1},
		{name: "broke player is refilled", stored: ptr(0.5), want: 1000},
		{name: "zero balance is refilled", stored: ptr(0), want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Persist(ctx, "p1", *tt.stored))
			}

			got, err := LoadBalance(ctx, store, "p1", 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			saved, found, err := store.Load(ctx, "p1")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.want, saved)
		})
	}
}

func TestLoadBalance_PersistFailure(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("disk full")
	store.FailWith(boom)

	_, err := LoadBalance(context.Background(), store, "p1", 1000)
	assert.ErrorIs(t, err, boom)
}

func ptr(v float64) *float64 { return &v }
