package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorages(t *testing.T) {
	sqlite, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	tests := []struct {
		name    string
		storage Storage
	}{
		{name: "memory", storage: NewMemoryStorage()},
		{name: "sqlite", storage: sqlite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.storage

			_, ok, err := s.GetItem("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SetItem("sync:last_sync_time", "2024-01-01T00:00:00.000Z"))
			value, ok, err := s.GetItem("sync:last_sync_time")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "2024-01-01T00:00:00.000Z", value)

			// перезапись
			require.NoError(t, s.SetItem("sync:last_sync_time", "2024-02-01T00:00:00.000Z"))
			value, _, err = s.GetItem("sync:last_sync_time")
			require.NoError(t, err)
			assert.Equal(t, "2024-02-01T00:00:00.000Z", value)

			require.NoError(t, s.RemoveItem("sync:last_sync_time"))
			_, ok, err = s.GetItem("sync:last_sync_time")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.ErrorIs(t, s.SetItem("", "x"), ErrEmptyKey)
		})
	}
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem("sync:synced_sale_ids", `["a","b"]`))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	value, ok, err := s.GetItem("sync:synced_sale_ids")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a","b"]`, value)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = Open(Options{Backend: "floppy"})
	assert.Error(t, err)
}

func TestRedisStorage_KeysAreNamespacedByShop(t *testing.T) {
	a := &RedisStorage{namespace: "shop-a"}
	b := &RedisStorage{namespace: "shop-b"}

	assert.Equal(t, "possync:shop-a:retail-store", a.key("retail-store"))
	assert.NotEqual(t, a.key("sync:last_sync_time"), b.key("sync:last_sync_time"))
	assert.Equal(t, "possync:retail-store", (&RedisStorage{}).key("retail-store"))
}

func TestOpen_InvalidOptions(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	s, err = Open(Options{Backend: "etcd"})
	assert.Error(t, err)
	assert.Nil(t, s)

	// несуществующий каталог
	s, err = Open(Options{Backend: BackendSQLite, DataPath: filepath.Join(t.TempDir(), "missing", "dir", "data.db")})
	assert.Error(t, err)
	assert.Nil(t, s)
}
