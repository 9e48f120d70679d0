package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	v.Set("config_dir", dir)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, filepath.Join(dir, "possync.db"), cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath)
	assert.True(t, cfg.IsLocal())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("config_dir", t.TempDir())
	v.Set("shop_id", "shop-lekki")
	v.Set("storage_backend", "redis")
	v.Set("redis_db", 2)
	v.Set("sync_interval_seconds", 60)
	v.Set("remote_database_url", "postgres://pos@db/pos")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "shop-lekki", cfg.ShopID)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, "postgres://pos@db/pos", cfg.RemoteDatabaseURL)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "unknown backend", key: "storage_backend", value: "leveldb"},
		{name: "zero interval", key: "sync_interval_seconds", value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("config_dir", t.TempDir())
			v.Set(tt.key, tt.value)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SHOP_ID", "shop-env")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shop-env", cfg.ShopID)
	assert.Equal(t, "memory", cfg.StorageBackend)
}
