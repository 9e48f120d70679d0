package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("app_env", "local")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.RunAddress)
	assert.Equal(t, "migrations", cfg.DB.Migrations)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5000, cfg.Server.MaxBatchRows)
	assert.NotEmpty(t, cfg.Auth.Secret)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("app_env", "prod")
	v.Set("secret", "s3cr3t")
	v.Set("run_address", "0.0.0.0:9000")
	v.Set("database_uri", "postgres://pos@db/pos")
	v.Set("token_ttl_minutes", 30)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.RunAddress)
	assert.Equal(t, "postgres://pos@db/pos", cfg.DB.DatabaseURI)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "s3cr3t", cfg.Auth.Secret)
}

func TestFromViper_SecretRequiredInProd(t *testing.T) {
	v := viper.New()
	v.Set("app_env", "prod")

	_, err := fromViper(v)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("SECRET", "from-env")
	t.Setenv("RUN_ADDRESS", ":7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":7070", cfg.Server.RunAddress)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}
