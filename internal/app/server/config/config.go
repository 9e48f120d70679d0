package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"possync/internal/utils/logger"
)

const (
	envPath          = ".env"
	defaultAddress   = ":8080"
	defaultMigration = "migrations"
	defaultTokenTTL  = 24 * 60
	defaultMaxBatch  = 5000
)

var ErrNoSecret = errors.New("SECRET is required outside local environment")

type Config struct {
	Env    string
	DB     db
	Server server
	Auth   auth
}

type db struct {
	DatabaseURI string
	Migrations  string
}

type server struct {
	RunAddress   string
	MaxBatchRows int
}

type auth struct {
	Secret   string
	TokenTTL time.Duration
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load(envPath)

	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", logger.EnvProd)
	v.SetDefault("run_address", defaultAddress)
	v.SetDefault("migrations_path", defaultMigration)
	v.SetDefault("token_ttl_minutes", defaultTokenTTL)
	v.SetDefault("max_batch_rows", defaultMaxBatch)

	cfg := &Config{
		Env: v.GetString("app_env"),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{
			RunAddress:   v.GetString("run_address"),
			MaxBatchRows: v.GetInt("max_batch_rows"),
		},
		Auth: auth{
			Secret:   v.GetString("secret"),
			TokenTTL: time.Duration(v.GetInt("token_ttl_minutes")) * time.Minute,
		},
	}

	// локально разрешен небезопасный секрет по умолчанию
	if cfg.Auth.Secret == "" {
		if cfg.Env != logger.EnvLocal {
			return nil, ErrNoSecret
		}
		cfg.Auth.Secret = "local-dev-secret"
	}

	return cfg, nil
}
