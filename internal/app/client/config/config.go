package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".possync"
	defaultBackend       = "sqlite"
	defaultSyncInterval  = 300
	defaultRedisAddr     = "localhost:6379"
)

type Config struct {
	Env               string
	ShopID            string
	ServerAddress     string
	EnableTLS         bool
	APIToken          string
	ConfigDir         string
	TokenPath         string
	DataPath          string
	StorageBackend    string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RemoteDatabaseURL string
	SyncInterval      time.Duration
}

// Load загружает конфигурацию клиента из .env, окружения и уже прочитанного конфиг-файла
func Load() (*Config, error) {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()
	return FromViper(viper.GetViper())
}

// FromViper собирает конфигурацию из переданного экземпляра viper
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("config_dir", defaultConfigDir)
	v.SetDefault("storage_backend", defaultBackend)
	v.SetDefault("redis_addr", defaultRedisAddr)
	v.SetDefault("sync_interval_seconds", defaultSyncInterval)
	v.SetDefault("enable_tls", false)

	configDir := v.GetString("config_dir")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	dataPath := v.GetString("data_path")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "possync.db")
	}

	config := &Config{
		Env:               v.GetString("app_env"),
		ShopID:            v.GetString("shop_id"),
		ServerAddress:     v.GetString("server_address"),
		EnableTLS:         v.GetBool("enable_tls"),
		APIToken:          v.GetString("api_token"),
		ConfigDir:         configDir,
		TokenPath:         filepath.Join(configDir, "token"),
		DataPath:          dataPath,
		StorageBackend:    v.GetString("storage_backend"),
		RedisAddr:         v.GetString("redis_addr"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		RemoteDatabaseURL: v.GetString("remote_database_url"),
		SyncInterval:      time.Duration(v.GetInt("sync_interval_seconds")) * time.Second,
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage_backend должен быть sqlite, redis или memory, получено %q", c.StorageBackend)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds должен быть положительным")
	}
	return nil
}

// EnsureDirs создает каталог конфигурации
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}
	return nil
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
