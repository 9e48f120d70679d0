// Package kv локальное долговременное хранилище ключ-значение.
// Значения всегда строки (JSON сериализует вызывающая сторона), вызовы синхронные.
package kv

import (
	"errors"
	"fmt"
)

// Storage абстракция над платформенным хранилищем
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Close() error
}

// Backend тип хранилища
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

var ErrEmptyKey = errors.New("empty key")

// Options параметры открытия хранилища
type Options struct {
	Backend       Backend
	DataPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Namespace     string
}

// Open открывает хранилище по конфигурации
func Open(opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		s, err := NewSQLiteStorage(opts.DataPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedisStorage(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.Namespace)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
