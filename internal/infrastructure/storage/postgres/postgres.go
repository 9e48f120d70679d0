// Package postgres хранилище сервера магазинов на pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage пул соединений, общий для репозиториев магазинов и таблиц
type Storage struct {
	pool *pgxpool.Pool
}

// Option настраивает пул соединений
type Option func(*pgxpool.Config)

// WithMaxConns ограничивает число соединений. Кассе, которая ходит в БД напрямую,
// хватает нескольких, серверу нужен запас.
func WithMaxConns(n int32) Option {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConns = n
		if cfg.MinConns > n {
			cfg.MinConns = n
		}
	}
}

// New открывает пул соединений и проверяет доступность БД
func New(ctx context.Context, databaseURI string, opts ...Option) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(databaseURI)
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Storage{pool: pool}, nil
}

// Close закрывает пул. Ошибки не бывает, сигнатура нужна для errors.Join у вызывающих.
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ping используется health-эндпоинтом и командой status
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}
