// Package client собирает клиентское приложение кассы: локальное хранилище,
// доменный магазин, удаленный клиент и синхронизацию.
package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"possync/internal/app/client/config"
	"possync/internal/app/client/importer"
	"possync/internal/app/client/kv"
	"possync/internal/app/client/remote"
	"possync/internal/app/client/store"
	"possync/internal/app/client/syncer"
	"possync/internal/domain/datastore"
	"possync/internal/infrastructure/storage/postgres"
)

// Режимы подключения к удаленному хранилищу
const (
	ModeHTTP     = "http"
	ModePostgres = "postgres"
	ModeMemory   = "memory"
	ModeOffline  = "offline"
)

var ErrNotHTTP = errors.New("операция доступна только при подключении к серверу по HTTP")

type App struct {
	config *config.Config
	log    *slog.Logger

	kv        kv.Storage
	store     *store.Store
	datastore datastore.Client
	mode      string
	http      *remote.Client
	pg        *postgres.Storage
	sync      *syncer.Service

	mu            gosync.RWMutex
	authenticated bool
}

// Option переопределяет зависимости приложения
type Option func(*App)

// WithStorage подставляет готовое локальное хранилище
func WithStorage(s kv.Storage) Option {
	return func(a *App) { a.kv = s }
}

// WithDatastore подставляет удаленное хранилище вместо настроенного
func WithDatastore(c datastore.Client) Option {
	return func(a *App) {
		a.datastore = c
		a.mode = ModeMemory
		a.authenticated = true
		if hc, ok := c.(*remote.Client); ok {
			a.http = hc
			a.mode = ModeHTTP
			a.authenticated = false
		}
	}
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	a := &App{config: cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}

	if a.kv == nil {
		if err := a.openStorage(); err != nil {
			return nil, err
		}
	}

	st, err := store.New(a.kv, log)
	if err != nil {
		_ = a.kv.Close()
		return nil, fmt.Errorf("ошибка загрузки магазина: %w", err)
	}
	a.store = st

	if a.datastore == nil {
		if err := a.connectRemote(ctx); err != nil {
			_ = a.kv.Close()
			return nil, err
		}
	}

	a.sync = syncer.NewService(st, a.datastore, a.kv, log, syncer.WithInterval(cfg.SyncInterval))
	return a, nil
}

func (a *App) openStorage() error {
	if a.config.StorageBackend == string(kv.BackendSQLite) {
		if err := a.config.EnsureDirs(); err != nil {
			return err
		}
	}

	s, err := kv.Open(kv.Options{
		Backend:       kv.Backend(a.config.StorageBackend),
		DataPath:      a.config.DataPath,
		RedisAddr:     a.config.RedisAddr,
		RedisPassword: a.config.RedisPassword,
		RedisDB:       a.config.RedisDB,
		Namespace:     a.config.ShopID,
	})
	if err != nil {
		if a.config.StorageBackend != string(kv.BackendSQLite) {
			return fmt.Errorf("ошибка открытия хранилища %s: %w", a.config.StorageBackend, err)
		}
		a.log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		s = kv.NewMemoryStorage()
	}
	a.kv = s
	return nil
}

func (a *App) connectRemote(ctx context.Context) error {
	switch {
	case a.config.RemoteDatabaseURL != "":
		pg, err := postgres.New(ctx, a.config.RemoteDatabaseURL, postgres.WithMaxConns(4))
		if err != nil {
			return fmt.Errorf("ошибка подключения к удаленной БД: %w", err)
		}
		a.pg = pg
		a.datastore = postgres.NewTableRepository(pg.Pool(), a.log)
		a.mode = ModePostgres
		a.authenticated = true

	case a.config.ServerAddress != "":
		token := a.config.APIToken
		if token == "" {
			token = a.loadToken()
		}
		a.http = remote.New(remote.Options{
			ServerAddress: a.config.ServerAddress,
			EnableTLS:     a.config.EnableTLS,
			Token:         token,
		}, a.log)
		a.datastore = a.http
		a.mode = ModeHTTP
		a.authenticated = token != ""

	default:
		// касса работает, но синхронизация отклоняется до настройки сервера
		a.log.Warn("Удаленное хранилище не настроено, касса работает офлайн")
		a.mode = ModeOffline
	}
	return nil
}

// Run холодный старт: одна синхронизация, затем автосинхронизация до отмены ctx
func (a *App) Run(ctx context.Context) error {
	if a.config.ShopID == "" {
		return syncer.ErrShopRequired
	}
	if !a.RemoteConfigured() {
		return syncer.ErrRemoteNotConfigured
	}

	a.log.Info("Клиент запущен",
		"shop_id", a.config.ShopID,
		"mode", a.mode,
		"interval", a.config.SyncInterval,
	)

	if !a.sync.SyncAll(ctx, a.config.ShopID) {
		a.log.Warn("Первичная синхронизация не выполнена", "status", a.sync.Status().Message)
	}

	a.sync.StartAutoSync(ctx, a.config.ShopID)
	<-ctx.Done()
	a.sync.StopAutoSync()

	a.log.Info("Клиент завершил работу")
	return nil
}

// SyncNow ручная синхронизация. false, если она не выполнена или уже идет.
func (a *App) SyncNow(ctx context.Context) (bool, syncer.Event) {
	ok := a.sync.SyncAll(ctx, a.config.ShopID)
	return ok, a.sync.Status()
}

// RegisterShop регистрирует магазин на сервере
func (a *App) RegisterShop(ctx context.Context, name, secret string) error {
	if a.http == nil {
		return ErrNotHTTP
	}
	if a.config.ShopID == "" {
		return syncer.ErrShopRequired
	}
	return a.http.RegisterShop(ctx, a.config.ShopID, name, secret)
}

// Login получает токен магазина и сохраняет его в каталоге конфигурации
func (a *App) Login(ctx context.Context, secret string) (remote.TokenResponse, error) {
	if a.http == nil {
		return remote.TokenResponse{}, ErrNotHTTP
	}
	if a.config.ShopID == "" {
		return remote.TokenResponse{}, syncer.ErrShopRequired
	}

	tok, err := a.http.Login(ctx, a.config.ShopID, secret)
	if err != nil {
		return remote.TokenResponse{}, err
	}
	if err := a.saveToken(tok.Token); err != nil {
		return remote.TokenResponse{}, err
	}

	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()
	return tok, nil
}

// CheckConnection проверяет доступность удаленного хранилища
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch {
	case a.http != nil:
		return a.http.HealthCheck(ctx)
	case a.pg != nil:
		return a.pg.Ping(ctx)
	case !a.RemoteConfigured():
		return syncer.ErrRemoteNotConfigured
	}
	return nil
}

// ImportProducts загружает каталог товаров из xlsx
func (a *App) ImportProducts(path string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	rows, err := importer.Parse(f)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.New(a.store, a.log).Apply(rows)
}

// RemoteConfigured задано ли удаленное хранилище для синхронизации
func (a *App) RemoteConfigured() bool {
	return a.datastore != nil
}

// IsAuthenticated есть ли токен для HTTP-режима. Postgres и подставленное хранилище входа не требуют.
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

func (a *App) Store() *store.Store { return a.store }

func (a *App) Sync() *syncer.Service { return a.sync }

func (a *App) Config() *config.Config { return a.config }

func (a *App) Mode() string { return a.mode }

// Close останавливает автосинхронизацию и закрывает хранилища
func (a *App) Close() error {
	a.sync.StopAutoSync()

	var errs []error
	if a.pg != nil {
		errs = append(errs, a.pg.Close())
	}
	errs = append(errs, a.kv.Close())
	return errors.Join(errs...)
}

func (a *App) loadToken() string {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.log.Warn("Не удалось прочитать токен", "error", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (a *App) saveToken(token string) error {
	if err := a.config.EnsureDirs(); err != nil {
		return err
	}
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}
