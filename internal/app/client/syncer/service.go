// Package syncer двусторонняя синхронизация локального магазина с удаленным хранилищем.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"

	"possync/internal/app/client/kv"
	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// DefaultInterval период автоматической синхронизации
const DefaultInterval = 5 * time.Minute

var (
	ErrShopRequired        = errors.New("не указан магазин")
	ErrRemoteNotConfigured = errors.New("удаленное хранилище не настроено")
)

// Status состояние синхронизации
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Event переход состояния, который получают подписчики
type Event struct {
	Status  Status
	Message string
	At      time.Time
}

// Listener подписчик на смену состояния. Вызывается в горутине цикла;
// остановка или перезапуск таймера из подписчика не ждет текущий тик.
type Listener func(Event)

// Stats статистика синхронизации
type Stats struct {
	TotalSyncs      int       `json:"total_syncs"`
	Successful      int       `json:"successful"`
	Failed          int       `json:"failed"`
	Declined        int       `json:"declined"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalUploaded   int       `json:"total_uploaded"`
	TotalDownloaded int       `json:"total_downloaded"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

type subscription struct {
	id int
	fn Listener
}

// Service оркестратор синхронизации. Одновременно выполняется не больше одного цикла,
// повторный вызов во время цикла сразу возвращает false.
type Service struct {
	store   LocalStore
	remote  datastore.Client
	books   bookkeeping
	modules []Module
	log     *slog.Logger
	now     func() time.Time

	running atomic.Bool
	// горутина таймера сейчас рассылает событие подписчикам
	tickNotify atomic.Bool

	mu        sync.Mutex
	listeners []subscription
	nextID    int
	last      Event
	stats     Stats

	autoMu     sync.Mutex
	interval   time.Duration
	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

// Option настройка Service
type Option func(*Service)

// WithInterval период автоматической синхронизации
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithModules заменяет набор модулей
func WithModules(modules ...Module) Option {
	return func(s *Service) {
		s.modules = modules
	}
}

// NewService создает оркестратор
func NewService(local LocalStore, remote datastore.Client, storage kv.Storage, log *slog.Logger, opts ...Option) *Service {
	log = log.With("component", "sync")
	books := bookkeeping{kv: storage}

	s := &Service{
		store:    local,
		remote:   remote,
		books:    books,
		modules:  newModules(local, remote, books, log),
		log:      log,
		now:      time.Now,
		interval: DefaultInterval,
		last:     Event{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncAll выполняет один полный цикл. Возвращает false, если цикл уже идет
// или завершился ошибкой; в этом случае отметка времени не сдвигается.
func (s *Service) SyncAll(ctx context.Context, shopID string) bool {
	return s.syncAll(ctx, shopID, false)
}

func (s *Service) syncAll(ctx context.Context, shopID string, fromTicker bool) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.mu.Lock()
		s.stats.Declined++
		s.mu.Unlock()
		s.log.Debug("Синхронизация уже выполняется")
		return false
	}
	defer s.running.Store(false)

	start := s.now()
	s.notify(Event{Status: StatusSyncing, At: start}, fromTicker)
	s.log.Info("Начало синхронизации", "shop_id", shopID)

	total, err := s.run(ctx, shopID, start)
	duration := s.now().Sub(start)
	s.updateStats(total, duration, err)

	if err != nil {
		s.log.Error("Ошибка синхронизации", "error", err)
		s.notify(Event{Status: StatusError, Message: err.Error(), At: s.now()}, fromTicker)
		return false
	}

	s.log.Info("Синхронизация успешно завершена",
		"duration", duration,
		"uploaded", total.Pushed,
		"downloaded", total.Pulled,
	)
	s.notify(Event{Status: StatusSuccess, At: s.now()}, fromTicker)
	return true
}

func (s *Service) run(ctx context.Context, shopID string, start time.Time) (total Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника во время синхронизации: %v", r)
		}
	}()

	if shopID == "" {
		return total, ErrShopRequired
	}
	// без удаленной стороны нечего подтверждать, журналы отправленного не трогаем
	if s.remote == nil {
		return total, ErrRemoteNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}

	since, err := s.books.lastSyncTime()
	if err != nil {
		return total, err
	}

	for _, m := range s.modules {
		res, err := m.Sync(ctx, shopID, since)
		if err != nil {
			return total, fmt.Errorf("%s: %w", m.Name(), err)
		}
		s.log.Debug("Модуль синхронизирован", "module", m.Name(), "pushed", res.Pushed, "pulled", res.Pulled)
		total.Pushed += res.Pushed
		total.Pulled += res.Pulled
	}

	// отметка никогда не уходит назад, даже если часы устройства отстали
	next := retail.FormatTimestamp(start)
	if since > next {
		next = since
	}
	if err := s.books.setLastSyncTime(next); err != nil {
		return total, err
	}

	return total, nil
}

// Subscribe добавляет подписчика. Прошлые события не пересылаются.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// notify рассылает событие синхронно в порядке подписки
func (s *Service) notify(e Event, fromTicker bool) {
	s.mu.Lock()
	s.last = e
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if fromTicker {
		s.tickNotify.Store(true)
		defer s.tickNotify.Store(false)
	}

	for _, sub := range listeners {
		sub.fn(e)
	}
}

// StartAutoSync запускает периодическую синхронизацию. Предыдущий таймер останавливается.
func (s *Service) StartAutoSync(ctx context.Context, shopID string) {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.autoCancel = cancel
	s.autoDone = done

	s.log.Info("Запуск автоматической синхронизации", "interval", s.interval)

	go func() {
		defer close(done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Автоматическая синхронизация остановлена")
				return
			case <-ticker.C:
				s.syncAll(ctx, shopID, true)
			}
		}
	}()
}

// StopAutoSync останавливает таймер и ждет завершения текущего тика
func (s *Service) StopAutoSync() {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if s.autoCancel == nil {
		return
	}
	s.autoCancel()
	// вызов из подписчика тика: горутина таймера ждет возврата из него
	if !s.tickNotify.Load() {
		<-s.autoDone
	}
	s.autoCancel = nil
	s.autoDone = nil
}

// AutoSyncRunning активен ли таймер
func (s *Service) AutoSyncRunning() bool {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()
	return s.autoCancel != nil
}

// Status последнее разосланное событие
func (s *Service) Status() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// IsSyncing выполняется ли цикл
func (s *Service) IsSyncing() bool {
	return s.running.Load()
}

// LastSyncTime отметка последней успешной синхронизации, пустая если ее не было
func (s *Service) LastSyncTime() (string, error) {
	return s.books.lastSyncTime()
}

// PendingSyncCount число продаж, еще не подтвержденных сервером
func (s *Service) PendingSyncCount() (int, error) {
	synced, err := s.books.syncedIDs(KeySyncedSaleIDs)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, sale := range s.store.Sales() {
		if _, ok := synced[sale.ID]; !ok {
			pending++
		}
	}
	return pending, nil
}

// Stats копия статистики
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) updateStats(total Result, duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalSyncs++
	if err != nil {
		s.stats.Failed++
		s.stats.LastFailed = s.now()
	} else {
		s.stats.Successful++
		s.stats.LastSuccessful = s.now()
	}
	s.stats.TotalUploaded += total.Pushed
	s.stats.TotalDownloaded += total.Pulled

	n := float64(s.stats.TotalSyncs)
	s.stats.AvgSyncDuration = (s.stats.AvgSyncDuration*(n-1) + duration.Seconds()) / n
}
