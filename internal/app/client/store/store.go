// Package store локальное состояние магазина: единственный источник истины для всех сущностей.
// Каждая мутация синхронно применяется в памяти и сразу записывается в kv.Storage.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	"possync/internal/app/client/kv"
	"possync/internal/domain/retail"
)

// StoreKey фиксированный ключ, под которым хранится состояние
const StoreKey = "retail-store"

// state сериализуемое дерево состояния
type state struct {
	Products          []retail.Product       `json:"products"`
	Categories        []retail.Category      `json:"categories"`
	Cart              []retail.CartItem      `json:"cart"`
	CartDiscount      decimal.Decimal        `json:"cartDiscount"`
	Sales             []retail.Sale          `json:"sales"`
	Customers         []retail.Customer      `json:"customers"`
	Expenses          []retail.Expense       `json:"expenses"`
	DeletedExpenseIDs []string               `json:"deletedExpenseIds"`
	CashSessions      []retail.CashSession   `json:"cashSessions"`
	Suppliers         []retail.Supplier      `json:"suppliers"`
	StockMovements    []retail.StockMovement `json:"stockMovements"`
}

type Store struct {
	mu    sync.RWMutex
	kv    kv.Storage
	log   *slog.Logger
	now   func() time.Time
	newID func() string
	state state
	saved []byte
}

// Option настройка Store
type Option func(*Store)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New создает хранилище и восстанавливает сохраненное состояние
func New(storage kv.Storage, log *slog.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    storage,
		log:   log.With("component", "retail_store"),
		now:   time.Now,
		newID: retail.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.GetItem(StoreKey)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.state); err != nil {
			return nil, fmt.Errorf("decode store: %w", err)
		}
		s.saved = []byte(raw)
		s.log.Debug("Состояние магазина восстановлено",
			"products", len(s.state.Products),
			"sales", len(s.state.Sales),
			"customers", len(s.state.Customers),
		)
	}

	return s, nil
}

// commit записывает состояние. При ошибке записи изменения в памяти откатываются,
// чтобы память и диск не расходились.
func (s *Store) commit() error {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.rollback()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := s.kv.SetItem(StoreKey, string(data)); err != nil {
		s.rollback()
		return fmt.Errorf("persist store: %w", err)
	}
	s.saved = data
	return nil
}

func (s *Store) rollback() {
	var st state
	if len(s.saved) > 0 {
		if err := json.Unmarshal(s.saved, &st); err != nil {
			s.log.Error("Ошибка отката состояния", "error", err)
			return
		}
	}
	s.state = st
}

// timestamp текущее время в точности, которая переживает синхронизацию
func (s *Store) timestamp() time.Time {
	return retail.Normalize(s.now())
}

// bump новое значение updatedAt. Оно строго больше предыдущего, даже если часы не сдвинулись.
func (s *Store) bump(prev time.Time) time.Time {
	ts := s.timestamp()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

func (s *Store) productIndex(id string) int {
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) customerIndex(id string) int {
	for i := range s.state.Customers {
		if s.state.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
