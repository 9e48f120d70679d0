package shop

import (
	"context"
	"sync"
)

// MemoryRepository хранилище магазинов в памяти для тестов и локального запуска без БД
type MemoryRepository struct {
	mu    sync.RWMutex
	shops map[string]Shop
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{shops: make(map[string]Shop)}
}

func (r *MemoryRepository) Create(_ context.Context, shop Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; ok {
		return ErrExists
	}
	r.shops[shop.ID] = shop
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shop, ok := r.shops[id]
	if !ok {
		return Shop{}, ErrNotFound
	}
	return shop, nil
}
