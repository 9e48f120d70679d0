package store

import (
	"fmt"
	"strings"

	"possync/internal/domain/retail"
)

// AddSupplier добавляет поставщика
func (s *Store) AddSupplier(name, phone string) (retail.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return retail.Supplier{}, fmt.Errorf("%w: supplier name is required", retail.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supplier := retail.Supplier{
		ID:        s.newID(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		CreatedAt: s.timestamp(),
	}
	s.state.Suppliers = append(s.state.Suppliers, supplier)

	if err := s.commit(); err != nil {
		return retail.Supplier{}, err
	}
	return supplier, nil
}

// Suppliers снимок списка поставщиков
func (s *Store) Suppliers() []retail.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Suppliers)
}
