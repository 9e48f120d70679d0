package store

import (
	"slices"

	"possync/internal/domain/retail"
)

// MergeResult итог слияния удаленных строк
type MergeResult struct {
	Inserted int
	Updated  int
}

// Changed было ли что-то записано
func (r MergeResult) Changed() bool {
	return r.Inserted+r.Updated > 0
}

// MergeProducts вливает удаленные товары. Неизвестные id добавляются,
// известные перезаписываются только если удаленный updatedAt строго новее.
func (s *Store) MergeProducts(remote []retail.Product) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	for _, r := range remote {
		idx := s.productIndex(r.ID)
		if idx < 0 {
			s.state.Products = append(s.state.Products, r)
			res.Inserted++
			continue
		}
		if retail.NewerThan(retail.FormatTimestamp(r.UpdatedAt), s.state.Products[idx].UpdatedAt) {
			s.state.Products[idx] = r
			s.refreshCartLine(r)
			res.Updated++
		}
	}

	if !res.Changed() {
		return res, nil
	}
	return res, s.commit()
}

// MergeCustomers вливает удаленных клиентов по тому же правилу, что и товары
func (s *Store) MergeCustomers(remote []retail.Customer) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	for _, r := range remote {
		r = cloneCustomer(r)
		idx := s.customerIndex(r.ID)
		if idx < 0 {
			s.state.Customers = append(s.state.Customers, r)
			res.Inserted++
			continue
		}
		if retail.NewerThan(retail.FormatTimestamp(r.UpdatedAt), s.state.Customers[idx].UpdatedAt) {
			s.state.Customers[idx] = r
			res.Updated++
		}
	}

	if !res.Changed() {
		return res, nil
	}
	return res, s.commit()
}

// InsertSales добавляет продажи с неизвестными id. Возвращает id добавленных.
func (s *Store) InsertSales(remote []retail.Sale) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.state.Sales))
	for _, sale := range s.state.Sales {
		known[sale.ID] = struct{}{}
	}

	var inserted []string
	for _, r := range remote {
		if _, ok := known[r.ID]; ok {
			continue
		}
		known[r.ID] = struct{}{}
		r.Synced = true
		s.state.Sales = append(s.state.Sales, r)
		inserted = append(inserted, r.ID)
	}
	if len(inserted) == 0 {
		return nil, nil
	}

	sortNewestFirst(s.state.Sales, func(sale retail.Sale) string { return retail.FormatTimestamp(sale.CreatedAt) })
	return inserted, s.commit()
}

// InsertExpenses добавляет расходы с неизвестными id. Удаленные локально не возвращаются.
func (s *Store) InsertExpenses(remote []retail.Expense) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.state.Expenses)+len(s.state.DeletedExpenseIDs))
	for _, e := range s.state.Expenses {
		known[e.ID] = struct{}{}
	}
	for _, id := range s.state.DeletedExpenseIDs {
		known[id] = struct{}{}
	}

	inserted := 0
	for _, r := range remote {
		if _, ok := known[r.ID]; ok {
			continue
		}
		known[r.ID] = struct{}{}
		s.state.Expenses = append(s.state.Expenses, r)
		inserted++
	}
	if inserted == 0 {
		return 0, nil
	}

	sortNewestFirst(s.state.Expenses, func(e retail.Expense) string { return retail.FormatTimestamp(e.CreatedAt) })
	return inserted, s.commit()
}

// InsertStockMovements добавляет записи журнала с неизвестными id.
// Остатки товаров не меняются: они приходят вместе с товарами.
func (s *Store) InsertStockMovements(remote []retail.StockMovement) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.state.StockMovements))
	for _, m := range s.state.StockMovements {
		known[m.ID] = struct{}{}
	}

	var inserted []string
	for _, r := range remote {
		if _, ok := known[r.ID]; ok {
			continue
		}
		known[r.ID] = struct{}{}
		s.state.StockMovements = append(s.state.StockMovements, r)
		inserted = append(inserted, r.ID)
	}
	if len(inserted) == 0 {
		return nil, nil
	}

	sortNewestFirst(s.state.StockMovements, func(m retail.StockMovement) string { return retail.FormatTimestamp(m.CreatedAt) })
	return inserted, s.commit()
}

// MarkSalesSynced выставляет локальный флаг synced
func (s *Store) MarkSalesSynced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	changed := false
	for i := range s.state.Sales {
		if _, ok := set[s.state.Sales[i].ID]; ok && !s.state.Sales[i].Synced {
			s.state.Sales[i].Synced = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.commit()
}

// refreshCartLine подтягивает в корзину свежий снимок товара
func (s *Store) refreshCartLine(p retail.Product) {
	line := s.cartIndex(p.ID)
	if line < 0 {
		return
	}
	s.state.Cart[line].Product = p
	if s.state.Cart[line].Quantity > p.Quantity {
		s.state.Cart[line].Quantity = p.Quantity
	}
	if s.state.Cart[line].Quantity <= 0 {
		s.removeCartLine(p.ID)
	}
}

func sortNewestFirst[T any](items []T, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
}
