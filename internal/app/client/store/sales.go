package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// CheckoutRequest параметры оформления продажи из текущей корзины
type CheckoutRequest struct {
	PaymentMethod retail.PaymentMethod
	CustomerID    string
	StaffID       string
	StaffName     string
	CashReceived  *decimal.Decimal
}

// CompleteSale оформляет продажу из корзины.
// Пустая корзина и закончившийся первый товар дают ошибку без изменений.
// Позиция, превышающая остаток, отклоняется целиком.
func (s *Store) CompleteSale(req CheckoutRequest) (retail.Sale, error) {
	if !req.PaymentMethod.Valid() {
		return retail.Sale{}, fmt.Errorf("%w: payment method %q", retail.ErrInvalidInput, req.PaymentMethod)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Cart) == 0 {
		return retail.Sale{}, retail.ErrEmptyCart
	}

	items := make([]retail.SaleItem, 0, len(s.state.Cart))
	for i, line := range s.state.Cart {
		idx := s.productIndex(line.Product.ID)
		if idx < 0 {
			return retail.Sale{}, fmt.Errorf("product %s: %w", line.Product.Name, retail.ErrNotFound)
		}
		product := s.state.Products[idx]
		if i == 0 && product.Quantity <= 0 {
			return retail.Sale{}, fmt.Errorf("product %s: %w", product.Name, retail.ErrOutOfStock)
		}
		if line.Quantity > product.Quantity {
			return retail.Sale{}, fmt.Errorf("product %s: %d requested, %d left: %w",
				product.Name, line.Quantity, product.Quantity, retail.ErrInsufficientStock)
		}
		items = append(items, retail.SaleItem{Product: product, Quantity: line.Quantity})
	}

	totals := s.cartTotalsLocked()
	sale := retail.Sale{
		ID:            s.newID(),
		Items:         items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		PaymentMethod: req.PaymentMethod,
		StaffID:       req.StaffID,
		StaffName:     req.StaffName,
	}

	customerIdx := -1
	switch req.PaymentMethod {
	case retail.PaymentCredit:
		if req.CustomerID == "" {
			return retail.Sale{}, retail.ErrCustomerRequired
		}
		customerIdx = s.customerIndex(req.CustomerID)
		if customerIdx < 0 {
			return retail.Sale{}, fmt.Errorf("customer %s: %w", req.CustomerID, retail.ErrNotFound)
		}
		customer := s.state.Customers[customerIdx]
		if customer.CreditFrozen {
			return retail.Sale{}, fmt.Errorf("customer %s: %w", customer.Name, retail.ErrCreditFrozen)
		}
		if customer.CreditLimit.IsPositive() && customer.CurrentCredit.Add(sale.Total).GreaterThan(customer.CreditLimit) {
			return retail.Sale{}, fmt.Errorf("customer %s: %w", customer.Name, retail.ErrCreditLimitExceeded)
		}
		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name
	case retail.PaymentCash:
		if req.CashReceived != nil {
			if req.CashReceived.LessThan(sale.Total) {
				return retail.Sale{}, fmt.Errorf("%w: cash received is less than total", retail.ErrInvalidAmount)
			}
			received := *req.CashReceived
			change := received.Sub(sale.Total)
			sale.CashReceived = &received
			sale.ChangeGiven = &change
		}
	}

	now := s.timestamp()
	sale.CreatedAt = now

	for _, item := range items {
		if _, err := s.adjustStockLocked(item.Product.ID, -item.Quantity, StockOptions{
			Type:   retail.MovementSale,
			Reason: "sale",
		}); err != nil {
			s.rollback()
			return retail.Sale{}, err
		}
	}

	if customerIdx >= 0 {
		c := &s.state.Customers[customerIdx]
		tx := retail.CreditTransaction{
			ID:        s.newID(),
			Type:      retail.CreditCharge,
			Amount:    sale.Total,
			SaleID:    sale.ID,
			CreatedAt: now,
		}
		c.Transactions = append([]retail.CreditTransaction{tx}, c.Transactions...)
		c.CurrentCredit = retail.CreditBalance(c.Transactions)
		c.UpdatedAt = s.bump(c.UpdatedAt)
	}

	s.state.Sales = append([]retail.Sale{sale}, s.state.Sales...)
	s.state.Cart = nil
	s.state.CartDiscount = decimal.Zero

	if err := s.commit(); err != nil {
		return retail.Sale{}, err
	}

	s.log.Info("Продажа оформлена",
		"sale_id", sale.ID,
		"items", len(sale.Items),
		"total", sale.Total.String(),
		"payment", string(sale.PaymentMethod),
	)

	return sale, nil
}

// Sales снимок продаж, от новых к старым
func (s *Store) Sales() []retail.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Sales)
}

// Sale возвращает продажу по id
func (s *Store) Sale(id string) (retail.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sale := range s.state.Sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return retail.Sale{}, fmt.Errorf("sale %s: %w", id, retail.ErrNotFound)
}
