package store

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// CartTotals итоги корзины
type CartTotals struct {
	Items    int
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// AddCategory добавляет категорию
func (s *Store) AddCategory(name, color string) (retail.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return retail.Category{}, fmt.Errorf("%w: category name is required", retail.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.state.Categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	category := retail.Category{ID: s.newID(), Name: name, Color: color}
	s.state.Categories = append(s.state.Categories, category)

	if err := s.commit(); err != nil {
		return retail.Category{}, err
	}
	return category, nil
}

// DeleteCategory удаляет категорию. Товары сохраняют свою метку.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.state.Categories {
		if c.ID == id {
			s.state.Categories = append(s.state.Categories[:i], s.state.Categories[i+1:]...)
			return s.commit()
		}
	}
	return fmt.Errorf("category %s: %w", id, retail.ErrNotFound)
}

// Categories снимок списка категорий
func (s *Store) Categories() []retail.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Categories)
}

// AddToCart добавляет товар в корзину. Количество ограничивается остатком,
// товар с нулевым остатком не добавляется.
func (s *Store) AddToCart(productID string, qty int) (retail.CartItem, error) {
	if qty <= 0 {
		return retail.CartItem{}, fmt.Errorf("%w: quantity must be positive", retail.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(productID)
	if idx < 0 {
		return retail.CartItem{}, fmt.Errorf("product %s: %w", productID, retail.ErrNotFound)
	}
	product := s.state.Products[idx]
	if product.Quantity <= 0 {
		return retail.CartItem{}, fmt.Errorf("product %s: %w", product.Name, retail.ErrOutOfStock)
	}

	line := s.cartIndex(productID)
	if line < 0 {
		s.state.Cart = append(s.state.Cart, retail.CartItem{Product: product})
		line = len(s.state.Cart) - 1
	}
	item := &s.state.Cart[line]
	item.Product = product
	item.Quantity = min(item.Quantity+qty, product.Quantity)

	result := *item
	if err := s.commit(); err != nil {
		return retail.CartItem{}, err
	}
	return result, nil
}

// UpdateCartQuantity меняет количество позиции. Ноль или меньше удаляет позицию.
func (s *Store) UpdateCartQuantity(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.cartIndex(productID)
	if line < 0 {
		return fmt.Errorf("cart item %s: %w", productID, retail.ErrNotFound)
	}
	if qty <= 0 {
		s.removeCartLine(productID)
		return s.commit()
	}

	if idx := s.productIndex(productID); idx >= 0 {
		qty = min(qty, s.state.Products[idx].Quantity)
	}
	s.state.Cart[line].Quantity = qty
	if qty == 0 {
		s.removeCartLine(productID)
	}

	return s.commit()
}

// RemoveFromCart убирает позицию из корзины
func (s *Store) RemoveFromCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cartIndex(productID) < 0 {
		return fmt.Errorf("cart item %s: %w", productID, retail.ErrNotFound)
	}
	s.removeCartLine(productID)
	return s.commit()
}

// SetCartDiscount скидка на всю корзину
func (s *Store) SetCartDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return fmt.Errorf("%w: discount must be non-negative", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CartDiscount = discount
	return s.commit()
}

// ClearCart очищает корзину и скидку
func (s *Store) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart = nil
	s.state.CartDiscount = decimal.Zero
	return s.commit()
}

// Cart снимок корзины
func (s *Store) Cart() []retail.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Cart)
}

// CartTotals считает итоги корзины. Скидка не превышает сумму.
func (s *Store) CartTotals() CartTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartTotalsLocked()
}

func (s *Store) cartTotalsLocked() CartTotals {
	totals := CartTotals{Subtotal: decimal.Zero}
	for _, item := range s.state.Cart {
		totals.Items += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.Product.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	totals.Discount = decimal.Min(s.state.CartDiscount, totals.Subtotal)
	totals.Total = totals.Subtotal.Sub(totals.Discount)
	return totals
}

func (s *Store) cartIndex(productID string) int {
	for i := range s.state.Cart {
		if s.state.Cart[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeCartLine(productID string) {
	if i := s.cartIndex(productID); i >= 0 {
		s.state.Cart = append(s.state.Cart[:i], s.state.Cart[i+1:]...)
	}
}
