package store

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// ProductInput данные нового товара
type ProductInput struct {
	ID                string
	Name              string
	Category          *string
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	Quantity          int
	Unit              string
	LowStockThreshold int
	Barcode           string
	ImageURL          string
}

// ProductPatch частичное обновление товара. Количество меняется только через AdjustStock.
type ProductPatch struct {
	Name              *string
	Category          *string
	ClearCategory     bool
	CostPrice         *decimal.Decimal
	SellingPrice      *decimal.Decimal
	Unit              *string
	LowStockThreshold *int
	Barcode           *string
	ImageURL          *string
}

// StockOptions параметры движения товара
type StockOptions struct {
	Type        retail.MovementType
	Reason      string
	SupplierID  string
	CostPerUnit *decimal.Decimal
}

const defaultUnit = "pcs"

func validatePrices(cost, selling decimal.Decimal) error {
	if cost.IsNegative() || selling.IsNegative() {
		return fmt.Errorf("%w: prices must be non-negative", retail.ErrInvalidAmount)
	}
	return nil
}

// AddProduct добавляет товар. Начальный остаток проводится движением purchase.
func (s *Store) AddProduct(in ProductInput) (retail.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return retail.Product{}, fmt.Errorf("%w: product name is required", retail.ErrInvalidInput)
	}
	if err := validatePrices(in.CostPrice, in.SellingPrice); err != nil {
		return retail.Product{}, err
	}
	if in.Quantity < 0 || in.LowStockThreshold < 0 {
		return retail.Product{}, fmt.Errorf("%w: quantities must be non-negative", retail.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.ID
	if id == "" {
		id = s.newID()
	}
	if s.productIndex(id) >= 0 {
		return retail.Product{}, fmt.Errorf("%w: product %s already exists", retail.ErrInvalidInput, id)
	}

	unit := in.Unit
	if unit == "" {
		unit = defaultUnit
	}
	now := s.timestamp()
	product := retail.Product{
		ID:                id,
		Name:              name,
		Category:          in.Category,
		CostPrice:         in.CostPrice,
		SellingPrice:      in.SellingPrice,
		Unit:              unit,
		LowStockThreshold: in.LowStockThreshold,
		Barcode:           strings.TrimSpace(in.Barcode),
		ImageURL:          in.ImageURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.state.Products = append(s.state.Products, product)

	if in.Quantity > 0 {
		cost := in.CostPrice
		if _, err := s.adjustStockLocked(id, in.Quantity, StockOptions{
			Type:        retail.MovementPurchase,
			Reason:      "initial stock",
			CostPerUnit: &cost,
		}); err != nil {
			s.rollback()
			return retail.Product{}, err
		}
	}

	if err := s.commit(); err != nil {
		return retail.Product{}, err
	}

	return s.state.Products[s.productIndex(id)], nil
}

// UpdateProduct применяет частичное обновление и сдвигает updatedAt
func (s *Store) UpdateProduct(id string, patch ProductPatch) (retail.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return retail.Product{}, fmt.Errorf("product %s: %w", id, retail.ErrNotFound)
	}
	p := s.state.Products[idx]

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return retail.Product{}, fmt.Errorf("%w: product name is required", retail.ErrInvalidInput)
		}
		p.Name = name
	}
	if patch.ClearCategory {
		p.Category = nil
	} else if patch.Category != nil {
		category := *patch.Category
		p.Category = &category
	}
	if patch.CostPrice != nil {
		p.CostPrice = *patch.CostPrice
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if err := validatePrices(p.CostPrice, p.SellingPrice); err != nil {
		return retail.Product{}, err
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.LowStockThreshold != nil {
		if *patch.LowStockThreshold < 0 {
			return retail.Product{}, fmt.Errorf("%w: threshold must be non-negative", retail.ErrInvalidInput)
		}
		p.LowStockThreshold = *patch.LowStockThreshold
	}
	if patch.Barcode != nil {
		p.Barcode = strings.TrimSpace(*patch.Barcode)
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	p.UpdatedAt = s.bump(p.UpdatedAt)
	s.state.Products[idx] = p

	if err := s.commit(); err != nil {
		return retail.Product{}, err
	}
	return p, nil
}

// DeleteProduct удаляет товар и его позицию из корзины
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return fmt.Errorf("product %s: %w", id, retail.ErrNotFound)
	}
	s.state.Products = append(s.state.Products[:idx], s.state.Products[idx+1:]...)
	s.removeCartLine(id)

	return s.commit()
}

// Product возвращает товар по id
func (s *Store) Product(id string) (retail.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return retail.Product{}, fmt.Errorf("product %s: %w", id, retail.ErrNotFound)
	}
	return s.state.Products[idx], nil
}

// ProductByBarcode ищет товар по штрихкоду
func (s *Store) ProductByBarcode(barcode string) (retail.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	barcode = strings.TrimSpace(barcode)
	for _, p := range s.state.Products {
		if barcode != "" && p.Barcode == barcode {
			return p, nil
		}
	}
	return retail.Product{}, fmt.Errorf("barcode %s: %w", barcode, retail.ErrNotFound)
}

// Products снимок списка товаров
func (s *Store) Products() []retail.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Products)
}

// StockMovements снимок журнала движения, от новых к старым
func (s *Store) StockMovements() []retail.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.StockMovements)
}

// AdjustStock единственный путь изменения остатка товара.
// Остаток не уходит ниже нуля, updatedAt сдвигается, в журнал добавляется одна запись.
func (s *Store) AdjustStock(productID string, delta int, opts StockOptions) (retail.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movement, err := s.adjustStockLocked(productID, delta, opts)
	if err != nil {
		return retail.StockMovement{}, err
	}
	if err := s.commit(); err != nil {
		return retail.StockMovement{}, err
	}
	return movement, nil
}

// Restock приход товара от поставщика. Цена закупки, если задана, становится себестоимостью.
func (s *Store) Restock(productID string, qty int, supplierID string, costPerUnit *decimal.Decimal) (retail.StockMovement, error) {
	if qty <= 0 {
		return retail.StockMovement{}, fmt.Errorf("%w: restock quantity must be positive", retail.ErrInvalidInput)
	}
	if costPerUnit != nil && costPerUnit.IsNegative() {
		return retail.StockMovement{}, fmt.Errorf("%w: cost must be non-negative", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	movement, err := s.adjustStockLocked(productID, qty, StockOptions{
		Type:        retail.MovementPurchase,
		Reason:      "restock",
		SupplierID:  supplierID,
		CostPerUnit: costPerUnit,
	})
	if err != nil {
		return retail.StockMovement{}, err
	}
	if costPerUnit != nil {
		idx := s.productIndex(productID)
		s.state.Products[idx].CostPrice = *costPerUnit
	}

	if err := s.commit(); err != nil {
		return retail.StockMovement{}, err
	}
	return movement, nil
}

// RemoveStock списание: порча, возврат поставщику, ручная корректировка
func (s *Store) RemoveStock(productID string, qty int, typ retail.MovementType, reason string) (retail.StockMovement, error) {
	if qty <= 0 {
		return retail.StockMovement{}, fmt.Errorf("%w: quantity must be positive", retail.ErrInvalidInput)
	}
	switch typ {
	case "":
		typ = retail.MovementAdjustment
	case retail.MovementAdjustment, retail.MovementReturn, retail.MovementDamage:
	default:
		return retail.StockMovement{}, fmt.Errorf("%w: %q is not a removal type", retail.ErrInvalidInput, typ)
	}
	return s.AdjustStock(productID, -qty, StockOptions{Type: typ, Reason: reason})
}

func (s *Store) adjustStockLocked(productID string, delta int, opts StockOptions) (retail.StockMovement, error) {
	if delta == 0 {
		return retail.StockMovement{}, fmt.Errorf("%w: zero stock adjustment", retail.ErrInvalidInput)
	}
	if opts.Type == "" {
		opts.Type = retail.MovementAdjustment
	}
	if !opts.Type.Valid() {
		return retail.StockMovement{}, fmt.Errorf("%w: movement type %q", retail.ErrInvalidInput, opts.Type)
	}

	idx := s.productIndex(productID)
	if idx < 0 {
		return retail.StockMovement{}, fmt.Errorf("product %s: %w", productID, retail.ErrNotFound)
	}
	p := &s.state.Products[idx]

	previous := p.Quantity
	next := previous + delta
	if next < 0 {
		next = 0
	}
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}

	p.Quantity = next
	p.UpdatedAt = s.bump(p.UpdatedAt)

	movement := retail.StockMovement{
		ID:               s.newID(),
		ProductID:        p.ID,
		ProductName:      p.Name,
		Type:             opts.Type,
		Quantity:         magnitude,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           opts.Reason,
		SupplierID:       opts.SupplierID,
		CostPerUnit:      opts.CostPerUnit,
		CreatedAt:        p.UpdatedAt,
	}
	s.state.StockMovements = append([]retail.StockMovement{movement}, s.state.StockMovements...)

	return movement, nil
}
