package store

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// InventoryValue стоимость остатков по себестоимости и по цене продажи
type InventoryValue struct {
	Cost   decimal.Decimal
	Retail decimal.Decimal
	Units  int
}

// DailySummary сводка за календарный день в часовом поясе day
func (s *Store) DailySummary(day time.Time) retail.DailySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	within := func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	}

	summary := retail.DailySummary{
		Date:         start.Format(time.DateOnly),
		Revenue:      decimal.Zero,
		Cost:         decimal.Zero,
		Expenses:     decimal.Zero,
		CreditIssued: decimal.Zero,
		CreditRepaid: decimal.Zero,
		ByPayment:    make(map[retail.PaymentMethod]decimal.Decimal),
	}

	for _, sale := range s.state.Sales {
		if !within(sale.CreatedAt) {
			continue
		}
		summary.SalesCount++
		summary.Revenue = summary.Revenue.Add(sale.Total)
		summary.ByPayment[sale.PaymentMethod] = summary.ByPayment[sale.PaymentMethod].Add(sale.Total)
		for _, item := range sale.Items {
			summary.ItemsSold += item.Quantity
			summary.Cost = summary.Cost.Add(item.LineCost())
		}
	}
	for _, e := range s.state.Expenses {
		if within(e.CreatedAt) {
			summary.Expenses = summary.Expenses.Add(e.Amount)
		}
	}
	for _, c := range s.state.Customers {
		for _, tx := range c.Transactions {
			if !within(tx.CreatedAt) {
				continue
			}
			switch tx.Type {
			case retail.CreditCharge:
				summary.CreditIssued = summary.CreditIssued.Add(tx.Amount)
			case retail.CreditPayment:
				summary.CreditRepaid = summary.CreditRepaid.Add(tx.Amount)
			}
		}
	}

	summary.GrossProfit = summary.Revenue.Sub(summary.Cost)
	summary.NetProfit = summary.GrossProfit.Sub(summary.Expenses)

	return summary
}

// LowStockProducts товары, остаток которых не выше порога
func (s *Store) LowStockProducts() []retail.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []retail.Product
	for _, p := range s.state.Products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}

// TopSellers n самых продаваемых товаров по количеству начиная с since
func (s *Store) TopSellers(n int, since time.Time) []retail.TopSeller {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProduct := make(map[string]*retail.TopSeller)
	for _, sale := range s.state.Sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		for _, item := range sale.Items {
			row, ok := byProduct[item.Product.ID]
			if !ok {
				row = &retail.TopSeller{ProductID: item.Product.ID, Name: item.Product.Name, Revenue: decimal.Zero}
				byProduct[item.Product.ID] = row
			}
			row.Quantity += item.Quantity
			row.Revenue = row.Revenue.Add(item.LineTotal())
		}
	}

	out := make([]retail.TopSeller, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// InventoryValue оценка склада
func (s *Store) InventoryValue() InventoryValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value := InventoryValue{Cost: decimal.Zero, Retail: decimal.Zero}
	for _, p := range s.state.Products {
		qty := decimal.NewFromInt(int64(p.Quantity))
		value.Units += p.Quantity
		value.Cost = value.Cost.Add(p.CostPrice.Mul(qty))
		value.Retail = value.Retail.Add(p.SellingPrice.Mul(qty))
	}
	return value
}
