package syncer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// Строки удаленных таблиц. Поля в snake_case, отсутствующие значения передаются как null.

type productRow struct {
	ID                string          `json:"id"`
	ShopID            string          `json:"shop_id"`
	Name              string          `json:"name"`
	Category          *string         `json:"category"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Quantity          int             `json:"quantity"`
	Unit              string          `json:"unit"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Barcode           *string         `json:"barcode"`
	ImageURL          *string         `json:"image_url"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

type saleItemRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

type saleRow struct {
	ID            string           `json:"id"`
	ShopID        string           `json:"shop_id"`
	Items         []saleItemRow    `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	CustomerID    *string          `json:"customer_id"`
	CustomerName  *string          `json:"customer_name"`
	StaffID       *string          `json:"staff_id"`
	StaffName     *string          `json:"staff_name"`
	CashReceived  *decimal.Decimal `json:"cash_received"`
	ChangeGiven   *decimal.Decimal `json:"change_given"`
	CreatedAt     string           `json:"created_at"`
}

type creditTxRow struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	SaleID    *string         `json:"sale_id"`
	Note      *string         `json:"note"`
	CreatedAt string          `json:"created_at"`
}

type customerRow struct {
	ID               string          `json:"id"`
	ShopID           string          `json:"shop_id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CurrentCredit    decimal.Decimal `json:"current_credit"`
	CreditFrozen     bool            `json:"credit_frozen"`
	LastReminderSent *string         `json:"last_reminder_sent"`
	Transactions     []creditTxRow   `json:"transactions"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type expenseRow struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}

type movementRow struct {
	ID               string           `json:"id"`
	ShopID           string           `json:"shop_id"`
	ProductID        string           `json:"product_id"`
	ProductName      *string          `json:"product_name"`
	Type             string           `json:"type"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	Reason           *string          `json:"reason"`
	SupplierID       *string          `json:"supplier_id"`
	CostPerUnit      *decimal.Decimal `json:"cost_per_unit"`
	CreatedAt        string           `json:"created_at"`
}

// pulledSaleUnit единица измерения для товаров, восстановленных из удаленной продажи
const pulledSaleUnit = "pcs"

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is empty", field)
	}
	t, err := retail.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func toRemoteProduct(shopID string, p retail.Product) productRow {
	return productRow{
		ID:                p.ID,
		ShopID:            shopID,
		Name:              p.Name,
		Category:          p.Category,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		Quantity:          p.Quantity,
		Unit:              p.Unit,
		LowStockThreshold: p.LowStockThreshold,
		Barcode:           optional(p.Barcode),
		ImageURL:          optional(p.ImageURL),
		CreatedAt:         retail.FormatTimestamp(p.CreatedAt),
		UpdatedAt:         retail.FormatTimestamp(p.UpdatedAt),
	}
}

func fromRemoteProduct(r productRow) (retail.Product, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return retail.Product{}, err
	}
	updatedAt, err := parseTime("updated_at", r.UpdatedAt)
	if err != nil {
		return retail.Product{}, err
	}
	unit := r.Unit
	if unit == "" {
		unit = pulledSaleUnit
	}
	return retail.Product{
		ID:                r.ID,
		Name:              r.Name,
		Category:          r.Category,
		CostPrice:         r.CostPrice,
		SellingPrice:      r.SellingPrice,
		Quantity:          max(r.Quantity, 0),
		Unit:              unit,
		LowStockThreshold: r.LowStockThreshold,
		Barcode:           deref(r.Barcode),
		ImageURL:          deref(r.ImageURL),
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

func toRemoteSale(shopID string, s retail.Sale) saleRow {
	items := make([]saleItemRow, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, saleItemRow{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.SellingPrice,
			Cost:        item.Product.CostPrice,
		})
	}
	return saleRow{
		ID:            s.ID,
		ShopID:        shopID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		CustomerID:    optional(s.CustomerID),
		CustomerName:  optional(s.CustomerName),
		StaffID:       optional(s.StaffID),
		StaffName:     optional(s.StaffName),
		CashReceived:  s.CashReceived,
		ChangeGiven:   s.ChangeGiven,
		CreatedAt:     retail.FormatTimestamp(s.CreatedAt),
	}
}

// fromRemoteSale восстанавливает продажу. У позиций на проводе нет полного товара,
// поэтому остальные поля снимка заполняются значениями по умолчанию.
func fromRemoteSale(r saleRow) (retail.Sale, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return retail.Sale{}, err
	}
	items := make([]retail.SaleItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, retail.SaleItem{
			Product: retail.Product{
				ID:           item.ProductID,
				Name:         item.ProductName,
				CostPrice:    item.Cost,
				SellingPrice: item.Price,
				Unit:         pulledSaleUnit,
			},
			Quantity: item.Quantity,
		})
	}
	return retail.Sale{
		ID:            r.ID,
		Items:         items,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		PaymentMethod: retail.PaymentMethod(r.PaymentMethod),
		CustomerID:    deref(r.CustomerID),
		CustomerName:  deref(r.CustomerName),
		StaffID:       deref(r.StaffID),
		StaffName:     deref(r.StaffName),
		CashReceived:  r.CashReceived,
		ChangeGiven:   r.ChangeGiven,
		CreatedAt:     createdAt,
		Synced:        true,
	}, nil
}

func toRemoteCustomer(shopID string, c retail.Customer) customerRow {
	txs := make([]creditTxRow, 0, len(c.Transactions))
	for _, tx := range c.Transactions {
		txs = append(txs, creditTxRow{
			ID:        tx.ID,
			Type:      string(tx.Type),
			Amount:    tx.Amount,
			SaleID:    optional(tx.SaleID),
			Note:      optional(tx.Note),
			CreatedAt: retail.FormatTimestamp(tx.CreatedAt),
		})
	}
	var reminder *string
	if c.LastReminderSent != nil {
		ts := retail.FormatTimestamp(*c.LastReminderSent)
		reminder = &ts
	}
	return customerRow{
		ID:               c.ID,
		ShopID:           shopID,
		Name:             c.Name,
		Phone:            c.Phone,
		CreditLimit:      c.CreditLimit,
		CurrentCredit:    c.CurrentCredit,
		CreditFrozen:     c.CreditFrozen,
		LastReminderSent: reminder,
		Transactions:     txs,
		CreatedAt:        retail.FormatTimestamp(c.CreatedAt),
		UpdatedAt:        retail.FormatTimestamp(c.UpdatedAt),
	}
}

func fromRemoteCustomer(r customerRow) (retail.Customer, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return retail.Customer{}, err
	}
	updatedAt, err := parseTime("updated_at", r.UpdatedAt)
	if err != nil {
		return retail.Customer{}, err
	}

	txs := make([]retail.CreditTransaction, 0, len(r.Transactions))
	for _, tx := range r.Transactions {
		at, err := parseTime("transactions.created_at", tx.CreatedAt)
		if err != nil {
			return retail.Customer{}, err
		}
		txs = append(txs, retail.CreditTransaction{
			ID:        tx.ID,
			Type:      retail.CreditTransactionType(tx.Type),
			Amount:    tx.Amount,
			SaleID:    deref(tx.SaleID),
			Note:      deref(tx.Note),
			CreatedAt: at,
		})
	}

	var reminder *time.Time
	if r.LastReminderSent != nil && *r.LastReminderSent != "" {
		at, err := parseTime("last_reminder_sent", *r.LastReminderSent)
		if err != nil {
			return retail.Customer{}, err
		}
		reminder = &at
	}

	return retail.Customer{
		ID:               r.ID,
		Name:             r.Name,
		Phone:            r.Phone,
		CreditLimit:      r.CreditLimit,
		CurrentCredit:    retail.CreditBalance(txs),
		CreditFrozen:     r.CreditFrozen,
		LastReminderSent: reminder,
		Transactions:     txs,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func toRemoteExpense(shopID string, e retail.Expense) expenseRow {
	return expenseRow{
		ID:            e.ID,
		ShopID:        shopID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: string(e.PaymentMethod),
		CreatedAt:     retail.FormatTimestamp(e.CreatedAt),
	}
}

func fromRemoteExpense(r expenseRow) (retail.Expense, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return retail.Expense{}, err
	}
	return retail.Expense{
		ID:            r.ID,
		Category:      r.Category,
		Description:   r.Description,
		Amount:        r.Amount,
		PaymentMethod: retail.PaymentMethod(r.PaymentMethod),
		CreatedAt:     createdAt,
	}, nil
}

func toRemoteMovement(shopID string, m retail.StockMovement) movementRow {
	return movementRow{
		ID:               m.ID,
		ShopID:           shopID,
		ProductID:        m.ProductID,
		ProductName:      optional(m.ProductName),
		Type:             string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           optional(m.Reason),
		SupplierID:       optional(m.SupplierID),
		CostPerUnit:      m.CostPerUnit,
		CreatedAt:        retail.FormatTimestamp(m.CreatedAt),
	}
}

func fromRemoteMovement(r movementRow) (retail.StockMovement, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return retail.StockMovement{}, err
	}
	return retail.StockMovement{
		ID:               r.ID,
		ProductID:        r.ProductID,
		ProductName:      deref(r.ProductName),
		Type:             retail.MovementType(r.Type),
		Quantity:         r.Quantity,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		Reason:           deref(r.Reason),
		SupplierID:       deref(r.SupplierID),
		CostPerUnit:      r.CostPerUnit,
		CreatedAt:        createdAt,
	}, nil
}
