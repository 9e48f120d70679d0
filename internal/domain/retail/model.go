package retail

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod способ оплаты продажи или расхода
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentPOS      PaymentMethod = "pos"
	PaymentCredit   PaymentMethod = "credit"
)

// Valid проверяет, что способ оплаты известен
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentTransfer, PaymentPOS, PaymentCredit:
		return true
	}
	return false
}

// MovementType тип движения товара на складе
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
	MovementDamage     MovementType = "damage"
)

// Valid проверяет тип движения
func (m MovementType) Valid() bool {
	switch m {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementDamage:
		return true
	}
	return false
}

// CreditTransactionType тип операции в кредитной книге клиента
type CreditTransactionType string

const (
	CreditCharge  CreditTransactionType = "credit"
	CreditPayment CreditTransactionType = "payment"
)

// Product товар магазина
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          *string         `json:"category"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Quantity          int             `json:"quantity"`
	Unit              string          `json:"unit"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	Barcode           string          `json:"barcode,omitempty"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsLowStock товар на исходе
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// Category категория товаров
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CartItem позиция корзины: снимок товара и количество
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// SaleItem позиция продажи. Цена и себестоимость фиксируются на момент продажи.
type SaleItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal сумма позиции по цене продажи
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Product.SellingPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost себестоимость позиции
func (i SaleItem) LineCost() decimal.Decimal {
	return i.Product.CostPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale продажа. После создания не изменяется и не удаляется.
type Sale struct {
	ID            string           `json:"id"`
	Items         []SaleItem       `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	CustomerID    string           `json:"customerId,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	StaffID       string           `json:"staffId,omitempty"`
	StaffName     string           `json:"staffName,omitempty"`
	CashReceived  *decimal.Decimal `json:"cashReceived,omitempty"`
	ChangeGiven   *decimal.Decimal `json:"changeGiven,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	Synced        bool             `json:"synced"`
}

// CreditTransaction запись кредитной книги
type CreditTransaction struct {
	ID        string                `json:"id"`
	Type      CreditTransactionType `json:"type"`
	Amount    decimal.Decimal       `json:"amount"`
	SaleID    string                `json:"saleId,omitempty"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// Customer клиент с кредитной книгой
type Customer struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Phone            string              `json:"phone"`
	CreditLimit      decimal.Decimal     `json:"creditLimit"`
	CurrentCredit    decimal.Decimal     `json:"currentCredit"`
	CreditFrozen     bool                `json:"creditFrozen,omitempty"`
	LastReminderSent *time.Time          `json:"lastReminderSent,omitempty"`
	Transactions     []CreditTransaction `json:"transactions"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Expense расход магазина
type Expense struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StockMovement запись журнала движения товара. Журнал только дополняется.
type StockMovement struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"productId"`
	ProductName      string           `json:"productName,omitempty"`
	Type             MovementType     `json:"type"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previousQuantity"`
	NewQuantity      int              `json:"newQuantity"`
	Reason           string           `json:"reason,omitempty"`
	SupplierID       string           `json:"supplierId,omitempty"`
	CostPerUnit      *decimal.Decimal `json:"costPerUnit,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// CashSession кассовая смена
type CashSession struct {
	ID           string           `json:"id"`
	StaffName    string           `json:"staffName,omitempty"`
	OpeningFloat decimal.Decimal  `json:"openingFloat"`
	ClosingCash  *decimal.Decimal `json:"closingCash,omitempty"`
	ExpectedCash *decimal.Decimal `json:"expectedCash,omitempty"`
	OpenedAt     time.Time        `json:"openedAt"`
	ClosedAt     *time.Time       `json:"closedAt,omitempty"`
}

// IsOpen смена еще не закрыта
func (c CashSession) IsOpen() bool {
	return c.ClosedAt == nil
}

// Supplier поставщик
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailySummary сводка за день
type DailySummary struct {
	Date         string                            `json:"date"`
	SalesCount   int                               `json:"salesCount"`
	Revenue      decimal.Decimal                   `json:"revenue"`
	Cost         decimal.Decimal                   `json:"cost"`
	GrossProfit  decimal.Decimal                   `json:"grossProfit"`
	Expenses     decimal.Decimal                   `json:"expenses"`
	NetProfit    decimal.Decimal                   `json:"netProfit"`
	ItemsSold    int                               `json:"itemsSold"`
	ByPayment    map[PaymentMethod]decimal.Decimal `json:"byPayment"`
	CreditIssued decimal.Decimal                   `json:"creditIssued"`
	CreditRepaid decimal.Decimal                   `json:"creditRepaid"`
}

// TopSeller строка рейтинга продаж
type TopSeller struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}
