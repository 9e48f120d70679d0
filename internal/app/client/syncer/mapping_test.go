package syncer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"possync/internal/domain/retail"
)

func TestToRemoteProduct_NullsAbsentOptionals(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 123_456_789, time.UTC)
	row := toRemoteProduct("shop-1", retail.Product{
		ID:           "p1",
		Name:         "Garri",
		SellingPrice: decimal.NewFromInt(1200),
		Unit:         "bag",
		CreatedAt:    at,
		UpdatedAt:    at,
	})

	assert.Equal(t, "shop-1", row.ShopID)
	assert.Nil(t, row.Barcode)
	assert.Nil(t, row.ImageURL)
	assert.Nil(t, row.Category)
	assert.Equal(t, "2024-06-01T08:00:00.123Z", row.UpdatedAt)
}

func TestFromRemoteSale_ReconstructsLineItems(t *testing.T) {
	customer := "c1"
	sale, err := fromRemoteSale(saleRow{
		ID:            "s1",
		Items:         []saleItemRow{{ProductID: "p1", ProductName: "Garri", Quantity: 2, Price: decimal.NewFromInt(1200), Cost: decimal.NewFromInt(900)}},
		Subtotal:      decimal.NewFromInt(2400),
		Total:         decimal.NewFromInt(2400),
		PaymentMethod: "credit",
		CustomerID:    &customer,
		CreatedAt:     "2024-06-01T08:00:00.000Z",
	})
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	item := sale.Items[0]
	assert.Equal(t, "Garri", item.Product.Name)
	assert.Equal(t, "pcs", item.Product.Unit)
	assert.Zero(t, item.Product.Quantity)
	assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, retail.PaymentCredit, sale.PaymentMethod)
	assert.Equal(t, "c1", sale.CustomerID)
	assert.True(t, sale.Synced)
}

func TestFromRemoteCustomer_RecomputesBalance(t *testing.T) {
	c, err := fromRemoteCustomer(customerRow{
		ID:            "c1",
		Name:          "Iya Bose",
		CurrentCredit: decimal.NewFromInt(999),
		Transactions: []creditTxRow{
			{ID: "t2", Type: "payment", Amount: decimal.NewFromInt(2000), CreatedAt: "2024-06-02T08:00:00.000Z"},
			{ID: "t1", Type: "credit", Amount: decimal.NewFromInt(5000), CreatedAt: "2024-06-01T08:00:00.000Z"},
		},
		CreatedAt: "2024-06-01T07:00:00.000Z",
		UpdatedAt: "2024-06-02T08:00:00.000Z",
	})
	require.NoError(t, err)
	assert.True(t, c.CurrentCredit.Equal(decimal.NewFromInt(3000)))
	assert.Nil(t, c.LastReminderSent)
}

func TestFromRemote_RejectsBadTimestamps(t *testing.T) {
	_, err := fromRemoteProduct(productRow{ID: "p1", CreatedAt: "yesterday", UpdatedAt: "2024-06-01T08:00:00.000Z"})
	assert.Error(t, err)

	_, err = fromRemoteExpense(expenseRow{ID: "e1"})
	assert.Error(t, err)

	// RFC3339 без миллисекунд принимается и нормализуется
	mv, err := fromRemoteMovement(movementRow{ID: "m1", Type: "purchase", CreatedAt: "2024-06-01T09:00:00+01:00"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T08:00:00.000Z", retail.FormatTimestamp(mv.CreatedAt))
}
