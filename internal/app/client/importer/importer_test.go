package importer

import (
	"bytes"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slog"

	"possync/internal/app/client/kv"
	"possync/internal/app/client/store"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse(t *testing.T) {
	buf := workbook(t,
		[]any{"Product Name", "SKU", "Category", "Cost_Price", "Selling Price", "Qty", "Reorder level"},
		[]any{"Indomie Chicken", "6154000", "Noodles", "150", "200", 40, 10},
		[]any{"", "", "", "", "", "", ""},
		[]any{"Peak Milk", "", "", "", "1,250.50", "", ""},
	)

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Indomie Chicken", rows[0].Name)
	assert.Equal(t, "6154000", rows[0].Barcode)
	assert.Equal(t, 40, rows[0].Quantity)
	assert.Equal(t, 10, rows[0].LowStockThreshold)
	assert.True(t, rows[0].CostPrice.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, 4, rows[1].Line)
	assert.True(t, rows[1].SellingPrice.Equal(decimal.RequireFromString("1250.50")))
	assert.Zero(t, rows[1].Quantity)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]any
		contains string
	}{
		{name: "missing price column", rows: [][]any{{"Name", "Qty"}, {"Rice", 1}}, contains: "selling_price"},
		{name: "bad quantity", rows: [][]any{{"Name", "Price", "Qty"}, {"Rice", "100", "1.5"}}, contains: "row 2 invalid quantity"},
		{name: "negative price", rows: [][]any{{"Name", "Price"}, {"Rice", "-1"}}, contains: "non-negative"},
		{name: "no data", rows: [][]any{{"Name", "Price"}}, contains: "no valid data rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(workbook(t, tt.rows...))
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestImporter_Apply(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(kv.NewMemoryStorage(), log)
	require.NoError(t, err)

	existing, err := st.AddProduct(store.ProductInput{
		Name:         "Peak Milk",
		CostPrice:    decimal.NewFromInt(900),
		SellingPrice: decimal.NewFromInt(1100),
		Quantity:     5,
	})
	require.NoError(t, err)

	res, err := New(st, log).Apply([]Row{
		{Line: 2, Name: "peak milk", SellingPrice: decimal.NewFromInt(1200), CostPrice: decimal.NewFromInt(950), Quantity: 10},
		{Line: 3, Name: "Garri", SellingPrice: decimal.NewFromInt(700), Quantity: 3, Category: "Grains"},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Updated: 1, Restocked: 1}, res)

	milk, err := st.Product(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, milk.Quantity)
	assert.True(t, milk.SellingPrice.Equal(decimal.NewFromInt(1200)))
	assert.True(t, milk.CostPrice.Equal(decimal.NewFromInt(950)))

	require.Len(t, st.Products(), 2)
	// начальный приход, приход импорта и приход новой позиции
	assert.Len(t, st.StockMovements(), 3)
}
