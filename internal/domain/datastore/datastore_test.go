package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{name: "ok", query: Query{Table: TableSales, ShopID: "s1", Column: ColumnCreatedAt}},
		{name: "no shop", query: Query{Table: TableSales, Column: ColumnCreatedAt}, wantErr: ErrShopRequired},
		{name: "unknown table", query: Query{Table: "users", ShopID: "s1", Column: ColumnCreatedAt}, wantErr: ErrUnknownTable},
		{name: "unknown column", query: Query{Table: TableSales, ShopID: "s1", Column: "name"}, wantErr: ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMemory_UpsertAndSelect(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rows := []map[string]any{
		{"id": "p1", "shop_id": "s1", "name": "Rice", "updated_at": "2024-01-01T10:00:00.000Z"},
		{"id": "p2", "shop_id": "s1", "name": "Oil", "updated_at": "2024-01-02T10:00:00.000Z"},
		{"id": "p3", "shop_id": "s2", "name": "Salt", "updated_at": "2024-01-03T10:00:00.000Z"},
	}
	require.NoError(t, m.Upsert(ctx, TableProducts, rows, ConflictKey))
	require.NoError(t, m.Upsert(ctx, TableProducts, rows, ConflictKey))
	assert.Equal(t, 3, m.Count(TableProducts))
	assert.Len(t, m.Calls(TableProducts), 2)

	var got []map[string]any
	require.NoError(t, m.Select(ctx, Query{
		Table:  TableProducts,
		ShopID: "s1",
		Column: ColumnUpdatedAt,
		After:  "2024-01-01T10:00:00.000Z",
	}, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0]["id"])
}

func TestMemory_MutableTablesKeepNewerRow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(TableCustomers, map[string]any{
		"id": "c1", "shop_id": "s1", "name": "Edited elsewhere", "updated_at": "2024-05-01T00:00:00.000Z",
	}))

	stale := []map[string]any{{"id": "c1", "shop_id": "s1", "name": "Stale", "updated_at": "2024-04-01T00:00:00.000Z"}}
	require.NoError(t, m.Upsert(ctx, TableCustomers, stale, ConflictKey))

	row, ok := m.Row(TableCustomers, "c1")
	require.True(t, ok)
	assert.Equal(t, "Edited elsewhere", row["name"])

	// журналы перезаписываются без сравнения
	require.NoError(t, m.Upsert(ctx, TableSales, []map[string]any{{"id": "x", "shop_id": "s1", "created_at": "b"}}, ConflictKey))
	require.NoError(t, m.Upsert(ctx, TableSales, []map[string]any{{"id": "x", "shop_id": "s1", "created_at": "a"}}, ConflictKey))
	row, _ = m.Row(TableSales, "x")
	assert.Equal(t, "a", row["created_at"])
}

func TestMemory_ForeignShopRowUntouched(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Upsert(ctx, TableExpenses, []map[string]any{{"id": "e1", "shop_id": "s1", "amount": "100", "created_at": "a"}}, ConflictKey))
	require.NoError(t, m.Upsert(ctx, TableExpenses, []map[string]any{{"id": "e1", "shop_id": "s2", "amount": "999", "created_at": "a"}}, ConflictKey))

	row, ok := m.Row(TableExpenses, "e1")
	require.True(t, ok)
	assert.Equal(t, "s1", row["shop_id"])
	assert.Equal(t, "100", row["amount"])
}

func TestMemory_UpsertRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rows := []map[string]any{
		{"id": "m1", "shop_id": "s1", "created_at": "a"},
		{"shop_id": "s1", "created_at": "b"},
		{"id": "m3", "shop_id": "s1", "created_at": "c"},
	}
	err := m.Upsert(ctx, TableStockMovements, rows, ConflictKey)
	assert.ErrorContains(t, err, "row 1 without id")

	assert.Zero(t, m.Count(TableStockMovements))
	_, ok := m.Row(TableStockMovements, "m1")
	assert.False(t, ok)
	assert.Empty(t, m.Calls(TableStockMovements))
}
