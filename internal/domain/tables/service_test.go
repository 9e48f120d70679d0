package tables

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"possync/internal/domain/datastore"
)

func newTestService(max int) (*Service, *datastore.Memory) {
	repo := datastore.NewMemory()
	return NewService(repo, slog.Default(), &ServiceConfig{MaxBatchRows: max}), repo
}

func TestService_Push_ForcesShop(t *testing.T) {
	service, repo := newTestService(10)

	rows := []map[string]any{
		{"id": "p1", "name": "Rice", "updated_at": "2024-01-01T00:00:00.000Z"},
		{"id": "p2", "shop_id": "shop-1", "name": "Oil", "updated_at": "2024-01-01T00:00:00.000Z"},
	}
	n, err := service.Push(context.Background(), "shop-1", datastore.TableProducts, rows, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, ok := repo.Row(datastore.TableProducts, "p1")
	require.True(t, ok)
	assert.Equal(t, "shop-1", row["shop_id"])
}

func TestService_Push_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		key     string
		rows    []map[string]any
		wantErr error
	}{
		{name: "unknown table", table: "users", rows: []map[string]any{{"id": "x"}}, wantErr: datastore.ErrUnknownTable},
		{name: "empty", table: datastore.TableSales, wantErr: ErrEmptyBatch},
		{name: "too large", table: datastore.TableSales, rows: make([]map[string]any, 3), wantErr: ErrBatchTooLarge},
		{name: "no id", table: datastore.TableSales, rows: []map[string]any{{"created_at": "a"}}, wantErr: ErrMissingID},
		{name: "no timestamp", table: datastore.TableSales, rows: []map[string]any{{"id": "s1"}}, wantErr: ErrMissingColumn},
		{name: "foreign shop", table: datastore.TableSales, rows: []map[string]any{{"id": "s1", "created_at": "a", "shop_id": "shop-2"}}, wantErr: ErrForeignShop},
		{name: "conflict key", table: datastore.TableSales, key: "name", rows: []map[string]any{{"id": "s1"}}, wantErr: ErrConflictKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService(2)
			_, err := service.Push(context.Background(), "shop-1", tt.table, tt.rows, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.Count(datastore.TableSales))
		})
	}
}

func TestService_Pull(t *testing.T) {
	service, repo := newTestService(10)
	ctx := context.Background()

	require.NoError(t, repo.Put(datastore.TableSales, map[string]any{"id": "s1", "shop_id": "shop-1", "created_at": "2024-01-01T00:00:00.000Z"}))
	require.NoError(t, repo.Put(datastore.TableSales, map[string]any{"id": "s2", "shop_id": "shop-1", "created_at": "2024-01-02T00:00:00.000Z"}))
	require.NoError(t, repo.Put(datastore.TableSales, map[string]any{"id": "s3", "shop_id": "shop-2", "created_at": "2024-01-03T00:00:00.000Z"}))

	rows, err := service.Pull(ctx, "shop-1", datastore.TableSales, "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = service.Pull(ctx, "shop-1", datastore.TableSales, datastore.ColumnCreatedAt, "2024-01-01T00:00:00.000Z")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "s2", rows[0]["id"])

	_, err = service.Pull(ctx, "", datastore.TableSales, "", "")
	assert.ErrorIs(t, err, datastore.ErrShopRequired)

	repo.SelectErr[datastore.TableSales] = errors.New("db down")
	_, err = service.Pull(ctx, "shop-1", datastore.TableSales, "", "")
	assert.ErrorContains(t, err, "db down")
}
