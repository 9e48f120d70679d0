package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"possync/internal/app/client/kv"
	"possync/internal/app/client/remote"
	"possync/internal/app/client/store"
	"possync/internal/app/client/syncer"
	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
	"possync/internal/domain/session"
	"possync/internal/domain/shop"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	url    string
	tables *datastore.Memory
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	sessions, err := session.NewService("test-secret", time.Hour, discardLogger())
	require.NoError(t, err)

	tables := datastore.NewMemory()
	srv := httptest.NewServer(New(Deps{
		Shops:    shop.NewMemoryRepository(),
		Tables:   tables,
		Sessions: sessions,
	}, discardLogger()))
	t.Cleanup(srv.Close)

	return testServer{url: srv.URL, tables: tables}
}

func (s testServer) client() *remote.Client {
	return remote.New(remote.Options{ServerAddress: strings.TrimPrefix(s.url, "http://")}, discardLogger())
}

func login(t *testing.T, c *remote.Client, shopID string) {
	t.Helper()
	_, err := c.Login(context.Background(), shopID, "openSesame1")
	require.NoError(t, err)
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client()
	ctx := context.Background()

	require.NoError(t, c.HealthCheck(ctx))
	require.NoError(t, c.RegisterShop(ctx, "shop-1", "Corner", "openSesame1"))

	err := c.RegisterShop(ctx, "shop-1", "Corner", "openSesame1")
	assert.ErrorContains(t, err, "already registered")

	_, err = c.Login(ctx, "shop-1", "wrongSecret9")
	assert.ErrorIs(t, err, remote.ErrUnauthorized)

	tok, err := c.Login(ctx, "shop-1", "openSesame1")
	require.NoError(t, err)
	assert.True(t, tok.ExpiresAt.After(time.Now()))
}

func TestAPI_RestRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client()

	err := c.Upsert(context.Background(), datastore.TableProducts, []map[string]any{{"id": "p1"}}, datastore.ConflictKey)
	assert.ErrorIs(t, err, remote.ErrUnauthorized)

	c.SetToken("forged")
	var rows []map[string]any
	err = c.Select(context.Background(), datastore.Query{Table: datastore.TableProducts, ShopID: "shop-1", Column: datastore.ColumnUpdatedAt}, &rows)
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
}

func TestAPI_RestIsolatesShops(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	a := srv.client()
	require.NoError(t, a.RegisterShop(ctx, "shop-a", "A", "openSesame1"))
	login(t, a, "shop-a")

	b := srv.client()
	require.NoError(t, b.RegisterShop(ctx, "shop-b", "B", "openSesame1"))
	login(t, b, "shop-b")

	row := map[string]any{"id": "p1", "name": "Rice", "updated_at": "2024-01-01T00:00:00.000Z"}
	require.NoError(t, a.Upsert(ctx, datastore.TableProducts, []map[string]any{row}, datastore.ConflictKey))

	stored, ok := srv.tables.Row(datastore.TableProducts, "p1")
	require.True(t, ok)
	assert.Equal(t, "shop-a", stored["shop_id"])

	var rows []map[string]any
	require.NoError(t, b.Select(ctx, datastore.Query{Table: datastore.TableProducts, ShopID: "shop-b", Column: datastore.ColumnUpdatedAt}, &rows))
	assert.Empty(t, rows)

	err := b.Select(ctx, datastore.Query{Table: datastore.TableProducts, ShopID: "shop-a", Column: datastore.ColumnUpdatedAt}, &rows)
	assert.ErrorContains(t, err, "access")

	foreign := map[string]any{"id": "p2", "shop_id": "shop-a", "updated_at": "2024-01-01T00:00:00.000Z"}
	err = b.Upsert(ctx, datastore.TableProducts, []map[string]any{foreign}, datastore.ConflictKey)
	assert.ErrorContains(t, err, "another shop")
}

func TestAPI_RestRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client()
	ctx := context.Background()
	require.NoError(t, c.RegisterShop(ctx, "shop-1", "Corner", "openSesame1"))
	login(t, c, "shop-1")

	err := c.Upsert(ctx, datastore.TableSales, []map[string]any{{"id": "s1"}}, datastore.ConflictKey)
	assert.ErrorContains(t, err, "created_at")

	req, err := http.NewRequest(http.MethodGet, srv.url+"/api/v1/rest/users?column=created_at", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Две кассы одного магазина сходятся через HTTP API
func TestAPI_TwoTillsConverge(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	newTill := func() (*store.Store, *syncer.Service) {
		c := srv.client()
		login(t, c, "shop-1")
		storage := kv.NewMemoryStorage()
		st, err := store.New(storage, discardLogger())
		require.NoError(t, err)
		return st, syncer.NewService(st, c, storage, discardLogger())
	}

	require.NoError(t, srv.client().RegisterShop(ctx, "shop-1", "Corner", "openSesame1"))
	storeA, syncA := newTill()
	storeB, syncB := newTill()

	p, err := storeA.AddProduct(store.ProductInput{
		Name:         "Semovita",
		CostPrice:    decimal.NewFromInt(800),
		SellingPrice: decimal.NewFromInt(1000),
		Quantity:     10,
	})
	require.NoError(t, err)
	_, err = storeA.AddToCart(p.ID, 3)
	require.NoError(t, err)
	sale, err := storeA.CompleteSale(store.CheckoutRequest{PaymentMethod: retail.PaymentCash})
	require.NoError(t, err)

	require.True(t, syncA.SyncAll(ctx, "shop-1"))
	require.True(t, syncB.SyncAll(ctx, "shop-1"))

	got, err := storeB.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	pulled, err := storeB.Sale(sale.ID)
	require.NoError(t, err)
	assert.True(t, pulled.Total.Equal(decimal.NewFromInt(3000)))
	assert.True(t, pulled.Synced)
	assert.Len(t, storeB.StockMovements(), 2)

	pending, err := syncB.PendingSyncCount()
	require.NoError(t, err)
	assert.Zero(t, pending)
}
