package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

func TestPush_SplitsIntoBatches(t *testing.T) {
	remote := datastore.NewMemory()
	d := deps{remote: remote, log: discardLogger()}

	rows := make([]expenseRow, 2*pushBatchSize+1)
	for i := range rows {
		rows[i] = expenseRow{ID: fmt.Sprintf("e%04d", i), ShopID: shopID, CreatedAt: "2024-06-01T08:00:00.000Z"}
	}

	require.Equal(t, len(rows), push(context.Background(), d, datastore.TableExpenses, rows))

	calls := remote.Calls(datastore.TableExpenses)
	require.Len(t, calls, 3)
	assert.Len(t, calls[0].IDs, pushBatchSize)
	assert.Len(t, calls[2].IDs, 1)
	assert.Equal(t, len(rows), remote.Count(datastore.TableExpenses))
}

func TestPush_StopsOnFirstError(t *testing.T) {
	remote := datastore.NewMemory()
	remote.UpsertErr[datastore.TableExpenses] = errors.New("offline")
	d := deps{remote: remote, log: discardLogger()}

	accepted := push(context.Background(), d, datastore.TableExpenses, []expenseRow{{ID: "e1", ShopID: shopID}})
	assert.Zero(t, accepted)
	assert.Empty(t, remote.Calls(datastore.TableExpenses))
}

func TestSales_AcceptedBatchesAreKeptOnPartialPush(t *testing.T) {
	remote := datastore.NewMemory()
	d := newDevice(t, remote)

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	sales := make([]retail.Sale, pushBatchSize+1)
	for i := range sales {
		sales[i] = retail.Sale{
			ID:            fmt.Sprintf("sale-%04d", i),
			Subtotal:      decimal.NewFromInt(100),
			Total:         decimal.NewFromInt(100),
			PaymentMethod: retail.PaymentCash,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		}
	}
	_, err := d.store.InsertSales(sales)
	require.NoError(t, err)

	salesCalls := 0
	remote.OnUpsert = func(table string) error {
		if table != datastore.TableSales {
			return nil
		}
		salesCalls++
		if salesCalls == 2 {
			return errors.New("connection reset")
		}
		return nil
	}

	require.True(t, d.sync.SyncAll(context.Background(), shopID))
	require.Len(t, remote.Calls(datastore.TableSales), 1)
	assert.Equal(t, pushBatchSize, remote.Count(datastore.TableSales))

	pending, err := d.sync.PendingSyncCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	remote.OnUpsert = nil
	require.True(t, d.sync.SyncAll(context.Background(), shopID))

	calls := remote.Calls(datastore.TableSales)
	require.Len(t, calls, 2)
	assert.Len(t, calls[1].IDs, 1)
	assert.Equal(t, len(sales), remote.Count(datastore.TableSales))

	pending, err = d.sync.PendingSyncCount()
	require.NoError(t, err)
	assert.Zero(t, pending)
}
