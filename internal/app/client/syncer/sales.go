package syncer

import (
	"context"
	"fmt"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// saleSync журнал продаж: отправляется только то, чего нет в множестве отправленных
type saleSync struct {
	deps
}

func (m *saleSync) Name() string { return datastore.TableSales }

func (m *saleSync) Sync(ctx context.Context, shopID, since string) (Result, error) {
	var res Result

	synced, err := m.books.syncedIDs(KeySyncedSaleIDs)
	if err != nil {
		return res, err
	}

	var (
		rows []saleRow
		ids  []string
	)
	for _, sale := range m.store.Sales() {
		if _, ok := synced[sale.ID]; ok {
			continue
		}
		rows = append(rows, toRemoteSale(shopID, sale))
		ids = append(ids, sale.ID)
	}

	// принятые пачки фиксируются, даже если следующая не ушла
	if accepted := push(ctx, m.deps, datastore.TableSales, rows); accepted > 0 {
		if err := m.books.addSyncedIDs(KeySyncedSaleIDs, synced, ids[:accepted]); err != nil {
			return res, err
		}
		if err := m.store.MarkSalesSynced(ids[:accepted]); err != nil {
			return res, fmt.Errorf("отметка продаж: %w", err)
		}
		res.Pushed = accepted
	}

	var pulled []saleRow
	if !m.pull(ctx, datastore.TableSales, shopID, since, &pulled) {
		return res, nil
	}

	remote := make([]retail.Sale, 0, len(pulled))
	known := make([]string, 0, len(pulled))
	for _, row := range pulled {
		sale, err := fromRemoteSale(row)
		if err != nil {
			m.log.Warn("Пропущена некорректная строка", "table", datastore.TableSales, "id", row.ID, "error", err)
			continue
		}
		remote = append(remote, sale)
		known = append(known, sale.ID)
	}

	inserted, err := m.store.InsertSales(remote)
	if err != nil {
		return res, fmt.Errorf("вставка продаж: %w", err)
	}
	if err := m.books.addSyncedIDs(KeySyncedSaleIDs, synced, known); err != nil {
		return res, err
	}
	res.Pulled = len(inserted)

	return res, nil
}
