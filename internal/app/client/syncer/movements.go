package syncer

import (
	"context"
	"fmt"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// movementSync журнал движения товара, та же схема, что и у продаж
type movementSync struct {
	deps
}

func (m *movementSync) Name() string { return datastore.TableStockMovements }

func (m *movementSync) Sync(ctx context.Context, shopID, since string) (Result, error) {
	var res Result

	synced, err := m.books.syncedIDs(KeySyncedMovementIDs)
	if err != nil {
		return res, err
	}

	var (
		rows []movementRow
		ids  []string
	)
	for _, mv := range m.store.StockMovements() {
		if _, ok := synced[mv.ID]; ok {
			continue
		}
		rows = append(rows, toRemoteMovement(shopID, mv))
		ids = append(ids, mv.ID)
	}

	if accepted := push(ctx, m.deps, datastore.TableStockMovements, rows); accepted > 0 {
		if err := m.books.addSyncedIDs(KeySyncedMovementIDs, synced, ids[:accepted]); err != nil {
			return res, err
		}
		res.Pushed = accepted
	}

	var pulled []movementRow
	if !m.pull(ctx, datastore.TableStockMovements, shopID, since, &pulled) {
		return res, nil
	}

	remote := make([]retail.StockMovement, 0, len(pulled))
	known := make([]string, 0, len(pulled))
	for _, row := range pulled {
		mv, err := fromRemoteMovement(row)
		if err != nil {
			m.log.Warn("Пропущена некорректная строка", "table", datastore.TableStockMovements, "id", row.ID, "error", err)
			continue
		}
		remote = append(remote, mv)
		known = append(known, mv.ID)
	}

	inserted, err := m.store.InsertStockMovements(remote)
	if err != nil {
		return res, fmt.Errorf("вставка движений товара: %w", err)
	}
	if err := m.books.addSyncedIDs(KeySyncedMovementIDs, synced, known); err != nil {
		return res, err
	}
	res.Pulled = len(inserted)

	return res, nil
}
