package syncer

import (
	"context"
	"fmt"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// productSync изменяемая сущность: полный upsert, затем слияние по updated_at
type productSync struct {
	deps
}

func (m *productSync) Name() string { return datastore.TableProducts }

func (m *productSync) Sync(ctx context.Context, shopID, since string) (Result, error) {
	var res Result

	local := m.store.Products()
	if len(local) > 0 {
		rows := make([]productRow, 0, len(local))
		for _, p := range local {
			rows = append(rows, toRemoteProduct(shopID, p))
		}
		res.Pushed = push(ctx, m.deps, datastore.TableProducts, rows)
	}

	var pulled []productRow
	if !m.pull(ctx, datastore.TableProducts, shopID, since, &pulled) {
		return res, nil
	}

	remote := make([]retail.Product, 0, len(pulled))
	for _, row := range pulled {
		p, err := fromRemoteProduct(row)
		if err != nil {
			m.log.Warn("Пропущена некорректная строка", "table", datastore.TableProducts, "id", row.ID, "error", err)
			continue
		}
		remote = append(remote, p)
	}

	merged, err := m.store.MergeProducts(remote)
	if err != nil {
		return res, fmt.Errorf("слияние товаров: %w", err)
	}
	res.Pulled = merged.Inserted + merged.Updated

	return res, nil
}
