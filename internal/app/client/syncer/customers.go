package syncer

import (
	"context"
	"fmt"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// customerSync изменяемая сущность, кредитная книга едет вместе с клиентом
type customerSync struct {
	deps
}

func (m *customerSync) Name() string { return datastore.TableCustomers }

func (m *customerSync) Sync(ctx context.Context, shopID, since string) (Result, error) {
	var res Result

	local := m.store.Customers()
	if len(local) > 0 {
		rows := make([]customerRow, 0, len(local))
		for _, c := range local {
			rows = append(rows, toRemoteCustomer(shopID, c))
		}
		res.Pushed = push(ctx, m.deps, datastore.TableCustomers, rows)
	}

	var pulled []customerRow
	if !m.pull(ctx, datastore.TableCustomers, shopID, since, &pulled) {
		return res, nil
	}

	remote := make([]retail.Customer, 0, len(pulled))
	for _, row := range pulled {
		c, err := fromRemoteCustomer(row)
		if err != nil {
			m.log.Warn("Пропущена некорректная строка", "table", datastore.TableCustomers, "id", row.ID, "error", err)
			continue
		}
		remote = append(remote, c)
	}

	merged, err := m.store.MergeCustomers(remote)
	if err != nil {
		return res, fmt.Errorf("слияние клиентов: %w", err)
	}
	res.Pulled = merged.Inserted + merged.Updated

	return res, nil
}
