package syncer

import (
	"context"
	"fmt"

	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// expenseSync расходы отправляются целиком каждый цикл, получение добавляет только новые id
type expenseSync struct {
	deps
}

func (m *expenseSync) Name() string { return datastore.TableExpenses }

func (m *expenseSync) Sync(ctx context.Context, shopID, since string) (Result, error) {
	var res Result

	local := m.store.Expenses()
	if len(local) > 0 {
		rows := make([]expenseRow, 0, len(local))
		for _, e := range local {
			rows = append(rows, toRemoteExpense(shopID, e))
		}
		res.Pushed = push(ctx, m.deps, datastore.TableExpenses, rows)
	}

	var pulled []expenseRow
	if !m.pull(ctx, datastore.TableExpenses, shopID, since, &pulled) {
		return res, nil
	}

	remote := make([]retail.Expense, 0, len(pulled))
	for _, row := range pulled {
		e, err := fromRemoteExpense(row)
		if err != nil {
			m.log.Warn("Пропущена некорректная строка", "table", datastore.TableExpenses, "id", row.ID, "error", err)
			continue
		}
		remote = append(remote, e)
	}

	inserted, err := m.store.InsertExpenses(remote)
	if err != nil {
		return res, fmt.Errorf("вставка расходов: %w", err)
	}
	res.Pulled = inserted

	return res, nil
}
