package syncer

import (
	"context"

	"golang.org/x/exp/slog"

	"possync/internal/app/client/store"
	"possync/internal/domain/datastore"
	"possync/internal/domain/retail"
)

// LocalStore часть локального хранилища, которую читает и дополняет синхронизация
type LocalStore interface {
	Products() []retail.Product
	Sales() []retail.Sale
	Customers() []retail.Customer
	Expenses() []retail.Expense
	StockMovements() []retail.StockMovement

	MergeProducts(remote []retail.Product) (store.MergeResult, error)
	MergeCustomers(remote []retail.Customer) (store.MergeResult, error)
	InsertSales(remote []retail.Sale) ([]string, error)
	InsertExpenses(remote []retail.Expense) (int, error)
	InsertStockMovements(remote []retail.StockMovement) ([]string, error)
	MarkSalesSynced(ids []string) error
}

// Result итог одного модуля за цикл
type Result struct {
	Pushed int
	Pulled int
}

// Module синхронизация одной сущности: сначала отправка, затем получение.
// Сетевые ошибки модуль логирует сам и не возвращает, наружу уходят
// только ошибки локального хранилища.
type Module interface {
	Name() string
	Sync(ctx context.Context, shopID, since string) (Result, error)
}

// deps общие зависимости модулей
type deps struct {
	store  LocalStore
	remote datastore.Client
	books  bookkeeping
	log    *slog.Logger
}

func (d deps) pull(ctx context.Context, table, shopID, since string, dest any) bool {
	q := datastore.Query{
		Table:  table,
		ShopID: shopID,
		Column: datastore.WatermarkColumn(table),
		After:  since,
	}
	if err := d.remote.Select(ctx, q, dest); err != nil {
		d.log.Warn("Ошибка получения данных с сервера", "table", table, "error", err)
		return false
	}
	return true
}

// pushBatchSize строк в одном запросе, с запасом меньше серверного лимита
const pushBatchSize = 500

// push отправляет строки пачками и возвращает длину принятого префикса.
// На первой ошибке отправка прекращается, остаток уходит в следующем цикле.
func push[T any](ctx context.Context, d deps, table string, rows []T) int {
	for start := 0; start < len(rows); start += pushBatchSize {
		end := min(start+pushBatchSize, len(rows))
		if err := d.remote.Upsert(ctx, table, rows[start:end], datastore.ConflictKey); err != nil {
			d.log.Warn("Ошибка отправки данных на сервер", "table", table, "offset", start, "error", err)
			return start
		}
	}
	return len(rows)
}

// newModules модули в порядке выполнения: товары раньше продаж
func newModules(local LocalStore, remote datastore.Client, books bookkeeping, log *slog.Logger) []Module {
	d := deps{store: local, remote: remote, books: books, log: log}
	return []Module{
		&productSync{deps: d},
		&saleSync{deps: d},
		&customerSync{deps: d},
		&expenseSync{deps: d},
		&movementSync{deps: d},
	}
}
