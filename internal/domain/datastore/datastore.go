// Package datastore описывает контракт удаленного хранилища, с которым работает синхронизация.
package datastore

import (
	"context"
	"errors"
	"fmt"
)

// Имена таблиц удаленной стороны
const (
	TableProducts       = "products"
	TableSales          = "sales"
	TableCustomers      = "customers"
	TableExpenses       = "expenses"
	TableStockMovements = "stock_movements"
)

// Колонки, по которым работает фильтр "больше метки времени"
const (
	ColumnUpdatedAt = "updated_at"
	ColumnCreatedAt = "created_at"
)

// ConflictKey ключ upsert для всех таблиц
const ConflictKey = "id"

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrShopRequired  = errors.New("shop id is required")
)

// Query фильтрованное чтение: строки магазина, у которых Column > After.
// Пустой After означает чтение без нижней границы.
type Query struct {
	Table  string
	ShopID string
	Column string
	After  string
}

// Client удаленное хранилище. Upsert идемпотентен и безопасен для повтора.
type Client interface {
	Upsert(ctx context.Context, table string, rows any, conflictKey string) error
	Select(ctx context.Context, q Query, dest any) error
}

var tables = map[string]string{
	TableProducts:       ColumnUpdatedAt,
	TableSales:          ColumnCreatedAt,
	TableCustomers:      ColumnUpdatedAt,
	TableExpenses:       ColumnCreatedAt,
	TableStockMovements: ColumnCreatedAt,
}

// Validate проверяет таблицу и колонку фильтра
func (q Query) Validate() error {
	if q.ShopID == "" {
		return ErrShopRequired
	}
	if err := ValidateTable(q.Table); err != nil {
		return err
	}
	if q.Column != ColumnUpdatedAt && q.Column != ColumnCreatedAt {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, q.Column)
	}
	return nil
}

// ValidateTable проверяет, что таблица входит в синхронизируемый набор
func ValidateTable(table string) error {
	if _, ok := tables[table]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return nil
}

// WatermarkColumn колонка времени, по которой таблица тянется с удаленной стороны
func WatermarkColumn(table string) string {
	return tables[table]
}

// Mutable изменяемая таблица: upsert в нее не затирает более свежую строку
func Mutable(table string) bool {
	return tables[table] == ColumnUpdatedAt
}

// Newer решает, заменяет ли входящая строка существующую.
// Для изменяемых таблиц побеждает строго больший updated_at, остальные перезаписываются.
func Newer(table string, incoming, existing map[string]any) bool {
	if !Mutable(table) {
		return true
	}
	in, _ := incoming[ColumnUpdatedAt].(string)
	cur, _ := existing[ColumnUpdatedAt].(string)
	return in > cur
}
