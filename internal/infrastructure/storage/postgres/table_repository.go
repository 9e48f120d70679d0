package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"possync/internal/domain/datastore"
)

// Колонки таблиц в порядке схемы. Имена попадают в SQL только отсюда.
var tableColumns = map[string][]string{
	datastore.TableProducts: {
		"id", "shop_id", "name", "category", "cost_price", "selling_price", "quantity",
		"unit", "low_stock_threshold", "barcode", "image_url", "created_at", "updated_at",
	},
	datastore.TableSales: {
		"id", "shop_id", "items", "subtotal", "discount", "total", "payment_method",
		"customer_id", "customer_name", "staff_id", "staff_name", "cash_received",
		"change_given", "created_at",
	},
	datastore.TableCustomers: {
		"id", "shop_id", "name", "phone", "credit_limit", "current_credit", "credit_frozen",
		"last_reminder_sent", "transactions", "created_at", "updated_at",
	},
	datastore.TableExpenses: {
		"id", "shop_id", "category", "description", "amount", "payment_method", "created_at",
	},
	datastore.TableStockMovements: {
		"id", "shop_id", "product_id", "product_name", "type", "quantity", "previous_quantity",
		"new_quantity", "reason", "supplier_id", "cost_per_unit", "created_at",
	},
}

// TableRepository реализует datastore.Client поверх PostgreSQL
type TableRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewTableRepository(pool *pgxpool.Pool, log *slog.Logger) *TableRepository {
	return &TableRepository{
		pool: pool,
		log:  log.With(slog.String("component", "table_repository")),
	}
}

func (r *TableRepository) Upsert(ctx context.Context, table string, rows any, conflictKey string) error {
	if err := datastore.ValidateTable(table); err != nil {
		return err
	}
	if conflictKey != datastore.ConflictKey {
		return fmt.Errorf("unsupported conflict key %q", conflictKey)
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	tag, err := r.pool.Exec(ctx, upsertQuery(table), payload)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}

	r.log.Debug("upsert", "table", table, "affected", tag.RowsAffected())
	return nil
}

func (r *TableRepository) Select(ctx context.Context, q datastore.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	var raw []byte
	if err := r.pool.QueryRow(ctx, selectQuery(q.Table, q.Column), q.ShopID, q.After).Scan(&raw); err != nil {
		return fmt.Errorf("select %s: %w", q.Table, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", q.Table, err)
	}
	return nil
}

// upsertQuery строит вставку из jsonb-массива. Строка другого магазина с тем же id не меняется,
// в изменяемых таблицах обновление проходит только для строго более нового updated_at.
func upsertQuery(table string) string {
	cols := tableColumns[table]
	list := strings.Join(cols, ", ")

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == datastore.ConflictKey || c == "shop_id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	where := fmt.Sprintf("%s.shop_id = EXCLUDED.shop_id", table)
	if datastore.Mutable(table) {
		where += fmt.Sprintf(" AND %s.updated_at < EXCLUDED.updated_at", table)
	}

	return fmt.Sprintf(
		`INSERT INTO %s (%s) SELECT %s FROM jsonb_populate_recordset(NULL::%s, $1::jsonb) `+
			`ON CONFLICT (id) DO UPDATE SET %s WHERE %s`,
		table, list, list, table, strings.Join(sets, ", "), where)
}

// selectQuery пустой $2 снимает нижнюю границу
func selectQuery(table, column string) string {
	list := strings.Join(tableColumns[table], ", ")
	return fmt.Sprintf(
		`SELECT COALESCE(jsonb_agg(to_jsonb(t) ORDER BY t.%s), '[]'::jsonb) FROM (`+
			`SELECT %s FROM %s WHERE shop_id = $1 AND ($2 = '' OR %s > $2)) t`,
		column, list, table, column)
}
