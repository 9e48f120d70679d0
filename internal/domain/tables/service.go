// Package tables серверная сторона хранилища строк магазинов.
package tables

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"possync/internal/domain/datastore"
)

// Repository постоянное хранилище строк. Реализации: postgres.TableRepository и datastore.Memory.
type Repository = datastore.Client

// Servicer интерфейс сервиса таблиц
type Servicer interface {
	// Push вставляет или обновляет строки магазина
	Push(ctx context.Context, shopID, table string, rows []map[string]any, conflictKey string) (int, error)
	// Pull возвращает строки магазина, у которых column > after
	Pull(ctx context.Context, shopID, table, column, after string) ([]map[string]any, error)
}

// ServiceConfig ограничения сервиса
type ServiceConfig struct {
	MaxBatchRows int
}

type Service struct {
	repo   Repository
	log    *slog.Logger
	config ServiceConfig
}

func NewService(repo Repository, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{MaxBatchRows: 5000}
	}
	return &Service{
		repo:   repo,
		log:    log,
		config: *config,
	}
}

func (s *Service) Push(ctx context.Context, shopID, table string, rows []map[string]any, conflictKey string) (int, error) {
	if shopID == "" {
		return 0, datastore.ErrShopRequired
	}
	if err := datastore.ValidateTable(table); err != nil {
		return 0, err
	}
	if conflictKey == "" {
		conflictKey = datastore.ConflictKey
	}
	if conflictKey != datastore.ConflictKey {
		return 0, fmt.Errorf("%w: %s", ErrConflictKey, conflictKey)
	}
	if len(rows) == 0 {
		return 0, ErrEmptyBatch
	}
	if s.config.MaxBatchRows > 0 && len(rows) > s.config.MaxBatchRows {
		return 0, fmt.Errorf("%w: %d rows, limit %d", ErrBatchTooLarge, len(rows), s.config.MaxBatchRows)
	}

	column := datastore.WatermarkColumn(table)
	for i, row := range rows {
		if id, _ := row[datastore.ConflictKey].(string); id == "" {
			return 0, fmt.Errorf("%w: row %d", ErrMissingID, i)
		}
		if ts, _ := row[column].(string); ts == "" {
			return 0, fmt.Errorf("%w %s: row %d", ErrMissingColumn, column, i)
		}
		// строка другого магазина не может попасть в чужой раздел
		if owner, ok := row["shop_id"].(string); ok && owner != "" && owner != shopID {
			return 0, fmt.Errorf("%w: row %d", ErrForeignShop, i)
		}
		row["shop_id"] = shopID
	}

	if err := s.repo.Upsert(ctx, table, rows, conflictKey); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", table, err)
	}

	s.log.Debug("rows upserted", "shop_id", shopID, "table", table, "count", len(rows))
	return len(rows), nil
}

func (s *Service) Pull(ctx context.Context, shopID, table, column, after string) ([]map[string]any, error) {
	if column == "" {
		column = datastore.WatermarkColumn(table)
	}
	q := datastore.Query{Table: table, ShopID: shopID, Column: column, After: after}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0)
	if err := s.repo.Select(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}
