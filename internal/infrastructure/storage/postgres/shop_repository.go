package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"possync/internal/domain/shop"
)

const uniqueViolation = "23505"

func NewShopRepository(pool *pgxpool.Pool, log *slog.Logger) *ShopRepository {
	return &ShopRepository{
		pool: pool,
		log:  log,
	}
}

type ShopRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *ShopRepository) Create(ctx context.Context, s shop.Shop) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO shops (id, name, secret_hash, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.SecretHash, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shop.ErrExists
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepository) FindByID(ctx context.Context, id string) (shop.Shop, error) {
	var s shop.Shop
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, secret_hash, created_at FROM shops WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.SecretHash, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shop.Shop{}, shop.ErrNotFound
		}
		return shop.Shop{}, fmt.Errorf("select shop: %w", err)
	}
	return s, nil
}
