package shop

import "context"

type Repository interface {
	Create(ctx context.Context, shop Shop) error
	FindByID(ctx context.Context, id string) (Shop, error)
}
